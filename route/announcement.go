package route

// Announcement is a value describing a single route as it travels
// through the graph. Leftmost entry of ASPath is the most recent hop;
// rightmost is the origin. Treated as immutable by convention: callers
// never mutate an Announcement in place, they build a new one.
type Announcement struct {
	Prefix      string
	ASPath      []uint32
	NextHopASN  uint32
	ReceivedFrom Relationship
	ROVInvalid  bool
}

// NewOrigin builds the announcement an AS seeds for a prefix it
// originates itself: as_path=[originASN], next_hop_asn=originASN,
// received_from=Origin.
func NewOrigin(prefix string, originASN uint32, rovInvalid bool) Announcement {
	return Announcement{
		Prefix:       prefix,
		ASPath:       []uint32{originASN},
		NextHopASN:   originASN,
		ReceivedFrom: Origin,
		ROVInvalid:   rovInvalid,
	}
}

// NewReceived builds an announcement as handed to Policy.ReceiveAnnouncement:
// stored verbatim, with no prepending of the receiver's own ASN. That
// prepend only happens at process time (ProcessAnnouncementsFor).
func NewReceived(prefix string, senderASN uint32, rel Relationship, pathFromSender []uint32, rovInvalid bool) Announcement {
	return Announcement{
		Prefix:       prefix,
		ASPath:       pathFromSender,
		NextHopASN:   senderASN,
		ReceivedFrom: rel,
		ROVInvalid:   rovInvalid,
	}
}

// HasLoop reports whether asn already appears anywhere in the path,
// which would create a routing loop if asn were prepended.
func (a Announcement) HasLoop(asn uint32) bool {
	for _, hop := range a.ASPath {
		if hop == asn {
			return true
		}
	}
	return false
}

// WithPrepended returns a copy of a with myASN prepended to the
// path and next_hop_asn/received_from/rov_invalid carried over from
// the candidate being stored.
func (a Announcement) WithPrepended(myASN uint32) Announcement {
	path := make([]uint32, 0, len(a.ASPath)+1)
	path = append(path, myASN)
	path = append(path, a.ASPath...)
	return Announcement{
		Prefix:       a.Prefix,
		ASPath:       path,
		NextHopASN:   a.NextHopASN,
		ReceivedFrom: a.ReceivedFrom,
		ROVInvalid:   a.ROVInvalid,
	}
}
