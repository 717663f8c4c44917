package policy

import "github.com/cooperfrank/bgp-simulator/route"

// rib is the per-AS local RIB: prefix -> installed announcement,
// always exact-match (spec.md's RIB semantics never call for
// longest-prefix matching, two announcements share a destination iff
// their prefix strings are equal byte-for-byte). Backed by a plain
// map; see DESIGN.md for why the pack's patricia-trie library
// (github.com/Emeline-1/radix) couldn't serve this role.
type rib struct {
	entries map[string]route.Announcement
}

func newRIB() *rib {
	return &rib{entries: make(map[string]route.Announcement)}
}

func (r *rib) get(prefix string) (route.Announcement, bool) {
	ann, ok := r.entries[prefix]
	return ann, ok
}

func (r *rib) set(prefix string, ann route.Announcement) {
	r.entries[prefix] = ann
}

func (r *rib) len() int {
	return len(r.entries)
}

// walk calls fn for every (prefix, announcement) pair currently
// installed. Order is unspecified, matching spec §4.7's "unspecified
// prefix order" for dump and propagation sends alike.
func (r *rib) walk(fn func(prefix string, ann route.Announcement)) {
	for prefix, ann := range r.entries {
		fn(prefix, ann)
	}
}
