// Package policy implements the per-AS BGP decision process described
// in spec.md §4.4/§4.6: a tagged-variant Policy (BGP, ROV) sharing one
// received-queue/local-RIB state, rather than an interface hierarchy
// (spec.md §9's design note).
package policy

import (
	"sort"
	"sync"

	"github.com/cooperfrank/bgp-simulator/metrics"
	"github.com/cooperfrank/bgp-simulator/route"
)

// Kind selects which decision variant a Policy runs.
type Kind int

const (
	BGP Kind = iota
	ROV
)

// Policy owns one AS's received queue and local RIB. The zero value is
// not usable; construct with New.
type Policy struct {
	kind Kind

	mu            sync.Mutex
	receivedQueue map[string][]route.Announcement
	localRIB      *rib
}

// New constructs a Policy of the given kind with empty state.
func New(kind Kind) *Policy {
	return &Policy{
		kind:          kind,
		receivedQueue: make(map[string][]route.Announcement),
		localRIB:      newRIB(),
	}
}

// Kind reports which decision variant this Policy runs.
func (p *Policy) Kind() Kind {
	return p.kind
}

// ReceiveAnnouncement stages ann for the next process step. ROV
// policies drop rov_invalid announcements silently here (spec §4.6);
// BGP policies stage everything unfiltered.
func (p *Policy) ReceiveAnnouncement(ann route.Announcement) {
	if p.kind == ROV && ann.ROVInvalid {
		metrics.ROVDropsTotal.WithLabelValues().Inc()
		return
	}
	p.mu.Lock()
	p.receivedQueue[ann.Prefix] = append(p.receivedQueue[ann.Prefix], ann)
	p.mu.Unlock()
}

// LocalRIB returns the currently installed announcement for prefix, if
// any.
func (p *Policy) LocalRIB(prefix string) (route.Announcement, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.localRIB.get(prefix)
}

// RIBLen reports the number of prefixes currently installed.
func (p *Policy) RIBLen() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.localRIB.len()
}

// WalkRIB calls fn once per installed (prefix, announcement) pair.
// Safe to call concurrently with reads on other Policy instances;
// fn must not call back into this Policy (it runs under p's lock).
func (p *Policy) WalkRIB(fn func(prefix string, ann route.Announcement)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.localRIB.walk(fn)
}

// RIBEntry is one (prefix, announcement) pair, as returned by Snapshot.
type RIBEntry struct {
	Prefix string
	Ann    route.Announcement
}

// Snapshot copies every installed (prefix, announcement) pair into a
// slice and returns it after releasing the lock. Unlike WalkRIB, the
// caller does not hold p's lock while using the result, so it's safe
// to call into other Policy instances (e.g. a peer's
// ReceiveAnnouncement) while iterating — WalkRIB is not, since a
// callback that locks a second Policy while this one is still held can
// deadlock against a goroutine doing the same in the other direction
// (spec.md §5's "writes to a receiver's queue must be serialized",
// which only constrains the receiver's lock, not the sender's).
func (p *Policy) Snapshot() []RIBEntry {
	p.mu.Lock()
	defer p.mu.Unlock()
	entries := make([]RIBEntry, 0, p.localRIB.len())
	p.localRIB.walk(func(prefix string, ann route.Announcement) {
		entries = append(entries, RIBEntry{Prefix: prefix, Ann: ann})
	})
	return entries
}

// better reports whether a is preferred to b under the relationship >
// stored-path-length > next-hop preorder (spec §4.4 step 2/5).
func better(a, b route.Announcement) bool {
	sa, sb := a.ReceivedFrom.Score(), b.ReceivedFrom.Score()
	if sa != sb {
		return sa > sb
	}
	if len(a.ASPath) != len(b.ASPath) {
		return len(a.ASPath) < len(b.ASPath)
	}
	return a.NextHopASN < b.NextHopASN
}

// bestCandidate picks the most-preferred announcement among received
// candidates, using len(ASPath)+1 as the stored-path-length addend
// (spec §4.4 step 2: the receiver is about to prepend itself).
func bestCandidate(candidates []route.Announcement) (route.Announcement, bool) {
	if len(candidates) == 0 {
		return route.Announcement{}, false
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		sa, sb := a.ReceivedFrom.Score(), b.ReceivedFrom.Score()
		if sa != sb {
			return sa > sb
		}
		la, lb := len(a.ASPath)+1, len(b.ASPath)+1
		if la != lb {
			return la < lb
		}
		return a.NextHopASN < b.NextHopASN
	})
	return candidates[0], true
}

// ProcessAnnouncementsFor is the decision core (spec §4.4): for every
// prefix with pending candidates, reject loop-forming ones, pick the
// best remaining candidate, prepend myASN, and install it if it beats
// the incumbent local RIB entry. Clears the received queue afterward.
// phase labels the bgpsim_rib_installs_total metric with the
// propagation phase this call belongs to ("up", "across", "down").
func (p *Policy) ProcessAnnouncementsFor(myASN uint32, phase string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for prefix, candidates := range p.receivedQueue {
		filtered := candidates[:0:0]
		for _, c := range candidates {
			if !c.HasLoop(myASN) {
				filtered = append(filtered, c)
			} else {
				metrics.LoopDropsTotal.WithLabelValues().Inc()
			}
		}
		if len(filtered) == 0 {
			continue
		}

		chosen, ok := bestCandidate(filtered)
		if !ok {
			continue
		}

		stored := chosen.WithPrepended(myASN)
		incumbent, present := p.localRIB.get(prefix)
		if !present || better(stored, incumbent) {
			p.localRIB.set(prefix, stored)
			metrics.RIBInstallsTotal.WithLabelValues(phase).Inc()
		}
	}
	p.receivedQueue = make(map[string][]route.Announcement)
}

// ProcessAnnouncements is used only for seeding origin announcements:
// the staged announcement's as_path already begins with the owning
// ASN, so it installs as-is without prepending (spec §4.4, final
// paragraph).
func (p *Policy) ProcessAnnouncements() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for prefix, candidates := range p.receivedQueue {
		chosen, ok := bestCandidateNoPrepend(candidates)
		if !ok {
			continue
		}
		incumbent, present := p.localRIB.get(prefix)
		if !present || better(chosen, incumbent) {
			p.localRIB.set(prefix, chosen)
			metrics.RIBInstallsTotal.WithLabelValues("seed").Inc()
		}
	}
	p.receivedQueue = make(map[string][]route.Announcement)
}

func bestCandidateNoPrepend(candidates []route.Announcement) (route.Announcement, bool) {
	if len(candidates) == 0 {
		return route.Announcement{}, false
	}
	best := candidates[0]
	for _, c := range candidates[1:] {
		if better(c, best) {
			best = c
		}
	}
	return best, true
}
