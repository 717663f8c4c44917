package graph

import (
	"strconv"
	"time"

	"github.com/Emeline-1/pool"
	"github.com/cooperfrank/bgp-simulator/metrics"
	"github.com/cooperfrank/bgp-simulator/route"
)

// Propagate runs the full Gao-Rexford scheduler (spec.md §4.5): flatten,
// then up/across/down, each phase reading the previous phase's RIB
// state in full before the next begins. workers controls how many
// goroutines pool.Launch_pool uses for the send/process steps within a
// single rank; 0 or 1 runs the step sequentially. Returns
// ErrProviderCycle if the graph isn't a DAG, in which case no sends
// happened.
func (g *Graph) Propagate(workers int) error {
	buckets, err := g.FlattenByProviders()
	if err != nil {
		return err
	}
	maxrank := len(buckets) - 1

	upStart := time.Now()
	for r := 0; r <= maxrank; r++ {
		g.parallelEach(buckets[r], workers, g.sendToProviders)
		if r+1 <= maxrank {
			g.parallelEach(buckets[r+1], workers, func(asn uint32) { g.processOne(asn, "up") })
		}
	}
	metrics.PhaseDuration.WithLabelValues("up").Observe(time.Since(upStart).Seconds())

	acrossStart := time.Now()
	all := g.allASNs()
	g.parallelEach(all, workers, g.sendToPeers)
	g.parallelEach(all, workers, func(asn uint32) { g.processOne(asn, "across") })
	metrics.PhaseDuration.WithLabelValues("across").Observe(time.Since(acrossStart).Seconds())

	downStart := time.Now()
	for r := maxrank; r >= 0; r-- {
		g.parallelEach(buckets[r], workers, g.sendToCustomers)
		if r-1 >= 0 {
			g.parallelEach(buckets[r-1], workers, func(asn uint32) { g.processOne(asn, "down") })
		}
	}
	metrics.PhaseDuration.WithLabelValues("down").Observe(time.Since(downStart).Seconds())
	return nil
}

// parallelEach runs fn over asns, using pool.Launch_pool for the fan-out
// when workers > 1 and there's more than one item to spread across
// goroutines (spec.md §5: the send step reads disjoint RIBs and writes
// independent received queues; the process step writes only its own
// RIB — both are safe to run concurrently within a single rank).
// pool.Launch_pool only accepts string work items, so ASNs round-trip
// through their decimal form.
func (g *Graph) parallelEach(asns []uint32, workers int, fn func(uint32)) {
	if workers <= 1 || len(asns) <= 1 {
		for _, asn := range asns {
			fn(asn)
		}
		return
	}

	items := make([]string, len(asns))
	for i, asn := range asns {
		items[i] = strconv.FormatUint(uint64(asn), 10)
	}
	pool.Launch_pool(workers, items, func(s string) {
		n, err := strconv.ParseUint(s, 10, 32)
		if err != nil {
			return
		}
		fn(uint32(n))
	})
}

func (g *Graph) allASNs() []uint32 {
	asns := make([]uint32, 0, len(g.nodes))
	for asn := range g.nodes {
		asns = append(asns, asn)
	}
	return asns
}

func (g *Graph) processOne(asn uint32, phase string) {
	if n, ok := g.nodes[asn]; ok {
		n.Policy.ProcessAnnouncementsFor(asn, phase)
	}
}

func (g *Graph) sendToProviders(asn uint32) {
	n, ok := g.nodes[asn]
	if !ok {
		return
	}
	// Snapshot releases n's lock before we touch any neighbor's policy,
	// so this can't deadlock against a neighbor's goroutine sending
	// back to us at the same time.
	for _, entry := range n.Policy.Snapshot() {
		for _, provASN := range n.Providers {
			provider, ok := g.nodes[provASN]
			if !ok {
				continue
			}
			provider.Policy.ReceiveAnnouncement(
				route.NewReceived(entry.Prefix, asn, route.Customer, entry.Ann.ASPath, entry.Ann.ROVInvalid))
		}
	}
}

func (g *Graph) sendToPeers(asn uint32) {
	n, ok := g.nodes[asn]
	if !ok {
		return
	}
	// Peer edges are mutual (AddPeer populates both sides), so without
	// this snapshot two peered ASes' goroutines could each hold their
	// own lock and block acquiring the other's.
	for _, entry := range n.Policy.Snapshot() {
		for _, peerASN := range n.Peers {
			peer, ok := g.nodes[peerASN]
			if !ok {
				continue
			}
			peer.Policy.ReceiveAnnouncement(
				route.NewReceived(entry.Prefix, asn, route.Peer, entry.Ann.ASPath, entry.Ann.ROVInvalid))
		}
	}
}

func (g *Graph) sendToCustomers(asn uint32) {
	n, ok := g.nodes[asn]
	if !ok {
		return
	}
	for _, entry := range n.Policy.Snapshot() {
		for _, custASN := range n.Customers {
			customer, ok := g.nodes[custASN]
			if !ok {
				continue
			}
			customer.Policy.ReceiveAnnouncement(
				route.NewReceived(entry.Prefix, asn, route.Provider, entry.Ann.ASPath, entry.Ann.ROVInvalid))
		}
	}
}
