package graph

import (
	"sort"
	"testing"
	"time"

	"github.com/cooperfrank/bgp-simulator/route"
)

// S1: a linear provider chain propagates an origin announcement all
// the way to the top, prepending a hop at every step.
func TestPropagateLinearChain(t *testing.T) {
	g := New()
	g.AddProvider(100, 200)
	g.AddProvider(200, 300)
	g.SeedOrigin(300, "10.0.0.0/8", false)

	if err := g.Propagate(1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	n, _ := g.Get(100)
	ann, ok := n.Policy.LocalRIB("10.0.0.0/8")
	if !ok {
		t.Fatal("expected 100 to learn the route via its customer chain")
	}
	want := []uint32{100, 200, 300}
	if len(ann.ASPath) != len(want) {
		t.Fatalf("as_path = %v, want %v", ann.ASPath, want)
	}
	for i := range want {
		if ann.ASPath[i] != want[i] {
			t.Fatalf("as_path = %v, want %v", ann.ASPath, want)
		}
	}
}

// S2: a peer-learned route crosses exactly one hop and is not
// re-exported to the peer's own peers.
func TestPropagatePeerHopIsSingleHopOnly(t *testing.T) {
	g := New()
	g.AddPeer(300, 400)
	g.AddPeer(400, 500)
	g.SeedOrigin(300, "10.0.0.0/8", false)

	if err := g.Propagate(1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	n400, _ := g.Get(400)
	ann, ok := n400.Policy.LocalRIB("10.0.0.0/8")
	if !ok {
		t.Fatal("expected 400 to learn the route directly from its peer 300")
	}
	if ann.ReceivedFrom != route.Peer {
		t.Fatalf("expected received_from = Peer, got %v", ann.ReceivedFrom)
	}

	n500, _ := g.Get(500)
	if _, ok := n500.Policy.LocalRIB("10.0.0.0/8"); ok {
		t.Fatal("500 must not learn the route: peer-learned routes are not re-exported to other peers")
	}
}

// S6/I4: an ROV-invalid route is dropped the moment it reaches an
// ROV-deploying AS and never propagates past it.
func TestPropagateROVDropsInvalidRoute(t *testing.T) {
	g := New()
	g.AddProvider(100, 200)
	g.AddProvider(200, 300)
	g.SetROV(200)
	g.SeedOrigin(300, "10.0.0.0/8", true)

	if err := g.Propagate(1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	n200, _ := g.Get(200)
	if _, ok := n200.Policy.LocalRIB("10.0.0.0/8"); ok {
		t.Fatal("200 deploys ROV and must drop the rov_invalid route")
	}
	n100, _ := g.Get(100)
	if _, ok := n100.Policy.LocalRIB("10.0.0.0/8"); ok {
		t.Fatal("100 must never see a route dropped upstream by 200's ROV policy")
	}
	n300, _ := g.Get(300)
	if _, ok := n300.Policy.LocalRIB("10.0.0.0/8"); !ok {
		t.Fatal("the origin AS itself still carries its own route")
	}
}

// I1: no installed route anywhere contains a duplicate ASN in its path.
func TestInvariantNoLoopsInRIB(t *testing.T) {
	g := New()
	g.AddProvider(100, 200)
	g.AddProvider(200, 300)
	g.AddPeer(100, 300)
	g.SeedOrigin(300, "10.0.0.0/8", false)

	if err := g.Propagate(1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for asn, n := range g.nodes {
		n.Policy.WalkRIB(func(prefix string, ann route.Announcement) {
			seen := make(map[uint32]bool, len(ann.ASPath))
			for _, hop := range ann.ASPath {
				if seen[hop] {
					t.Errorf("asn %d: as_path %v contains duplicate hop %d", asn, ann.ASPath, hop)
				}
				seen[hop] = true
			}
		})
	}
}

// I2: every installed path terminates at an ASN that actually
// originated the prefix.
func TestInvariantPathsTerminateAtOrigin(t *testing.T) {
	g := New()
	g.AddProvider(100, 200)
	g.AddProvider(200, 300)
	g.SeedOrigin(300, "10.0.0.0/8", false)

	if err := g.Propagate(1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, asn := range []uint32{100, 200, 300} {
		n, _ := g.Get(asn)
		ann, ok := n.Policy.LocalRIB("10.0.0.0/8")
		if !ok {
			continue
		}
		last := ann.ASPath[len(ann.ASPath)-1]
		if last != 300 {
			t.Errorf("asn %d: as_path %v does not terminate at origin 300", asn, ann.ASPath)
		}
	}
}

// I3/R1: propagating twice over the same graph produces identical RIBs.
func TestPropagateIsDeterministicAndIdempotent(t *testing.T) {
	build := func() *Graph {
		g := New()
		g.AddProvider(100, 200)
		g.AddProvider(100, 201)
		g.AddProvider(200, 300)
		g.AddProvider(201, 300)
		g.AddPeer(200, 201)
		g.SeedOrigin(300, "10.0.0.0/8", false)
		return g
	}

	g1 := build()
	if err := g1.Propagate(1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	n1, _ := g1.Get(100)
	ann1, _ := n1.Policy.LocalRIB("10.0.0.0/8")
	len1, hop1 := len(ann1.ASPath), ann1.NextHopASN

	g2 := build()
	if err := g2.Propagate(1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	n2, _ := g2.Get(100)
	ann2, _ := n2.Policy.LocalRIB("10.0.0.0/8")
	len2, hop2 := len(ann2.ASPath), ann2.NextHopASN

	if len1 != len2 || hop1 != hop2 {
		t.Fatalf("propagation over an identically built graph produced different results: (%d,%d) vs (%d,%d)", len1, hop1, len2, hop2)
	}

	// Re-propagating over g1 must not change the already-settled route.
	if err := g1.Propagate(1); err != nil {
		t.Fatalf("unexpected error on re-propagation: %v", err)
	}
	ann1b, _ := n1.Policy.LocalRIB("10.0.0.0/8")
	if len(ann1b.ASPath) != len1 || ann1b.NextHopASN != hop1 {
		t.Fatalf("re-propagation changed a settled route: before (%d,%d) after (%d,%d)",
			len1, hop1, len(ann1b.ASPath), ann1b.NextHopASN)
	}
}

func TestPropagateEmptyGraph(t *testing.T) {
	g := New()
	if err := g.Propagate(1); err != nil {
		t.Fatalf("propagating an empty graph should be a no-op, got error: %v", err)
	}
}

// Regression test for a sender/receiver lock-ordering deadlock: peer
// edges are mutual, so the "across" phase has every peered AS's
// goroutine sending to the other at the same time. With workers > 1
// this only reproduces reliably under -race, but it must still
// terminate and produce the same result as the sequential run.
func TestPropagateMultipleWorkersMutualPeers(t *testing.T) {
	g := New()
	for i := uint32(0); i < 20; i += 2 {
		g.AddPeer(100+i, 100+i+1)
	}
	g.AddProvider(100, 300)
	g.SeedOrigin(300, "10.0.0.0/8", false)

	done := make(chan error, 1)
	go func() { done <- g.Propagate(4) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Propagate(4) deadlocked")
	}

	n100, _ := g.Get(100)
	if _, ok := n100.Policy.LocalRIB("10.0.0.0/8"); !ok {
		t.Fatal("expected 100 to learn the route from its customer 300")
	}
	n101, _ := g.Get(101)
	if _, ok := n101.Policy.LocalRIB("10.0.0.0/8"); !ok {
		t.Fatal("expected 101 to learn the route from its peer 100")
	}
	n102, _ := g.Get(102)
	if _, ok := n102.Policy.LocalRIB("10.0.0.0/8"); ok {
		t.Fatal("102 is not peered with 100 or 101, must not learn the route")
	}
}

func TestPropagateKeepsNodeSet(t *testing.T) {
	g := New()
	g.AddProvider(100, 300)
	g.AddProvider(200, 300)
	g.SeedOrigin(300, "10.0.0.0/8", false)
	if err := g.Propagate(1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	asns := g.allASNs()
	sort.Slice(asns, func(i, j int) bool { return asns[i] < asns[j] })
	if asns[0] != 100 || asns[1] != 200 || asns[2] != 300 {
		t.Fatalf("unexpected asn set: %v", asns)
	}
}
