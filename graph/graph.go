package graph

import (
	"io"

	"github.com/cooperfrank/bgp-simulator/ioformat"
	"github.com/cooperfrank/bgp-simulator/metrics"
	"github.com/cooperfrank/bgp-simulator/policy"
	"github.com/cooperfrank/bgp-simulator/route"
)

// Graph is the container of ASNodes. It owns every node exclusively;
// neighbor lists store ASNs only, and neighbor lookup always goes
// through the graph's node map (spec.md §9's "shared references"
// design note).
type Graph struct {
	nodes map[uint32]*ASNode
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{nodes: make(map[uint32]*ASNode)}
}

// Len reports how many ASes exist in the graph.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Get returns the node for asn, if present.
func (g *Graph) Get(asn uint32) (*ASNode, bool) {
	n, ok := g.nodes[asn]
	return n, ok
}

// AddNode creates asn with a default BGP policy if it doesn't already
// exist. Idempotent.
func (g *Graph) AddNode(asn uint32) *ASNode {
	if n, ok := g.nodes[asn]; ok {
		return n
	}
	n := newASNode(asn)
	g.nodes[asn] = n
	metrics.ASesBuilt.WithLabelValues().Inc()
	return n
}

// AddProvider records that providerASN is a provider of customerASN,
// creating either node if absent. Duplicate edges are tolerated (not
// deduplicated) per spec.md §4.2/§9 — a repeated edge just causes a
// redundant send during propagation, never a correctness issue.
func (g *Graph) AddProvider(providerASN, customerASN uint32) {
	provider := g.AddNode(providerASN)
	customer := g.AddNode(customerASN)
	provider.Customers = append(provider.Customers, customerASN)
	customer.Providers = append(customer.Providers, providerASN)
}

// AddPeer records a symmetric peering between a and b.
func (g *Graph) AddPeer(aASN, bASN uint32) {
	a := g.AddNode(aASN)
	b := g.AddNode(bASN)
	a.Peers = append(a.Peers, bASN)
	b.Peers = append(b.Peers, aASN)
}

// SetROV replaces asn's policy with a fresh ROV policy, discarding any
// state the previous policy held (spec.md §4.6). Must be called before
// seeding/propagation for the replacement to take effect on the node's
// decisions.
func (g *Graph) SetROV(asn uint32) {
	n := g.AddNode(asn)
	n.Policy = policy.New(policy.ROV)
}

// BuildFromRelationships consumes a CAIDA as-rel2 stream (component 5
// tokenizes the lines; this orchestrates node/edge creation per
// spec.md §4.2). Malformed or unrecognized lines are silently skipped,
// never fatal (spec.md §7).
func (g *Graph) BuildFromRelationships(r io.Reader) error {
	edges, err := ioformat.ParseRelationships(r)
	if err != nil {
		return err
	}
	for _, e := range edges {
		switch e.Kind {
		case ioformat.EdgeProvider:
			g.AddProvider(e.X, e.Y)
			metrics.EdgesParsed.WithLabelValues("provider").Inc()
		case ioformat.EdgePeer:
			g.AddPeer(e.X, e.Y)
			metrics.EdgesParsed.WithLabelValues("peer").Inc()
		}
	}
	return nil
}

// SeedAnnouncement injects ann directly into asn's local RIB: receive
// then process-without-prepend, creating asn if it doesn't already
// exist in the graph (spec.md §4.2, §7 — an ASN referenced only by a
// seed is created as an isolated node).
func (g *Graph) SeedAnnouncement(asn uint32, ann route.Announcement) {
	n := g.AddNode(asn)
	n.Policy.ReceiveAnnouncement(ann)
	n.Policy.ProcessAnnouncements()
}

// SeedOrigin is a convenience wrapper that builds and seeds an Origin
// announcement for prefix at asn.
func (g *Graph) SeedOrigin(asn uint32, prefix string, rovInvalid bool) {
	g.SeedAnnouncement(asn, route.NewOrigin(prefix, asn, rovInvalid))
}
