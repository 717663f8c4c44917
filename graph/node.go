// Package graph implements the AS relationship graph and the
// rank-based three-phase propagation scheduler (spec.md §4.2–§4.5).
package graph

import "github.com/cooperfrank/bgp-simulator/policy"

// unrankedSentinel marks a node whose propagation rank has not yet
// been assigned by FlattenByProviders.
const unrankedSentinel = -1

// ASNode is one Autonomous System: its identity, its three
// relationship-neighbor lists, its propagation rank, and its
// exclusively-owned Policy. Neighbor lists store ASNs only — the
// graph's node map is the sole owner of ASNode values, so there are no
// reference cycles between nodes (spec.md §9's "shared references"
// design note).
type ASNode struct {
	ASN       uint32
	Providers []uint32
	Customers []uint32
	Peers     []uint32
	Rank      int
	Policy    *policy.Policy
}

func newASNode(asn uint32) *ASNode {
	return &ASNode{
		ASN:    asn,
		Rank:   unrankedSentinel,
		Policy: policy.New(policy.BGP),
	}
}
