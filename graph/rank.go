package graph

import "fmt"

// ErrProviderCycle is returned by FlattenByProviders when the
// provider->customer graph isn't a DAG.
var ErrProviderCycle = fmt.Errorf("provider cycle detected in relationships")

// rankFrame is one stack frame of the iterative post-order rank walk.
type rankFrame struct {
	asn uint32
	idx int
}

// FlattenByProviders computes each node's propagation rank (spec.md
// §4.5 Phase 0): rank 0 for customerless ASes, 1+max(rank(customer))
// otherwise. An ASN referenced as a customer but absent from the graph
// is treated as rank 0 and does not appear in the returned buckets
// (spec.md §9, open question 3). Returns ErrProviderCycle if the graph
// isn't a DAG — callers must not propagate after that.
//
// Uses an explicit work stack instead of recursion for the same
// stack-depth reason as HasProviderCycle (spec.md §9).
func (g *Graph) FlattenByProviders() ([][]uint32, error) {
	if g.HasProviderCycle() {
		return nil, ErrProviderCycle
	}

	memo := make(map[uint32]int, len(g.nodes))
	maxRank := 0

	for start := range g.nodes {
		if _, done := memo[start]; done {
			continue
		}
		g.computeRank(start, memo)
		if memo[start] > maxRank {
			maxRank = memo[start]
		}
	}

	buckets := make([][]uint32, maxRank+1)
	for asn, node := range g.nodes {
		r := memo[asn]
		node.Rank = r
		buckets[r] = append(buckets[r], asn)
	}
	return buckets, nil
}

func (g *Graph) computeRank(start uint32, memo map[uint32]int) {
	stack := []rankFrame{{asn: start, idx: 0}}

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if _, done := memo[top.asn]; done {
			stack = stack[:len(stack)-1]
			continue
		}

		node, ok := g.nodes[top.asn]
		if !ok {
			memo[top.asn] = 0
			stack = stack[:len(stack)-1]
			continue
		}
		if len(node.Customers) == 0 {
			memo[top.asn] = 0
			stack = stack[:len(stack)-1]
			continue
		}

		if top.idx < len(node.Customers) {
			child := node.Customers[top.idx]
			top.idx++
			if _, done := memo[child]; !done {
				stack = append(stack, rankFrame{asn: child, idx: 0})
			}
			continue
		}

		// All customers memoized; compute this node's rank.
		mx := 0
		for _, c := range node.Customers {
			if memo[c]+1 > mx {
				mx = memo[c] + 1
			}
		}
		memo[top.asn] = mx
		stack = stack[:len(stack)-1]
	}
}
