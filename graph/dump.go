package graph

import (
	"io"
	"sort"

	"github.com/cooperfrank/bgp-simulator/ioformat"
	"github.com/cooperfrank/bgp-simulator/route"
)

// DumpRIBs serializes every node's local RIB to w as CSV, one row per
// installed (asn, prefix) pair, sorted by ASN ascending (spec.md §4.7).
func (g *Graph) DumpRIBs(w io.Writer) error {
	rows := make([]ioformat.RIBRow, 0, len(g.nodes))
	for asn, n := range g.nodes {
		n.Policy.WalkRIB(func(prefix string, ann route.Announcement) {
			rows = append(rows, ioformat.RIBRow{
				ASN:    asn,
				Prefix: prefix,
				ASPath: ann.ASPath,
			})
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].ASN != rows[j].ASN {
			return rows[i].ASN < rows[j].ASN
		}
		return rows[i].Prefix < rows[j].Prefix
	})
	return ioformat.WriteRIBCSV(w, rows)
}
