package ioformat

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// RIBRow is one output row: the best route ASN installed for Prefix,
// with ASPath left-to-right (most recent hop first), matching the
// in-memory Announcement.ASPath order.
type RIBRow struct {
	ASN    uint32
	Prefix string
	ASPath []uint32
}

// FormatASPath renders path as the required Python-tuple notation:
// "(a, b, c)" for 2+ elements, "(a,)" for exactly one.
func FormatASPath(path []uint32) string {
	parts := make([]string, len(path))
	for i, asn := range path {
		parts[i] = strconv.FormatUint(uint64(asn), 10)
	}
	if len(parts) == 1 {
		return "(" + parts[0] + ",)"
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// WriteRIBCSV writes the header "asn,prefix,as_path" followed by one
// row per entry in rows, in the order given (callers sort by ASN
// ascending per spec.md §4.7).
func WriteRIBCSV(w io.Writer, rows []RIBRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"asn", "prefix", "as_path"}); err != nil {
		return fmt.Errorf("writing rib header: %w", err)
	}
	for _, row := range rows {
		record := []string{
			strconv.FormatUint(uint64(row.ASN), 10),
			row.Prefix,
			FormatASPath(row.ASPath),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing rib row for asn %d: %w", row.ASN, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
