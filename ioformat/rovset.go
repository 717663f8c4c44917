package ioformat

import (
	"bufio"
	"io"
	"strings"
)

// ParseROVSet reads the ROV-ASNs file (one ASN per line). Blank and
// malformed lines are ignored (spec.md §6); duplicates are harmless
// since the caller installs ROV policies by ASN.
func ParseROVSet(r io.Reader) []uint32 {
	scanner := bufio.NewScanner(r)
	var asns []uint32
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if asn, ok := parseASN(line); ok {
			asns = append(asns, asn)
		}
	}
	return asns
}
