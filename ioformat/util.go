package ioformat

import "strconv"

// parseASN parses a decimal ASN, rejecting anything that doesn't fit
// the 32-bit unsigned range the data model uses (spec.md §3).
func parseASN(s string) (uint32, bool) {
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint32(v), true
}
