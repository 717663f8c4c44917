package ioformat

import (
	"strings"
	"testing"
)

func TestParseROVSet(t *testing.T) {
	input := "100\n\n200\nnot-an-asn\n300\n"
	asns := ParseROVSet(strings.NewReader(input))
	want := []uint32{100, 200, 300}
	if len(asns) != len(want) {
		t.Fatalf("got %v, want %v", asns, want)
	}
	for i := range want {
		if asns[i] != want[i] {
			t.Fatalf("got %v, want %v", asns, want)
		}
	}
}
