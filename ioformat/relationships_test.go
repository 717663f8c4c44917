package ioformat

import (
	"strings"
	"testing"
)

func TestParseRelationshipLine(t *testing.T) {
	cases := []struct {
		line string
		want Edge
		ok   bool
	}{
		{"100|200|-1", Edge{X: 100, Y: 200, Kind: EdgeProvider}, true},
		{"100|200|0", Edge{X: 100, Y: 200, Kind: EdgePeer}, true},
		{"100|200|-2", Edge{}, false},
		{"# a comment", Edge{}, false},
		{"", Edge{}, false},
		{"100|200", Edge{}, false},
		{"abc|200|-1", Edge{}, false},
	}
	for _, c := range cases {
		got, ok := ParseRelationshipLine(c.line)
		if ok != c.ok {
			t.Errorf("ParseRelationshipLine(%q) ok = %v, want %v", c.line, ok, c.ok)
			continue
		}
		if ok && got != c.want {
			t.Errorf("ParseRelationshipLine(%q) = %+v, want %+v", c.line, got, c.want)
		}
	}
}

func TestParseRelationships(t *testing.T) {
	input := "# header comment\n100|200|-1\n\n300|400|0\n100|200|-2\nbad line\n"
	edges, err := ParseRelationships(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(edges) != 2 {
		t.Fatalf("expected 2 recognized edges, got %d: %v", len(edges), edges)
	}
	if edges[0].Kind != EdgeProvider || edges[1].Kind != EdgePeer {
		t.Fatalf("unexpected edge kinds: %v", edges)
	}
}
