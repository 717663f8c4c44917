package ioformat

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

// EdgeKind is the relationship code from a CAIDA as-rel2 line.
type EdgeKind int

const (
	// EdgeProvider means X is a provider of Y (R == -1).
	EdgeProvider EdgeKind = iota
	// EdgePeer means X and Y peer (R == 0).
	EdgePeer
)

// Edge is one recognized relationship line: X|Y|R.
type Edge struct {
	X, Y uint32
	Kind EdgeKind
}

// ParseRelationshipLine tokenizes one CAIDA as-rel2 line of the form
// X|Y|R[|extra] (trailing fields ignored). Returns ok=false for blank
// lines, #-comments, malformed fields, and relationship codes other
// than -1/0 (spec.md §4.2) — all silently skippable by the caller.
func ParseRelationshipLine(line string) (Edge, bool) {
	line = strings.TrimRight(line, "\r")
	if line == "" || strings.HasPrefix(line, "#") {
		return Edge{}, false
	}
	fields := strings.Split(line, "|")
	if len(fields) < 3 {
		return Edge{}, false
	}
	x, err := strconv.ParseUint(fields[0], 10, 32)
	if err != nil {
		return Edge{}, false
	}
	y, err := strconv.ParseUint(fields[1], 10, 32)
	if err != nil {
		return Edge{}, false
	}
	r, err := strconv.Atoi(fields[2])
	if err != nil {
		return Edge{}, false
	}
	switch r {
	case -1:
		return Edge{X: uint32(x), Y: uint32(y), Kind: EdgeProvider}, true
	case 0:
		return Edge{X: uint32(x), Y: uint32(y), Kind: EdgePeer}, true
	default:
		// -2 hybrid codes and anything else: ignored per spec.md §4.2.
		return Edge{}, false
	}
}

// ParseRelationships reads every line from r, skipping blank/#/
// malformed/unrecognized lines, and returns the recognized edges in
// file order.
func ParseRelationships(r io.Reader) ([]Edge, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	var edges []Edge
	for scanner.Scan() {
		if edge, ok := ParseRelationshipLine(scanner.Text()); ok {
			edges = append(edges, edge)
		}
	}
	if err := scanner.Err(); err != nil {
		return edges, err
	}
	return edges, nil
}
