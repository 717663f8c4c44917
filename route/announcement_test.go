package route

import "testing"

func TestNewOrigin(t *testing.T) {
	a := NewOrigin("10.0.0.0/8", 100, false)
	if a.ReceivedFrom != Origin {
		t.Fatalf("received_from = %v, want Origin", a.ReceivedFrom)
	}
	if a.NextHopASN != 100 {
		t.Fatalf("next_hop_asn = %d, want 100", a.NextHopASN)
	}
	if len(a.ASPath) != 1 || a.ASPath[0] != 100 {
		t.Fatalf("as_path = %v, want [100]", a.ASPath)
	}
}

func TestHasLoop(t *testing.T) {
	a := Announcement{ASPath: []uint32{300, 200, 100}}
	if !a.HasLoop(200) {
		t.Fatal("expected loop for asn present in path")
	}
	if a.HasLoop(400) {
		t.Fatal("expected no loop for asn absent from path")
	}
}

func TestWithPrepended(t *testing.T) {
	a := Announcement{
		Prefix:       "10.0.0.0/8",
		ASPath:       []uint32{300, 200},
		NextHopASN:   300,
		ReceivedFrom: Customer,
		ROVInvalid:   true,
	}
	b := a.WithPrepended(400)

	if len(b.ASPath) != 3 || b.ASPath[0] != 400 || b.ASPath[1] != 300 || b.ASPath[2] != 200 {
		t.Fatalf("as_path = %v, want [400 300 200]", b.ASPath)
	}
	if b.NextHopASN != 300 || b.ReceivedFrom != Customer || !b.ROVInvalid {
		t.Fatalf("non-path fields not carried over: %+v", b)
	}
	// a itself must be unmodified.
	if len(a.ASPath) != 2 {
		t.Fatalf("WithPrepended mutated the original: %v", a.ASPath)
	}
}
