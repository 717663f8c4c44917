package ioformat

import (
	"strings"
	"testing"
)

func TestFormatASPath(t *testing.T) {
	cases := []struct {
		path []uint32
		want string
	}{
		{[]uint32{100}, "(100,)"},
		{[]uint32{100, 200}, "(100, 200)"},
		{[]uint32{100, 200, 300}, "(100, 200, 300)"},
	}
	for _, c := range cases {
		if got := FormatASPath(c.path); got != c.want {
			t.Errorf("FormatASPath(%v) = %q, want %q", c.path, got, c.want)
		}
	}
}

func TestWriteRIBCSV(t *testing.T) {
	rows := []RIBRow{
		{ASN: 100, Prefix: "10.0.0.0/8", ASPath: []uint32{100, 200}},
		{ASN: 300, Prefix: "20.0.0.0/8", ASPath: []uint32{300}},
	}
	var buf strings.Builder
	if err := WriteRIBCSV(&buf, rows); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "asn,prefix,as_path\n100,10.0.0.0/8,\"(100, 200)\"\n300,20.0.0.0/8,\"(300,)\"\n"
	if buf.String() != want {
		t.Fatalf("got:\n%q\nwant:\n%q", buf.String(), want)
	}
}
