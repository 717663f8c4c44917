// Package ioformat holds the CSV/pipe parsers and writer that sit at
// the edges of the simulation engine (spec.md component 5): the CAIDA
// relationship-file tokenizer, the announcements/ROV-ASN file parsers,
// and the RIB CSV dump writer. None of it is part of the engine
// proper — it is deliberately the part of the system spec.md calls
// "straightforward I/O wrappers."
package ioformat

import (
	"bufio"
	"compress/bzip2"
	"errors"
	"io"
	"os"
	"strings"

	gzip "github.com/klauspost/compress/gzip"
)

// CompressedReader transparently decompresses .gz/.bz2 files, mirroring
// Emeline-1-anaximander_simulator/readers.go's CompressedReader. CAIDA
// as-rel2 dumps ship as .bz2; RouteViews-adjacent tooling commonly also
// hands out .gz, so both are supported.
type CompressedReader struct {
	filename     string
	fp           io.ReadCloser
	decompressed io.Reader
	toClose      io.Closer // bzip2.Reader has no Close method of its own
}

// NewCompressedReader prepares a reader for filename; call Open before
// Scanner/Reader, and Close when done.
func NewCompressedReader(filename string) *CompressedReader {
	return &CompressedReader{filename: filename}
}

// Open opens the underlying file and wraps it with the appropriate
// decompressor based on the filename's extension.
func (r *CompressedReader) Open() error {
	fp, err := os.Open(r.filename)
	if err != nil {
		return errors.New("[CompressedReader]: " + err.Error() + " " + r.filename)
	}
	r.fp = fp

	switch {
	case strings.HasSuffix(r.filename, ".gz"):
		gz, err := gzip.NewReader(fp)
		if err != nil {
			fp.Close()
			return errors.New("[CompressedReader]: " + err.Error() + " " + r.filename)
		}
		r.decompressed = gz
		r.toClose = gz
	case strings.HasSuffix(r.filename, ".bz2"):
		r.decompressed = bzip2.NewReader(fp)
	default:
		r.decompressed = fp
	}
	return nil
}

// Scanner returns a line scanner over the decompressed stream.
func (r *CompressedReader) Scanner() *bufio.Scanner {
	return bufio.NewScanner(r.decompressed)
}

// Reader exposes the decompressed stream directly, for callers (e.g.
// encoding/csv) that want their own framing instead of line scanning.
func (r *CompressedReader) Reader() io.Reader {
	return r.decompressed
}

// Close releases the underlying file and, if present, the decompressor.
func (r *CompressedReader) Close() error {
	if r.toClose != nil {
		r.toClose.Close()
	}
	if r.fp != nil {
		return r.fp.Close()
	}
	return nil
}
