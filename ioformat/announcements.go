package ioformat

import (
	"encoding/csv"
	"fmt"
	"io"
)

// SeedRecord is one row of the announcements CSV: an Origin
// announcement to seed at SeedASN for Prefix (spec.md §6).
type SeedRecord struct {
	SeedASN    uint32
	Prefix     string
	ROVInvalid bool
}

// ParseAnnouncements reads the announcements CSV (header
// "seed_asn,prefix,rov_invalid"). Malformed rows (wrong ASN, wrong
// field count) are skipped and returned alongside the parsed records
// so the caller can log them — they are never fatal (spec.md §7).
func ParseAnnouncements(r io.Reader) ([]SeedRecord, []error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, []error{fmt.Errorf("reading announcements header: %w", err)}
	}
	if len(header) < 3 {
		return nil, []error{fmt.Errorf("announcements header has %d fields, want 3", len(header))}
	}

	var records []SeedRecord
	var warnings []error
	row := 1
	for {
		row++
		fields, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			warnings = append(warnings, fmt.Errorf("row %d: %w", row, err))
			continue
		}
		if len(fields) != 3 {
			warnings = append(warnings, fmt.Errorf("row %d: expected 3 fields, got %d", row, len(fields)))
			continue
		}
		asn, ok := parseASN(fields[0])
		if !ok {
			warnings = append(warnings, fmt.Errorf("row %d: invalid seed_asn %q", row, fields[0]))
			continue
		}
		records = append(records, SeedRecord{
			SeedASN: asn,
			Prefix:  fields[1],
			// rov_invalid is literal "True"/"False" (case-sensitive);
			// any other token defaults to False (spec.md §6).
			ROVInvalid: fields[2] == "True",
		})
	}
	return records, warnings
}
