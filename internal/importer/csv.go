// billing-api/internal/importer/csv.go
package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// ReadRecords decodes a CSV stream into raw records keyed by header name,
// preserving input order. Header names are trimmed and lower-cased so
// "Email" and "email " address the same field.
//
// A structurally broken file (unreadable, missing header, ragged rows) is a
// file-level error, not a per-row one: the caller rejects the whole upload
// before the batch run starts.
func ReadRecords(r io.Reader) ([]RawRecord, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("csv file is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}
	for i, name := range header {
		header[i] = strings.ToLower(strings.TrimSpace(name))
	}

	var records []RawRecord
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv row %d: %w", len(records)+1, err)
		}
		record := make(RawRecord, len(header))
		for i, value := range row {
			record[header[i]] = value
		}
		records = append(records, record)
	}
	return records, nil
}
