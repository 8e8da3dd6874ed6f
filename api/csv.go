/*
csv.go - CSV dataset decoding

PURPOSE:
  Decodes CSV uploads into engine records. The first row is the header;
  each subsequent row becomes a record keyed by header name. Cells that
  parse as numbers become float64, everything else stays a string.

SEE ALSO:
  - handlers.go: UploadDataset, which chooses CSV vs JSON decoding
*/
package api

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/solarcalor/reporting-engine/engine"
)

// ParseCSV decodes a header-keyed CSV body into records. Short rows
// carry only the columns present; extra cells are dropped.
func ParseCSV(r io.Reader) ([]engine.Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return []engine.Record{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	rows := []engine.Record{}
	for {
		cells, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading CSV row %d: %w", len(rows)+2, err)
		}
		rec := engine.Record{}
		for i, cell := range cells {
			if i >= len(header) || header[i] == "" {
				continue
			}
			rec[header[i]] = coerceCell(cell)
		}
		rows = append(rows, rec)
	}
	return rows, nil
}

// coerceCell turns numeric-looking cells into float64 so uploaded CSV
// behaves like the equivalent JSON upload.
func coerceCell(cell string) any {
	trimmed := strings.TrimSpace(cell)
	if trimmed == "" {
		return ""
	}
	if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return f
	}
	return trimmed
}
