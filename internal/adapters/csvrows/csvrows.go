package csvrows

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/mikey/eco-scheduler/internal/core"
)

// ErrMalformed is returned when the input cannot be read as CSV
var ErrMalformed = errors.New("malformed or unreadable CSV")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Table is a parsed CSV document. Headers keeps the source column order with
// repeated names removed.
type Table struct {
	Headers []string
	Rows    []core.Row
}

// ParseTable reads a header row followed by records. Blank lines are skipped,
// short records are padded with empty cells and extra cells are dropped.
// When a header repeats, the first column wins. Input with no data rows
// yields an empty table.
func ParseTable(r io.Reader) (*Table, error) {
	br := bufio.NewReader(r)
	if prefix, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(prefix, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	reader := csv.NewReader(br)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	headers, err := reader.Read()
	if err == io.EOF {
		return &Table{Rows: []core.Row{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	table := &Table{Rows: make([]core.Row, 0)}
	seen := make(map[string]bool, len(headers))
	for _, header := range headers {
		if !seen[header] {
			seen[header] = true
			table.Headers = append(table.Headers, header)
		}
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}

		row := make(core.Row, len(headers))
		for i, header := range headers {
			if _, seen := row[header]; seen {
				continue
			}
			if i < len(record) {
				row[header] = record[i]
			} else {
				row[header] = ""
			}
		}
		table.Rows = append(table.Rows, row)
	}

	return table, nil
}
