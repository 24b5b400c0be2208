package spreadsheet

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/bigfoot-data/bigfoot/schema"
)

// SheetToTSV writes the values of a schema worksheet as tab separated values. Rows without a
// path are dropped and short rows are padded to the width of the header.
func SheetToTSV(f io.Writer, values [][]any) error {
	if len(values) == 0 {
		return fmt.Errorf("empty sheet")
	}

	// ... header
	header := make([]string, len(values[0]))
	path := -1
	for i, v := range values[0] {
		header[i] = clean(v)
		if k, err := schema.Column(header[i]); err == nil && k == schema.ColumnPath {
			path = i
		}
	}

	if path < 0 {
		return fmt.Errorf("missing 'path' column")
	}

	// ... records
	records := [][]string{}
	for _, row := range values[1:] {
		if path >= len(row) || clean(row[path]) == "" {
			continue
		}

		record := make([]string, len(header))
		for i := range record {
			if i < len(row) {
				record[i] = clean(row[i])
			}
		}

		records = append(records, record)
	}

	// ... write to file
	w := csv.NewWriter(f)
	w.Comma = '\t'

	if err := w.Write(header); err != nil {
		return err
	}

	if err := w.WriteAll(records); err != nil {
		return err
	}

	return w.Error()
}
