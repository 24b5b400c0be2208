package spreadsheet

import (
	"errors"
	"fmt"
	"reflect"

	"google.golang.org/api/sheets/v4"

	"github.com/bigfoot-data/bigfoot/schema"
)

const (
	HeaderRow = 0
	DataRow   = 1
)

var ErrUnsupportedValue = errors.New("unsupported value type")

// Build creates a single sheet spreadsheet with a bold header row followed by one row per
// flattened schema field. The header labels select the row values for each column.
func Build(title string, header []string, rows []schema.Row) (*sheets.Spreadsheet, error) {
	if len(header) == 0 {
		return nil, fmt.Errorf("missing header")
	}

	columns := []string{}
	labels := []any{}
	for _, label := range header {
		if k, err := schema.Column(label); err != nil {
			return nil, err
		} else {
			columns = append(columns, k)
			labels = append(labels, label)
		}
	}

	headers, err := NewRow(labels, true)
	if err != nil {
		return nil, err
	}

	data := []*sheets.RowData{}
	for _, row := range rows {
		values := []any{}
		for _, column := range columns {
			if v, err := row.Value(column); err != nil {
				return nil, err
			} else {
				values = append(values, v)
			}
		}

		if r, err := NewRow(values, false); err != nil {
			return nil, fmt.Errorf("invalid row for %v (%w)", row.Path, err)
		} else {
			data = append(data, r)
		}
	}

	return &sheets.Spreadsheet{
		Properties: &sheets.SpreadsheetProperties{
			Title: title,
		},
		Sheets: []*sheets.Sheet{
			{
				Properties: &sheets.SheetProperties{
					Title: title,
				},
				Data: []*sheets.GridData{
					{
						StartRow:    HeaderRow,
						StartColumn: 0,
						RowData:     []*sheets.RowData{headers},
					},
					{
						StartRow:    DataRow,
						StartColumn: 0,
						RowData:     data,
					},
				},
			},
		},
	}, nil
}

// GroupRequest creates the batch update that adds a collapsible row group for each schema
// group. Group positions are relative to the first data row and are offset to sheet rows.
func GroupRequest(sheetID int64, groups []schema.Group) *sheets.BatchUpdateSpreadsheetRequest {
	rq := sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{},
	}

	for _, g := range groups {
		rq.Requests = append(rq.Requests, &sheets.Request{
			AddDimensionGroup: &sheets.AddDimensionGroupRequest{
				Range: &sheets.DimensionRange{
					SheetId:         sheetID,
					Dimension:       "ROWS",
					StartIndex:      int64(DataRow + g.Start),
					EndIndex:        int64(DataRow + g.End),
					ForceSendFields: []string{"SheetId"},
				},
			},
		})
	}

	return &rq
}

func NewRow(values []any, bold bool) (*sheets.RowData, error) {
	row := sheets.RowData{
		Values: []*sheets.CellData{},
	}

	for _, v := range values {
		if cell, err := NewCell(v, bold); err != nil {
			return nil, err
		} else {
			row.Values = append(row.Values, cell)
		}
	}

	return &row, nil
}

// NewCell creates a cell for a string, boolean or integer value. A nil value creates an empty
// cell. Any other type of value is rejected.
func NewCell(v any, bold bool) (*sheets.CellData, error) {
	value := sheets.ExtendedValue{}

	switch rv := reflect.ValueOf(v); rv.Kind() {
	case reflect.Invalid:

	case reflect.String:
		s := rv.String()
		value.StringValue = &s

	case reflect.Bool:
		b := rv.Bool()
		value.BoolValue = &b

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n := float64(rv.Int())
		value.NumberValue = &n

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n := float64(rv.Uint())
		value.NumberValue = &n

	default:
		return nil, fmt.Errorf("%w: %T (%v)", ErrUnsupportedValue, v, v)
	}

	cell := sheets.CellData{
		UserEnteredValue: &value,
	}

	if bold {
		cell.UserEnteredFormat = &sheets.CellFormat{
			TextFormat: &sheets.TextFormat{
				Bold: true,
			},
		}
	}

	return &cell, nil
}
