package spreadsheet

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bigfoot-data/bigfoot/schema"
)

// ParseSchema rebuilds a schema from the values of a schema worksheet. The first row is the
// header; columns are matched by label and unrecognised columns are ignored. Rows without a
// path are skipped.
func ParseSchema(values [][]any) ([]*schema.Field, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("empty sheet")
	}

	// ... build index
	index := map[string]int{}
	for i, v := range values[0] {
		label := clean(v)
		k, err := schema.Column(label)
		if err != nil {
			continue
		}

		if _, ok := index[k]; ok {
			return nil, fmt.Errorf("duplicate column '%s'", label)
		}

		index[k] = i
	}

	if _, ok := index[schema.ColumnPath]; !ok {
		return nil, fmt.Errorf("missing 'path' column")
	}

	if _, ok := index[schema.ColumnType]; !ok {
		return nil, fmt.Errorf("missing 'type' column")
	}

	// ... records
	rows := []schema.Row{}
	for i, record := range values[1:] {
		get := func(column string) string {
			if ix, ok := index[column]; ok && ix < len(record) {
				return clean(record[ix])
			}

			return ""
		}

		path := get(schema.ColumnPath)
		if path == "" {
			continue
		}

		name := get(schema.ColumnName)
		if name == "" {
			name = path[strings.LastIndex(path, ".")+1:]
		}

		field := schema.Field{
			Name:        name,
			Type:        strings.ToUpper(get(schema.ColumnType)),
			Mode:        strings.ToUpper(get(schema.ColumnMode)),
			Description: get(schema.ColumnDescription),
		}

		if tags := get(schema.ColumnPolicyTags); tags != "" {
			field.PolicyTags = &schema.PolicyTags{}
			for _, tag := range strings.Split(tags, ",") {
				if tag = strings.TrimSpace(tag); tag != "" {
					field.PolicyTags.Names = append(field.PolicyTags.Names, tag)
				}
			}
		}

		integers := []struct {
			column string
			value  **schema.Integer
		}{
			{schema.ColumnPrecision, &field.Precision},
			{schema.ColumnScale, &field.Scale},
			{schema.ColumnMaxLength, &field.MaxLength},
		}

		for _, v := range integers {
			if s := get(v.column); s != "" {
				n, err := strconv.ParseInt(s, 10, 64)
				if err != nil {
					return nil, fmt.Errorf("row %v: invalid %v '%v'", i+2, v.column, s)
				}

				*v.value = schema.NewInteger(n)
			}
		}

		rows = append(rows, schema.Row{
			Path:  path,
			Field: &field,
		})
	}

	return schema.Unflatten(rows)
}

func clean(v any) string {
	if v == nil {
		return ""
	}

	return strings.TrimSpace(fmt.Sprintf("%v", v))
}
