package schema

import (
	"fmt"
	"strings"
)

const (
	ColumnPath        = "path"
	ColumnName        = "name"
	ColumnType        = "type"
	ColumnMode        = "mode"
	ColumnDescription = "description"
	ColumnPolicyTags  = "policytags"
	ColumnPrecision   = "precision"
	ColumnScale       = "scale"
	ColumnMaxLength   = "maxlength"
)

// Header is the default worksheet header, in display order.
var Header = []string{
	"Path",
	"Name",
	"Type",
	"Mode",
	"Description",
	"Policy Tags",
	"Precision",
	"Scale",
	"Max Length",
}

var columns = map[string]bool{
	ColumnPath:        true,
	ColumnName:        true,
	ColumnType:        true,
	ColumnMode:        true,
	ColumnDescription: true,
	ColumnPolicyTags:  true,
	ColumnPrecision:   true,
	ColumnScale:       true,
	ColumnMaxLength:   true,
}

// Column returns the column key for a header label e.g. 'Policy Tags' -> policytags.
func Column(label string) (string, error) {
	k := normalise(label)
	if !columns[k] {
		return "", fmt.Errorf("unknown column '%v'", label)
	}

	return k, nil
}

// Value returns the row value for a column: a string, an int64 or nil if the field does not have
// the attribute.
func (r Row) Value(column string) (any, error) {
	f := r.Field

	switch column {
	case ColumnPath:
		return r.Path, nil

	case ColumnName:
		return f.Name, nil

	case ColumnType:
		return f.Type, nil

	case ColumnMode:
		return optional(f.Mode), nil

	case ColumnDescription:
		return optional(f.Description), nil

	case ColumnPolicyTags:
		if f.PolicyTags == nil || len(f.PolicyTags.Names) == 0 {
			return nil, nil
		}

		return strings.Join(f.PolicyTags.Names, ", "), nil

	case ColumnPrecision:
		return integer(f.Precision), nil

	case ColumnScale:
		return integer(f.Scale), nil

	case ColumnMaxLength:
		return integer(f.MaxLength), nil
	}

	return nil, fmt.Errorf("unknown column '%v'", column)
}

func optional(v string) any {
	if v == "" {
		return nil
	}

	return v
}

func integer(v *Integer) any {
	if v == nil {
		return nil
	}

	return int64(*v)
}

func normalise(v string) string {
	return strings.ToLower(strings.ReplaceAll(strings.ReplaceAll(v, " ", ""), "_", ""))
}
