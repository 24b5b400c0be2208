package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"google.golang.org/api/bigquery/v2"
)

// RECORD is the field type of a nested (internal) field.
const RECORD = "RECORD"

var ErrInvalidSchema = errors.New("invalid schema")

// Field is a single column definition in a table schema. RECORD fields carry their nested columns
// in Fields.
type Field struct {
	Name                   string      `json:"name"`
	Type                   string      `json:"type"`
	Mode                   string      `json:"mode,omitempty"`
	Description            string      `json:"description,omitempty"`
	PolicyTags             *PolicyTags `json:"policyTags,omitempty"`
	Precision              *Integer    `json:"precision,omitempty"`
	Scale                  *Integer    `json:"scale,omitempty"`
	MaxLength              *Integer    `json:"maxLength,omitempty"`
	Collation              string      `json:"collation,omitempty"`
	DefaultValueExpression string      `json:"defaultValueExpression,omitempty"`
	RoundingMode           string      `json:"roundingMode,omitempty"`
	Fields                 []*Field    `json:"fields,omitempty"`
}

type PolicyTags struct {
	Names []string `json:"names,omitempty"`
}

// Integer is an optional integer attribute. The BigQuery REST API quotes 64-bit integers
// while the client library schema files do not, so either form is accepted when decoding.
// It is always encoded in the quoted form.
type Integer int64

// Nested returns true for a RECORD field with at least one nested field. A RECORD without
// nested fields is treated as a leaf.
func (f *Field) Nested() bool {
	return f.Type == RECORD && len(f.Fields) > 0
}

func (v Integer) MarshalJSON() ([]byte, error) {
	return json.Marshal(strconv.FormatInt(int64(v), 10))
}

func (v *Integer) UnmarshalJSON(bytes []byte) error {
	s := strings.Trim(string(bytes), `"`)

	i, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid integer %s", string(bytes))
	}

	*v = Integer(i)

	return nil
}

func NewInteger(v int64) *Integer {
	i := Integer(v)

	return &i
}

// Validate checks that every field has a name and a type, that sibling names are unique and that
// only RECORD fields have nested fields.
func Validate(fields []*Field) error {
	return validate(fields, "")
}

func validate(fields []*Field, parent string) error {
	names := map[string]bool{}

	for i, f := range fields {
		if f == nil {
			return fmt.Errorf("%w: null field at index %v of '%v'", ErrInvalidSchema, i, parent)
		}

		if strings.TrimSpace(f.Name) == "" {
			return fmt.Errorf("%w: field %v of '%v' has no name", ErrInvalidSchema, i, parent)
		}

		path := join(parent, f.Name)
		key := strings.ToLower(f.Name)

		if names[key] {
			return fmt.Errorf("%w: duplicate field '%v'", ErrInvalidSchema, path)
		} else {
			names[key] = true
		}

		if strings.TrimSpace(f.Type) == "" {
			return fmt.Errorf("%w: field '%v' has no type", ErrInvalidSchema, path)
		}

		if len(f.Fields) > 0 && f.Type != RECORD {
			return fmt.Errorf("%w: field '%v' has nested fields but is a %v", ErrInvalidSchema, path, f.Type)
		}

		if err := validate(f.Fields, path); err != nil {
			return err
		}
	}

	return nil
}

// Leaves returns the number of leaf columns in a schema. A nested RECORD contributes its
// leaves but not itself.
func Leaves(fields []*Field) int {
	count := 0
	for _, f := range fields {
		if f.Nested() {
			count += Leaves(f.Fields)
		} else {
			count++
		}
	}

	return count
}

// ToTableSchema converts a schema to the BigQuery API representation.
func ToTableSchema(fields []*Field) *bigquery.TableSchema {
	return &bigquery.TableSchema{
		Fields: toTableFields(fields),
	}
}

func toTableFields(fields []*Field) []*bigquery.TableFieldSchema {
	list := []*bigquery.TableFieldSchema{}

	for _, f := range fields {
		field := bigquery.TableFieldSchema{
			Name:                   f.Name,
			Type:                   f.Type,
			Mode:                   f.Mode,
			Description:            f.Description,
			Collation:              f.Collation,
			DefaultValueExpression: f.DefaultValueExpression,
			RoundingMode:           f.RoundingMode,
		}

		if f.PolicyTags != nil {
			field.PolicyTags = &bigquery.TableFieldSchemaPolicyTags{
				Names: f.PolicyTags.Names,
			}
		}

		if f.Precision != nil {
			field.Precision = int64(*f.Precision)
		}

		if f.Scale != nil {
			field.Scale = int64(*f.Scale)
		}

		if f.MaxLength != nil {
			field.MaxLength = int64(*f.MaxLength)
		}

		if len(f.Fields) > 0 {
			field.Fields = toTableFields(f.Fields)
		}

		list = append(list, &field)
	}

	return list
}

// FromTableSchema converts a BigQuery API table schema to a schema. Zero valued precision, scale
// and max length are not set by the API and are treated as absent.
func FromTableSchema(table *bigquery.TableSchema) []*Field {
	if table == nil {
		return []*Field{}
	}

	return fromTableFields(table.Fields)
}

func fromTableFields(fields []*bigquery.TableFieldSchema) []*Field {
	list := []*Field{}

	for _, f := range fields {
		field := Field{
			Name:                   f.Name,
			Type:                   f.Type,
			Mode:                   f.Mode,
			Description:            f.Description,
			Collation:              f.Collation,
			DefaultValueExpression: f.DefaultValueExpression,
			RoundingMode:           f.RoundingMode,
		}

		if f.PolicyTags != nil && len(f.PolicyTags.Names) > 0 {
			field.PolicyTags = &PolicyTags{
				Names: f.PolicyTags.Names,
			}
		}

		if f.Precision != 0 {
			field.Precision = NewInteger(f.Precision)
		}

		if f.Scale != 0 {
			field.Scale = NewInteger(f.Scale)
		}

		if f.MaxLength != 0 {
			field.MaxLength = NewInteger(f.MaxLength)
		}

		if len(f.Fields) > 0 {
			field.Fields = fromTableFields(f.Fields)
		}

		list = append(list, &field)
	}

	return list
}

func join(parent, name string) string {
	if parent == "" {
		return name
	}

	return parent + "." + name
}
