package schema

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"google.golang.org/api/bigquery/v2"
)

const document = `[
  { "name": "id", "type": "STRING", "mode": "REQUIRED", "description": "Primary key" },
  { "name": "amount", "type": "NUMERIC", "precision": "10", "scale": 2 },
  { "name": "code", "type": "STRING", "maxLength": "8", "policyTags": { "names": ["projects/p/locations/eu/taxonomies/1/policyTags/2"] } },
  { "name": "customer", "type": "RECORD", "mode": "NULLABLE", "fields": [
      { "name": "name", "type": "STRING" },
      { "name": "email", "type": "STRING" }
  ]}
]`

func TestRead(t *testing.T) {
	expected := []*Field{
		{Name: "id", Type: "STRING", Mode: "REQUIRED", Description: "Primary key"},
		{Name: "amount", Type: "NUMERIC", Precision: NewInteger(10), Scale: NewInteger(2)},
		{
			Name:       "code",
			Type:       "STRING",
			MaxLength:  NewInteger(8),
			PolicyTags: &PolicyTags{Names: []string{"projects/p/locations/eu/taxonomies/1/policyTags/2"}},
		},
		{
			Name: "customer",
			Type: RECORD,
			Mode: "NULLABLE",
			Fields: []*Field{
				{Name: "name", Type: "STRING"},
				{Name: "email", Type: "STRING"},
			},
		},
	}

	fields, err := Read(strings.NewReader(document))
	if err != nil {
		t.Fatalf("Unexpected error reading schema (%v)", err)
	}

	if !reflect.DeepEqual(fields, expected) {
		t.Errorf("Incorrect schema\n   expected: %v\n   got:      %v\n", expected, fields)
	}
}

func TestReadWithInvalidSchema(t *testing.T) {
	tests := map[string]string{
		"not an array":      `{ "name": "id", "type": "STRING" }`,
		"missing name":      `[{ "type": "STRING" }]`,
		"missing type":      `[{ "name": "id" }]`,
		"duplicate name":    `[{ "name": "id", "type": "STRING" }, { "name": "ID", "type": "INTEGER" }]`,
		"nested duplicate":  `[{ "name": "r", "type": "RECORD", "fields": [{ "name": "a", "type": "STRING" }, { "name": "a", "type": "STRING" }] }]`,
		"nested non-record": `[{ "name": "r", "type": "STRING", "fields": [{ "name": "a", "type": "STRING" }] }]`,
		"invalid integer":   `[{ "name": "n", "type": "NUMERIC", "precision": "ten" }]`,
		"null field":        `[null]`,
	}

	for k, v := range tests {
		if _, err := Read(strings.NewReader(v)); err == nil {
			t.Errorf("%v: expected error, got %v", k, err)
		} else if !errors.Is(err, ErrInvalidSchema) {
			t.Errorf("%v: expected ErrInvalidSchema, got %v", k, err)
		}
	}
}

func TestWriteQuotesIntegers(t *testing.T) {
	fields := []*Field{
		{Name: "amount", Type: "NUMERIC", Precision: NewInteger(10), Scale: NewInteger(2)},
	}

	var b bytes.Buffer
	if err := Write(&b, fields); err != nil {
		t.Fatalf("Unexpected error writing schema (%v)", err)
	}

	if !strings.Contains(b.String(), `"precision": "10"`) || !strings.Contains(b.String(), `"scale": "2"`) {
		t.Errorf("Expected quoted integers, got:\n%v", b.String())
	}

	if strings.Contains(b.String(), "maxLength") || strings.Contains(b.String(), "mode") {
		t.Errorf("Expected absent attributes to be omitted, got:\n%v", b.String())
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	expected := nested()

	file, err := Save(dir, "gradient", "orders", expected)
	if err != nil {
		t.Fatalf("Unexpected error saving schema (%v)", err)
	}

	if file != filepath.Join(dir, "gradient__orders.json") {
		t.Errorf("Incorrect schema file - expected:%v, got:%v", filepath.Join(dir, "gradient__orders.json"), file)
	}

	fields, err := Load(dir, "gradient", "orders")
	if err != nil {
		t.Fatalf("Unexpected error loading schema (%v)", err)
	}

	if !reflect.DeepEqual(fields, expected) {
		t.Errorf("Incorrect schema\n   expected: %v\n   got:      %v\n", expected, fields)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("Unexpected error reading directory (%v)", err)
	} else if len(entries) != 1 {
		t.Errorf("Expected only the schema file in %v, got %v entries", dir, len(entries))
	}
}

func TestSaveReplacesExistingFile(t *testing.T) {
	dir := t.TempDir()
	expected := example()

	if _, err := Save(dir, "gradient", "orders", nested()); err != nil {
		t.Fatalf("Unexpected error saving schema (%v)", err)
	}

	file, err := Save(dir, "gradient", "orders", expected)
	if err != nil {
		t.Fatalf("Unexpected error replacing schema (%v)", err)
	}

	fields, err := Load(dir, "gradient", "orders")
	if err != nil {
		t.Fatalf("Unexpected error loading schema (%v)", err)
	}

	if !reflect.DeepEqual(fields, expected) {
		t.Errorf("Incorrect schema\n   expected: %v\n   got:      %v\n", expected, fields)
	}

	if info, err := os.Stat(file); err != nil {
		t.Fatalf("Unexpected error checking schema file (%v)", err)
	} else if info.Mode().Perm()&0600 != 0600 {
		t.Errorf("Schema file is not readable and writable by the owner (%v)", info.Mode().Perm())
	}

	if entries, err := os.ReadDir(dir); err != nil {
		t.Fatalf("Unexpected error reading directory (%v)", err)
	} else if len(entries) != 1 {
		t.Errorf("Expected only the schema file in %v, got %v entries", dir, len(entries))
	}
}

func TestLoadWithMissingFile(t *testing.T) {
	if _, err := Load(t.TempDir(), "gradient", "missing"); err == nil {
		t.Fatalf("Expected error loading missing schema file, got %v", err)
	} else if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected os.ErrNotExist, got %v", err)
	}
}

func TestLeaves(t *testing.T) {
	tests := []struct {
		fields   []*Field
		expected int
	}{
		{[]*Field{}, 0},
		{example(), 2},
		{nested(), 9},
	}

	for _, test := range tests {
		if n := Leaves(test.fields); n != test.expected {
			t.Errorf("Incorrect leaf count for %v - expected:%v, got:%v", paths(Flatten(test.fields)), test.expected, n)
		}
	}
}

func TestTableSchemaConversion(t *testing.T) {
	expected := &bigquery.TableSchema{
		Fields: []*bigquery.TableFieldSchema{
			{Name: "amount", Type: "NUMERIC", Precision: 10, Scale: 2},
			{
				Name:       "code",
				Type:       "STRING",
				MaxLength:  8,
				PolicyTags: &bigquery.TableFieldSchemaPolicyTags{Names: []string{"tag"}},
			},
			{
				Name: "customer",
				Type: RECORD,
				Fields: []*bigquery.TableFieldSchema{
					{Name: "name", Type: "STRING", Mode: "REQUIRED"},
				},
			},
		},
	}

	fields := []*Field{
		{Name: "amount", Type: "NUMERIC", Precision: NewInteger(10), Scale: NewInteger(2)},
		{Name: "code", Type: "STRING", MaxLength: NewInteger(8), PolicyTags: &PolicyTags{Names: []string{"tag"}}},
		{
			Name: "customer",
			Type: RECORD,
			Fields: []*Field{
				{Name: "name", Type: "STRING", Mode: "REQUIRED"},
			},
		},
	}

	table := ToTableSchema(fields)
	if !reflect.DeepEqual(table, expected) {
		t.Errorf("Incorrect table schema\n   expected: %v\n   got:      %v\n", expected, table)
	}

	if converted := FromTableSchema(table); !reflect.DeepEqual(converted, fields) {
		t.Errorf("Incorrect schema\n   expected: %v\n   got:      %v\n", fields, converted)
	}
}
