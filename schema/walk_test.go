package schema

import (
	"errors"
	"reflect"
	"testing"
)

func example() []*Field {
	return []*Field{
		{
			Name: "A",
			Type: RECORD,
			Fields: []*Field{
				{Name: "B", Type: "STRING"},
				{
					Name: "C",
					Type: RECORD,
					Fields: []*Field{
						{Name: "D", Type: "INTEGER"},
					},
				},
			},
		},
	}
}

func nested() []*Field {
	return []*Field{
		{Name: "id", Type: "STRING", Mode: "REQUIRED"},
		{
			Name: "customer",
			Type: RECORD,
			Fields: []*Field{
				{Name: "name", Type: "STRING"},
				{
					Name: "address",
					Type: RECORD,
					Mode: "REPEATED",
					Fields: []*Field{
						{Name: "street", Type: "STRING"},
						{Name: "city", Type: "STRING"},
						{
							Name: "geo",
							Type: RECORD,
							Fields: []*Field{
								{Name: "lat", Type: "FLOAT"},
								{Name: "lng", Type: "FLOAT"},
							},
						},
					},
				},
				{Name: "email", Type: "STRING"},
			},
		},
		{Name: "tags", Type: RECORD},
		{Name: "amount", Type: "NUMERIC", Precision: NewInteger(10), Scale: NewInteger(2)},
	}
}

func paths(rows []Row) []string {
	list := []string{}
	for _, row := range rows {
		list = append(list, row.Path)
	}

	return list
}

func TestFlatten(t *testing.T) {
	expected := []string{"A", "A.B", "A.C", "A.C.D"}

	rows := Flatten(example())

	if !reflect.DeepEqual(paths(rows), expected) {
		t.Errorf("Incorrect paths\n   expected: %v\n   got:      %v\n", expected, paths(rows))
	}
}

func TestFlattenWithSiblingRecords(t *testing.T) {
	expected := []string{
		"id",
		"customer",
		"customer.name",
		"customer.address",
		"customer.address.street",
		"customer.address.city",
		"customer.address.geo",
		"customer.address.geo.lat",
		"customer.address.geo.lng",
		"customer.email",
		"tags",
		"amount",
	}

	rows := Flatten(nested())

	if !reflect.DeepEqual(paths(rows), expected) {
		t.Errorf("Incorrect paths\n   expected: %v\n   got:      %v\n", expected, paths(rows))
	}

	for _, row := range rows {
		if row.Field == nil {
			t.Fatalf("Missing field for row %v", row.Path)
		}
	}
}

func TestFlattenIsRepeatable(t *testing.T) {
	fields := nested()

	p := Flatten(fields)
	q := Flatten(fields)

	if !reflect.DeepEqual(p, q) {
		t.Errorf("Flatten returned different rows for the same schema\n   first:  %v\n   second: %v\n", p, q)
	}
}

func TestGroups(t *testing.T) {
	expected := []Group{
		{Start: 3, End: 4},
		{Start: 1, End: 4},
	}

	groups := Groups(example())

	if !reflect.DeepEqual(groups, expected) {
		t.Errorf("Incorrect groups\n   expected: %v\n   got:      %v\n", expected, groups)
	}
}

func TestGroupsWithDeeplyNestedRecords(t *testing.T) {
	expected := []Group{
		{Start: 7, End: 9},  // customer.address.geo
		{Start: 4, End: 9},  // customer.address
		{Start: 2, End: 10}, // customer
	}

	groups := Groups(nested())

	if !reflect.DeepEqual(groups, expected) {
		t.Errorf("Incorrect groups\n   expected: %v\n   got:      %v\n", expected, groups)
	}
}

func TestGroupsWithLeafOnlySchema(t *testing.T) {
	fields := []*Field{
		{Name: "id", Type: "STRING"},
		{Name: "created", Type: "TIMESTAMP"},
		{Name: "empty", Type: RECORD},
	}

	rows, groups := Walk(fields)

	if len(groups) != 0 {
		t.Errorf("Expected no groups for leaf only schema, got %v", groups)
	}

	if len(rows) != len(fields) {
		t.Fatalf("Expected %v rows, got %v", len(fields), len(rows))
	}

	for i, row := range rows {
		if row.Path != fields[i].Name {
			t.Errorf("Incorrect path for row %v - expected:%v, got:%v", i, fields[i].Name, row.Path)
		}
	}
}

// Every group must cover exactly the flattened rows below its RECORD.
func TestGroupsMatchFlattenedRows(t *testing.T) {
	rows, groups := Walk(nested())

	records := map[int]string{}
	for i, row := range rows {
		if row.Field.Nested() {
			records[i] = row.Path
		}
	}

	if len(groups) != len(records) {
		t.Fatalf("Expected %v groups, got %v", len(records), len(groups))
	}

	for _, g := range groups {
		path, ok := records[g.Start-1]
		if !ok {
			t.Fatalf("Group %v does not start immediately after a RECORD row", g)
		}

		if n := len(Flatten(rows[g.Start-1].Field.Fields)); g.End-g.Start != n {
			t.Errorf("Group for %v spans %v rows, expected %v", path, g.End-g.Start, n)
		}

		for _, row := range rows[g.Start:g.End] {
			if len(row.Path) <= len(path) || row.Path[:len(path)+1] != path+"." {
				t.Errorf("Row %v is not nested under %v", row.Path, path)
			}
		}
	}
}

func TestUnflatten(t *testing.T) {
	expected := nested()

	fields, err := Unflatten(Flatten(nested()))
	if err != nil {
		t.Fatalf("Unexpected error returned from Unflatten (%v)", err)
	}

	if !reflect.DeepEqual(fields, expected) {
		t.Errorf("Incorrect schema\n   expected: %v\n   got:      %v\n", expected, fields)
	}
}

func TestUnflattenWithOrphanedRow(t *testing.T) {
	rows := []Row{
		{Path: "A", Field: &Field{Name: "A", Type: RECORD}},
		{Path: "B.C", Field: &Field{Name: "C", Type: "STRING"}},
	}

	if _, err := Unflatten(rows); err == nil {
		t.Fatalf("Expected error for orphaned row, got %v", err)
	} else if !errors.Is(err, ErrInvalidSchema) {
		t.Errorf("Expected ErrInvalidSchema, got %v", err)
	}
}

func TestUnflattenWithInvalidRows(t *testing.T) {
	tests := map[string][]Row{
		"duplicate path": {
			{Path: "A", Field: &Field{Name: "A", Type: "STRING"}},
			{Path: "A", Field: &Field{Name: "A", Type: "STRING"}},
		},
		"name mismatch": {
			{Path: "A", Field: &Field{Name: "B", Type: "STRING"}},
		},
		"parent not a record": {
			{Path: "A", Field: &Field{Name: "A", Type: "STRING"}},
			{Path: "A.B", Field: &Field{Name: "B", Type: "STRING"}},
		},
		"missing field": {
			{Path: "A"},
		},
	}

	for k, rows := range tests {
		if _, err := Unflatten(rows); err == nil {
			t.Errorf("%v: expected error, got %v", k, err)
		}
	}
}

func TestDiff(t *testing.T) {
	before := nested()
	after := nested()

	after[1].Fields = append(after[1].Fields, &Field{Name: "phone", Type: "STRING"})
	after = after[:3]

	added, removed := Diff(before, after)

	if !reflect.DeepEqual(added, []string{"customer.phone"}) {
		t.Errorf("Incorrect added columns - expected:%v, got:%v", []string{"customer.phone"}, added)
	}

	if !reflect.DeepEqual(removed, []string{"amount"}) {
		t.Errorf("Incorrect removed columns - expected:%v, got:%v", []string{"amount"}, removed)
	}
}

func TestRestore(t *testing.T) {
	existing := []*Field{
		{Name: "id", Type: "STRING", Collation: "und:ci", DefaultValueExpression: "GENERATE_UUID()"},
		{
			Name: "customer",
			Type: RECORD,
			Fields: []*Field{
				{Name: "name", Type: "STRING", Collation: "und:ci"},
			},
		},
		{Name: "amount", Type: "NUMERIC", RoundingMode: "ROUND_HALF_EVEN"},
	}

	fields := []*Field{
		{Name: "id", Type: "STRING"},
		{
			Name: "customer",
			Type: RECORD,
			Fields: []*Field{
				{Name: "name", Type: "STRING", Collation: ""},
				{Name: "email", Type: "STRING"},
			},
		},
		{Name: "amount", Type: "NUMERIC", RoundingMode: "ROUND_HALF_AWAY_FROM_ZERO"},
	}

	expected := []*Field{
		{Name: "id", Type: "STRING", Collation: "und:ci", DefaultValueExpression: "GENERATE_UUID()"},
		{
			Name: "customer",
			Type: RECORD,
			Fields: []*Field{
				{Name: "name", Type: "STRING", Collation: "und:ci"},
				{Name: "email", Type: "STRING"},
			},
		},
		{Name: "amount", Type: "NUMERIC", RoundingMode: "ROUND_HALF_AWAY_FROM_ZERO"},
	}

	Restore(fields, existing)

	if !reflect.DeepEqual(fields, expected) {
		t.Errorf("Incorrect restored schema\n   expected: %v\n   got:      %v\n", expected, fields)
	}
}
