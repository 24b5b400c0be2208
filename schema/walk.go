package schema

import (
	"fmt"
	"sort"
	"strings"
)

// Row is a single field in a flattened schema, identified by the dotted path from the top level
// field down to the field itself.
type Row struct {
	Path  string
	Field *Field
}

// Group is the range of flattened rows occupied by the nested fields of a RECORD. Start and End
// are zero-based positions in the flattened row list, End is exclusive and the RECORD's own row
// is not included.
type Group struct {
	Start int
	End   int
}

// Flatten lists every field in the schema in pre-order, i.e. each field is followed by its
// nested fields.
func Flatten(fields []*Field) []Row {
	rows, _ := Walk(fields)

	return rows
}

// Groups returns the row range of every nested RECORD in the schema, inner records before the
// records that contain them.
func Groups(fields []*Field) []Group {
	_, groups := Walk(fields)

	return groups
}

// Walk flattens a schema and computes the RECORD row groups in a single traversal.
func Walk(fields []*Field) ([]Row, []Group) {
	return walk(fields, "", 0)
}

// walk returns the rows and groups for a list of sibling fields whose first row is at 'position'
// in the final row list. The number of rows consumed by the siblings is len(rows).
func walk(fields []*Field, parent string, position int) ([]Row, []Group) {
	rows := []Row{}
	groups := []Group{}

	for _, f := range fields {
		path := join(parent, f.Name)
		rows = append(rows, Row{Path: path, Field: f})

		if f.Nested() {
			start := position + len(rows)
			r, g := walk(f.Fields, path, start)

			rows = append(rows, r...)
			groups = append(groups, g...)
			groups = append(groups, Group{Start: start, End: start + len(r)})
		}
	}

	return rows, groups
}

// Unflatten rebuilds a schema from a list of rows. A row's parent must precede it in the list,
// which is always the case for the output of Flatten.
func Unflatten(rows []Row) ([]*Field, error) {
	fields := []*Field{}
	index := map[string]*Field{}

	for _, row := range rows {
		if row.Field == nil {
			return nil, fmt.Errorf("%w: missing field definition for '%v'", ErrInvalidSchema, row.Path)
		}

		if _, ok := index[row.Path]; ok {
			return nil, fmt.Errorf("%w: duplicate path '%v'", ErrInvalidSchema, row.Path)
		}

		parent, name := "", row.Path
		if ix := strings.LastIndex(row.Path, "."); ix >= 0 {
			parent, name = row.Path[:ix], row.Path[ix+1:]
		}

		if name != row.Field.Name {
			return nil, fmt.Errorf("%w: path '%v' does not match field name '%v'", ErrInvalidSchema, row.Path, row.Field.Name)
		}

		field := *row.Field
		field.Fields = nil

		if parent == "" {
			fields = append(fields, &field)
		} else if p, ok := index[parent]; !ok {
			return nil, fmt.Errorf("%w: '%v' has no parent field", ErrInvalidSchema, row.Path)
		} else if p.Type != RECORD {
			return nil, fmt.Errorf("%w: parent of '%v' is not a %v", ErrInvalidSchema, row.Path, RECORD)
		} else {
			p.Fields = append(p.Fields, &field)
		}

		index[row.Path] = &field
	}

	if err := Validate(fields); err != nil {
		return nil, err
	}

	return fields, nil
}

// Diff compares the flattened paths of two schemas and returns the sorted paths that were added
// and removed.
func Diff(before, after []*Field) (added []string, removed []string) {
	paths := func(fields []*Field) map[string]bool {
		m := map[string]bool{}
		for _, row := range Flatten(fields) {
			m[row.Path] = true
		}

		return m
	}

	p := paths(before)
	q := paths(after)

	added = []string{}
	removed = []string{}

	for k := range q {
		if !p[k] {
			added = append(added, k)
		}
	}

	for k := range p {
		if !q[k] {
			removed = append(removed, k)
		}
	}

	sort.Strings(added)
	sort.Strings(removed)

	return added, removed
}

// Restore copies the attributes that are not listed on a schema worksheet (collation, default
// value expression and rounding mode) from the fields of an existing schema with the same path.
// Attributes already set on a field are kept.
func Restore(fields, existing []*Field) {
	index := map[string]*Field{}
	for _, row := range Flatten(existing) {
		index[row.Path] = row.Field
	}

	for _, row := range Flatten(fields) {
		f := row.Field
		if e, ok := index[row.Path]; ok && e != nil {
			if f.Collation == "" {
				f.Collation = e.Collation
			}

			if f.DefaultValueExpression == "" {
				f.DefaultValueExpression = e.DefaultValueExpression
			}

			if f.RoundingMode == "" {
				f.RoundingMode = e.RoundingMode
			}
		}
	}
}
