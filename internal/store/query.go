package store

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/zarlcorp/zpeople/internal/person"
)

// Field names a Person attribute usable in filters and sort orders.
type Field string

const (
	FieldName    Field = "name"
	FieldAge     Field = "age"
	FieldGender  Field = "gender"
	FieldCreated Field = "created"
)

// SortFields lists the sortable fields in the order the TUI cycles them.
var SortFields = []Field{FieldName, FieldAge, FieldGender, FieldCreated}

// ParseField resolves a field name, rejecting unknown names.
func ParseField(s string) (Field, error) {
	f := Field(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range SortFields {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: unknown field %q", ErrInvalidQuery, s)
}

// Text reports whether the field holds text and can be used in a Predicate.
func (f Field) Text() bool {
	return f == FieldName || f == FieldGender
}

// Predicate matches records whose text field contains a substring.
// Matching is case-sensitive. An empty Contains matches every record.
type Predicate struct {
	Field    Field
	Contains string
}

// NameContains is the predicate used by the list filter.
func NameContains(s string) Predicate {
	return Predicate{Field: FieldName, Contains: s}
}

// Match reports whether p satisfies the predicate.
func (pr Predicate) Match(p person.Person) bool {
	if pr.Contains == "" {
		return true
	}
	switch pr.Field {
	case FieldGender:
		return strings.Contains(p.Gender, pr.Contains)
	default:
		return strings.Contains(p.Name, pr.Contains)
	}
}

// Sort orders records by a single field.
type Sort struct {
	Field      Field
	Descending bool
}

// Query combines an optional filter with an optional sort. The zero Query
// returns every record in insertion order.
type Query struct {
	Filter *Predicate
	Sort   *Sort
}

// Validate rejects queries a backend cannot run.
func (q Query) Validate() error {
	if q.Filter != nil {
		f := q.Filter.Field
		if f == "" {
			f = FieldName
		}
		if !f.Text() {
			return fmt.Errorf("%w: cannot filter on %q", ErrInvalidQuery, q.Filter.Field)
		}
	}
	// fields must already be canonical; backends look them up verbatim
	if q.Sort != nil && !slices.Contains(SortFields, q.Sort.Field) {
		return fmt.Errorf("%w: cannot sort on %q", ErrInvalidQuery, q.Sort.Field)
	}
	return nil
}

// Apply filters and orders people in memory. Backends without a native query
// engine use it so every backend orders records the same way: the sort key
// first, then CreatedAt ascending, then ID ascending. Unset strings sort
// first when ascending. The input slice is not modified.
func Apply(people []person.Person, q Query) []person.Person {
	out := make([]person.Person, 0, len(people))
	for _, p := range people {
		if q.Filter == nil || q.Filter.Match(p) {
			out = append(out, p)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if q.Sort != nil {
			c := compareField(out[i], out[j], q.Sort.Field)
			if q.Sort.Descending {
				c = -c
			}
			if c != 0 {
				return c < 0
			}
		}
		return insertionLess(out[i], out[j])
	})

	return out
}

func compareField(a, b person.Person, f Field) int {
	switch f {
	case FieldName:
		return strings.Compare(a.Name, b.Name)
	case FieldGender:
		return strings.Compare(a.Gender, b.Gender)
	case FieldAge:
		switch {
		case a.Age < b.Age:
			return -1
		case a.Age > b.Age:
			return 1
		}
		return 0
	case FieldCreated:
		return a.CreatedAt.Compare(b.CreatedAt)
	}
	return 0
}

func insertionLess(a, b person.Person) bool {
	if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
		return c < 0
	}
	return a.ID < b.ID
}
