package store

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/zarlcorp/zpeople/internal/person"
)

func fixture() []person.Person {
	at := func(m int) time.Time {
		return time.Date(2025, 3, 1, 0, m, 0, 0, time.UTC)
	}
	return []person.Person{
		{ID: "1", Name: "zoe", Age: 40, Gender: "female", CreatedAt: at(1)},
		{ID: "2", Name: "Tiger Woods", Age: 49, Gender: "male", CreatedAt: at(2)},
		{ID: "3", Name: "", Age: 7, CreatedAt: at(3)},
		{ID: "4", Name: "Anna", Age: 40, Gender: "female", CreatedAt: at(4)},
		{ID: "5", Name: "tiger lily", Age: 3, CreatedAt: at(5)},
	}
}

func ids(people []person.Person) []string {
	out := make([]string, len(people))
	for i, p := range people {
		out[i] = p.ID
	}
	return out
}

func TestApply(t *testing.T) {
	tests := []struct {
		name string
		q    Query
		want []string
	}{
		{
			name: "zero query keeps insertion order",
			q:    Query{},
			want: []string{"1", "2", "3", "4", "5"},
		},
		{
			name: "name ascending is byte-wise with unset first",
			q:    Query{Sort: &Sort{Field: FieldName}},
			want: []string{"3", "4", "2", "5", "1"},
		},
		{
			name: "name descending",
			q:    Query{Sort: &Sort{Field: FieldName, Descending: true}},
			want: []string{"1", "5", "2", "4", "3"},
		},
		{
			name: "age ties broken by insertion",
			q:    Query{Sort: &Sort{Field: FieldAge}},
			want: []string{"5", "3", "1", "4", "2"},
		},
		{
			name: "age descending keeps tie order",
			q:    Query{Sort: &Sort{Field: FieldAge, Descending: true}},
			want: []string{"2", "1", "4", "3", "5"},
		},
		{
			name: "filter is case-sensitive",
			q:    Query{Filter: &Predicate{Field: FieldName, Contains: "Tiger"}},
			want: []string{"2"},
		},
		{
			name: "empty filter matches all",
			q:    Query{Filter: &Predicate{Field: FieldName}},
			want: []string{"1", "2", "3", "4", "5"},
		},
		{
			name: "gender filter",
			q:    Query{Filter: &Predicate{Field: FieldGender, Contains: "fem"}},
			want: []string{"1", "4"},
		},
		{
			name: "filter and sort",
			q: Query{
				Filter: &Predicate{Field: FieldGender, Contains: "male"},
				Sort:   &Sort{Field: FieldName},
			},
			want: []string{"4", "2", "1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(Apply(fixture(), tt.q))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Apply (-want +got):\n%s", diff)
			}
		})
	}
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	in := fixture()
	_ = Apply(in, Query{Sort: &Sort{Field: FieldName}})

	if diff := cmp.Diff([]string{"1", "2", "3", "4", "5"}, ids(in)); diff != "" {
		t.Errorf("input reordered (-want +got):\n%s", diff)
	}
}

func TestParseField(t *testing.T) {
	tests := []struct {
		in      string
		want    Field
		wantErr bool
	}{
		{"name", FieldName, false},
		{" AGE ", FieldAge, false},
		{"gender", FieldGender, false},
		{"created", FieldCreated, false},
		{"height", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseField(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidQuery) {
					t.Fatalf("err = %v, want ErrInvalidQuery", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseField(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
