// Package storetest holds the behavioural tests every store.Backend must pass.
package storetest

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/zarlcorp/zpeople/internal/person"
	"github.com/zarlcorp/zpeople/internal/store"
)

// Factory opens a backend whose storage lives in dir. Opening the same dir
// twice must yield the same records.
type Factory func(t *testing.T, dir string) store.Backend

// Run exercises the backends produced by f against the shared contract.
func Run(t *testing.T, f Factory) {
	t.Run("InsertThenFetchAllOnce", func(t *testing.T) { testInsertFetchAll(t, f) })
	t.Run("DeleteExcludes", func(t *testing.T) { testDeleteExcludes(t, f) })
	t.Run("DeleteNotFound", func(t *testing.T) { testDeleteNotFound(t, f) })
	t.Run("FilterTiger", func(t *testing.T) { testFilterTiger(t, f) })
	t.Run("SortedByName", func(t *testing.T) { testSortedByName(t, f) })
	t.Run("SortOrderMatchesApply", func(t *testing.T) { testSortMatchesApply(t, f) })
	t.Run("RejectsNonCanonicalFields", func(t *testing.T) { testRejectsNonCanonical(t, f) })
	t.Run("FetchIdempotent", func(t *testing.T) { testIdempotent(t, f) })
	t.Run("PreservesFields", func(t *testing.T) { testPreservesFields(t, f) })
	t.Run("PersistsAcrossReopen", func(t *testing.T) { testReopen(t, f) })
}

func open(t *testing.T, f Factory) store.Backend {
	t.Helper()
	return f(t, t.TempDir())
}

var base = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func seed(t *testing.T, b store.Backend, people ...person.Person) {
	t.Helper()
	for _, p := range people {
		if err := b.Insert(context.Background(), p); err != nil {
			t.Fatalf("insert %s: %v", p.ID, err)
		}
	}
}

func named(id, name string, minute int) person.Person {
	return person.Person{ID: id, Name: name, CreatedAt: base.Add(time.Duration(minute) * time.Minute)}
}

func fetch(t *testing.T, b store.Backend, q store.Query) []person.Person {
	t.Helper()
	got, err := b.Fetch(context.Background(), q)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	return got
}

func idsOf(people []person.Person) []string {
	out := make([]string, len(people))
	for i, p := range people {
		out[i] = p.ID
	}
	return out
}

func namesOf(people []person.Person) []string {
	out := make([]string, len(people))
	for i, p := range people {
		out[i] = p.Name
	}
	return out
}

func testInsertFetchAll(t *testing.T, f Factory) {
	b := open(t, f)
	seed(t, b, named("p1", "Anna", 1), named("p2", "Bob", 2))

	got := idsOf(fetch(t, b, store.Query{}))
	count := 0
	for _, id := range got {
		if id == "p1" {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("p1 appears %d times in %v, want 1", count, got)
	}
	if diff := cmp.Diff([]string{"p1", "p2"}, got); diff != "" {
		t.Errorf("fetch all order (-want +got):\n%s", diff)
	}
}

func testDeleteExcludes(t *testing.T, f Factory) {
	b := open(t, f)
	seed(t, b, named("p1", "Anna", 1), named("p2", "Bob", 2))

	if err := b.Delete(context.Background(), "p1"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	got := idsOf(fetch(t, b, store.Query{}))
	if slices.Contains(got, "p1") {
		t.Fatalf("deleted record still present: %v", got)
	}
	if diff := cmp.Diff([]string{"p2"}, got); diff != "" {
		t.Errorf("after delete (-want +got):\n%s", diff)
	}
}

func testDeleteNotFound(t *testing.T, f Factory) {
	b := open(t, f)

	err := b.Delete(context.Background(), "missing")
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("delete missing: got %v, want ErrNotFound", err)
	}
}

func testFilterTiger(t *testing.T, f Factory) {
	b := open(t, f)
	seed(t, b,
		named("p1", "Tiger Woods", 1),
		named("p2", "Bob", 2),
		named("p3", "tiger lily", 3),
		named("p4", "", 4),
	)

	pr := store.NameContains("Tiger")
	got := namesOf(fetch(t, b, store.Query{Filter: &pr}))
	if diff := cmp.Diff([]string{"Tiger Woods"}, got); diff != "" {
		t.Errorf("filter Tiger (-want +got):\n%s", diff)
	}
}

func testSortedByName(t *testing.T, f Factory) {
	b := open(t, f)
	seed(t, b, named("p1", "Zack", 1), named("p2", "Anna", 2))

	got := namesOf(fetch(t, b, store.Query{Sort: &store.Sort{Field: store.FieldName}}))
	if diff := cmp.Diff([]string{"Anna", "Zack"}, got); diff != "" {
		t.Errorf("sorted (-want +got):\n%s", diff)
	}
	if !slices.IsSorted(got) {
		t.Errorf("names not in non-decreasing order: %v", got)
	}
}

func testSortMatchesApply(t *testing.T, f Factory) {
	b := open(t, f)
	people := []person.Person{
		{ID: "p1", Name: "zoe", Age: 40, Gender: "female", CreatedAt: base.Add(1 * time.Minute)},
		{ID: "p2", Name: "Tiger Woods", Age: 49, Gender: "male", CreatedAt: base.Add(2 * time.Minute)},
		{ID: "p3", Name: "", Age: 7, CreatedAt: base.Add(3 * time.Minute)},
		{ID: "p4", Name: "Anna", Age: 40, Gender: "female", CreatedAt: base.Add(4 * time.Minute)},
		{ID: "p5", Name: "Anna", Age: 3, CreatedAt: base.Add(5 * time.Minute)},
	}
	seed(t, b, people...)

	for _, field := range store.SortFields {
		for _, desc := range []bool{false, true} {
			q := store.Query{Sort: &store.Sort{Field: field, Descending: desc}}
			want := idsOf(store.Apply(people, q))
			got := idsOf(fetch(t, b, q))
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("sort %s desc=%v (-want +got):\n%s", field, desc, diff)
			}
		}
	}

	pr := store.Predicate{Field: store.FieldGender, Contains: "male"}
	q := store.Query{Filter: &pr, Sort: &store.Sort{Field: store.FieldAge, Descending: true}}
	if diff := cmp.Diff(idsOf(store.Apply(people, q)), idsOf(fetch(t, b, q))); diff != "" {
		t.Errorf("gender filter + age sort (-want +got):\n%s", diff)
	}
}

func testRejectsNonCanonical(t *testing.T, f Factory) {
	b := open(t, f)
	seed(t, b, named("p1", "Zack", 1), named("p2", "Anna", 2))

	tests := []struct {
		name string
		q    store.Query
	}{
		{"mixed case sort", store.Query{Sort: &store.Sort{Field: "Name"}}},
		{"upper case sort", store.Query{Sort: &store.Sort{Field: "AGE", Descending: true}}},
		{"unknown sort", store.Query{Sort: &store.Sort{Field: "height"}}},
		{"mixed case filter", store.Query{Filter: &store.Predicate{Field: "Name", Contains: "A"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := b.Fetch(context.Background(), tt.q)
			if !errors.Is(err, store.ErrInvalidQuery) {
				t.Fatalf("fetch = %v, %v; want ErrInvalidQuery", namesOf(got), err)
			}
		})
	}
}

func testIdempotent(t *testing.T, f Factory) {
	b := open(t, f)
	seed(t, b, named("p1", "Anna", 1), named("p2", "Bob", 2), named("p3", "Cid", 3))

	q := store.Query{Sort: &store.Sort{Field: store.FieldName}}
	first := fetch(t, b, q)
	second := fetch(t, b, q)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("fetches differ (-first +second):\n%s", diff)
	}
}

func testPreservesFields(t *testing.T, f Factory) {
	b := open(t, f)
	want := person.Person{
		ID:        "full",
		Name:      "Grace Hopper",
		Age:       85,
		Gender:    "female",
		CreatedAt: base.Add(90 * time.Second),
	}
	seed(t, b, want, person.Person{ID: "bare", CreatedAt: base.Add(time.Hour)})

	got := fetch(t, b, store.Query{})
	if len(got) != 2 {
		t.Fatalf("got %d people, want 2", len(got))
	}
	if diff := cmp.Diff(want, got[0]); diff != "" {
		t.Errorf("round trip (-want +got):\n%s", diff)
	}
	if got[1].Name != "" || got[1].Gender != "" || got[1].Age != 0 {
		t.Errorf("bare record gained values: %+v", got[1])
	}
}

func testReopen(t *testing.T, f Factory) {
	dir := t.TempDir()
	b := f(t, dir)
	seed(t, b, named("p1", "Anna", 1))
	if err := b.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	b2 := f(t, dir)
	got := namesOf(fetch(t, b2, store.Query{}))
	if diff := cmp.Diff([]string{"Anna"}, got); diff != "" {
		t.Errorf("after reopen (-want +got):\n%s", diff)
	}
}
