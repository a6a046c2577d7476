package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/zarlcorp/zpeople/internal/person"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// sliceBackend keeps people in a slice and answers queries with Apply.
type sliceBackend struct {
	people   []person.Person
	fetchErr error
	writeErr error
	closed   bool
}

func (b *sliceBackend) Fetch(_ context.Context, q Query) ([]person.Person, error) {
	if b.fetchErr != nil {
		return nil, b.fetchErr
	}
	return Apply(b.people, q), nil
}

func (b *sliceBackend) Insert(_ context.Context, p person.Person) error {
	if b.writeErr != nil {
		return b.writeErr
	}
	b.people = append(b.people, p)
	return nil
}

func (b *sliceBackend) Delete(_ context.Context, id string) error {
	if b.writeErr != nil {
		return b.writeErr
	}
	for i, p := range b.people {
		if p.ID == id {
			b.people = append(b.people[:i], b.people[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (b *sliceBackend) Close() error {
	b.closed = true
	return nil
}

func newTestStore(t *testing.T) (*Store, *sliceBackend) {
	t.Helper()
	b := &sliceBackend{}
	s := New(b)

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	n := 0
	s.now = func() time.Time {
		n++
		return base.Add(time.Duration(n) * time.Minute)
	}
	ids := 0
	s.newID = func() string {
		ids++
		return string(rune('a'+ids-1)) + "-id"
	}
	return s, b
}

func names(people []person.Person) []string {
	out := make([]string, len(people))
	for i, p := range people {
		out[i] = p.Name
	}
	return out
}

func TestInsertAssignsIdentity(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	p, err := s.Insert(ctx, "Anna", 31, "female")
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	if p.ID != "a-id" {
		t.Errorf("ID = %q, want a-id", p.ID)
	}
	if p.CreatedAt.IsZero() {
		t.Error("CreatedAt not set")
	}
	if p.Name != "Anna" || p.Age != 31 || p.Gender != "female" {
		t.Errorf("fields = %+v", p)
	}
}

func TestDefaultIDsAreUnique(t *testing.T) {
	s := New(&sliceBackend{})
	ctx := context.Background()

	a, err := s.Insert(ctx, "Anna", 0, "")
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	b, err := s.Insert(ctx, "Anna", 0, "")
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if a.ID == b.ID {
		t.Fatalf("duplicate ID %q", a.ID)
	}
}

func TestSortedScenario(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	for _, n := range []string{"Zack", "Anna"} {
		if _, err := s.Insert(ctx, n, 0, ""); err != nil {
			t.Fatalf("insert %s: %v", n, err)
		}
	}

	got, err := s.FetchSorted(ctx, Sort{Field: FieldName})
	if err != nil {
		t.Fatalf("fetch sorted: %v", err)
	}
	if diff := cmp.Diff([]string{"Anna", "Zack"}, names(got)); diff != "" {
		t.Errorf("sorted names (-want +got):\n%s", diff)
	}
}

func TestFilteredScenario(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	for _, n := range []string{"Tiger Woods", "Bob"} {
		if _, err := s.Insert(ctx, n, 0, ""); err != nil {
			t.Fatalf("insert %s: %v", n, err)
		}
	}

	got, err := s.FetchFiltered(ctx, NameContains("Tiger"))
	if err != nil {
		t.Fatalf("fetch filtered: %v", err)
	}
	if diff := cmp.Diff([]string{"Tiger Woods"}, names(got)); diff != "" {
		t.Errorf("filtered names (-want +got):\n%s", diff)
	}
}

func TestFetchErrorIsReadError(t *testing.T) {
	s, b := newTestStore(t)
	disk := errors.New("disk on fire")
	b.fetchErr = disk

	_, err := s.FetchAll(context.Background())
	if !errors.Is(err, ErrRead) {
		t.Fatalf("err = %v, want ErrRead", err)
	}
	if !errors.Is(err, disk) {
		t.Fatalf("err = %v, want wrapped cause", err)
	}
}

func TestWriteErrorsAreWriteErrors(t *testing.T) {
	s, b := newTestStore(t)
	b.writeErr = errors.New("read-only filesystem")
	ctx := context.Background()

	if _, err := s.Insert(ctx, "Anna", 0, ""); !errors.Is(err, ErrWrite) {
		t.Errorf("insert err = %v, want ErrWrite", err)
	}
	if err := s.Delete(ctx, "x"); !errors.Is(err, ErrWrite) {
		t.Errorf("delete err = %v, want ErrWrite", err)
	}
}

func TestDeleteMissingIsNotFound(t *testing.T) {
	s, _ := newTestStore(t)

	err := s.Delete(context.Background(), "nope")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if !errors.Is(err, ErrWrite) {
		t.Fatalf("err = %v, want ErrWrite", err)
	}
}

func TestInvalidQueryRejected(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	tests := []struct {
		name string
		q    Query
	}{
		{"filter on age", Query{Filter: &Predicate{Field: FieldAge, Contains: "3"}}},
		{"unknown sort", Query{Sort: &Sort{Field: "height"}}},
		{"mixed case sort", Query{Sort: &Sort{Field: "Name"}}},
		{"upper case sort", Query{Sort: &Sort{Field: "AGE"}}},
		{"mixed case filter", Query{Filter: &Predicate{Field: "Name", Contains: "A"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Fetch(ctx, tt.q)
			if !errors.Is(err, ErrInvalidQuery) {
				t.Fatalf("err = %v, want ErrInvalidQuery", err)
			}
			if errors.Is(err, ErrRead) {
				t.Errorf("err = %v, a rejected query is not a read failure", err)
			}
		})
	}
}

func TestCloseClosesBackend(t *testing.T) {
	s, b := newTestStore(t)
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if !b.closed {
		t.Fatal("backend not closed")
	}
}
