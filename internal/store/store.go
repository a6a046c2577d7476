// Package store provides the Person record store. A Store delegates
// persistence to a Backend and classifies every failure as a read or write
// error so callers can report it.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/zarlcorp/zpeople/internal/person"
)

var (
	// ErrNotFound is returned when a person does not exist.
	ErrNotFound = errors.New("person not found")

	// ErrRead marks failures reading from the underlying storage.
	ErrRead = errors.New("storage read")

	// ErrWrite marks failures writing to the underlying storage.
	ErrWrite = errors.New("storage write")

	// ErrInvalidQuery is returned for filters or sorts on unknown fields.
	ErrInvalidQuery = errors.New("invalid query")
)

// Backend persists people. Fetch must apply q with the ordering rules of
// Apply. Insert and Delete must be durable when they return.
type Backend interface {
	Fetch(ctx context.Context, q Query) ([]person.Person, error)
	Insert(ctx context.Context, p person.Person) error
	Delete(ctx context.Context, id string) error
	Close() error
}

// Store is the record store used by the TUI and CLI.
type Store struct {
	backend Backend
	now     func() time.Time
	newID   func() string
}

// New returns a Store over the given backend.
func New(b Backend) *Store {
	return &Store{
		backend: b,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// FetchAll returns every stored person in insertion order.
func (s *Store) FetchAll(ctx context.Context) ([]person.Person, error) {
	return s.fetch(ctx, "fetch all", Query{})
}

// FetchFiltered returns the people matching pr.
func (s *Store) FetchFiltered(ctx context.Context, pr Predicate) ([]person.Person, error) {
	return s.fetch(ctx, "fetch filtered", Query{Filter: &pr})
}

// FetchSorted returns every person ordered by srt.
func (s *Store) FetchSorted(ctx context.Context, srt Sort) ([]person.Person, error) {
	return s.fetch(ctx, "fetch sorted", Query{Sort: &srt})
}

// Fetch runs an arbitrary query.
func (s *Store) Fetch(ctx context.Context, q Query) ([]person.Person, error) {
	return s.fetch(ctx, "fetch", q)
}

func (s *Store) fetch(ctx context.Context, op string, q Query) ([]person.Person, error) {
	if err := q.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	people, err := s.backend.Fetch(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, ErrRead, err)
	}
	return people, nil
}

// Insert creates and persists a new person. Name and gender may be empty.
func (s *Store) Insert(ctx context.Context, name string, age int64, gender string) (person.Person, error) {
	p := person.Person{
		ID:        s.newID(),
		Name:      name,
		Age:       age,
		Gender:    gender,
		CreatedAt: s.now().UTC(),
	}

	if err := s.backend.Insert(ctx, p); err != nil {
		return person.Person{}, fmt.Errorf("insert: %w: %w", ErrWrite, err)
	}
	return p, nil
}

// Delete removes a person by ID.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.backend.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete %s: %w: %w", id, ErrWrite, err)
	}
	return nil
}

// Close releases the backend.
func (s *Store) Close() error {
	return s.backend.Close()
}
