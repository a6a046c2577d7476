// Package vault provides a password-encrypted store.Backend. People are kept
// in a zstore collection, one encrypted file per record.
package vault

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/zarlcorp/core/pkg/zcrypto"
	"github.com/zarlcorp/core/pkg/zfilesystem"
	"github.com/zarlcorp/core/pkg/zstore"
	"github.com/zarlcorp/zpeople/internal/person"
	"github.com/zarlcorp/zpeople/internal/store"
)

const (
	collection = "people"
	saltFile   = "salt"
)

var _ store.Backend = (*Backend)(nil)

// Backend stores people in an encrypted zstore collection.
type Backend struct {
	zs     *zstore.Store
	people *zstore.Collection[person.Person]
}

// Open opens or initializes the vault in dir. The first open sets the
// password; later opens fail with zstore.ErrWrongPassword on mismatch.
// password is erased before Open returns.
func Open(dir string, password []byte) (*Backend, error) {
	defer zcrypto.Erase(password)

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("open vault: create dir: %w", err)
	}

	zs, err := zstore.Open(zfilesystem.NewOSFileSystem(dir), password)
	if err != nil {
		return nil, fmt.Errorf("open vault: %w", err)
	}

	col, err := zstore.NewCollection[person.Person](zs, collection)
	if err != nil {
		zs.Close()
		return nil, fmt.Errorf("open vault: collection: %w", err)
	}

	return &Backend{zs: zs, people: col}, nil
}

// Initialized reports whether a vault already exists in dir.
func Initialized(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, saltFile))
	return err == nil
}

// Fetch decrypts every record and applies q in memory.
func (b *Backend) Fetch(_ context.Context, q store.Query) ([]person.Person, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	all, err := b.people.List()
	if err != nil {
		return nil, fmt.Errorf("list people: %w", err)
	}
	return store.Apply(all, q), nil
}

// Insert encrypts and writes one record.
func (b *Backend) Insert(_ context.Context, p person.Person) error {
	if err := b.people.Put(p.ID, p); err != nil {
		return fmt.Errorf("put person %s: %w", p.ID, err)
	}
	return nil
}

// Delete removes one record.
func (b *Backend) Delete(_ context.Context, id string) error {
	err := b.people.Delete(id)
	switch {
	case errors.Is(err, zstore.ErrNotFound):
		return fmt.Errorf("%w: %s", store.ErrNotFound, id)
	case err != nil:
		return fmt.Errorf("delete person %s: %w", id, err)
	}
	return nil
}

// Close erases the vault key. Calling Close twice is safe.
func (b *Backend) Close() error {
	if b.zs == nil {
		return nil
	}
	err := b.zs.Close()
	b.zs = nil
	b.people = nil
	return err
}
