package local

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/cockroachdb/pebble"
)

// PebbleStore хранит данные на диске в PebbleDB
// каждая запись сразу синхронизируется на диск
type PebbleStore struct {
	db *pebble.DB
}

// NewPebbleStore открывает (или создаёт) базу в каталоге dir
func NewPebbleStore(dir string) (*PebbleStore, error) {
	const op = "repository.local.NewPebbleStore"

	db, err := pebble.Open(filepath.Clean(dir), &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("%s: failed to open pebble: %w", op, err)
	}
	return &PebbleStore{db: db}, nil
}

func (p *PebbleStore) Get(_ context.Context, key string) ([]byte, error) {
	const op = "repository.local.PebbleStore.Get"

	v, closer, err := p.db.Get([]byte(key))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer closer.Close()

	// значение валидно только до closer.Close, поэтому копируем
	return append([]byte(nil), v...), nil
}

func (p *PebbleStore) Set(_ context.Context, key string, value []byte) error {
	const op = "repository.local.PebbleStore.Set"

	if err := p.db.Set([]byte(key), value, pebble.Sync); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (p *PebbleStore) Delete(_ context.Context, key string) error {
	const op = "repository.local.PebbleStore.Delete"

	if err := p.db.Delete([]byte(key), pebble.Sync); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Close закрывает базу
func (p *PebbleStore) Close() error { return p.db.Close() }
