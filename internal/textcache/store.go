// Package textcache stores reconciled page text keyed by document hash and
// page index so re-runs over the same inputs skip extraction.
package textcache

import (
	"context"
	"fmt"

	"github.com/a3tai/taxdoc-binder/internal/model"
)

// Store kinds accepted by Open
const (
	KindNone   = "none"
	KindMemory = "memory"
	KindSQLite = "sqlite"
)

// Key identifies one page of one document by content
type Key struct {
	Hash string
	Page int
}

func (k Key) String() string {
	return fmt.Sprintf("%s:%d", k.Hash, k.Page)
}

// Entry is a cached reconciliation outcome
type Entry struct {
	Text     string          `json:"text"`
	Source   string          `json:"source"`
	Variants []model.Variant `json:"variants"`
}

// Store is a page text cache
type Store interface {
	Get(ctx context.Context, key Key) (Entry, bool, error)
	Put(ctx context.Context, key Key, entry Entry) error
	Close() error
}

// Open creates the store selected by kind. KindNone returns a nil Store.
func Open(kind, path string, size int) (Store, error) {
	switch kind {
	case "", KindNone:
		return nil, nil
	case KindMemory:
		return NewMemory(size), nil
	case KindSQLite:
		return NewSQLite(path)
	default:
		return nil, fmt.Errorf("unknown cache kind %q", kind)
	}
}
