package storage

import (
	"encoding/json"
	"time"

	"github.com/nikbrunner/linkbox/internal/logger"
)

// Keys of the two persisted collections.
const (
	KeyCategories = "bookmark_categories"
	KeyBookmarks  = "bookmark_links"
)

// Repository is the only reader and writer of the persisted collections.
//
// Every operation reads the whole collection, transforms it in memory and writes
// it back. Failures never reach the caller: unreadable data is logged and treated
// as an empty collection, failed writes are logged and dropped.
type Repository struct {
	backend Backend
	log     logger.Logger
	now     func() time.Time
}

// Option configures a Repository.
type Option func(*Repository)

// WithClock overrides the clock used for bookmark creation times.
func WithClock(now func() time.Time) Option {
	return func(r *Repository) {
		r.now = now
	}
}

// NewRepository creates a Repository persisting into backend.
func NewRepository(backend Backend, log logger.Logger, opts ...Option) *Repository {
	r := &Repository{
		backend: backend,
		log:     log.With(logger.String("component", "storage")),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// EnsureInitialized seeds the default categories and an empty bookmark list
// when either collection has never been written.
func (r *Repository) EnsureInitialized() {
	if _, ok := readCollection[struct{}](r, KeyCategories); !ok {
		r.seedCategories()
	}
	if _, ok := readCollection[struct{}](r, KeyBookmarks); !ok {
		r.seedBookmarks()
	}
}

// readCollection decodes the JSON array stored under key. ok is false only when
// the key is absent; read and decode failures yield an empty collection.
func readCollection[T any](r *Repository, key string) (items []T, ok bool) {
	raw, ok, err := r.backend.Get(key)
	if err != nil {
		r.log.Error("failed to read collection", logger.String("key", key), logger.Error(err))
		return []T{}, true
	}
	if !ok {
		return nil, false
	}

	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		r.log.Error("failed to parse collection", logger.String("key", key), logger.Error(err))
		return []T{}, true
	}
	if items == nil {
		items = []T{}
	}
	return items, true
}

// writeCollection replaces the collection stored under key.
func writeCollection[T any](r *Repository, key string, items []T) {
	if items == nil {
		items = []T{}
	}

	data, err := json.Marshal(items)
	if err != nil {
		r.log.Error("failed to encode collection", logger.String("key", key), logger.Error(err))
		return
	}

	if err := r.backend.Set(key, string(data)); err != nil {
		r.log.Error("failed to save collection", logger.String("key", key), logger.Error(err))
	}
}
