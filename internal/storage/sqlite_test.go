package storage_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/nikbrunner/linkbox/internal/logger"
	"github.com/nikbrunner/linkbox/internal/model"
	"github.com/nikbrunner/linkbox/internal/storage"
	"gotest.tools/v3/assert"
)

func TestSQLiteBackend_SetAndGet(t *testing.T) {
	s, err := storage.NewSQLiteBackend(filepath.Join(t.TempDir(), "linkbox.db"))
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}
	defer s.Close()

	_, ok, err := s.Get(storage.KeyBookmarks)
	assert.NilError(t, err)
	assert.Assert(t, !ok, "expected absent key in empty database")

	assert.NilError(t, s.Set(storage.KeyBookmarks, `[]`))
	assert.NilError(t, s.Set(storage.KeyBookmarks, `[{"id":"bm_1"}]`))

	got, ok, err := s.Get(storage.KeyBookmarks)
	assert.NilError(t, err)
	assert.Assert(t, ok)
	assert.Equal(t, got, `[{"id":"bm_1"}]`)
}

func TestSQLiteBackend_CreatesDirectory(t *testing.T) {
	s, err := storage.NewSQLiteBackend(filepath.Join(t.TempDir(), "nested", "dir", "linkbox.db"))
	if err != nil {
		t.Fatalf("failed to create storage with nested dir: %v", err)
	}
	defer s.Close()

	assert.NilError(t, s.Set(storage.KeyCategories, `[]`))
}

func TestSQLiteBackend_ReopenKeepsDataAndSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "linkbox.db")

	s, err := storage.NewSQLiteBackend(path)
	assert.NilError(t, err)
	assert.NilError(t, s.Set(storage.KeyCategories, `[{"id":"dev","name":"Dev","order":0}]`))
	assert.NilError(t, s.Close())

	reopened, err := storage.NewSQLiteBackend(path)
	assert.NilError(t, err)
	defer reopened.Close()

	version, err := reopened.SchemaVersion()
	assert.NilError(t, err)
	assert.Equal(t, version, 1)

	got, ok, err := reopened.Get(storage.KeyCategories)
	assert.NilError(t, err)
	assert.Assert(t, ok)
	assert.Equal(t, got, `[{"id":"dev","name":"Dev","order":0}]`)
}

func TestSQLiteBackend_RepositoryRoundTrip(t *testing.T) {
	s, err := storage.NewSQLiteBackend(filepath.Join(t.TempDir(), "linkbox.db"))
	assert.NilError(t, err)
	defer s.Close()

	created := time.Date(2025, 1, 15, 10, 30, 0, 123000000, time.UTC)
	repo := storage.NewRepository(s, logger.NewNop(), storage.WithClock(func() time.Time { return created }))
	repo.EnsureInitialized()

	added := repo.AddBookmark(model.NewBookmarkParams{
		URL:        "https://charm.sh",
		Title:      "Charm",
		CategoryID: "dev",
		Tags:       []string{"tui", "go"},
	})

	loaded := storage.NewRepository(s, logger.NewNop()).Bookmarks()
	assert.Equal(t, len(loaded), 1)
	assert.DeepEqual(t, loaded[0], added)
	assert.Assert(t, loaded[0].CreatedAt.Equal(created))
}
