package state

import (
	"slices"
	"strings"
	"sync"

	"github.com/nikbrunner/linkbox/internal/logger"
	"github.com/nikbrunner/linkbox/internal/model"
	"github.com/nikbrunner/linkbox/internal/storage"
)

// Snapshot is a copy of the cached state handed to listeners.
type Snapshot struct {
	Categories         []model.Category
	Bookmarks          []model.Bookmark
	SelectedCategoryID string
}

// Listener is notified after every change to the cache.
type Listener func(Snapshot)

// Store caches categories, bookmarks and the selected category for one
// running application. Every mutation goes to the repository first and is
// then mirrored into the cache, so the persisted data stays the source of truth.
type Store struct {
	repo *storage.Repository
	log  logger.Logger

	mu         sync.Mutex
	categories []model.Category
	bookmarks  []model.Bookmark
	selectedID string

	listeners map[int]Listener
	nextID    int
}

// New creates a Store backed by repo. Call Init before use.
func New(repo *storage.Repository, log logger.Logger) *Store {
	return &Store{
		repo:       repo,
		log:        log.With(logger.String("component", "state")),
		categories: []model.Category{},
		bookmarks:  []model.Bookmark{},
		selectedID: model.CategoryAll,
		listeners:  make(map[int]Listener),
	}
}

// Init seeds the persisted collections if needed and loads both caches.
func (s *Store) Init() {
	s.repo.EnsureInitialized()
	s.LoadCategories()
	s.LoadBookmarks()
	s.log.Debug("state initialized")
}

// LoadCategories replaces the cached categories with the persisted ones.
func (s *Store) LoadCategories() {
	categories := s.repo.Categories()
	s.update(func() {
		s.categories = categories
	})
}

// LoadBookmarks replaces the cached bookmarks with the persisted ones.
func (s *Store) LoadBookmarks() {
	bookmarks := s.repo.Bookmarks()
	s.update(func() {
		s.bookmarks = bookmarks
	})
}

// Subscribe registers fn to run after every change. The returned func removes it.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// update applies fn under the lock, then notifies listeners outside of it.
func (s *Store) update(fn func()) {
	s.mu.Lock()
	fn()
	snap := s.snapshotLocked()
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.Unlock()

	for _, l := range listeners {
		l(snap)
	}
}

func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{
		Categories:         slices.Clone(s.categories),
		Bookmarks:          slices.Clone(s.bookmarks),
		SelectedCategoryID: s.selectedID,
	}
}

// Snapshot returns a copy of the cached state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Categories returns a copy of the cached categories.
func (s *Store) Categories() []model.Category {
	return s.Snapshot().Categories
}

// Bookmarks returns a copy of the cached bookmarks.
func (s *Store) Bookmarks() []model.Bookmark {
	return s.Snapshot().Bookmarks
}

// SelectedCategoryID returns the id of the selected category.
func (s *Store) SelectedCategoryID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedID
}

// === Categories ===

// AddCategory creates a category. A blank name becomes model.UntitledName.
func (s *Store) AddCategory(params model.NewCategoryParams) model.Category {
	if strings.TrimSpace(params.Name) == "" {
		params.Name = model.UntitledName
	}

	category := s.repo.AddCategory(params)
	s.update(func() {
		s.categories = append(s.categories, category)
	})
	return category
}

// UpdateCategory merges update into the category with the given id.
func (s *Store) UpdateCategory(id string, update model.CategoryUpdate) {
	if model.IsVirtualCategory(id) {
		return
	}

	s.repo.UpdateCategory(id, update)
	s.update(func() {
		for i := range s.categories {
			if s.categories[i].ID == id {
				s.categories[i] = update.Apply(s.categories[i])
			}
		}
	})
}

// DeleteCategory removes the category and reloads bookmarks, since the
// repository moved the orphaned ones to model.Uncategorized.
// Deleting the selected category selects "all".
func (s *Store) DeleteCategory(id string) {
	if model.IsVirtualCategory(id) {
		return
	}

	s.repo.DeleteCategory(id)
	s.update(func() {
		remaining := make([]model.Category, 0, len(s.categories))
		for _, c := range s.categories {
			if c.ID != id {
				c.Order = len(remaining)
				remaining = append(remaining, c)
			}
		}
		s.categories = remaining
		if s.selectedID == id {
			s.selectedID = model.CategoryAll
		}
	})
	s.LoadBookmarks()
}

// SearchCategories delegates to the repository.
func (s *Store) SearchCategories(query string) []model.Category {
	return s.repo.SearchCategories(query)
}

// === Bookmarks ===

// AddBookmark creates a bookmark and returns it with its assigned id, order and time.
func (s *Store) AddBookmark(params model.NewBookmarkParams) model.Bookmark {
	bookmark := s.repo.AddBookmark(params)
	s.update(func() {
		s.bookmarks = append(s.bookmarks, bookmark)
	})
	return bookmark
}

// UpdateBookmark merges update into the bookmark with the given id.
func (s *Store) UpdateBookmark(id string, update model.BookmarkUpdate) {
	s.repo.UpdateBookmark(id, update)
	s.update(func() {
		for i := range s.bookmarks {
			if s.bookmarks[i].ID == id {
				s.bookmarks[i] = update.Apply(s.bookmarks[i])
			}
		}
	})
}

// DeleteBookmark removes the bookmark with the given id.
func (s *Store) DeleteBookmark(id string) {
	s.repo.DeleteBookmark(id)
	s.update(func() {
		s.bookmarks = slices.DeleteFunc(s.bookmarks, func(b model.Bookmark) bool {
			return b.ID == id
		})
	})
}

// ToggleFavorite flips the favorite flag of the bookmark with the given id.
func (s *Store) ToggleFavorite(id string) {
	s.repo.ToggleFavorite(id)
	s.update(func() {
		for i := range s.bookmarks {
			if s.bookmarks[i].ID == id {
				s.bookmarks[i].IsFavorite = !s.bookmarks[i].IsFavorite
			}
		}
	})
}

// SearchBookmarks delegates to the repository.
func (s *Store) SearchBookmarks(query string) []model.Bookmark {
	return s.repo.SearchBookmarks(query)
}

// === Selection ===

// SelectCategory selects id without checking that it exists;
// an unknown id simply filters to nothing.
func (s *Store) SelectCategory(id string) {
	s.update(func() {
		s.selectedID = id
	})
}

// SelectedCategory returns the selected category, synthesizing the virtual
// "all" and "favorites" records. ok is false for an unknown id.
func (s *Store) SelectedCategory() (model.Category, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := model.VirtualCategory(s.selectedID); ok {
		return c, true
	}
	for _, c := range s.categories {
		if c.ID == s.selectedID {
			return c, true
		}
	}
	return model.Category{}, false
}

// FilteredBookmarks returns the bookmarks for the selected category, read
// from the repository rather than the cache.
func (s *Store) FilteredBookmarks() []model.Bookmark {
	return s.repo.BookmarksByCategory(s.SelectedCategoryID())
}

// Counts returns the number of cached bookmarks per category id, including
// the "all" and "favorites" views.
func (s *Store) Counts() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()

	counts := map[string]int{
		model.CategoryAll:       len(s.bookmarks),
		model.CategoryFavorites: 0,
	}
	for _, b := range s.bookmarks {
		counts[b.CategoryID]++
		if b.IsFavorite {
			counts[model.CategoryFavorites]++
		}
	}
	return counts
}
