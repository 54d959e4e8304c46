// Package catalog holds the ordered book catalog. Reads are served from an
// in-memory snapshot; every successful write persists the whole catalog and
// then swaps in a new snapshot with a higher version.
package catalog

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"home-library/internal/logging"
	"home-library/internal/model"
	"home-library/internal/storage"
	"home-library/internal/validation"
)

var ErrBookNotFound = errors.New("book not found")

type snapshot struct {
	version uint64
	books   []model.Book
}

type Store struct {
	file *storage.BookFile
	now  func() time.Time

	mu   sync.RWMutex
	snap *snapshot
}

func NewStore(file *storage.BookFile) *Store {
	return &Store{file: file, now: time.Now}
}

// load returns the current snapshot, reading the file on first use.
// Callers must not modify the returned slice.
func (s *Store) load() (*snapshot, error) {
	s.mu.RLock()
	snap := s.snap
	s.mu.RUnlock()
	if snap != nil {
		return snap, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snap != nil {
		return s.snap, nil
	}
	books, err := s.file.LoadBooks()
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	s.snap = &snapshot{version: 1, books: books}
	logging.Debug().Str("component", "catalog").Int("books", len(books)).Msg("catalog loaded")
	return s.snap, nil
}

// Books returns a copy of the catalog in catalog order.
func (s *Store) Books() ([]model.Book, error) {
	snap, err := s.load()
	if err != nil {
		return nil, err
	}
	return slices.Clone(snap.books), nil
}

// Version identifies the snapshot Books was served from.
func (s *Store) Version() (uint64, error) {
	snap, err := s.load()
	if err != nil {
		return 0, err
	}
	return snap.version, nil
}

func (s *Store) Get(id int) (model.Book, error) {
	snap, err := s.load()
	if err != nil {
		return model.Book{}, err
	}
	if b := model.FindBook(snap.books, id); b != nil {
		return *b, nil
	}
	return model.Book{}, fmt.Errorf("book %d: %w", id, ErrBookNotFound)
}

// mutate applies fn to a copy of the catalog, persists it, and publishes the
// copy as the next snapshot. The old snapshot stays current if anything fails.
func (s *Store) mutate(fn func(books []model.Book) ([]model.Book, error)) error {
	if _, err := s.load(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	cur := s.snap
	next, err := fn(slices.Clone(cur.books))
	if err != nil {
		return err
	}
	if err := s.file.SaveBooks(next); err != nil {
		return fmt.Errorf("failed to save catalog: %w", err)
	}
	s.snap = &snapshot{version: cur.version + 1, books: next}
	return nil
}

// Add assigns the next id (max existing + 1), fills the placeholder cover and
// appends the book.
func (s *Store) Add(b model.Book) (model.Book, error) {
	b = trimBook(b)
	if b.Cover == "" {
		b.Cover = model.PlaceholderCover
	}
	if err := s.validate(b); err != nil {
		return model.Book{}, err
	}
	err := s.mutate(func(books []model.Book) ([]model.Book, error) {
		b.ID = nextID(books)
		return append(books, b), nil
	})
	if err != nil {
		return model.Book{}, err
	}
	logging.Info().Str("component", "catalog").Int("book_id", b.ID).Str("title", b.Title).Msg("book added")
	return b, nil
}

// Update overwrites only the non-empty (or positive) fields of patch.
func (s *Store) Update(id int, patch model.BookPatch) (model.Book, error) {
	var updated model.Book
	err := s.mutate(func(books []model.Book) ([]model.Book, error) {
		b := model.FindBook(books, id)
		if b == nil {
			return nil, fmt.Errorf("book %d: %w", id, ErrBookNotFound)
		}
		candidate := applyPatch(*b, patch)
		if err := s.validate(candidate); err != nil {
			return nil, err
		}
		*b = candidate
		updated = candidate
		return books, nil
	})
	if err != nil {
		return model.Book{}, err
	}
	logging.Info().Str("component", "catalog").Int("book_id", id).Msg("book updated")
	return updated, nil
}

// Delete removes the book. Reading-state cleanup is the caller's job.
func (s *Store) Delete(id int) error {
	err := s.mutate(func(books []model.Book) ([]model.Book, error) {
		i := slices.IndexFunc(books, func(b model.Book) bool { return b.ID == id })
		if i < 0 {
			return nil, fmt.Errorf("book %d: %w", id, ErrBookNotFound)
		}
		return slices.Delete(books, i, i+1), nil
	})
	if err != nil {
		return err
	}
	logging.Info().Str("component", "catalog").Int("book_id", id).Msg("book deleted")
	return nil
}

func (s *Store) validate(b model.Book) error {
	if err := validation.Struct(b); err != nil {
		return err
	}
	if maxYear := s.now().Year() + 1; b.Year > maxYear {
		return &validation.Error{Fields: []validation.FieldError{{Field: "year", Tag: "max", Param: fmt.Sprint(maxYear)}}}
	}
	return nil
}

func nextID(books []model.Book) int {
	maxID := 0
	for _, b := range books {
		maxID = max(maxID, b.ID)
	}
	return maxID + 1
}

func trimBook(b model.Book) model.Book {
	b.Title = strings.TrimSpace(b.Title)
	b.Author = strings.TrimSpace(b.Author)
	b.Genre = strings.TrimSpace(b.Genre)
	b.Description = strings.TrimSpace(b.Description)
	b.Cover = strings.TrimSpace(b.Cover)
	return b
}

func applyPatch(b model.Book, p model.BookPatch) model.Book {
	if v := strings.TrimSpace(p.Title); v != "" {
		b.Title = v
	}
	if v := strings.TrimSpace(p.Author); v != "" {
		b.Author = v
	}
	if v := strings.TrimSpace(p.Genre); v != "" {
		b.Genre = v
	}
	if v := strings.TrimSpace(p.Description); v != "" {
		b.Description = v
	}
	if v := strings.TrimSpace(p.Cover); v != "" {
		b.Cover = v
	}
	if p.Year > 0 {
		b.Year = p.Year
	}
	if p.Pages > 0 {
		b.Pages = p.Pages
	}
	return b
}

// Genres returns the distinct genres, sorted.
func (s *Store) Genres() ([]string, error) {
	return s.distinct(func(b model.Book) string { return b.Genre })
}

// Authors returns the distinct authors, sorted.
func (s *Store) Authors() ([]string, error) {
	return s.distinct(func(b model.Book) string { return b.Author })
}

func (s *Store) distinct(field func(model.Book) string) ([]string, error) {
	snap, err := s.load()
	if err != nil {
		return nil, err
	}
	seen := map[string]bool{}
	out := []string{}
	for _, b := range snap.books {
		v := field(b)
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	slices.Sort(out)
	return out, nil
}
