// Package reading owns the per-book reading state machine:
//
//	Unread -> Reading -> Read (finished)
//	Unread/Reading -> Read        via MarkRead
//	Read -> Unread                via MarkUnread (history kept)
//	Reading -> Unread             via AbandonReading
//
// Every operation loads the state file, applies its change to a copy and
// writes the whole file once.
package reading

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"home-library/internal/catalog"
	"home-library/internal/logging"
	"home-library/internal/model"
	"home-library/internal/storage"
)

const (
	MinRating = 0
	MaxRating = 5
)

var (
	ErrBookNotFound   = catalog.ErrBookNotFound
	ErrNotRead        = errors.New("book is not marked as read")
	ErrAlreadyRead    = errors.New("book is already read")
	ErrAlreadyReading = errors.New("book is already being read")
	ErrNotReading     = errors.New("book is not being read")
	ErrInvalidRating  = errors.New("rating must be between 0 and 5")
)

// BookSource resolves catalog entries. *catalog.Store implements it.
type BookSource interface {
	Get(id int) (model.Book, error)
}

// Clock returns the current time; today's date is taken from it.
type Clock func() time.Time

type Tracker struct {
	file  *storage.StateFile
	books BookSource
	now   Clock
	mu    sync.Mutex
}

func NewTracker(file *storage.StateFile, books BookSource) *Tracker {
	return &Tracker{file: file, books: books, now: time.Now}
}

// WithClock replaces the clock. Used by tests and the CLI's --date flag.
func (t *Tracker) WithClock(c Clock) *Tracker {
	t.now = c
	return t
}

// State returns a fresh copy of the persisted state.
func (t *Tracker) State() (*model.ReadingState, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.load()
}

func (t *Tracker) load() (*model.ReadingState, error) {
	state, err := t.file.LoadState()
	if err != nil {
		return nil, fmt.Errorf("failed to load reading state: %w", err)
	}
	return state, nil
}

// update runs fn against the loaded state and saves it when fn reports a change.
func (t *Tracker) update(fn func(s *model.ReadingState) (bool, error)) (*model.ReadingState, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	state, err := t.load()
	if err != nil {
		return nil, err
	}
	next := state.Clone()
	changed, err := fn(next)
	if err != nil {
		return nil, err
	}
	if !changed {
		return state, nil
	}
	if err := t.file.SaveState(next); err != nil {
		return nil, fmt.Errorf("failed to save reading state: %w", err)
	}
	return next, nil
}

func (t *Tracker) today() string {
	return model.FormatDate(t.now())
}

// MarkRead adds the book to read_books without a rating. A book that was being
// read loses its progress entry; no history is written.
func (t *Tracker) MarkRead(id int) (*model.ReadingState, error) {
	if _, err := t.books.Get(id); err != nil {
		return nil, err
	}
	return t.update(func(s *model.ReadingState) (bool, error) {
		key := model.Key(id)
		_, reading := s.CurrentlyReading[key]
		if s.IsRead(id) && !reading {
			return false, nil
		}
		if !s.IsRead(id) {
			s.ReadBooks = append(s.ReadBooks, id)
		}
		delete(s.CurrentlyReading, key)
		logging.Info().Str("component", "reading").Int("book_id", id).Msg("marked read")
		return true, nil
	})
}

// MarkUnread removes the book from read_books and drops its rating.
// Finished history is left untouched.
func (t *Tracker) MarkUnread(id int) (*model.ReadingState, error) {
	if _, err := t.books.Get(id); err != nil {
		return nil, err
	}
	return t.update(func(s *model.ReadingState) (bool, error) {
		key := model.Key(id)
		_, rated := s.Ratings[key]
		if !s.IsRead(id) && !rated {
			return false, nil
		}
		s.ReadBooks = slices.DeleteFunc(s.ReadBooks, func(v int) bool { return v == id })
		delete(s.Ratings, key)
		logging.Info().Str("component", "reading").Int("book_id", id).Msg("marked unread")
		return true, nil
	})
}

// SetRating stores a rating for a read book. Zero clears it.
func (t *Tracker) SetRating(id, rating int) (*model.ReadingState, error) {
	if rating < MinRating || rating > MaxRating {
		return nil, fmt.Errorf("rating %d: %w", rating, ErrInvalidRating)
	}
	if _, err := t.books.Get(id); err != nil {
		return nil, err
	}
	return t.update(func(s *model.ReadingState) (bool, error) {
		if !s.IsRead(id) {
			return false, fmt.Errorf("book %d: %w", id, ErrNotRead)
		}
		key := model.Key(id)
		if rating == 0 {
			delete(s.Ratings, key)
		} else {
			s.Ratings[key] = rating
		}
		return true, nil
	})
}

// StartReading opens a progress entry at page 0, dated today.
func (t *Tracker) StartReading(id int) (*model.ReadingState, error) {
	if _, err := t.books.Get(id); err != nil {
		return nil, err
	}
	return t.update(func(s *model.ReadingState) (bool, error) {
		key := model.Key(id)
		if s.IsRead(id) {
			return false, fmt.Errorf("book %d: %w", id, ErrAlreadyRead)
		}
		if _, ok := s.CurrentlyReading[key]; ok {
			return false, fmt.Errorf("book %d: %w", id, ErrAlreadyReading)
		}
		s.CurrentlyReading[key] = model.Progress{PagesRead: 0, StartDate: t.today(), Status: model.StatusReading}
		logging.Info().Str("component", "reading").Int("book_id", id).Msg("started reading")
		return true, nil
	})
}

// UpdateProgress stores pages read, clamped to [0, book.Pages].
func (t *Tracker) UpdateProgress(id, pages int) (*model.ReadingState, error) {
	b, err := t.books.Get(id)
	if err != nil {
		return nil, err
	}
	pages = min(max(pages, 0), b.Pages)
	return t.update(func(s *model.ReadingState) (bool, error) {
		key := model.Key(id)
		p, ok := s.CurrentlyReading[key]
		if !ok {
			return false, fmt.Errorf("book %d: %w", id, ErrNotReading)
		}
		p.PagesRead = pages
		s.CurrentlyReading[key] = p
		return true, nil
	})
}

// FinishReading records the finished entry, marks the book read and closes the
// progress entry in a single write.
func (t *Tracker) FinishReading(id int) (*model.ReadingState, error) {
	b, err := t.books.Get(id)
	if err != nil {
		return nil, err
	}
	return t.update(func(s *model.ReadingState) (bool, error) {
		key := model.Key(id)
		p, ok := s.CurrentlyReading[key]
		if !ok {
			return false, fmt.Errorf("book %d: %w", id, ErrNotReading)
		}
		s.FinishedBooks[key] = model.FinishedEntry{StartDate: p.StartDate, FinishDate: t.today(), Pages: b.Pages}
		if !s.IsRead(id) {
			s.ReadBooks = append(s.ReadBooks, id)
		}
		delete(s.CurrentlyReading, key)
		logging.Info().Str("component", "reading").Int("book_id", id).Str("started", p.StartDate).Msg("finished reading")
		return true, nil
	})
}

// AbandonReading drops the progress entry and nothing else.
func (t *Tracker) AbandonReading(id int) (*model.ReadingState, error) {
	return t.update(func(s *model.ReadingState) (bool, error) {
		key := model.Key(id)
		if _, ok := s.CurrentlyReading[key]; !ok {
			return false, fmt.Errorf("book %d: %w", id, ErrNotReading)
		}
		delete(s.CurrentlyReading, key)
		return true, nil
	})
}

// DeleteBook removes every trace of the id. Called after the book is removed
// from the catalog, so the catalog is not consulted.
func (t *Tracker) DeleteBook(id int) error {
	_, err := t.update(func(s *model.ReadingState) (bool, error) {
		key := model.Key(id)
		before := len(s.ReadBooks) + len(s.Ratings) + len(s.CurrentlyReading) + len(s.FinishedBooks)
		s.ReadBooks = slices.DeleteFunc(s.ReadBooks, func(v int) bool { return v == id })
		delete(s.Ratings, key)
		delete(s.CurrentlyReading, key)
		delete(s.FinishedBooks, key)
		after := len(s.ReadBooks) + len(s.Ratings) + len(s.CurrentlyReading) + len(s.FinishedBooks)
		return before != after, nil
	})
	return err
}
