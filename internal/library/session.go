package library

import (
	"fmt"

	"home-library/internal/catalog"
	"home-library/internal/model"
	"home-library/internal/recommend"
	"home-library/internal/stats"
)

// Session is one interaction's view of the library: the catalog and reading
// state are read once when it begins and every query in the interaction
// answers from that snapshot.
type Session struct {
	books []model.Book
	state *model.ReadingState
}

// Begin loads the catalog and the reading state.
func (l *Library) Begin() (*Session, error) {
	books, err := l.Catalog.Books()
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	state, err := l.Tracker.State()
	if err != nil {
		return nil, err
	}
	return &Session{books: books, state: state}, nil
}

func (s *Session) Books() []model.Book        { return s.books }
func (s *Session) State() *model.ReadingState { return s.state }

// Book returns the catalog entry for id joined with its reading status.
func (s *Session) Book(id int) (model.BookResponse, error) {
	b := model.FindBook(s.books, id)
	if b == nil {
		return model.BookResponse{}, fmt.Errorf("book %d: %w", id, catalog.ErrBookNotFound)
	}
	return b.ToResponse(s.state), nil
}

// Browse filters and paginates the catalog.
func (s *Session) Browse(f catalog.Filter, page, perPage int) catalog.Page[model.BookResponse] {
	matched := catalog.Apply(s.books, s.state.ReadSet(), f)
	return catalog.Paginate(s.responses(matched), page, perPage)
}

// Recommendations ranks unread books by genre affinity and paginates them.
func (s *Session) Recommendations(limit, page, perPage int) catalog.Page[model.BookResponse] {
	ranked := recommend.Recommend(s.books, s.state, limit)
	return catalog.Paginate(s.responses(ranked), page, perPage)
}

// Affinity is the user's genre preference ranking.
func (s *Session) Affinity() []recommend.GenreScore {
	return recommend.Affinity(s.books, s.state)
}

func (s *Session) Stats() stats.Summary {
	return stats.Compute(s.books, s.state)
}

// InProgress lists the books currently being read, in catalog order.
func (s *Session) InProgress() []ProgressView {
	out := []ProgressView{}
	for _, b := range s.books {
		p, ok := s.state.CurrentlyReading[model.Key(b.ID)]
		if !ok {
			continue
		}
		percent := 0.0
		if b.Pages > 0 {
			percent = float64(p.PagesRead) / float64(b.Pages) * 100
		}
		out = append(out, ProgressView{
			Book:      b.ToResponse(s.state),
			PagesRead: p.PagesRead,
			StartDate: p.StartDate,
			Percent:   percent,
		})
	}
	return out
}

// ProgressView is an in-progress book with its progress.
type ProgressView struct {
	Book      model.BookResponse `json:"book"`
	PagesRead int                `json:"pages_read"`
	StartDate string             `json:"start_date"`
	Percent   float64            `json:"percent"`
}

func (s *Session) responses(books []model.Book) []model.BookResponse {
	out := make([]model.BookResponse, len(books))
	for i := range books {
		out[i] = books[i].ToResponse(s.state)
	}
	return out
}
