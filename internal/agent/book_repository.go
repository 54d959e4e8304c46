package agent

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"home-library/internal/logging"
	"home-library/internal/model"
)

// LibrarySource is the live catalog and reading state.
type LibrarySource interface {
	Books() ([]model.Book, error)
	State() (*model.ReadingState, error)
}

// LibraryRepository reads through to the library on every call, so tools and
// validators always see the catalog as it is now.
type LibraryRepository struct {
	source LibrarySource
}

// NewLibraryRepository creates a new LibraryRepository
func NewLibraryRepository(source LibrarySource) *LibraryRepository {
	return &LibraryRepository{source: source}
}

func (r *LibraryRepository) books() []model.Book {
	books, err := r.source.Books()
	if err != nil {
		logging.Warn().Err(err).Str("component", "agent").Msg("catalog unavailable to chat tools")
		return nil
	}
	return books
}

// GetByID finds a book by its ID
func (r *LibraryRepository) GetByID(id int) *model.Book {
	books := r.books()
	return model.FindBook(books, id)
}

// GetAll returns all books
func (r *LibraryRepository) GetAll() []model.Book {
	return r.books()
}

// Search finds books matching the query in title, author or genre
func (r *LibraryRepository) Search(query string) []model.Book {
	lowerQuery := strings.ToLower(norm.NFC.String(strings.TrimSpace(query)))
	var results []model.Book
	for _, book := range r.books() {
		if strings.Contains(strings.ToLower(book.Title), lowerQuery) ||
			strings.Contains(strings.ToLower(book.Author), lowerQuery) ||
			strings.Contains(strings.ToLower(book.Genre), lowerQuery) {
			results = append(results, book)
		}
	}
	return results
}

// State returns the reading state, or an empty one when it cannot be read.
func (r *LibraryRepository) State() *model.ReadingState {
	state, err := r.source.State()
	if err != nil {
		logging.Warn().Err(err).Str("component", "agent").Msg("reading state unavailable to chat tools")
		return model.NewReadingState()
	}
	return state
}
