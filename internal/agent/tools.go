package agent

import (
	"fmt"

	"google.golang.org/adk/tool"
	"google.golang.org/adk/tool/functiontool"

	"home-library/internal/agent/deps"
	"home-library/internal/agent/prompt"
	"home-library/internal/agent/sanitize"
	"home-library/internal/logging"
	"home-library/internal/model"
	"home-library/internal/recommend"
	"home-library/internal/stats"
)

// maxSearchResults bounds search_books output so tool responses stay small.
const maxSearchResults = 20

// ============================================
// Tool Input/Output Types
// ============================================

// search_books tool
type searchBooksInput struct {
	Query string `json:"query" jsonschema:"Keyword matched against title, author and genre"`
}

type bookSummary struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Author      string `json:"author"`
	Genre       string `json:"genre"`
	Year        int    `json:"year"`
	Link        string `json:"link"` // [book::title::id] format for the model to copy
	Read        bool   `json:"read"`
	Rating      int    `json:"rating,omitempty"`
	Description string `json:"description_excerpt"`
}

type searchBooksOutput struct {
	Books []bookSummary `json:"books"`
	Count int           `json:"count"`
}

// get_book_details tool
type getBookDetailsInput struct {
	BookID int `json:"book_id" jsonschema:"Numeric catalog id, for example 12"`
}

type getBookDetailsOutput struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Author      string `json:"author"`
	Genre       string `json:"genre"`
	Year        int    `json:"year"`
	Pages       int    `json:"pages"`
	Link        string `json:"link"`
	Read        bool   `json:"read"`
	Rating      int    `json:"rating,omitempty"`
	Reading     bool   `json:"currently_reading"`
	Description string `json:"description"`
	Error       string `json:"error,omitempty"`
}

// get_reading_stats tool (no input needed)
type getReadingStatsOutput struct {
	TotalBooks       int                    `json:"total_books"`
	ReadCount        int                    `json:"read_count"`
	AverageRating    float64                `json:"average_rating"`
	TopGenres        []stats.Count          `json:"top_genres"`
	TopAuthors       []stats.Count          `json:"top_authors"`
	BestRated        []stats.RatedBook      `json:"best_rated"`
	CurrentlyReading int                    `json:"currently_reading"`
	FavoriteGenres   []recommend.GenreScore `json:"favorite_genres"`
}

// ============================================
// LibraryTools - chat tools over the live catalog
// ============================================

type LibraryTools struct {
	repo deps.BookRepository
}

func NewLibraryTools(repo deps.BookRepository) *LibraryTools {
	return &LibraryTools{repo: repo}
}

func bookLink(b *model.Book) string {
	return fmt.Sprintf("[book::%s::%d]", b.Title, b.ID)
}

func descriptionExcerpt(desc string, n int) string {
	return "<book_description>" + sanitize.Text(prompt.Excerpt(desc, n)) + "</book_description>"
}

// ============================================
// Tool Handlers
// ============================================

func (t *LibraryTools) searchBooks(_ tool.Context, input searchBooksInput) (searchBooksOutput, error) {
	log := logging.Component("agent.tools")
	state := t.repo.State()
	results := []bookSummary{}

	for _, book := range t.repo.Search(input.Query) {
		if len(results) >= maxSearchResults {
			break
		}
		results = append(results, bookSummary{
			ID:          book.ID,
			Title:       book.Title,
			Author:      book.Author,
			Genre:       book.Genre,
			Year:        book.Year,
			Link:        bookLink(&book),
			Read:        state.IsRead(book.ID),
			Rating:      state.Rating(book.ID),
			Description: descriptionExcerpt(book.Description, 200),
		})
	}

	log.Debug().Str("query", input.Query).Int("results", len(results)).Msg("search_books")
	return searchBooksOutput{Books: results, Count: len(results)}, nil
}

func (t *LibraryTools) getBookDetails(_ tool.Context, input getBookDetailsInput) (getBookDetailsOutput, error) {
	log := logging.Component("agent.tools")
	book := t.repo.GetByID(input.BookID)
	if book == nil {
		log.Debug().Int("book_id", input.BookID).Msg("get_book_details: not found")
		return getBookDetailsOutput{Error: "book not found"}, nil
	}

	state := t.repo.State()
	_, reading := state.CurrentlyReading[model.Key(book.ID)]
	log.Debug().Int("book_id", book.ID).Msg("get_book_details")
	return getBookDetailsOutput{
		ID:          book.ID,
		Title:       book.Title,
		Author:      book.Author,
		Genre:       book.Genre,
		Year:        book.Year,
		Pages:       book.Pages,
		Link:        bookLink(book),
		Read:        state.IsRead(book.ID),
		Rating:      state.Rating(book.ID),
		Reading:     reading,
		Description: descriptionExcerpt(book.Description, 600),
	}, nil
}

// Empty input struct for tools with no parameters
type emptyInput struct{}

func (t *LibraryTools) getReadingStats(_ tool.Context, _ emptyInput) (getReadingStatsOutput, error) {
	books := t.repo.GetAll()
	state := t.repo.State()
	s := stats.Compute(books, state)

	log := logging.Component("agent.tools")
	log.Debug().Int("total", s.TotalBooks).Msg("get_reading_stats")
	return getReadingStatsOutput{
		TotalBooks:       s.TotalBooks,
		ReadCount:        s.ReadCount,
		AverageRating:    s.AverageRating,
		TopGenres:        s.TopGenres,
		TopAuthors:       s.TopAuthors,
		BestRated:        s.BestRated,
		CurrentlyReading: s.Reading.CurrentlyReading,
		FavoriteGenres:   recommend.Affinity(books, state),
	}, nil
}

// ============================================
// BuildTools - creates ADK tools from handlers
// ============================================

func (t *LibraryTools) BuildTools() ([]tool.Tool, error) {
	searchTool, err := functiontool.New(functiontool.Config{
		Name:        "search_books",
		Description: "Search the user's library by title, author or genre",
	}, t.searchBooks)
	if err != nil {
		return nil, err
	}

	detailsTool, err := functiontool.New(functiontool.Config{
		Name:        "get_book_details",
		Description: "Get one library book by id, including whether the user read and rated it",
	}, t.getBookDetails)
	if err != nil {
		return nil, err
	}

	statsTool, err := functiontool.New(functiontool.Config{
		Name:        "get_reading_stats",
		Description: "Get the user's reading statistics: read count, ratings, top genres and authors",
	}, t.getReadingStats)
	if err != nil {
		return nil, err
	}

	return []tool.Tool{searchTool, detailsTool, statsTool}, nil
}
