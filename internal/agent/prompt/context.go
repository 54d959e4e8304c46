package prompt

import (
	"fmt"
	"strings"

	"home-library/internal/model"
)

// ContextOptions holds options for building message context
type ContextOptions struct {
	SelectedBook       *model.Book
	PreviousBooks      []string // titles already recommended in this conversation
	RecentConversation string   // kept from the last compaction
	LibrarySize        int
	Genres             []string
}

// maxContextGenres bounds the genre sample in the library line.
const maxContextGenres = 5

// BuildMessageContext adds context to a user message
func BuildMessageContext(message string, opts ContextOptions) string {
	result := message

	if opts.LibrarySize > 0 {
		genres := opts.Genres
		if len(genres) > maxContextGenres {
			genres = genres[:maxContextGenres]
		}
		line := fmt.Sprintf("[Context: the user has a library with %d books", opts.LibrarySize)
		if len(genres) > 0 {
			line += ", some genres: " + strings.Join(genres, ", ")
		}
		result = line + "]\n\n" + result
	}

	if opts.SelectedBook != nil {
		result = "[Selected book (respond about this book)]\n" + BookContext(opts.SelectedBook) + "\n\n" + result
	}

	if opts.RecentConversation != "" {
		result = opts.RecentConversation + "\n\n" + result
	}

	if len(opts.PreviousBooks) > 0 {
		notice := fmt.Sprintf("[IMPORTANT: The following books were already recommended in this conversation. Please recommend different books: %s]",
			strings.Join(opts.PreviousBooks, ", "))
		result = notice + "\n\n" + result
	}

	return result
}
