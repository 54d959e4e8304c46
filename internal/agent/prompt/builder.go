package prompt

import (
	"fmt"
	"strings"

	"home-library/internal/agent/sanitize"
	"home-library/internal/model"
)

// MaxUnreadCandidates caps the unread list sent with a recommendation prompt.
const MaxUnreadCandidates = 30

const excerptLen = 100

// Builder constructs prompts for the agent
type Builder struct{}

// NewBuilder creates a new prompt builder
func NewBuilder() *Builder {
	return &Builder{}
}

// BuildSystemPrompt returns the chat assistant instruction.
func (b *Builder) BuildSystemPrompt() string {
	return SystemPrompt
}

// BuildDualRecommendationPrompt lists the read books with their ratings and
// up to MaxUnreadCandidates unread books in catalog order.
func (b *Builder) BuildDualRecommendationPrompt(books []model.Book, state *model.ReadingState) string {
	read := state.ReadSet()

	var readList, unreadList strings.Builder
	candidates := 0
	for _, book := range books {
		if read[book.ID] {
			rating := "not rated"
			if r := state.Rating(book.ID); r > 0 {
				rating = fmt.Sprintf("%d/5 stars", r)
			}
			fmt.Fprintf(&readList, "- '%s' by %s (%s) - Rating: %s\n",
				book.Title, book.Author, book.Genre, rating)
			continue
		}
		if candidates >= MaxUnreadCandidates {
			continue
		}
		candidates++
		fmt.Fprintf(&unreadList, "ID %d: '%s' by %s (%s, %d) - %s\n",
			book.ID, book.Title, book.Author, book.Genre, book.Year,
			Excerpt(sanitize.Text(book.Description), excerptLen))
	}

	if unreadList.Len() == 0 {
		unreadList.WriteString("(no unread books in the library)\n")
	}
	return fmt.Sprintf(DualRecommendationTemplate, readList.String(), unreadList.String())
}

// BuildLookupPrompt asks for structured details of a book by title or description.
func (b *Builder) BuildLookupPrompt(query string) string {
	return fmt.Sprintf(LookupTemplate, strings.TrimSpace(query))
}

// BuildSummaryPrompt asks for a short narrated summary of a catalog book.
func (b *Builder) BuildSummaryPrompt(book model.Book) string {
	desc := sanitize.Text(book.Description)
	return fmt.Sprintf(SummaryTemplate, book.Title, book.Author, book.Title, book.Author, book.Genre, desc)
}

// BuildCoverPrompt describes the cover image to generate.
func (b *Builder) BuildCoverPrompt(description, style string) string {
	return fmt.Sprintf(CoverTemplate, strings.TrimSpace(description), style)
}

// BuildCorrectionPrompt creates a prompt to generate a corrected response
// For general queries (no selected book), this generates a follow-up question instead of recommending books.
func (b *Builder) BuildCorrectionPrompt(question string, selectedBook *model.Book) string {
	if selectedBook != nil {
		return fmt.Sprintf(CorrectionPromptWithBook, BookContext(selectedBook), question)
	}
	return fmt.Sprintf(CorrectionPromptGeneral, question)
}

// BookContext renders a catalog book in the annotation format the assistant must use.
func BookContext(book *model.Book) string {
	return fmt.Sprintf("[book::%s::%d] (by %s, %s, %d)\n<book_description>%s</book_description>",
		book.Title, book.ID, book.Author, book.Genre, book.Year,
		Excerpt(sanitize.Text(book.Description), excerptLen*3))
}

// Excerpt truncates s to maxLen runes, appending "..." when cut.
func Excerpt(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) > maxLen {
		return string(runes[:maxLen]) + "..."
	}
	return s
}
