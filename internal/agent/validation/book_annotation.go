package validation

import (
	"context"
	"regexp"
	"strconv"

	"home-library/internal/agent/deps"
	"home-library/internal/logging"
)

var annotationRegex = regexp.MustCompile(`\[book::(.+?)::([^\]]+)\]`)

// Annotation is one [book::title::id] reference in an answer. ID is kept as
// written so malformed ids can be reported.
type Annotation struct {
	Title string
	ID    string
}

// CatalogCheck rejects answers that reference books the catalog does not
// hold, or that ignore the book the user asked about.
type CatalogCheck struct {
	books deps.BookRepository
}

func NewCatalogCheck(books deps.BookRepository) *CatalogCheck {
	return &CatalogCheck{books: books}
}

func (c *CatalogCheck) Name() string { return "catalog" }

func (c *CatalogCheck) Validate(ctx context.Context, in Input) Verdict {
	log := logging.Ctx(ctx).With().Str("check", c.Name()).Logger()
	annotations := Annotations(in.Response)

	if len(annotations) == 0 && in.BookID != nil {
		if book := c.books.GetByID(*in.BookID); book != nil {
			return reject("selected book %q not mentioned", book.Title)
		}
	}

	for _, a := range annotations {
		id, err := strconv.Atoi(a.ID)
		if err != nil {
			log.Info().Str("id", a.ID).Msg("malformed book id")
			return reject("book id %q is not a catalog id", a.ID)
		}
		book := c.books.GetByID(id)
		switch {
		case book == nil:
			log.Info().Int("id", id).Msg("unknown book id")
			return reject("book %d does not exist", id)
		case book.Title != a.Title:
			log.Info().Int("id", id).Str("claimed", a.Title).Str("actual", book.Title).Msg("title mismatch")
			return reject("title mismatch for %d: want %q, got %q", id, book.Title, a.Title)
		}
	}
	return accept()
}

// Annotations returns the book references in text, in order.
func Annotations(text string) []Annotation {
	var out []Annotation
	for _, m := range annotationRegex.FindAllStringSubmatch(text, -1) {
		out = append(out, Annotation{Title: m[1], ID: m[2]})
	}
	return out
}

// StripAnnotations replaces [book::title::id] with the plain title.
func StripAnnotations(text string) string {
	return annotationRegex.ReplaceAllString(text, "$1")
}

// MentionedTitles returns the titles referenced in text, in order.
func MentionedTitles(text string) []string {
	var titles []string
	for _, a := range Annotations(text) {
		titles = append(titles, a.Title)
	}
	return titles
}
