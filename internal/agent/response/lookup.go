package response

import (
	"regexp"
	"strconv"
	"strings"

	"home-library/internal/model"
)

// Defaults for lookup fields the model leaves out.
const (
	DefaultGenre       = "Fiction"
	DefaultYear        = 2020
	DefaultPages       = 300
	DefaultDescription = "No description available."
)

// BookLookup is the parsed answer to a book lookup prompt.
type BookLookup struct {
	Title       string `json:"title"`
	Author      string `json:"author"`
	Genre       string `json:"genre"`
	Year        int    `json:"year"`
	Pages       int    `json:"pages"`
	Description string `json:"description"`
	Cover       string `json:"cover"`
	Status      Status `json:"status"`
	Raw         string `json:"raw"`
}

// Found reports whether title and author were both extracted.
func (l BookLookup) Found() bool {
	return l.Status == Parsed
}

// Book converts the lookup into a catalog entry without an id.
func (l BookLookup) Book() model.Book {
	return model.Book{
		Title:       l.Title,
		Author:      l.Author,
		Genre:       l.Genre,
		Year:        l.Year,
		Pages:       l.Pages,
		Description: l.Description,
		Cover:       l.Cover,
	}
}

func labelRegex(label string) *regexp.Regexp {
	return regexp.MustCompile(`(?im)^[ \t*_#>-]*` + label + `[ \t*_]*:[ \t*_]*(.+?)[ \t*_]*$`)
}

var (
	titleRegex       = labelRegex("TITLE")
	authorRegex      = labelRegex("AUTHOR")
	genreRegex       = labelRegex("GENRE")
	yearRegex        = labelRegex("YEAR")
	pagesRegex       = labelRegex("PAGES")
	coverRegex       = labelRegex("COVER")
	descriptionRegex = regexp.MustCompile(`(?is)DESCRIPTION[ \t*_]*:[ \t*_]*(.*?)\s*(?:\n[ \t*_#>-]*COVER[ \t*_]*:|\z)`)
	numberRegex      = regexp.MustCompile(`\d+`)
)

// ParseBookLookup reads TITLE, AUTHOR, GENRE, YEAR, PAGES, DESCRIPTION and
// COVER labels. Title and author are required for Parsed; everything else
// falls back to a default.
func ParseBookLookup(text string) BookLookup {
	raw := strings.TrimSpace(text)
	out := BookLookup{
		Title:       field(titleRegex, raw),
		Author:      field(authorRegex, raw),
		Genre:       field(genreRegex, raw),
		Year:        number(yearRegex, raw),
		Pages:       number(pagesRegex, raw),
		Description: field(descriptionRegex, raw),
		Cover:       cover(field(coverRegex, raw)),
		Raw:         raw,
	}
	found := out.Genre != "" || out.Year > 0 || out.Pages > 0 || out.Description != ""

	if out.Genre == "" {
		out.Genre = DefaultGenre
	}
	if out.Year <= 0 {
		out.Year = DefaultYear
	}
	if out.Pages <= 0 {
		out.Pages = DefaultPages
	}
	if out.Description == "" {
		out.Description = DefaultDescription
	}

	switch {
	case out.Title != "" && out.Author != "":
		out.Status = Parsed
	case out.Title != "" || out.Author != "" || found:
		out.Status = Partial
	default:
		out.Status = Unparsed
	}
	return out
}

func field(re *regexp.Regexp, text string) string {
	if m := re.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

func number(re *regexp.Regexp, text string) int {
	digits := numberRegex.FindString(field(re, text))
	if digits == "" {
		return 0
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0
	}
	return n
}

func cover(value string) string {
	lower := strings.ToLower(value)
	if value == "" || strings.Contains(lower, "not available") || !strings.HasPrefix(lower, "http") {
		return model.PlaceholderCover
	}
	return value
}
