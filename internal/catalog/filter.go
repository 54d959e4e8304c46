package catalog

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"home-library/internal/model"
)

// DefaultPerPage is the library grid size.
const DefaultPerPage = 9

type ReadStatus string

const (
	StatusAll    ReadStatus = "all"
	StatusRead   ReadStatus = "read"
	StatusUnread ReadStatus = "unread"
)

// ParseStatus maps a query value to a ReadStatus. Unknown values mean all.
func ParseStatus(s string) ReadStatus {
	switch ReadStatus(strings.ToLower(strings.TrimSpace(s))) {
	case StatusRead:
		return StatusRead
	case StatusUnread:
		return StatusUnread
	default:
		return StatusAll
	}
}

// Filter narrows the catalog. Empty fields do not filter.
type Filter struct {
	Search  string
	Genres  []string
	Authors []string
	Status  ReadStatus
}

// fold normalizes s for case-insensitive substring matching. A Caser keeps
// state between calls, so each call gets its own.
func fold(s string) string {
	return cases.Fold().String(norm.NFC.String(s))
}

// Apply returns the books matching f, in catalog order. readSet marks read ids.
func Apply(books []model.Book, readSet map[int]bool, f Filter) []model.Book {
	needle := fold(strings.TrimSpace(f.Search))
	out := make([]model.Book, 0, len(books))
	for _, b := range books {
		if needle != "" && !strings.Contains(fold(b.Title), needle) {
			continue
		}
		if len(f.Genres) > 0 && !slices.Contains(f.Genres, b.Genre) {
			continue
		}
		if len(f.Authors) > 0 && !slices.Contains(f.Authors, b.Author) {
			continue
		}
		switch f.Status {
		case StatusRead:
			if !readSet[b.ID] {
				continue
			}
		case StatusUnread:
			if readSet[b.ID] {
				continue
			}
		}
		out = append(out, b)
	}
	return out
}

// Page is one slice of a paginated list.
type Page[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// Paginate returns the requested page, clamping page to [1, TotalPages].
// An empty list has one empty page.
func Paginate[T any](items []T, page, perPage int) Page[T] {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	total := len(items)
	// size never exceeds the list, so the arithmetic below cannot overflow.
	size := min(perPage, max(total, 1))
	totalPages := (total + size - 1) / size
	page = min(max(page, 1), max(totalPages, 1))

	start := min((page-1)*size, total)
	end := min(start+size, total)
	pageItems := make([]T, end-start)
	copy(pageItems, items[start:end])
	return Page[T]{
		Items:      pageItems,
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
	}
}
