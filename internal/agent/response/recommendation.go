package response

import (
	"regexp"
	"strconv"
	"strings"
)

// LibraryPick is the suggestion taken from the user's own catalog.
type LibraryPick struct {
	ID     int    `json:"id"`
	Title  string `json:"title"`
	Reason string `json:"reason"`
}

// NewPick is a book the user does not own yet.
type NewPick struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	Reason string `json:"reason"`
}

// DualRecommendation is the parsed answer to the two-book recommendation prompt.
// Segments that could not be read are nil.
type DualRecommendation struct {
	Library *LibraryPick `json:"library"`
	New     *NewPick     `json:"new"`
	Status  Status       `json:"status"`
	Raw     string       `json:"raw"`
}

var (
	libraryRegex  = regexp.MustCompile(`(?is)LIBRARY:\s*ID\s*(\d+)\s*:\s*([^-]+?)\s*-\s*(.*)`)
	newRegex      = regexp.MustCompile(`(?is)NEW:\s*([^-]+?)\s+by\s+([^-]+?)\s*-\s*(.*)`)
	newMarker     = regexp.MustCompile(`(?i)NEW:`)
	libraryMarker = regexp.MustCompile(`(?i)LIBRARY:`)
)

// ParseDualRecommendation reads
//
//	LIBRARY: ID <n>: <title> - <reason>
//	NEW: <title> by <author> - <reason>
//
// Labels are case-insensitive. Each reason ends where the other segment starts.
func ParseDualRecommendation(text string) DualRecommendation {
	raw := strings.TrimSpace(text)
	out := DualRecommendation{Raw: raw}

	if m := libraryRegex.FindStringSubmatch(raw); m != nil {
		if id, err := strconv.Atoi(m[1]); err == nil {
			out.Library = &LibraryPick{
				ID:     id,
				Title:  strings.TrimSpace(m[2]),
				Reason: strings.TrimSpace(cutAt(m[3], newMarker)),
			}
		}
	}

	if m := newRegex.FindStringSubmatch(raw); m != nil {
		out.New = &NewPick{
			Title:  strings.TrimSpace(m[1]),
			Author: strings.TrimSpace(m[2]),
			Reason: strings.TrimSpace(cutAt(m[3], libraryMarker)),
		}
	}

	switch {
	case out.Library != nil && out.New != nil:
		out.Status = Parsed
	case out.Library != nil || out.New != nil:
		out.Status = Partial
	default:
		out.Status = Unparsed
	}
	return out
}
