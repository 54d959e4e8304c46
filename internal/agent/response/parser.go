package response

import (
	"regexp"
	"strings"
)

// Status tells how much of a free-text answer could be extracted.
type Status int

const (
	Unparsed Status = iota
	Partial
	Parsed
)

func (s Status) String() string {
	switch s {
	case Parsed:
		return "parsed"
	case Partial:
		return "partial"
	default:
		return "unparsed"
	}
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText accepts the String forms. Unknown text reads as Unparsed.
func (s *Status) UnmarshalText(b []byte) error {
	switch string(b) {
	case "parsed":
		*s = Parsed
	case "partial":
		*s = Partial
	default:
		*s = Unparsed
	}
	return nil
}

// ChatResponse is the parsed response from the chat assistant
type ChatResponse struct {
	Response    string   `json:"response"`
	Suggestions []string `json:"suggestions"`
}

var suggestionsRegex = regexp.MustCompile(`\[SUGGESTIONS:([^\]]+)\]`)

// Parse extracts suggestions from the raw response text
func Parse(text string) *ChatResponse {
	return &ChatResponse{
		Response:    cleanResponse(text),
		Suggestions: extractSuggestions(text),
	}
}

// extractSuggestions extracts suggestions from [SUGGESTIONS:a|b|c] format
func extractSuggestions(text string) []string {
	matches := suggestionsRegex.FindStringSubmatch(text)
	if len(matches) <= 1 {
		return []string{}
	}

	suggestions := []string{}
	for _, part := range strings.Split(matches[1], "|") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			suggestions = append(suggestions, trimmed)
		}
	}
	return suggestions
}

// cleanResponse removes suggestion markers from the response
func cleanResponse(text string) string {
	return strings.TrimSpace(suggestionsRegex.ReplaceAllString(text, ""))
}

// cutAt returns s up to the first match of marker.
func cutAt(s string, marker *regexp.Regexp) string {
	if loc := marker.FindStringIndex(s); loc != nil {
		return s[:loc[0]]
	}
	return s
}
