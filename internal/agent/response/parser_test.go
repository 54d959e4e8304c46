package response

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"home-library/internal/model"
)

func TestParseDualRecommendation(t *testing.T) {
	text := `Based on your ratings:

LIBRARY: ID 25: One Hundred Years of Solitude - You gave Don Quixote five stars, so this classic fits.
NEW: Love in the Time of Cholera by Gabriel García Márquez - More of the magic realism you enjoyed.`

	got := ParseDualRecommendation(text)
	assert.Equal(t, Parsed, got.Status)
	require.NotNil(t, got.Library)
	assert.Equal(t, LibraryPick{ID: 25, Title: "One Hundred Years of Solitude", Reason: "You gave Don Quixote five stars, so this classic fits."}, *got.Library)
	require.NotNil(t, got.New)
	assert.Equal(t, NewPick{Title: "Love in the Time of Cholera", Author: "Gabriel García Márquez", Reason: "More of the magic realism you enjoyed."}, *got.New)
	assert.Contains(t, got.Raw, "Based on your ratings")
}

func TestParseDualRecommendationCases(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		status    Status
		libraryID int
		newTitle  string
	}{
		{
			name:      "missing new segment",
			text:      "LIBRARY: ID 7: Dune - Epic worldbuilding like the books you rated highly.",
			status:    Partial,
			libraryID: 7,
		},
		{
			name:     "missing library segment",
			text:     "Sorry.\nNEW: Hyperion by Dan Simmons - Layered science fiction.",
			status:   Partial,
			newTitle: "Hyperion",
		},
		{
			name:      "lower case labels",
			text:      "library: id 3: Emma - Wit.\nnew: Middlemarch by George Eliot - Depth.",
			status:    Parsed,
			libraryID: 3,
			newTitle:  "Middlemarch",
		},
		{
			name:      "new segment first",
			text:      "NEW: Kindred by Octavia E. Butler - Time travel.\nLIBRARY: ID 12: Beloved - Morrison again.",
			status:    Parsed,
			libraryID: 12,
			newTitle:  "Kindred",
		},
		{
			name:   "free text",
			text:   "I could not decide, both are great.",
			status: Unparsed,
		},
		{
			name:   "empty",
			text:   "",
			status: Unparsed,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseDualRecommendation(tt.text)
			assert.Equal(t, tt.status, got.Status)
			if tt.libraryID != 0 {
				require.NotNil(t, got.Library)
				assert.Equal(t, tt.libraryID, got.Library.ID)
			} else {
				assert.Nil(t, got.Library)
			}
			if tt.newTitle != "" {
				require.NotNil(t, got.New)
				assert.Equal(t, tt.newTitle, got.New.Title)
			} else {
				assert.Nil(t, got.New)
			}
		})
	}
}

func TestDualReasonsStopAtOtherSegment(t *testing.T) {
	got := ParseDualRecommendation("LIBRARY: ID 1: Dune - Because spice. NEW: Hyperion by Dan Simmons - Pilgrims.")
	require.NotNil(t, got.Library)
	assert.Equal(t, "Because spice.", got.Library.Reason)

	got = ParseDualRecommendation("NEW: Hyperion by Dan Simmons - Pilgrims. LIBRARY: ID 1: Dune - Spice.")
	require.NotNil(t, got.New)
	assert.Equal(t, "Pilgrims.", got.New.Reason)
}

func TestParseBookLookup(t *testing.T) {
	text := `TITLE: The Left Hand of Darkness
AUTHOR: Ursula K. Le Guin
GENRE: Science Fiction
YEAR: 1969
PAGES: approximately 304
DESCRIPTION: An envoy visits Gethen, a planet whose people have no fixed sex.
It questions gender and loyalty.
COVER: https://example.com/lhod.jpg`

	got := ParseBookLookup(text)
	assert.True(t, got.Found())
	assert.Equal(t, "The Left Hand of Darkness", got.Title)
	assert.Equal(t, "Ursula K. Le Guin", got.Author)
	assert.Equal(t, "Science Fiction", got.Genre)
	assert.Equal(t, 1969, got.Year)
	assert.Equal(t, 304, got.Pages)
	assert.Equal(t, "An envoy visits Gethen, a planet whose people have no fixed sex.\nIt questions gender and loyalty.", got.Description)
	assert.Equal(t, "https://example.com/lhod.jpg", got.Cover)

	book := got.Book()
	assert.Equal(t, 0, book.ID)
	assert.Equal(t, got.Title, book.Title)
}

func TestParseBookLookupDefaults(t *testing.T) {
	got := ParseBookLookup("**TITLE:** Dune\n**AUTHOR:** Frank Herbert\nYEAR: unknown\nCOVER: Not available")
	assert.Equal(t, Parsed, got.Status)
	assert.Equal(t, "Dune", got.Title)
	assert.Equal(t, "Frank Herbert", got.Author)
	assert.Equal(t, DefaultGenre, got.Genre)
	assert.Equal(t, DefaultYear, got.Year)
	assert.Equal(t, DefaultPages, got.Pages)
	assert.Equal(t, DefaultDescription, got.Description)
	assert.Equal(t, model.PlaceholderCover, got.Cover)
}

func TestParseBookLookupIncomplete(t *testing.T) {
	got := ParseBookLookup("TITLE: Dune\nGENRE: SF")
	assert.Equal(t, Partial, got.Status)
	assert.False(t, got.Found())

	got = ParseBookLookup("I don't know that book.")
	assert.Equal(t, Unparsed, got.Status)
	assert.Equal(t, "I don't know that book.", got.Raw)
	assert.Equal(t, model.PlaceholderCover, got.Cover)
}

func TestParseChatSuggestions(t *testing.T) {
	got := Parse("Try Dune next. [SUGGESTIONS: More SF? | Something short | ]")
	assert.Equal(t, "Try Dune next.", got.Response)
	assert.Equal(t, []string{"More SF?", "Something short"}, got.Suggestions)

	plain := Parse("  Just text. ")
	assert.Equal(t, "Just text.", plain.Response)
	assert.Empty(t, plain.Suggestions)
}

func TestStatusText(t *testing.T) {
	b, err := Partial.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "partial", string(b))
	assert.Equal(t, "unparsed", Unparsed.String())
}
