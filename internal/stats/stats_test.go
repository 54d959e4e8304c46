package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"home-library/internal/model"
)

func library() ([]model.Book, *model.ReadingState) {
	books := []model.Book{
		{ID: 1, Title: "Dune", Author: "Herbert", Genre: "SF", Pages: 400},
		{ID: 2, Title: "Emma", Author: "Austen", Genre: "Classic", Pages: 300},
		{ID: 3, Title: "Kindred", Author: "Butler", Genre: "SF", Pages: 250},
		{ID: 4, Title: "Persuasion", Author: "Austen", Genre: "Classic", Pages: 200},
		{ID: 5, Title: "Beloved", Author: "Morrison", Genre: "Literary", Pages: 320},
	}
	state := model.NewReadingState()
	state.ReadBooks = []int{1, 2, 3, 4}
	state.Ratings = map[string]int{"1": 5, "2": 3, "3": 4}
	state.CurrentlyReading["5"] = model.Progress{PagesRead: 120, StartDate: "2026-04-01", Status: model.StatusReading}
	state.FinishedBooks["3"] = model.FinishedEntry{StartDate: "2026-01-01", FinishDate: "2026-01-10", Pages: 250}
	state.FinishedBooks["1"] = model.FinishedEntry{StartDate: "2026-02-01", FinishDate: "2026-02-01", Pages: 400}
	state.FinishedBooks["9"] = model.FinishedEntry{StartDate: "2026-02-01", FinishDate: "2026-02-05", Pages: 10}
	return books, state
}

func TestCompute(t *testing.T) {
	books, state := library()
	s := Compute(books, state)

	assert.Equal(t, 5, s.TotalBooks)
	assert.Equal(t, 4, s.ReadCount)
	assert.Equal(t, 1150, s.PagesRead)
	assert.Equal(t, 3, s.RatedCount)
	assert.InDelta(t, 4.0, s.AverageRating, 0.0001)

	assert.Equal(t, []Count{{"SF", 2}, {"Classic", 2}}, s.TopGenres)
	assert.Equal(t, []Count{{"Austen", 2}, {"Herbert", 1}, {"Butler", 1}}, s.TopAuthors)
	assert.Equal(t, []RatedBook{{1, "Dune", 5}, {3, "Kindred", 4}, {2, "Emma", 3}}, s.BestRated)
}

func TestReadingHistory(t *testing.T) {
	books, state := library()
	r := Compute(books, state).Reading

	assert.Equal(t, 1, r.CurrentlyReading)
	assert.Equal(t, 3, r.Finished)
	assert.Equal(t, 120, r.PagesInProgress)

	// Unknown book 9 is left out; entries follow catalog order.
	require.Len(t, r.History, 2)
	assert.Equal(t, 1, r.History[0].ID)
	require.NotNil(t, r.History[0].Days)
	assert.Equal(t, 1, *r.History[0].Days)
	assert.Equal(t, 10, *r.History[1].Days)

	assert.InDelta(t, 5.5, r.AverageDays, 0.0001)
	assert.Equal(t, 650, r.PagesFinished)
	assert.InDelta(t, 650.0/11.0, r.PagesPerDay, 0.0001)
}

func TestReadingHistoryBadDates(t *testing.T) {
	books := []model.Book{{ID: 1, Title: "Dune", Pages: 400}}
	state := model.NewReadingState()
	state.FinishedBooks["1"] = model.FinishedEntry{StartDate: "", FinishDate: "2026-02-01"}

	r := Compute(books, state).Reading
	require.Len(t, r.History, 1)
	assert.Nil(t, r.History[0].Days)
	assert.Equal(t, 400, r.History[0].Pages)
	assert.Zero(t, r.AverageDays)
	assert.Zero(t, r.PagesPerDay)
}

func TestComputeEmpty(t *testing.T) {
	s := Compute(nil, model.NewReadingState())
	assert.Zero(t, s.ReadCount)
	assert.Zero(t, s.AverageRating)
	assert.NotNil(t, s.TopGenres)
	assert.NotNil(t, s.BestRated)
	assert.NotNil(t, s.Reading.History)
}

func TestDaysBetween(t *testing.T) {
	tests := []struct {
		start, finish string
		want          int
		ok            bool
	}{
		{"2026-01-01", "2026-01-01", 1, true},
		{"2026-01-30", "2026-02-02", 4, true},
		{"2024-02-28", "2024-03-01", 3, true},
		{"bad", "2026-01-01", 0, false},
		{"2026-01-01", "", 0, false},
	}
	for _, tt := range tests {
		got, ok := DaysBetween(tt.start, tt.finish)
		assert.Equal(t, tt.ok, ok, tt.start)
		assert.Equal(t, tt.want, got, tt.start)
	}
}
