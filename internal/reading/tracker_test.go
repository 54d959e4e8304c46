package reading

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"home-library/internal/model"
	"home-library/internal/storage"
)

type fakeBooks map[int]model.Book

func (f fakeBooks) Get(id int) (model.Book, error) {
	if b, ok := f[id]; ok {
		return b, nil
	}
	return model.Book{}, fmt.Errorf("book %d: %w", id, ErrBookNotFound)
}

type fixture struct {
	tracker *Tracker
	file    *storage.StateFile
	now     time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		file: storage.NewStateFile(filepath.Join(t.TempDir(), "user_data.json")),
		now:  time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC),
	}
	books := fakeBooks{
		1: {ID: 1, Title: "Dune", Genre: "SF", Pages: 412},
		2: {ID: 2, Title: "Emma", Genre: "Classic", Pages: 474},
		3: {ID: 3, Title: "Kindred", Genre: "SF", Pages: 264},
	}
	f.tracker = NewTracker(f.file, books).WithClock(func() time.Time { return f.now })
	return f
}

func (f *fixture) persisted(t *testing.T) *model.ReadingState {
	t.Helper()
	s, err := f.file.LoadState()
	require.NoError(t, err)
	return s
}

func TestMarkReadThenUnreadRestoresState(t *testing.T) {
	f := newFixture(t)
	_, err := f.tracker.MarkRead(2)
	require.NoError(t, err)
	_, err = f.tracker.SetRating(2, 4)
	require.NoError(t, err)
	before := f.persisted(t)

	_, err = f.tracker.MarkRead(1)
	require.NoError(t, err)
	_, err = f.tracker.SetRating(1, 5)
	require.NoError(t, err)
	after, err := f.tracker.MarkUnread(1)
	require.NoError(t, err)

	assert.Equal(t, 0, after.Rating(1))
	assert.Equal(t, before, f.persisted(t))
}

func TestMarkReadIsIdempotent(t *testing.T) {
	f := newFixture(t)
	_, err := f.tracker.MarkRead(1)
	require.NoError(t, err)
	state, err := f.tracker.MarkRead(1)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, state.ReadBooks)
	assert.Empty(t, state.Ratings)
}

func TestMarkReadDropsProgress(t *testing.T) {
	f := newFixture(t)
	_, err := f.tracker.StartReading(1)
	require.NoError(t, err)

	state, err := f.tracker.MarkRead(1)
	require.NoError(t, err)
	assert.True(t, state.IsRead(1))
	assert.NotContains(t, state.CurrentlyReading, "1")
	assert.Empty(t, state.FinishedBooks)
}

func TestMarkUnreadKeepsHistory(t *testing.T) {
	f := newFixture(t)
	_, err := f.tracker.StartReading(3)
	require.NoError(t, err)
	_, err = f.tracker.FinishReading(3)
	require.NoError(t, err)

	state, err := f.tracker.MarkUnread(3)
	require.NoError(t, err)
	assert.False(t, state.IsRead(3))
	assert.Contains(t, state.FinishedBooks, "3")
}

func TestSetRating(t *testing.T) {
	f := newFixture(t)

	_, err := f.tracker.SetRating(1, 3)
	assert.ErrorIs(t, err, ErrNotRead)

	_, err = f.tracker.MarkRead(1)
	require.NoError(t, err)

	for _, bad := range []int{-1, 6} {
		_, err = f.tracker.SetRating(1, bad)
		assert.ErrorIs(t, err, ErrInvalidRating)
	}

	state, err := f.tracker.SetRating(1, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, state.Rating(1))

	state, err = f.tracker.SetRating(1, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, state.Rating(1))

	state, err = f.tracker.SetRating(1, 0)
	require.NoError(t, err)
	assert.NotContains(t, state.Ratings, "1")
	assert.Equal(t, state, f.persisted(t))
}

func TestStartReadingPreconditions(t *testing.T) {
	f := newFixture(t)

	state, err := f.tracker.StartReading(1)
	require.NoError(t, err)
	assert.Equal(t, model.Progress{PagesRead: 0, StartDate: "2026-05-10", Status: model.StatusReading}, state.CurrentlyReading["1"])

	_, err = f.tracker.StartReading(1)
	assert.ErrorIs(t, err, ErrAlreadyReading)

	_, err = f.tracker.MarkRead(2)
	require.NoError(t, err)
	_, err = f.tracker.StartReading(2)
	assert.ErrorIs(t, err, ErrAlreadyRead)

	_, err = f.tracker.StartReading(42)
	assert.ErrorIs(t, err, ErrBookNotFound)
}

func TestUpdateProgressClamps(t *testing.T) {
	f := newFixture(t)
	_, err := f.tracker.UpdateProgress(1, 10)
	assert.ErrorIs(t, err, ErrNotReading)

	_, err = f.tracker.StartReading(1)
	require.NoError(t, err)

	tests := []struct {
		requested int
		want      int
	}{
		{-20, 0},
		{0, 0},
		{200, 200},
		{412, 412},
		{5000, 412},
	}
	for _, tt := range tests {
		state, err := f.tracker.UpdateProgress(1, tt.requested)
		require.NoError(t, err)
		assert.Equal(t, tt.want, state.CurrentlyReading["1"].PagesRead, "requested %d", tt.requested)
		assert.Equal(t, tt.want, f.persisted(t).CurrentlyReading["1"].PagesRead)
	}
}

func TestFinishReading(t *testing.T) {
	f := newFixture(t)

	_, err := f.tracker.FinishReading(1)
	assert.ErrorIs(t, err, ErrNotReading)

	_, err = f.tracker.StartReading(1)
	require.NoError(t, err)
	f.now = f.now.AddDate(0, 0, 6)

	_, err = f.tracker.FinishReading(1)
	require.NoError(t, err)

	state := f.persisted(t)
	assert.Equal(t, []int{1}, state.ReadBooks)
	assert.NotContains(t, state.CurrentlyReading, "1")
	entry := state.FinishedBooks["1"]
	assert.Equal(t, model.FinishedEntry{StartDate: "2026-05-10", FinishDate: "2026-05-16", Pages: 412}, entry)
	assert.GreaterOrEqual(t, entry.FinishDate, entry.StartDate)
}

func TestFinishReadingTwiceOverwritesHistory(t *testing.T) {
	f := newFixture(t)
	_, err := f.tracker.StartReading(3)
	require.NoError(t, err)
	_, err = f.tracker.FinishReading(3)
	require.NoError(t, err)
	_, err = f.tracker.MarkUnread(3)
	require.NoError(t, err)

	f.now = f.now.AddDate(0, 1, 0)
	_, err = f.tracker.StartReading(3)
	require.NoError(t, err)
	state, err := f.tracker.FinishReading(3)
	require.NoError(t, err)

	assert.Len(t, state.FinishedBooks, 1)
	assert.Equal(t, "2026-06-10", state.FinishedBooks["3"].StartDate)
	assert.Equal(t, []int{3}, state.ReadBooks)
}

func TestAbandonReading(t *testing.T) {
	f := newFixture(t)
	_, err := f.tracker.AbandonReading(1)
	assert.ErrorIs(t, err, ErrNotReading)

	_, err = f.tracker.StartReading(1)
	require.NoError(t, err)
	state, err := f.tracker.AbandonReading(1)
	require.NoError(t, err)
	assert.Empty(t, state.CurrentlyReading)
	assert.Empty(t, state.ReadBooks)
	assert.Empty(t, state.FinishedBooks)
}

func TestDeleteBookCascades(t *testing.T) {
	f := newFixture(t)
	_, err := f.tracker.StartReading(3)
	require.NoError(t, err)
	_, err = f.tracker.FinishReading(3)
	require.NoError(t, err)
	_, err = f.tracker.SetRating(3, 5)
	require.NoError(t, err)
	_, err = f.tracker.StartReading(1)
	require.NoError(t, err)
	_, err = f.tracker.MarkRead(2)
	require.NoError(t, err)

	require.NoError(t, f.tracker.DeleteBook(3))
	require.NoError(t, f.tracker.DeleteBook(1))

	state := f.persisted(t)
	assert.Equal(t, []int{2}, state.ReadBooks)
	assert.Empty(t, state.Ratings)
	assert.Empty(t, state.CurrentlyReading)
	assert.Empty(t, state.FinishedBooks)

	// Ids unknown to the state are fine.
	assert.NoError(t, f.tracker.DeleteBook(99))
}
