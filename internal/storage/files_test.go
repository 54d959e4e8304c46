package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"home-library/internal/model"
)

func sampleBooks() []model.Book {
	return []model.Book{
		{ID: 1, Title: "Dune", Author: "Frank Herbert", Genre: "Science Fiction", Description: "Spice.", Year: 1965, Pages: 412, Cover: "https://example.com/dune.jpg"},
		{ID: 2, Title: "Cien años de soledad", Author: "Gabriel García Márquez", Genre: "Magic Realism", Description: "Macondo.", Year: 1967, Pages: 417},
	}
}

func TestBookFileRoundTrip(t *testing.T) {
	f := NewBookFile(filepath.Join(t.TempDir(), "books.json"))
	books := sampleBooks()

	require.NoError(t, f.SaveBooks(books))
	loaded, err := f.LoadBooks()
	require.NoError(t, err)
	assert.Equal(t, books, loaded)

	require.NoError(t, f.SaveBooks(loaded))
	again, err := f.LoadBooks()
	require.NoError(t, err)
	assert.Equal(t, loaded, again)
}

func TestBookFileWritesIndentedUTF8(t *testing.T) {
	path := filepath.Join(t.TempDir(), "books.json")
	require.NoError(t, NewBookFile(path).SaveBooks(sampleBooks()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n  {\n    \"id\": 1,")
	assert.Contains(t, string(data), "García Márquez")
}

func TestBookFileMissingIsEmpty(t *testing.T) {
	books, err := NewBookFile(filepath.Join(t.TempDir(), "none.json")).LoadBooks()
	require.NoError(t, err)
	assert.Empty(t, books)
	assert.NotNil(t, books)
}

func TestBookFileCorrupt(t *testing.T) {
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("[{"), 0o644))
	_, err := NewBookFile(bad).LoadBooks()
	assert.ErrorIs(t, err, ErrCorrupt)

	dup := filepath.Join(dir, "dup.json")
	require.NoError(t, os.WriteFile(dup, []byte(`[{"id":1,"title":"a"},{"id":1,"title":"b"}]`), 0o644))
	_, err = NewBookFile(dup).LoadBooks()
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestStateFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "user_data.json")
	f := NewStateFile(path)

	state, err := f.LoadState()
	require.NoError(t, err)
	assert.Equal(t, model.NewReadingState(), state)

	state.ReadBooks = append(state.ReadBooks, 3)
	state.Ratings["3"] = 4
	state.CurrentlyReading["5"] = model.Progress{PagesRead: 10, StartDate: "2026-01-02", Status: model.StatusReading}
	state.FinishedBooks["3"] = model.FinishedEntry{StartDate: "2026-01-01", FinishDate: "2026-01-09", Pages: 200}
	require.NoError(t, f.SaveState(state))

	loaded, err := f.LoadState()
	require.NoError(t, err)
	assert.Equal(t, state, loaded)

	// Older files only carry the first two keys.
	require.NoError(t, os.WriteFile(path, []byte(`{"read_books":[1],"ratings":{}}`), 0o644))
	loaded, err = f.LoadState()
	require.NoError(t, err)
	assert.Equal(t, []int{1}, loaded.ReadBooks)
	assert.NotNil(t, loaded.CurrentlyReading)
	assert.NotNil(t, loaded.FinishedBooks)

	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))
	_, err = f.LoadState()
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestCredentialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "api_key.json")
	f := NewCredentialFile(path)

	key, err := f.LoadKey()
	require.NoError(t, err)
	assert.Equal(t, "", key)

	require.NoError(t, f.SaveKey("secret-123"))
	key, err = f.LoadKey()
	require.NoError(t, err)
	assert.Equal(t, "secret-123", key)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"gemini_api_key": "secret-123"`)
}
