package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"home-library/internal/model"
	"home-library/internal/storage"
)

func seed(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, storage.NewBookFile(filepath.Join(dir, "books.json")).SaveBooks([]model.Book{
		{ID: 1, Title: "Dune", Author: "Frank Herbert", Genre: "Science Fiction", Description: "Spice.", Year: 1965, Pages: 400},
		{ID: 2, Title: "Emma", Author: "Jane Austen", Genre: "Classic", Description: "Matchmaking.", Year: 1815, Pages: 474},
	}))
	return dir
}

func run(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetArgs(append([]string{"--data-dir", dir}, args...))
	cmd.SetErr(&bytes.Buffer{})
	err := cmd.Execute()
	return out.String(), err
}

func TestBooksTable(t *testing.T) {
	dir := seed(t)
	out, err := run(t, dir, "books", "--genre", "Classic")
	require.NoError(t, err)
	assert.Contains(t, out, "Emma")
	assert.NotContains(t, out, "Dune")
	assert.Contains(t, out, "page 1/1, 1 books")
}

func TestBooksQueryMatchesTitle(t *testing.T) {
	dir := seed(t)

	out, err := run(t, dir, "books", "-q", "dun")
	require.NoError(t, err)
	assert.Contains(t, out, "Dune")
	assert.Contains(t, out, "page 1/1, 1 books")

	out, err = run(t, dir, "books", "--query", "Herbert")
	require.NoError(t, err)
	assert.NotContains(t, out, "Dune")
	assert.Contains(t, out, "0 books")
}

func TestReadAndRate(t *testing.T) {
	dir := seed(t)

	_, err := run(t, dir, "rate", "1", "5")
	require.Error(t, err)

	_, err = run(t, dir, "read", "1")
	require.NoError(t, err)

	out, err := run(t, dir, "--json", "rate", "1", "5")
	require.NoError(t, err)
	var b model.BookResponse
	require.NoError(t, json.Unmarshal([]byte(out), &b))
	assert.True(t, b.Read)
	assert.Equal(t, 5, b.Rating)

	_, err = run(t, dir, "rate", "1", "6")
	assert.Error(t, err)
}

func TestReadingLifecycle(t *testing.T) {
	dir := seed(t)

	_, err := run(t, dir, "start", "2")
	require.NoError(t, err)
	out, err := run(t, dir, "progress", "2", "237")
	require.NoError(t, err)
	assert.Contains(t, out, "237/474")
	assert.Contains(t, out, "50%")

	_, err = run(t, dir, "finish", "2")
	require.NoError(t, err)
	out, err = run(t, dir, "reading")
	require.NoError(t, err)
	assert.Contains(t, out, "Nothing in progress.")

	_, err = run(t, dir, "abandon", "2")
	assert.Error(t, err)
}

func TestAddValidates(t *testing.T) {
	dir := seed(t)

	_, err := run(t, dir, "add", "--title", "Beloved")
	require.Error(t, err)

	out, err := run(t, dir, "--json", "add", "--title", "Beloved", "--author", "Toni Morrison",
		"--genre", "Literary", "--description", "Haunting.", "--year", "1987", "--pages", "324")
	require.NoError(t, err)
	assert.Contains(t, out, `"id": 3`)
}

func TestInvalidID(t *testing.T) {
	_, err := run(t, seed(t), "read", "abc")
	assert.EqualError(t, err, `invalid book id "abc"`)
}

func TestStatsAndRecommend(t *testing.T) {
	dir := seed(t)

	out, err := run(t, dir, "recommend")
	require.NoError(t, err)
	assert.Contains(t, out, "No books marked as read yet")

	_, err = run(t, dir, "read", "1")
	require.NoError(t, err)
	out, err = run(t, dir, "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "Science Fiction (1)")
}
