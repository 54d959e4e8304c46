package catalog

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"home-library/internal/model"
)

func TestApply(t *testing.T) {
	books := []model.Book{
		{ID: 1, Title: "Cien años de soledad", Author: "García Márquez", Genre: "Magic Realism"},
		{ID: 2, Title: "Dune", Author: "Herbert", Genre: "SF"},
		{ID: 3, Title: "Dune Messiah", Author: "Herbert", Genre: "SF"},
		{ID: 4, Title: "Emma", Author: "Austen", Genre: "Classic"},
	}
	read := map[int]bool{2: true, 4: true}

	tests := []struct {
		name   string
		filter Filter
		want   []int
	}{
		{"no filter", Filter{}, []int{1, 2, 3, 4}},
		{"search is case-insensitive", Filter{Search: "DUNE"}, []int{2, 3}},
		{"search handles accents", Filter{Search: "AÑOS"}, []int{1}},
		{"search decomposed input", Filter{Search: "an\u0303os"}, []int{1}},
		{"genres", Filter{Genres: []string{"SF", "Classic"}}, []int{2, 3, 4}},
		{"authors", Filter{Authors: []string{"Herbert"}}, []int{2, 3}},
		{"read only", Filter{Status: StatusRead}, []int{2, 4}},
		{"unread only", Filter{Status: StatusUnread}, []int{1, 3}},
		{"combined", Filter{Search: "dune", Status: StatusUnread}, []int{3}},
		{"nothing matches", Filter{Search: "zzz"}, []int{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Apply(books, read, tt.filter)))
		})
	}
}

func TestParseStatus(t *testing.T) {
	assert.Equal(t, StatusRead, ParseStatus("Read"))
	assert.Equal(t, StatusUnread, ParseStatus(" unread "))
	assert.Equal(t, StatusAll, ParseStatus(""))
	assert.Equal(t, StatusAll, ParseStatus("bogus"))
}

func TestPaginate(t *testing.T) {
	items := make([]int, 20)
	for i := range items {
		items[i] = i + 1
	}

	p := Paginate(items, 1, 0)
	assert.Equal(t, DefaultPerPage, p.PerPage)
	assert.Equal(t, 3, p.TotalPages)
	assert.Equal(t, 20, p.Total)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8, 9}, p.Items)

	p = Paginate(items, 3, 9)
	assert.Equal(t, []int{19, 20}, p.Items)

	p = Paginate(items, 99, 9)
	assert.Equal(t, 3, p.Page)
	assert.Equal(t, []int{19, 20}, p.Items)

	p = Paginate(items, -1, 9)
	assert.Equal(t, 1, p.Page)

	empty := Paginate([]int(nil), 2, 9)
	assert.Equal(t, 1, empty.Page)
	assert.Equal(t, 0, empty.TotalPages)
	assert.NotNil(t, empty.Items)
	assert.Empty(t, empty.Items)
}

func TestPaginateHugePerPage(t *testing.T) {
	p := Paginate([]int{1, 2, 3, 4, 5}, 1, math.MaxInt)
	assert.Equal(t, 1, p.TotalPages)
	assert.Equal(t, 5, p.Total)
	assert.Equal(t, math.MaxInt, p.PerPage)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, p.Items)

	p = Paginate([]int{1, 2, 3}, math.MaxInt, math.MaxInt)
	assert.Equal(t, 1, p.Page)
	assert.Len(t, p.Items, 3)
}
