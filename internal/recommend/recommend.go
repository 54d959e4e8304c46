// Package recommend ranks unread books by genre affinity.
package recommend

import (
	"slices"

	"home-library/internal/model"
)

const (
	// DefaultLimit is the size of the recommendations list shown to the user.
	DefaultLimit = 50
	// MinAffinityRating is the lowest rating that counts toward a genre's score.
	MinAffinityRating = 4
)

// GenreScore is the accumulated rating of one genre.
type GenreScore struct {
	Genre string `json:"genre"`
	Score int    `json:"score"`
}

// Affinity scores genres from ratings of MinAffinityRating or more, highest
// first. Equal scores keep the order in which the genre was first seen while
// walking the catalog. Genres without a qualifying rating are absent.
func Affinity(books []model.Book, state *model.ReadingState) []GenreScore {
	var scores []GenreScore
	index := map[string]int{}
	for _, b := range books {
		rating, ok := state.Ratings[model.Key(b.ID)]
		if !ok || rating < MinAffinityRating {
			continue
		}
		i, seen := index[b.Genre]
		if !seen {
			i = len(scores)
			index[b.Genre] = i
			scores = append(scores, GenreScore{Genre: b.Genre})
		}
		scores[i].Score += rating
	}
	slices.SortStableFunc(scores, func(a, b GenreScore) int { return b.Score - a.Score })
	return scores
}

// Recommend returns at most limit unread books. With nothing read yet it
// returns the head of the catalog. Otherwise books from the best-scoring genres
// come first and the remaining unread books fill the rest, all in catalog order.
func Recommend(books []model.Book, state *model.ReadingState, limit int) []model.Book {
	out := []model.Book{}
	if limit <= 0 {
		return out
	}
	if state == nil || len(state.ReadBooks) == 0 {
		return append(out, books[:min(limit, len(books))]...)
	}

	read := state.ReadSet()
	picked := map[int]bool{}
	take := func(b model.Book) bool {
		if read[b.ID] || picked[b.ID] {
			return false
		}
		picked[b.ID] = true
		out = append(out, b)
		return len(out) >= limit
	}

	for _, g := range Affinity(books, state) {
		for _, b := range books {
			if b.Genre == g.Genre && take(b) {
				return out
			}
		}
	}
	for _, b := range books {
		if take(b) {
			return out
		}
	}
	return out
}
