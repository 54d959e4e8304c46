// Package stats derives reading statistics from the catalog and reading state.
package stats

import (
	"slices"
	"time"

	"home-library/internal/model"
)

const (
	topGenres  = 3
	topAuthors = 5
	topRated   = 5
)

// Count is a label with how many read books carry it.
type Count struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type RatedBook struct {
	ID     int    `json:"id"`
	Title  string `json:"title"`
	Rating int    `json:"rating"`
}

// HistoryEntry is one finished book. Days is nil when either date is unreadable.
type HistoryEntry struct {
	ID         int    `json:"id"`
	Title      string `json:"title"`
	Author     string `json:"author"`
	Pages      int    `json:"pages"`
	StartDate  string `json:"start_date"`
	FinishDate string `json:"finish_date"`
	Days       *int   `json:"days"`
}

type Reading struct {
	CurrentlyReading int            `json:"currently_reading"`
	Finished         int            `json:"finished"`
	PagesInProgress  int            `json:"pages_in_progress"`
	History          []HistoryEntry `json:"history"`
	AverageDays      float64        `json:"average_days"`
	PagesFinished    int            `json:"pages_finished"`
	PagesPerDay      float64        `json:"pages_per_day"`
}

type Summary struct {
	TotalBooks    int         `json:"total_books"`
	ReadCount     int         `json:"read_count"`
	PagesRead     int         `json:"pages_read"`
	AverageRating float64     `json:"average_rating"`
	RatedCount    int         `json:"rated_count"`
	TopGenres     []Count     `json:"top_genres"`
	Genres        []Count     `json:"genres"`
	TopAuthors    []Count     `json:"top_authors"`
	BestRated     []RatedBook `json:"best_rated"`
	Reading       Reading     `json:"reading"`
}

// Compute builds the summary. Lists follow catalog order where counts tie.
func Compute(books []model.Book, state *model.ReadingState) Summary {
	read := state.ReadSet()
	s := Summary{
		TotalBooks: len(books),
		ReadCount:  len(state.ReadBooks),
		BestRated:  []RatedBook{},
	}

	var genres, authors counter
	for _, b := range books {
		if !read[b.ID] {
			continue
		}
		s.PagesRead += b.Pages
		genres.add(b.Genre)
		authors.add(b.Author)
		if r := state.Rating(b.ID); r > 0 {
			s.BestRated = append(s.BestRated, RatedBook{ID: b.ID, Title: b.Title, Rating: r})
		}
	}

	if n := len(state.Ratings); n > 0 {
		sum := 0
		for _, r := range state.Ratings {
			sum += r
		}
		s.RatedCount = n
		s.AverageRating = float64(sum) / float64(n)
	}

	s.Genres = genres.sorted()
	s.TopGenres = head(s.Genres, topGenres)
	s.TopAuthors = head(authors.sorted(), topAuthors)
	slices.SortStableFunc(s.BestRated, func(a, b RatedBook) int { return b.Rating - a.Rating })
	s.BestRated = head(s.BestRated, topRated)
	s.Reading = readingStats(books, state)
	return s
}

func readingStats(books []model.Book, state *model.ReadingState) Reading {
	r := Reading{
		CurrentlyReading: len(state.CurrentlyReading),
		Finished:         len(state.FinishedBooks),
		History:          []HistoryEntry{},
	}
	for _, p := range state.CurrentlyReading {
		r.PagesInProgress += p.PagesRead
	}

	totalDays, timed := 0, 0
	for _, b := range books {
		entry, ok := state.FinishedBooks[model.Key(b.ID)]
		if !ok {
			continue
		}
		h := HistoryEntry{
			ID:         b.ID,
			Title:      b.Title,
			Author:     b.Author,
			Pages:      b.Pages,
			StartDate:  entry.StartDate,
			FinishDate: entry.FinishDate,
		}
		if entry.Pages > 0 {
			h.Pages = entry.Pages
		}
		if days, ok := DaysBetween(entry.StartDate, entry.FinishDate); ok {
			h.Days = &days
			totalDays += days
			timed++
			r.PagesFinished += h.Pages
		}
		r.History = append(r.History, h)
	}
	if timed > 0 {
		r.AverageDays = float64(totalDays) / float64(timed)
		if totalDays > 0 {
			r.PagesPerDay = float64(r.PagesFinished) / float64(totalDays)
		}
	}
	return r
}

// DaysBetween counts calendar days from start to finish inclusive, so a book
// started and finished on the same day took one day.
func DaysBetween(start, finish string) (int, bool) {
	s, err := time.Parse(model.DateLayout, start)
	if err != nil {
		return 0, false
	}
	f, err := time.Parse(model.DateLayout, finish)
	if err != nil {
		return 0, false
	}
	return int(f.Sub(s).Hours()/24) + 1, true
}

type counter struct {
	counts []Count
	index  map[string]int
}

func (c *counter) add(name string) {
	if c.index == nil {
		c.index = map[string]int{}
	}
	i, ok := c.index[name]
	if !ok {
		i = len(c.counts)
		c.index[name] = i
		c.counts = append(c.counts, Count{Name: name})
	}
	c.counts[i].Count++
}

func (c *counter) sorted() []Count {
	out := slices.Clone(c.counts)
	if out == nil {
		out = []Count{}
	}
	slices.SortStableFunc(out, func(a, b Count) int { return b.Count - a.Count })
	return out
}

func head[T any](items []T, n int) []T {
	return items[:min(n, len(items))]
}
