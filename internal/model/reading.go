package model

import (
	"slices"
	"strconv"
	"time"
)

// DateLayout is the calendar-date format used in the user-state file.
const DateLayout = "2006-01-02"

// StatusReading is the only status an in-progress entry carries.
const StatusReading = "reading"

// Progress is an in-progress reading entry.
type Progress struct {
	PagesRead int    `json:"pages_read"`
	StartDate string `json:"start_date"`
	Status    string `json:"status"`
}

// FinishedEntry records a completed read. A later finish of the same book overwrites it.
type FinishedEntry struct {
	StartDate  string `json:"start_date"`
	FinishDate string `json:"finish_date"`
	Pages      int    `json:"pages"`
}

// ReadingState is the single user's reading record. Map keys are decimal book ids,
// matching the on-disk format.
type ReadingState struct {
	ReadBooks        []int                    `json:"read_books"`
	Ratings          map[string]int           `json:"ratings"`
	CurrentlyReading map[string]Progress      `json:"currently_reading"`
	FinishedBooks    map[string]FinishedEntry `json:"finished_books"`
}

// NewReadingState returns the empty default state.
func NewReadingState() *ReadingState {
	s := &ReadingState{}
	s.Normalize()
	return s
}

// Normalize fills in nil collections left by older or hand-edited files.
func (s *ReadingState) Normalize() {
	if s.ReadBooks == nil {
		s.ReadBooks = []int{}
	}
	if s.Ratings == nil {
		s.Ratings = map[string]int{}
	}
	if s.CurrentlyReading == nil {
		s.CurrentlyReading = map[string]Progress{}
	}
	if s.FinishedBooks == nil {
		s.FinishedBooks = map[string]FinishedEntry{}
	}
}

// Key converts a book id to its map key.
func Key(id int) string {
	return strconv.Itoa(id)
}

func (s *ReadingState) IsRead(id int) bool {
	return slices.Contains(s.ReadBooks, id)
}

// Rating returns the stored rating, 0 when unrated.
func (s *ReadingState) Rating(id int) int {
	return s.Ratings[Key(id)]
}

// ReadSet returns read_books as a lookup set.
func (s *ReadingState) ReadSet() map[int]bool {
	set := make(map[int]bool, len(s.ReadBooks))
	for _, id := range s.ReadBooks {
		set[id] = true
	}
	return set
}

// Clone returns a deep copy.
func (s *ReadingState) Clone() *ReadingState {
	c := &ReadingState{
		ReadBooks:        slices.Clone(s.ReadBooks),
		Ratings:          make(map[string]int, len(s.Ratings)),
		CurrentlyReading: make(map[string]Progress, len(s.CurrentlyReading)),
		FinishedBooks:    make(map[string]FinishedEntry, len(s.FinishedBooks)),
	}
	for k, v := range s.Ratings {
		c.Ratings[k] = v
	}
	for k, v := range s.CurrentlyReading {
		c.CurrentlyReading[k] = v
	}
	for k, v := range s.FinishedBooks {
		c.FinishedBooks[k] = v
	}
	c.Normalize()
	return c
}

// FormatDate renders t in DateLayout.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
