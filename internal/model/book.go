package model

// PlaceholderCover is used when a book has no cover of its own.
const PlaceholderCover = "https://via.placeholder.com/300x450/667eea/ffffff?text=No+Cover"

type Book struct {
	ID          int    `json:"id"`
	Title       string `json:"title" validate:"required"`
	Author      string `json:"author" validate:"required"`
	Genre       string `json:"genre" validate:"required"`
	Description string `json:"description" validate:"required"`
	Cover       string `json:"cover,omitempty"`
	Year        int    `json:"year" validate:"min=1"`
	Pages       int    `json:"pages" validate:"min=1"`
}

// BookPatch carries the fields submitted on edit. Zero values mean "keep".
type BookPatch struct {
	Title       string `json:"title"`
	Author      string `json:"author"`
	Genre       string `json:"genre"`
	Description string `json:"description"`
	Cover       string `json:"cover"`
	Year        int    `json:"year" binding:"min=0"`
	Pages       int    `json:"pages" binding:"min=0"`
}

// BookResponse is a book as the API shows it, joined with the reader's status.
type BookResponse struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Author      string `json:"author"`
	Genre       string `json:"genre"`
	Description string `json:"description"`
	Cover       string `json:"cover"`
	Year        int    `json:"year"`
	Pages       int    `json:"pages"`
	Read        bool   `json:"read"`
	Rating      int    `json:"rating"`
	Reading     bool   `json:"reading"`
}

func (b *Book) ToResponse(state *ReadingState) BookResponse {
	cover := b.Cover
	if cover == "" {
		cover = PlaceholderCover
	}
	resp := BookResponse{
		ID:          b.ID,
		Title:       b.Title,
		Author:      b.Author,
		Genre:       b.Genre,
		Description: b.Description,
		Cover:       cover,
		Year:        b.Year,
		Pages:       b.Pages,
	}
	if state != nil {
		resp.Read = state.IsRead(b.ID)
		resp.Rating = state.Rating(b.ID)
		_, resp.Reading = state.CurrentlyReading[Key(b.ID)]
	}
	return resp
}

// FindBook returns the book with the given id, or nil.
func FindBook(books []Book, id int) *Book {
	for i := range books {
		if books[i].ID == id {
			return &books[i]
		}
	}
	return nil
}
