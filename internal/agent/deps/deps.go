package deps

import (
	"context"

	"home-library/internal/model"
)

// LLMClient abstracts text generation calls
type LLMClient interface {
	GenerateContent(ctx context.Context, prompt string, temperature float32, maxOutputTokens int32) (string, error)
}

// Image is a generated picture and its MIME type
type Image struct {
	Data     []byte
	MIMEType string
}

// ImageClient abstracts image generation calls
type ImageClient interface {
	GenerateImage(ctx context.Context, prompt string) (Image, error)
}

// SpeechClient turns text into raw 16-bit little-endian mono PCM
type SpeechClient interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
	SampleRate() int
}

// BookRepository abstracts book data access for the chat tools and validators
type BookRepository interface {
	GetByID(id int) *model.Book
	GetAll() []model.Book
	Search(query string) []model.Book
	State() *model.ReadingState
}
