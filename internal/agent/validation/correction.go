package validation

import (
	"context"
	"strings"

	"home-library/internal/agent/deps"
	"home-library/internal/agent/prompt"
	"home-library/internal/logging"
	"home-library/internal/model"
)

const (
	correctionTemperature = 0.2
	correctionMaxTokens   = 256
)

// ResponseCorrector regenerates an answer that failed a check, using a
// narrower prompt than the chat assistant's.
type ResponseCorrector struct {
	llm     deps.LLMClient
	books   deps.BookRepository
	prompts *prompt.Builder
}

func NewResponseCorrector(llm deps.LLMClient, books deps.BookRepository, prompts *prompt.Builder) *ResponseCorrector {
	return &ResponseCorrector{llm: llm, books: books, prompts: prompts}
}

// Generate answers about the selected book, or asks a follow-up question when
// there is none. The fallback message is returned on error or empty output.
func (c *ResponseCorrector) Generate(ctx context.Context, question string, bookID *int) (string, error) {
	var selected *model.Book
	if bookID != nil {
		selected = c.books.GetByID(*bookID)
	}

	text, err := c.llm.GenerateContent(ctx, c.prompts.BuildCorrectionPrompt(question, selected),
		correctionTemperature, correctionMaxTokens)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("component", "validation").Msg("correction failed")
		return prompt.FallbackMessage, err
	}
	if text = strings.TrimSpace(text); text == "" {
		return prompt.FallbackMessage, nil
	}
	return text, nil
}
