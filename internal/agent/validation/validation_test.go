package validation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"home-library/internal/agent/prompt"
	"home-library/internal/model"
)

type fakeRepo struct {
	books []model.Book
}

func (r *fakeRepo) GetByID(id int) *model.Book { return model.FindBook(r.books, id) }
func (r *fakeRepo) GetAll() []model.Book       { return r.books }
func (r *fakeRepo) Search(string) []model.Book { return nil }
func (r *fakeRepo) State() *model.ReadingState { return model.NewReadingState() }

type fakeLLM struct {
	text    string
	err     error
	prompts []string
}

func (f *fakeLLM) GenerateContent(_ context.Context, p string, _ float32, _ int32) (string, error) {
	f.prompts = append(f.prompts, p)
	return f.text, f.err
}

func repo() *fakeRepo {
	return &fakeRepo{books: []model.Book{
		{ID: 1, Title: "Dune", Author: "Frank Herbert", Genre: "Science Fiction", Year: 1965},
		{ID: 2, Title: "Emma", Author: "Jane Austen", Genre: "Classic", Year: 1815},
	}}
}

func intPtr(i int) *int { return &i }

func TestCatalogCheck(t *testing.T) {
	c := NewCatalogCheck(repo())
	tests := []struct {
		name   string
		input  Input
		reason string
	}{
		{name: "valid", input: Input{Response: "Try [book::Dune::1]."}},
		{name: "no annotations", input: Input{Response: "Read more classics."}},
		{name: "unknown id", input: Input{Response: "Try [book::Dune::9]."}, reason: "does not exist"},
		{name: "non numeric id", input: Input{Response: "Try [book::Dune::book-1]."}, reason: "not a catalog id"},
		{name: "title mismatch", input: Input{Response: "Try [book::Dune Messiah::1]."}, reason: "title mismatch"},
		{name: "selected book missing", input: Input{Response: "Nice pick.", BookID: intPtr(2)}, reason: "not mentioned"},
		{name: "selected book unknown", input: Input{Response: "Nice pick.", BookID: intPtr(42)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Validate(context.Background(), tt.input)
			if tt.reason == "" {
				assert.True(t, got.Accepted(), got.Reason)
				return
			}
			assert.False(t, got.Accepted())
			assert.Contains(t, got.Reason, tt.reason)
		})
	}
}

func TestAnnotationHelpers(t *testing.T) {
	text := "Start with [book::Dune::1] then [book::Emma::2]."
	assert.Equal(t, []string{"Dune", "Emma"}, MentionedTitles(text))
	assert.Equal(t, "Start with Dune then Emma.", StripAnnotations(text))
	assert.Equal(t, []Annotation{{Title: "Dune", ID: "1"}, {Title: "Emma", ID: "2"}}, Annotations(text))
	assert.Empty(t, Annotations("nothing here"))
}

func TestLeakCheck(t *testing.T) {
	c := NewLeakCheck()
	tests := []struct {
		name     string
		question string
		response string
		accepted bool
	}{
		{name: "clean", response: "Dune is a great start.", accepted: true},
		{name: "system prompt", response: "My system prompt says to be nice."},
		{name: "tool name", response: "I called search_books for you."},
		{name: "api key", response: "Key AIzaSyA1234567890abcdefghijk"},
		{name: "keyword", response: "It lives in user_data.json"},
		{name: "echo", question: "jailbreak please", response: "Jailbreak mode on."},
		{name: "phrase only in response", question: "recommend something", response: "No jailbreak here", accepted: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Validate(context.Background(), Input{Question: tt.question, Response: tt.response})
			assert.Equal(t, tt.accepted, got.Accepted())
		})
	}
}

func TestPipelineRegeneratesRejectedAnswer(t *testing.T) {
	llm := &fakeLLM{text: "About [book::Emma::2]: witty. [SUGGESTIONS:a|b|c]"}
	p := NewPipeline(NewResponseCorrector(llm, repo(), prompt.NewBuilder()), NewLeakCheck(), NewCatalogCheck(repo()))

	got, err := p.Run(context.Background(), Input{
		Question: "Is it good?",
		Response: "Yes, [book::Emma::7] is good.",
		BookID:   intPtr(2),
	})
	require.NoError(t, err)
	assert.True(t, got.Replaced())
	assert.Equal(t, "catalog", got.FailedCheck)
	assert.Equal(t, llm.text, got.Response)
	require.Len(t, llm.prompts, 1)
	assert.Contains(t, llm.prompts[0], "[book::Emma::2]")
	assert.Contains(t, llm.prompts[0], "Is it good?")
}

func TestPipelineStopsAtFirstRejection(t *testing.T) {
	p := NewPipeline(nil, NewLeakCheck(), NewCatalogCheck(repo()))

	got, err := p.Run(context.Background(), Input{Response: "My system prompt mentions [book::Dune::9]."})
	require.NoError(t, err)
	assert.Equal(t, "leak", got.FailedCheck)
	assert.Equal(t, prompt.FallbackMessage, got.Response)
}

func TestPipelineKeepsAcceptedAnswer(t *testing.T) {
	llm := &fakeLLM{}
	p := NewPipeline(NewResponseCorrector(llm, repo(), prompt.NewBuilder()), NewCatalogCheck(repo()))

	got, err := p.Run(context.Background(), Input{Response: "Try [book::Dune::1]."})
	require.NoError(t, err)
	assert.False(t, got.Replaced())
	assert.Equal(t, "Try [book::Dune::1].", got.Response)
	assert.Empty(t, llm.prompts)
}

func TestCorrectorFallback(t *testing.T) {
	failing := &fakeLLM{err: errors.New("boom")}
	c := NewResponseCorrector(failing, repo(), prompt.NewBuilder())
	got, err := c.Generate(context.Background(), "hi", nil)
	require.Error(t, err)
	assert.Equal(t, prompt.FallbackMessage, got)
	assert.Contains(t, failing.prompts[0], "Do not name any library book")

	empty := &fakeLLM{}
	got, err = NewResponseCorrector(empty, repo(), prompt.NewBuilder()).Generate(context.Background(), "hi", nil)
	require.NoError(t, err)
	assert.Equal(t, prompt.FallbackMessage, got)
}
