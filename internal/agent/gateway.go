package agent

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"home-library/internal/agent/deps"
	"home-library/internal/agent/prompt"
	"home-library/internal/agent/response"
	"home-library/internal/agent/sanitize"
	"home-library/internal/logging"
	"home-library/internal/model"
)

// CoverStyles are the accepted cover art styles.
var CoverStyles = []string{"Photorealistic", "Cartoon", "Oil Painting", "Cyberpunk", "Sketch"}

const (
	summaryTemperature = 0.7
	summaryMaxTokens   = 300

	profileTemperature = 0.9
	profileMaxTokens   = 1024
	lookupTemperature  = 0.2
	lookupMaxTokens    = 1024
)

var (
	// ErrEmptyQuery means a lookup or chat was sent without text.
	ErrEmptyQuery = errors.New("query is empty")
	// ErrChatUnavailable means the gateway was built without a chat assistant.
	ErrChatUnavailable = errors.New("chat assistant is not available")
)

// ChatBackend is the conversational assistant behind Gateway.Chat.
type ChatBackend interface {
	Chat(ctx context.Context, userID, sessionID, message string, bookID *int) (*ChatResponse, error)
	CreateSession(ctx context.Context, userID string) (string, error)
}

// Gateway is the single entry point for generative features. Every backend
// failure is returned wrapped in ErrGateway; nothing is retried.
type Gateway struct {
	llm      deps.LLMClient
	images   deps.ImageClient
	speech   deps.SpeechClient
	chat     ChatBackend
	prompts  *prompt.Builder
	audioDir string
}

// GatewayOption customizes a Gateway.
type GatewayOption func(*Gateway)

// WithAudioDir sets where narrated summaries are written. Default os.TempDir().
func WithAudioDir(dir string) GatewayOption {
	return func(g *Gateway) { g.audioDir = dir }
}

// WithChat attaches the chat assistant.
func WithChat(c ChatBackend) GatewayOption {
	return func(g *Gateway) { g.chat = c }
}

func NewGateway(llm deps.LLMClient, images deps.ImageClient, speech deps.SpeechClient, opts ...GatewayOption) *Gateway {
	g := &Gateway{
		llm:      llm,
		images:   images,
		speech:   speech,
		prompts:  prompt.NewBuilder(),
		audioDir: os.TempDir(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Recommendation is a parsed dual recommendation. LibraryBook is the catalog
// entry behind Library, nil when the suggested id is not in the catalog.
type Recommendation struct {
	response.DualRecommendation
	LibraryBook *model.Book `json:"library_book"`
}

// RecommendPair asks for one unread book from the catalog and one book the
// user does not own, based on what they read and how they rated it.
func (g *Gateway) RecommendPair(ctx context.Context, books []model.Book, state *model.ReadingState) (*Recommendation, error) {
	if len(state.ReadBooks) == 0 {
		return nil, ErrNoReadingHistory
	}

	text, err := g.llm.GenerateContent(ctx, g.prompts.BuildDualRecommendationPrompt(books, state), profileTemperature, profileMaxTokens)
	if err != nil {
		return nil, gatewayError(err)
	}

	rec := &Recommendation{DualRecommendation: response.ParseDualRecommendation(text)}
	if rec.Library != nil {
		if b := model.FindBook(books, rec.Library.ID); b != nil {
			found := *b
			rec.LibraryBook = &found
		}
	}

	logging.Ctx(ctx).Info().Str("component", "gateway").
		Str("status", rec.Status.String()).
		Bool("library_resolved", rec.LibraryBook != nil).
		Msg("dual recommendation")
	return rec, nil
}

// LookupBook asks for the details of a book given a title or a description.
func (g *Gateway) LookupBook(ctx context.Context, query string) (response.BookLookup, error) {
	query = sanitize.Query(query)
	if query == "" {
		return response.BookLookup{}, ErrEmptyQuery
	}

	text, err := g.llm.GenerateContent(ctx, g.prompts.BuildLookupPrompt(query), lookupTemperature, lookupMaxTokens)
	if err != nil {
		return response.BookLookup{}, gatewayError(err)
	}

	lookup := response.ParseBookLookup(text)
	logging.Ctx(ctx).Info().Str("component", "gateway").Str("status", lookup.Status.String()).Msg("book lookup")
	return lookup, nil
}

// Summarize writes a short spoken-style summary of a book.
func (g *Gateway) Summarize(ctx context.Context, book model.Book) (string, error) {
	text, err := g.llm.GenerateContent(ctx, g.prompts.BuildSummaryPrompt(book), summaryTemperature, summaryMaxTokens)
	if err != nil {
		return "", gatewayError(err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", gatewayError(ErrEmptyResponse)
	}
	return text, nil
}

// AudioPath is where the narration of title is written. Titles that hash
// alike share a file.
func (g *Gateway) AudioPath(title string) string {
	h := fnv.New64a()
	_, _ = h.Write([]byte(title))
	return filepath.Join(g.audioDir, fmt.Sprintf("book_summary_%x.wav", h.Sum64()))
}

// Narrate synthesizes text and writes it as a WAV file, returning the path.
func (g *Gateway) Narrate(ctx context.Context, title, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyQuery
	}

	pcm, err := g.speech.Synthesize(ctx, text)
	if err != nil {
		return "", gatewayError(err)
	}

	path := g.AudioPath(title)
	if err := writeWAV(path, pcm, g.speech.SampleRate()); err != nil {
		return "", fmt.Errorf("writing narration: %w", err)
	}

	logging.Ctx(ctx).Info().Str("component", "gateway").Str("path", path).Int("bytes", len(pcm)).Msg("narration written")
	return path, nil
}

// writeWAV stores 16-bit little-endian mono PCM as a WAV file.
func writeWAV(path string, pcm []byte, sampleRate int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	samples := make([]int, len(pcm)/2)
	for i := range samples {
		samples[i] = int(int16(uint16(pcm[2*i]) | uint16(pcm[2*i+1])<<8))
	}

	enc := wav.NewEncoder(f, sampleRate, 16, 1, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:           samples,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		_ = f.Close()
		return err
	}
	if err := enc.Close(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// CanonicalStyle matches style against CoverStyles ignoring case.
func CanonicalStyle(style string) (string, bool) {
	for _, s := range CoverStyles {
		if strings.EqualFold(strings.TrimSpace(style), s) {
			return s, true
		}
	}
	return "", false
}

// GenerateCover draws a cover from a description in one of CoverStyles.
func (g *Gateway) GenerateCover(ctx context.Context, description, style string) (deps.Image, error) {
	canonical, ok := CanonicalStyle(style)
	if !ok {
		return deps.Image{}, fmt.Errorf("%w: %q", ErrInvalidStyle, style)
	}
	if strings.TrimSpace(description) == "" {
		return deps.Image{}, ErrEmptyQuery
	}

	img, err := g.images.GenerateImage(ctx, g.prompts.BuildCoverPrompt(description, canonical))
	if err != nil {
		return deps.Image{}, gatewayError(err)
	}
	return img, nil
}

// ChatRequest is one message to the library assistant. An empty SessionID
// starts a new conversation.
type ChatRequest struct {
	UserID    string
	SessionID string
	Message   string
	BookID    *int
}

// ChatResult is the assistant's answer and the session to continue with.
type ChatResult struct {
	Response    string   `json:"response"`
	Suggestions []string `json:"suggestions"`
	SessionID   string   `json:"session_id"`
}

// Chat forwards a question to the library assistant.
func (g *Gateway) Chat(ctx context.Context, req ChatRequest) (*ChatResult, error) {
	if g.chat == nil {
		return nil, ErrChatUnavailable
	}
	if strings.TrimSpace(req.Message) == "" {
		return nil, ErrEmptyQuery
	}

	sessionID := req.SessionID
	if sessionID == "" {
		id, err := g.chat.CreateSession(ctx, req.UserID)
		if err != nil {
			return nil, fmt.Errorf("creating chat session: %w", err)
		}
		sessionID = id
	}

	resp, err := g.chat.Chat(ctx, req.UserID, sessionID, req.Message, req.BookID)
	if err != nil {
		return nil, gatewayError(err)
	}
	return &ChatResult{Response: resp.Response, Suggestions: resp.Suggestions, SessionID: sessionID}, nil
}

// NewPickBook turns an accepted "new" suggestion into a catalog entry without an id.
func NewPickBook(p response.NewPick) model.Book {
	desc := p.Reason
	if desc == "" {
		desc = response.DefaultDescription
	}
	return model.Book{
		Title:       p.Title,
		Author:      p.Author,
		Genre:       response.DefaultGenre,
		Year:        response.DefaultYear,
		Pages:       response.DefaultPages,
		Description: desc,
		Cover:       model.PlaceholderCover,
	}
}
