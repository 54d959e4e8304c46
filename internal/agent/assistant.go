package agent

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/adk/agent"
	"google.golang.org/adk/agent/llmagent"
	"google.golang.org/adk/model/gemini"
	"google.golang.org/adk/runner"
	"google.golang.org/adk/session"
	"google.golang.org/genai"

	"home-library/internal/agent/deps"
	"home-library/internal/agent/prompt"
	"home-library/internal/agent/response"
	"home-library/internal/agent/validation"
	"home-library/internal/logging"
	"home-library/internal/model"
)

// AppName identifies the assistant's sessions in the ADK session service.
const AppName = "home_library"

const chatMaxTokens = 2048

// ChatResponse is the parsed response from the assistant
type ChatResponse = response.ChatResponse

// AssistantConfig configures the chat assistant.
type AssistantConfig struct {
	APIKey      string
	Model       string
	Temperature float32
}

// Assistant is the tool-using librarian behind the chat endpoint. Every answer
// passes the validation pipeline before it is returned.
type Assistant struct {
	runner   *runner.Runner
	convs    *conversations
	books    deps.BookRepository
	pipeline *validation.Pipeline
	breaker  *Breaker
}

// NewAssistant builds the agent over books. llm serves the corrector that
// regenerates rejected answers.
func NewAssistant(ctx context.Context, cfg AssistantConfig, books deps.BookRepository, llm deps.LLMClient, breaker *Breaker) (*Assistant, error) {
	if cfg.APIKey == "" {
		return nil, ErrNoAPIKey
	}

	gm, err := gemini.NewModel(ctx, cfg.Model, &genai.ClientConfig{APIKey: cfg.APIKey})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini model: %w", err)
	}
	tools, err := NewLibraryTools(books).BuildTools()
	if err != nil {
		return nil, fmt.Errorf("failed to build tools: %w", err)
	}

	prompts := prompt.NewBuilder()
	librarian, err := llmagent.New(llmagent.Config{
		Name:        AppName,
		Model:       gm,
		Description: "A librarian that knows the user's home library and reading history.",
		Instruction: prompts.BuildSystemPrompt(),
		Tools:       tools,
		GenerateContentConfig: &genai.GenerateContentConfig{
			Temperature:     genai.Ptr(cfg.Temperature),
			MaxOutputTokens: chatMaxTokens,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM agent: %w", err)
	}

	sessions := session.InMemoryService()
	r, err := runner.New(runner.Config{AppName: AppName, Agent: librarian, SessionService: sessions})
	if err != nil {
		return nil, fmt.Errorf("failed to create runner: %w", err)
	}

	return &Assistant{
		runner: r,
		convs:  newConversations(sessions),
		books:  books,
		pipeline: validation.NewPipeline(
			validation.NewResponseCorrector(llm, books, prompts),
			validation.NewLeakCheck(),
			validation.NewCatalogCheck(books),
		),
		breaker: breaker,
	}, nil
}

// CreateSession starts a conversation for userID.
func (a *Assistant) CreateSession(ctx context.Context, userID string) (string, error) {
	return a.convs.create(ctx, userID)
}

// Chat answers one message within a session. bookID, when set, pins the
// answer to that catalog book.
func (a *Assistant) Chat(ctx context.Context, userID, sessionID, message string, bookID *int) (*ChatResponse, error) {
	log := logging.Ctx(ctx).With().Str("component", "assistant").Str("session_id", sessionID).Logger()

	t, err := a.convs.begin(ctx, userID, sessionID)
	if err != nil {
		log.Warn().Err(err).Msg("session housekeeping failed")
	}

	raw, err := guard(a.breaker, func() (string, error) {
		return a.run(ctx, userID, t.SessionID, a.withContext(message, bookID, t))
	})
	if err != nil {
		return nil, gatewayError(err)
	}
	if strings.TrimSpace(raw) == "" {
		return nil, gatewayError(ErrEmptyResponse)
	}
	log.Debug().Str("raw", raw).Msg("agent response")

	first := response.Parse(raw)
	out, err := a.pipeline.Run(ctx, validation.Input{
		Question:      message,
		Response:      first.Response,
		BookID:        bookID,
		PreviousBooks: t.Recommended,
	})
	if err != nil {
		log.Warn().Err(err).Msg("regenerating rejected answer failed")
	}
	a.convs.remember(t.SessionID, validation.MentionedTitles(out.Response))

	final := response.Parse(out.Response)
	// A regenerated answer carries its own suggestions.
	if len(final.Suggestions) == 0 {
		final.Suggestions = first.Suggestions
	}
	return final, nil
}

// withContext prefixes message with what the agent should know this turn.
func (a *Assistant) withContext(message string, bookID *int, t turn) string {
	var selected *model.Book
	if bookID != nil {
		selected = a.books.GetByID(*bookID)
	}
	books := a.books.GetAll()
	genres := make([]string, 0, len(books))
	for _, b := range books {
		genres = append(genres, b.Genre)
	}
	return prompt.BuildMessageContext(message, prompt.ContextOptions{
		SelectedBook:       selected,
		PreviousBooks:      t.Recommended,
		RecentConversation: t.History,
		LibrarySize:        len(books),
		Genres:             unique(genres),
	})
}

// run sends one message through the runner and joins the text it produces.
func (a *Assistant) run(ctx context.Context, userID, sessionID, text string) (string, error) {
	msg := &genai.Content{Role: "user", Parts: []*genai.Part{{Text: text}}}
	var sb strings.Builder
	for event, err := range a.runner.Run(ctx, userID, sessionID, msg, agent.RunConfig{StreamingMode: agent.StreamingModeNone}) {
		if err != nil {
			return "", fmt.Errorf("agent run: %w", err)
		}
		if event.Content == nil {
			continue
		}
		for _, part := range event.Content.Parts {
			sb.WriteString(part.Text)
		}
	}
	return sb.String(), nil
}
