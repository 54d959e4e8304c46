package agent

import (
	"context"
	"fmt"
	"sync"

	"google.golang.org/genai"

	"home-library/internal/agent/deps"
	"home-library/internal/logging"
)

// Settings selects the Gemini models and breaker behaviour.
type Settings struct {
	TextModel       string
	ChatTemperature float32
	ImageModel      string
	SpeechModel     string
	Voice           string
	SpeechLanguage  string
	AudioDir        string
	Breaker         BreakerSettings
}

// Factory builds a gateway for an API key.
type Factory func(ctx context.Context, apiKey string) (*Gateway, error)

// GeminiFactory returns a Factory wiring the Gemini clients and the chat
// assistant over repo. One breaker is shared by every gateway it builds.
func GeminiFactory(s Settings, repo deps.BookRepository) Factory {
	breaker := NewBreaker("gemini", s.Breaker)
	return func(ctx context.Context, apiKey string) (*Gateway, error) {
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  apiKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create genai client: %w", err)
		}

		llm := NewGeminiLLMClient(client, s.TextModel, breaker)
		opts := []GatewayOption{}
		if s.AudioDir != "" {
			opts = append(opts, WithAudioDir(s.AudioDir))
		}

		assistant, err := NewAssistant(ctx, AssistantConfig{
			APIKey:      apiKey,
			Model:       s.TextModel,
			Temperature: s.ChatTemperature,
		}, repo, llm, breaker)
		if err != nil {
			// The other features still work without chat.
			logging.Ctx(ctx).Warn().Err(err).Str("component", "gateway").Msg("chat assistant unavailable")
		} else {
			opts = append(opts, WithChat(assistant))
		}

		return NewGateway(
			llm,
			NewGeminiImageClient(client, s.ImageModel, breaker),
			NewGeminiSpeechClient(client, s.SpeechModel, s.Voice, s.SpeechLanguage, breaker),
			opts...,
		), nil
	}
}

// Provider hands out a gateway for the current API key, rebuilding it only
// when the key changes.
type Provider struct {
	build Factory

	mu      sync.Mutex
	key     string
	gateway *Gateway
}

func NewProvider(build Factory) *Provider {
	return &Provider{build: build}
}

// Gateway returns the gateway for apiKey. An empty key yields ErrNoAPIKey.
func (p *Provider) Gateway(ctx context.Context, apiKey string) (*Gateway, error) {
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.gateway != nil && p.key == apiKey {
		return p.gateway, nil
	}

	g, err := p.build(ctx, apiKey)
	if err != nil {
		return nil, gatewayError(err)
	}
	p.key = apiKey
	p.gateway = g
	logging.Ctx(ctx).Info().Str("component", "gateway").Msg("gateway built for new api key")
	return g, nil
}
