package agent

import (
	"context"
	"strings"

	"google.golang.org/genai"

	"home-library/internal/agent/deps"
)

// speechSampleRate is the PCM rate of Gemini TTS output.
const speechSampleRate = 24000

// GeminiLLMClient implements LLMClient using the Gemini API
type GeminiLLMClient struct {
	client  *genai.Client
	model   string
	breaker *Breaker
}

// NewGeminiLLMClient creates a new GeminiLLMClient
func NewGeminiLLMClient(client *genai.Client, model string, breaker *Breaker) *GeminiLLMClient {
	return &GeminiLLMClient{
		client:  client,
		model:   model,
		breaker: breaker,
	}
}

// GenerateContent generates content using the Gemini API
func (c *GeminiLLMClient) GenerateContent(ctx context.Context, prompt string, temperature float32, maxOutputTokens int32) (string, error) {
	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(temperature),
		MaxOutputTokens: maxOutputTokens,
	}

	return guard(c.breaker, func() (string, error) {
		resp, err := c.client.Models.GenerateContent(ctx, c.model, userContent(prompt), config)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(resp.Text()), nil
	})
}

// GeminiImageClient implements ImageClient with an image-output Gemini model
type GeminiImageClient struct {
	client  *genai.Client
	model   string
	breaker *Breaker
}

func NewGeminiImageClient(client *genai.Client, model string, breaker *Breaker) *GeminiImageClient {
	return &GeminiImageClient{client: client, model: model, breaker: breaker}
}

// GenerateImage returns the first inline image of the response
func (c *GeminiImageClient) GenerateImage(ctx context.Context, prompt string) (deps.Image, error) {
	config := &genai.GenerateContentConfig{
		ResponseModalities: []string{"IMAGE"},
	}

	return guard(c.breaker, func() (deps.Image, error) {
		resp, err := c.client.Models.GenerateContent(ctx, c.model, userContent(prompt), config)
		if err != nil {
			return deps.Image{}, err
		}
		blob := firstInlineData(resp)
		if blob == nil {
			return deps.Image{}, ErrEmptyResponse
		}
		mime := blob.MIMEType
		if mime == "" {
			mime = "image/png"
		}
		return deps.Image{Data: blob.Data, MIMEType: mime}, nil
	})
}

// GeminiSpeechClient implements SpeechClient with a TTS Gemini model
type GeminiSpeechClient struct {
	client   *genai.Client
	model    string
	voice    string
	language string
	breaker  *Breaker
}

func NewGeminiSpeechClient(client *genai.Client, model, voice, language string, breaker *Breaker) *GeminiSpeechClient {
	return &GeminiSpeechClient{client: client, model: model, voice: voice, language: language, breaker: breaker}
}

// Synthesize returns raw PCM audio for text
func (c *GeminiSpeechClient) Synthesize(ctx context.Context, text string) ([]byte, error) {
	config := &genai.GenerateContentConfig{
		ResponseModalities: []string{"AUDIO"},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: c.voice},
			},
			LanguageCode: c.language,
		},
	}

	return guard(c.breaker, func() ([]byte, error) {
		resp, err := c.client.Models.GenerateContent(ctx, c.model, userContent(text), config)
		if err != nil {
			return nil, err
		}
		blob := firstInlineData(resp)
		if blob == nil || len(blob.Data) == 0 {
			return nil, ErrEmptyResponse
		}
		return blob.Data, nil
	})
}

func (c *GeminiSpeechClient) SampleRate() int {
	return speechSampleRate
}

func userContent(text string) []*genai.Content {
	return []*genai.Content{
		{
			Role:  "user",
			Parts: []*genai.Part{{Text: text}},
		},
	}
}

func firstInlineData(resp *genai.GenerateContentResponse) *genai.Blob {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if part.InlineData != nil {
			return part.InlineData
		}
	}
	return nil
}
