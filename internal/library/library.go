// Package library ties the catalog, the reading tracker, the stored API key
// and the AI gateway together for the HTTP handlers and the CLI.
package library

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"home-library/internal/agent"
	"home-library/internal/catalog"
	"home-library/internal/config"
	"home-library/internal/logging"
	"home-library/internal/model"
	"home-library/internal/reading"
	"home-library/internal/storage"
)

var (
	// ErrInvalidAPIKey means an empty or whitespace key was submitted.
	ErrInvalidAPIKey = errors.New("api key must not be empty")
	// ErrAIDisabled means no gateway provider is attached.
	ErrAIDisabled = errors.New("ai features are not enabled")
)

type Library struct {
	Catalog *catalog.Store
	Tracker *reading.Tracker

	credential  *storage.CredentialFile
	fallbackKey string

	mu       sync.RWMutex
	gateways *agent.Provider
}

// New wires a library over the given files. fallbackKey is used while no key
// has been stored through SetAPIKey.
func New(store *catalog.Store, tracker *reading.Tracker, credential *storage.CredentialFile, fallbackKey string) *Library {
	return &Library{
		Catalog:     store,
		Tracker:     tracker,
		credential:  credential,
		fallbackKey: strings.TrimSpace(fallbackKey),
	}
}

// Open builds a library from the data section of the configuration.
func Open(data config.DataConfig, fallbackKey string) *Library {
	store := catalog.NewStore(storage.NewBookFile(data.BooksPath()))
	tracker := reading.NewTracker(storage.NewStateFile(data.StatePath()), store)
	return New(store, tracker, storage.NewCredentialFile(data.CredentialPath()), fallbackKey)
}

// WithGateways attaches the AI gateway provider.
func (l *Library) WithGateways(p *agent.Provider) *Library {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.gateways = p
	return l
}

// EnableGemini attaches a provider that builds Gemini gateways whose chat
// tools read this library.
func (l *Library) EnableGemini(s agent.Settings) *Library {
	repo := agent.NewLibraryRepository(l)
	return l.WithGateways(agent.NewProvider(agent.GeminiFactory(s, repo)))
}

// Books returns the catalog. Together with State it lets the library serve
// as the chat tools' data source.
func (l *Library) Books() ([]model.Book, error) {
	return l.Catalog.Books()
}

func (l *Library) State() (*model.ReadingState, error) {
	return l.Tracker.State()
}

// DeleteBook removes a book from the catalog and then every trace of it
// from the reading state.
func (l *Library) DeleteBook(id int) error {
	if err := l.Catalog.Delete(id); err != nil {
		return err
	}
	if err := l.Tracker.DeleteBook(id); err != nil {
		return fmt.Errorf("book %d deleted but reading state cleanup failed: %w", id, err)
	}
	return nil
}

// Credential describes the configured key without revealing it.
type Credential struct {
	Configured bool   `json:"configured"`
	Masked     string `json:"masked,omitempty"`
	Source     string `json:"source,omitempty"`
}

// Credential sources.
const (
	SourceStored = "stored"
	SourceConfig = "config"
)

// APIKey returns the stored key, falling back to the configured one.
func (l *Library) APIKey() (string, Credential, error) {
	key, err := l.credential.LoadKey()
	if err != nil {
		return "", Credential{}, fmt.Errorf("failed to load api key: %w", err)
	}
	key = strings.TrimSpace(key)
	switch {
	case key != "":
		return key, Credential{Configured: true, Masked: Mask(key), Source: SourceStored}, nil
	case l.fallbackKey != "":
		return l.fallbackKey, Credential{Configured: true, Masked: Mask(l.fallbackKey), Source: SourceConfig}, nil
	default:
		return "", Credential{}, nil
	}
}

// SetAPIKey stores key, replacing any previous one.
func (l *Library) SetAPIKey(key string) (Credential, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return Credential{}, ErrInvalidAPIKey
	}
	if err := l.credential.SaveKey(key); err != nil {
		return Credential{}, fmt.Errorf("failed to save api key: %w", err)
	}
	logging.Info().Str("component", "library").Msg("api key updated")
	return Credential{Configured: true, Masked: Mask(key), Source: SourceStored}, nil
}

// Mask keeps the first four characters of a key.
func Mask(key string) string {
	const visible = 4
	if len(key) <= visible {
		return strings.Repeat("*", len(key))
	}
	return key[:visible] + strings.Repeat("*", 8)
}

// Gateway returns the AI gateway for the current key.
func (l *Library) Gateway(ctx context.Context) (*agent.Gateway, error) {
	l.mu.RLock()
	p := l.gateways
	l.mu.RUnlock()
	if p == nil {
		return nil, ErrAIDisabled
	}

	key, _, err := l.APIKey()
	if err != nil {
		return nil, err
	}
	return p.Gateway(ctx, key)
}
