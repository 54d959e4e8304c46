// Package config loads the library's settings from defaults, an optional YAML
// file and the environment, in that order of precedence (env wins).
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// ConfigPathEnvVar overrides the YAML config path.
const ConfigPathEnvVar = "CONFIG_PATH"

// DefaultConfigPaths are searched in order when CONFIG_PATH is unset.
var DefaultConfigPaths = []string{"config.yaml", "config.yml"}

type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Data      DataConfig      `koanf:"data"`
	AI        AIConfig        `koanf:"ai"`
	RateLimit RateLimitConfig `koanf:"ratelimit"`
	Logging   LoggingConfig   `koanf:"logging"`
}

type ServerConfig struct {
	Port           string   `koanf:"port"`
	Env            string   `koanf:"env"`
	AllowedOrigins []string `koanf:"allowed_origins"`
	StaticDir      string   `koanf:"static_dir"`
}

type DataConfig struct {
	Dir            string `koanf:"dir"`
	BooksFile      string `koanf:"books_file"`
	StateFile      string `koanf:"state_file"`
	CredentialFile string `koanf:"credential_file"`
}

type AIConfig struct {
	// APIKey is used when no credential has been stored through the API.
	APIKey      string `koanf:"api_key"`
	TextModel   string `koanf:"text_model"`
	ImageModel  string `koanf:"image_model"`
	SpeechModel string `koanf:"speech_model"`
	Voice       string `koanf:"voice"`
	// SpeechLanguage is the BCP-47 code narration is spoken in.
	SpeechLanguage  string  `koanf:"speech_language"`
	ChatTemperature float32 `koanf:"chat_temperature"`
	// AudioDir holds narrated summaries. Empty means the OS temp dir.
	AudioDir string `koanf:"audio_dir"`
	// BreakerFailures consecutive failures open the breaker for BreakerTimeout.
	BreakerFailures uint32        `koanf:"breaker_failures"`
	BreakerTimeout  time.Duration `koanf:"breaker_timeout"`
}

type RateLimitConfig struct {
	PerSecond  float64 `koanf:"per_second"`
	Burst      int     `koanf:"burst"`
	DailyQuota int64   `koanf:"daily_quota"`
}

type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           "8080",
			Env:            "development",
			AllowedOrigins: []string{"http://localhost:5173"},
		},
		Data: DataConfig{
			Dir:            "data",
			BooksFile:      "books.json",
			StateFile:      "user_data.json",
			CredentialFile: "api_key.json",
		},
		AI: AIConfig{
			TextModel:       "gemini-2.5-flash",
			ImageModel:      "gemini-2.5-flash-image",
			SpeechModel:     "gemini-2.5-flash-preview-tts",
			Voice:           "Kore",
			SpeechLanguage:  "en-US",
			ChatTemperature: 0.2,
			BreakerFailures: 5,
			BreakerTimeout:  30 * time.Second,
		},
		RateLimit: RateLimitConfig{
			PerSecond:  1,
			Burst:      3,
			DailyQuota: 500,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// envMappings maps environment variable names (lower-cased) to koanf paths.
// Unmapped variables are ignored.
var envMappings = map[string]string{
	"port":                    "server.port",
	"env":                     "server.env",
	"allowed_origins":         "server.allowed_origins",
	"static_dir":              "server.static_dir",
	"data_dir":                "data.dir",
	"books_file":              "data.books_file",
	"state_file":              "data.state_file",
	"credential_file":         "data.credential_file",
	"gemini_api_key":          "ai.api_key",
	"gemini_text_model":       "ai.text_model",
	"gemini_image_model":      "ai.image_model",
	"gemini_speech_model":     "ai.speech_model",
	"gemini_voice":            "ai.voice",
	"gemini_speech_language":  "ai.speech_language",
	"gemini_chat_temperature": "ai.chat_temperature",
	"audio_dir":               "ai.audio_dir",
	"ai_breaker_failures":     "ai.breaker_failures",
	"ai_breaker_timeout":      "ai.breaker_timeout",
	"ratelimit_per_second":    "ratelimit.per_second",
	"ratelimit_burst":         "ratelimit.burst",
	"ratelimit_daily_quota":   "ratelimit.daily_quota",
	"log_level":               "logging.level",
	"log_format":              "logging.format",
}

func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}

// Load reads .env.local (if present) into the environment, then layers
// defaults, the YAML file and the environment.
func Load() (*Config, error) {
	_ = godotenv.Load(".env.local")

	k := koanf.New(".")
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Comma-separated origins arrive from the environment as a single string.
	if s, ok := k.Get("server.allowed_origins").(string); ok {
		var origins []string
		for _, o := range strings.Split(s, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		if err := k.Set("server.allowed_origins", origins); err != nil {
			return nil, fmt.Errorf("failed to set allowed origins: %w", err)
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

func (c *Config) Validate() error {
	var errs []error
	if c.Server.Port == "" {
		errs = append(errs, errors.New("server.port is required"))
	}
	if c.Data.Dir == "" {
		errs = append(errs, errors.New("data.dir is required"))
	}
	if c.RateLimit.PerSecond <= 0 {
		errs = append(errs, errors.New("ratelimit.per_second must be positive"))
	}
	if c.RateLimit.Burst < 1 {
		errs = append(errs, errors.New("ratelimit.burst must be at least 1"))
	}
	if c.AI.TextModel == "" {
		errs = append(errs, errors.New("ai.text_model is required"))
	}
	return errors.Join(errs...)
}

// IsProduction reports whether the server runs in release mode.
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

func (d DataConfig) BooksPath() string      { return filepath.Join(d.Dir, d.BooksFile) }
func (d DataConfig) StatePath() string      { return filepath.Join(d.Dir, d.StateFile) }
func (d DataConfig) CredentialPath() string { return filepath.Join(d.Dir, d.CredentialFile) }
