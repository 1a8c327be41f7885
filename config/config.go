// Package config loads the deployment configuration: provider endpoints and
// credentials, request policy defaults, and throttling. Values layer as
// defaults, then the YAML file, then environment variables.
package config

import (
	"fmt"
	"os"
	"time"

	"dario.cat/mergo"
	"gopkg.in/yaml.v3"

	"github.com/aschepis/llmrelay/llm"
)

// OpenAIConfig configures the hosted OpenAI-protocol endpoints.
type OpenAIConfig struct {
	APIKey         string `yaml:"api_key,omitempty"`
	BaseURL        string `yaml:"base_url,omitempty"`        // Overrides the official endpoints when set
	Model          string `yaml:"model,omitempty"`           // Default completion model
	EmbeddingModel string `yaml:"embedding_model,omitempty"` // Default embedding model
}

// CompletionConfig configures a single-shot completion endpoint (Ollama or
// any self-hosted equivalent).
type CompletionConfig struct {
	Endpoint string `yaml:"endpoint,omitempty"`
	Model    string `yaml:"model,omitempty"`
}

// DefaultsConfig overrides the request policy constants. Durations are
// seconds; zero fields keep the stock defaults.
type DefaultsConfig struct {
	SystemPrompt    string  `yaml:"system_prompt,omitempty"`
	Temperature     float64 `yaml:"temperature,omitempty"`
	MaxTokens       int     `yaml:"max_tokens,omitempty"`
	Retries         int     `yaml:"retries,omitempty"`
	Lifetime        int     `yaml:"lifetime_seconds,omitempty"`
	StreamLifetime  int     `yaml:"stream_lifetime_seconds,omitempty"`
	ChunkSize       int     `yaml:"chunk_size,omitempty"`
}

// ThrottleConfig configures the optional pacing gate. A zero interval
// disables throttling.
type ThrottleConfig struct {
	IntervalMillis int `yaml:"interval_ms,omitempty"`
}

// Config is the root configuration.
type Config struct {
	OpenAI     OpenAIConfig     `yaml:"openai,omitempty"`
	Completion CompletionConfig `yaml:"completion,omitempty"`
	Defaults   DefaultsConfig   `yaml:"defaults,omitempty"`
	Throttle   ThrottleConfig   `yaml:"throttle,omitempty"`
}

// Default returns the stock configuration.
func Default() *Config {
	return &Config{
		OpenAI: OpenAIConfig{
			Model:          "gpt-4o",
			EmbeddingModel: "text-embedding-3-small",
		},
		Completion: CompletionConfig{
			Endpoint: "http://localhost:11434/api/generate",
			Model:    "mistral-nemo",
		},
		Defaults: DefaultsConfig{
			SystemPrompt:   llm.DefaultSystemPrompt,
			Temperature:    llm.DefaultTemperature,
			MaxTokens:      llm.DefaultMaxTokens,
			Retries:        llm.DefaultRetries,
			Lifetime:       int(llm.DefaultLifetime / time.Second),
			StreamLifetime: int(llm.DefaultStreamLifetime / time.Second),
			ChunkSize:      2048,
		},
	}
}

// Load reads path over the defaults and applies environment overrides. A
// missing file is not an error: defaults plus environment still make a
// working configuration.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path) //nolint:gosec // G304: user-specified config path is intentional
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(data, &fileCfg); err != nil {
				return nil, fmt.Errorf("parsing config %s: %w", path, err)
			}
			if err := mergo.Merge(cfg, fileCfg, mergo.WithOverride); err != nil {
				return nil, fmt.Errorf("merging config %s: %w", path, err)
			}
		}
	}

	applyEnv(cfg)
	return cfg, nil
}

// LLMDefaults converts the policy section to the llm package's form.
func (c *Config) LLMDefaults() llm.Defaults {
	d := llm.NewDefaults()
	if c.Defaults.SystemPrompt != "" {
		d.SystemPrompt = c.Defaults.SystemPrompt
	}
	d.Temperature = c.Defaults.Temperature
	if c.Defaults.MaxTokens > 0 {
		d.MaxTokens = c.Defaults.MaxTokens
	}
	if c.Defaults.Retries > 0 {
		d.Retries = c.Defaults.Retries
	}
	if c.Defaults.Lifetime > 0 {
		d.Lifetime = time.Duration(c.Defaults.Lifetime) * time.Second
	}
	if c.Defaults.StreamLifetime > 0 {
		d.StreamLifetime = time.Duration(c.Defaults.StreamLifetime) * time.Second
	}
	return d
}

// ThrottleInterval returns the pacing interval, or zero when throttling is
// disabled.
func (c *Config) ThrottleInterval() time.Duration {
	return time.Duration(c.Throttle.IntervalMillis) * time.Millisecond
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.OpenAI.APIKey = v
	}
	if v := os.Getenv("OPENAI_BASE_URL"); v != "" {
		cfg.OpenAI.BaseURL = v
	}
	if v := os.Getenv("OPENAI_MODEL"); v != "" {
		cfg.OpenAI.Model = v
	}
	if v := os.Getenv("OPENAI_EMBEDDING_MODEL"); v != "" {
		cfg.OpenAI.EmbeddingModel = v
	}
	if v := os.Getenv("COMPLETION_ENDPOINT"); v != "" {
		cfg.Completion.Endpoint = v
	}
	if v := os.Getenv("COMPLETION_MODEL"); v != "" {
		cfg.Completion.Model = v
	}
}
