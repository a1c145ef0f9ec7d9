// Package config loads process-wide configuration for the task-chat service.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/pterm/pterm"
	"gopkg.in/yaml.v2"
)

// DatabaseConfig holds the connection string for the conversation/task store.
type DatabaseConfig struct {
	ConnectionString string `yaml:"connection_string"`
}

// AuthConfig controls bearer-credential validation for the chat endpoint.
// Issuance of these credentials is an external concern (spec.md §1); this
// service only validates them.
type AuthConfig struct {
	SecretKey   string `yaml:"secret_key"`
	TokenExpiry int    `yaml:"token_expiry"` // hours; used only for default-fallback sanity checks
}

// AnthropicPromptCacheConfig mirrors the upstream SDK's ephemeral cache knobs.
// It is parsed from the config file but not read by the Anthropic adapter,
// which sends no cache-control settings; setting these fields has no effect.
type AnthropicPromptCacheConfig struct {
	Enabled       bool `yaml:"enabled"`
	CacheSystem   bool `yaml:"cache_system"`
	CacheTools    bool `yaml:"cache_tools"`
	CacheMessages bool `yaml:"cache_messages"`
}

// AnthropicConfig configures the Anthropic provider adapter.
type AnthropicConfig struct {
	APIKey      string                     `yaml:"api_key"`
	BaseURL     string                     `yaml:"base_url,omitempty"`
	Model       string                     `yaml:"model"`
	PromptCache AnthropicPromptCacheConfig `yaml:"prompt_cache,omitempty"`
	ExtraParams map[string]any             `yaml:"extra_params,omitempty"`
}

// OpenAIConfig configures the OpenAI provider adapter.
type OpenAIConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url,omitempty"`
	Model   string `yaml:"model"`
}

// AgentConfig bounds the tool-calling loop (spec.md §4.5) and the history
// window handed to the runner on each turn (spec.md §9, Open Question 2).
type AgentConfig struct {
	Provider         string  `yaml:"provider"` // "anthropic" | "openai"
	Temperature      float64 `yaml:"temperature"`
	MaxTokens        int64   `yaml:"max_tokens"`
	MaxToolHops      int     `yaml:"max_tool_hops"`
	HistoryWindow    int     `yaml:"history_window"`
	TransportRetries int     `yaml:"transport_retries"`
}

// Config is the single process-wide configuration value. It is constructed
// once at startup and passed by value/pointer into component constructors —
// never read from a package-level global by the domain packages.
type Config struct {
	Host        string         `yaml:"host"`
	Port        int            `yaml:"port"`
	MaxMsgBytes int            `yaml:"max_message_bytes"`
	Database    DatabaseConfig `yaml:"database"`
	Auth        AuthConfig     `yaml:"auth"`
	Anthropic   AnthropicConfig `yaml:"anthropic"`
	OpenAI      OpenAIConfig    `yaml:"openai"`
	Agent       AgentConfig     `yaml:"agent"`
}

// LoadConfig reads the configuration from a YAML file, unmarshals it into a
// Config struct, applies defaults for anything an operator left blank, and
// narrates the outcome with pterm the way the rest of this service's startup
// sequence does.
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		pterm.Error.Printf("Error reading config file: %v\n", err)
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		pterm.Error.Printf("Error unmarshaling config: %v\n", err)
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	applyDefaults(&cfg)

	pterm.Success.Println("Configuration loaded successfully.")
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Host == "" {
		cfg.Host = "0.0.0.0"
	}
	if cfg.Port == 0 {
		cfg.Port = 8080
	}
	if cfg.MaxMsgBytes <= 0 {
		cfg.MaxMsgBytes = 8 * 1024
	}
	if cfg.Auth.SecretKey == "" {
		cfg.Auth.SecretKey = "your-secret-key"
		pterm.Warning.Println("No JWT secret key provided in config, using default (insecure).")
	}
	if cfg.Auth.TokenExpiry <= 0 {
		cfg.Auth.TokenExpiry = 72
	}
	if strings.TrimSpace(cfg.Agent.Provider) == "" {
		cfg.Agent.Provider = "anthropic"
	}
	if cfg.Agent.Temperature == 0 {
		cfg.Agent.Temperature = 0.2
	}
	if cfg.Agent.MaxTokens <= 0 {
		cfg.Agent.MaxTokens = 1024
	}
	if cfg.Agent.MaxToolHops <= 0 {
		cfg.Agent.MaxToolHops = 8
		pterm.Info.Println("No max_tool_hops specified, using default (8).")
	}
	if cfg.Agent.HistoryWindow <= 0 {
		cfg.Agent.HistoryWindow = 100
		pterm.Info.Println("No history_window specified, using default (100 messages).")
	}
	if cfg.Agent.TransportRetries <= 0 {
		cfg.Agent.TransportRetries = 3
	}
}
