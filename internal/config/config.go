package config

import (
	"fmt"
	"strings"
)

type Config struct {
	Server    ServerConfig
	Ollama    OllamaConfig
	Storage   StorageConfig
	Proxy     ProxyConfig
	Pipeline  PipelineConfig
	Reranking RerankingConfig
	Log       LogConfig
}

type ServerConfig struct {
	Port    int
	MCPPort int
}

type OllamaConfig struct {
	BaseURL    string
	ChatModel  string
	EmbedModel string
}

type StorageConfig struct {
	DataDir string
}

// ProxyConfig controls the optional OpenRouter completion backend.
// When no API key is configured the server runs fully local against Ollama.
type ProxyConfig struct {
	OpenRouterAPIKey string
	DefaultModel     string
}

// Configured reports whether the cloud completion backend can be used.
func (p ProxyConfig) Configured() bool {
	return p.OpenRouterAPIKey != ""
}

// PipelineConfig tunes retrieval and reply generation.
type PipelineConfig struct {
	SimilarityThreshold float64
	RetrieveLimit       int
	HistoryTurns        int
	ReplyChars          int
	SchemaAttempts      int
}

type RerankingConfig struct {
	Enabled   bool
	Timeout   string
	Threshold float64
}

type LogConfig struct {
	Level string
}

func defaults() Config {
	dataDir := defaultDataDir()
	return Config{
		Server: ServerConfig{
			Port:    4000,
			MCPPort: 4001,
		},
		Ollama: OllamaConfig{
			BaseURL:    "http://localhost:11434",
			ChatModel:  "mistral-nemo",
			EmbedModel: "nomic-embed-text",
		},
		Storage: StorageConfig{
			DataDir: dataDir,
		},
		Proxy: ProxyConfig{
			DefaultModel: "anthropic/claude-opus-4",
		},
		Pipeline: PipelineConfig{
			SimilarityThreshold: 0.7,
			RetrieveLimit:       3,
			HistoryTurns:        4,
			ReplyChars:          320,
			SchemaAttempts:      3,
		},
		Reranking: RerankingConfig{
			Enabled:   false,
			Timeout:   "5s",
			Threshold: 0.5,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from the platform-native backend, environment
// variables, and platform secret store.
//
// On macOS the backend is UserDefaults (domain: com.coachwire.app) and the
// OpenRouter key falls back to macOS Keychain.
// On Linux the backend is a JSON file at $XDG_CONFIG_HOME/coachwire/config.json
// and secrets must be provided via environment variables.
//
// Environment variables (COACHWIRE_*) override backend values on all platforms.
func Load() (Config, error) {
	return loadWith(newPlatformBackend(), keychainReader{})
}

// keychain abstracts Keychain access for testing.
type keychain interface {
	Get(service, account string) (string, error)
}

func loadWith(b ConfigBackend, kc keychain) (Config, error) {
	cfg := defaults()

	if err := applyBackend(&cfg, b); err != nil {
		return Config{}, err
	}

	applyEnvOverrides(&cfg)

	// Try platform keychain for API key if still empty. The key stays
	// optional: without it replies run on the local engine only.
	if cfg.Proxy.OpenRouterAPIKey == "" {
		if key, err := kc.Get("coachwire", "openrouter_api_key"); err == nil && key != "" {
			cfg.Proxy.OpenRouterAPIKey = key
		}
	}

	if err := validate(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func validate(cfg Config) error {
	if cfg.Pipeline.SimilarityThreshold < 0 || cfg.Pipeline.SimilarityThreshold > 1 {
		return fmt.Errorf("invalid config: pipeline.similarity_threshold must be in [0,1], got %v", cfg.Pipeline.SimilarityThreshold)
	}
	if cfg.Pipeline.RetrieveLimit < 1 {
		return fmt.Errorf("invalid config: pipeline.retrieve_limit must be positive, got %d", cfg.Pipeline.RetrieveLimit)
	}
	if cfg.Pipeline.SchemaAttempts < 1 {
		return fmt.Errorf("invalid config: pipeline.schema_attempts must be positive, got %d", cfg.Pipeline.SchemaAttempts)
	}
	return nil
}

// keychainReader reads from macOS Keychain via the security CLI.
type keychainReader struct{}

func (keychainReader) Get(service, account string) (string, error) {
	out, err := keychainExec(service, account)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}
