// Package config loads and persists the Rin assistant configuration.
// Configuration lives at ~/.rin/config.yaml and every value can be
// overridden via RIN_-prefixed environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration for the Rin assistant.
// It is an explicit value handed to each component constructor; no
// package-level configuration state exists anywhere in the module.
type Config struct {
	Data    DataConfig    `mapstructure:"data" yaml:"data"`
	LLM     LLMConfig     `mapstructure:"llm" yaml:"llm"`
	Search  SearchConfig  `mapstructure:"search" yaml:"search"`
	Voice   VoiceConfig   `mapstructure:"voice" yaml:"voice"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
}

// DataConfig contains storage locations.
type DataConfig struct {
	// Dir is the Rin data directory (default ~/.rin). The SQLite
	// database, audio artifacts, and logs all live beneath it.
	Dir string `mapstructure:"dir" yaml:"dir"`
}

// DBPath returns the path of the single SQLite database file.
func (d DataConfig) DBPath() string {
	return filepath.Join(d.Dir, "rin.db")
}

// LLMConfig contains configuration for completion providers.
type LLMConfig struct {
	// DefaultProvider selects which provider to use ("openai", "ollama", "echo").
	DefaultProvider string `mapstructure:"default_provider" yaml:"default_provider"`
	// SystemPrompt sets the assistant's behavior for fallback completions.
	SystemPrompt string `mapstructure:"system_prompt" yaml:"system_prompt"`
	// Providers maps provider names to their specific configuration.
	Providers map[string]ProviderConfig `mapstructure:"providers" yaml:"providers"`
}

// ProviderConfig contains configuration for a specific completion provider.
type ProviderConfig struct {
	// Endpoint is the API base URL (primarily for local providers like Ollama).
	Endpoint string `mapstructure:"endpoint" yaml:"endpoint,omitempty"`
	// APIKey is the authentication key for the provider.
	APIKey string `mapstructure:"api_key" yaml:"api_key,omitempty"`
	// Model is the model identifier to use with this provider.
	Model string `mapstructure:"model" yaml:"model,omitempty"`
}

// SearchConfig contains configuration for the web search provider.
type SearchConfig struct {
	// Provider selects the search backend ("serpapi", "tavily", "noop").
	Provider string `mapstructure:"provider" yaml:"provider"`
	// APIKey authenticates against the chosen backend.
	APIKey string `mapstructure:"api_key" yaml:"api_key,omitempty"`
	// MaxResults is the default number of results to request.
	MaxResults int `mapstructure:"max_results" yaml:"max_results"`
}

// VoiceConfig contains configuration for TTS/STT engines and audio output.
type VoiceConfig struct {
	// TTSEngine selects the synthesizer ("openai", "say", "none").
	TTSEngine string `mapstructure:"tts_engine" yaml:"tts_engine"`
	// STTEngine selects the transcriber ("whisper", "none").
	STTEngine string `mapstructure:"stt_engine" yaml:"stt_engine"`
	// AudioDir is where synthesized audio files are written.
	AudioDir string `mapstructure:"audio_dir" yaml:"audio_dir"`
	// RecordSeconds is the microphone capture window for listen mode.
	RecordSeconds int `mapstructure:"record_seconds" yaml:"record_seconds"`
}

// LoggingConfig contains configuration for application logging.
type LoggingConfig struct {
	// Level is the log level ("debug", "info", "warn", "error").
	Level string `mapstructure:"level" yaml:"level"`
	// File is the path to the log file. Empty disables file logging.
	File string `mapstructure:"file" yaml:"file"`
}

// Default returns a Config populated with sensible defaults rooted at ~/.rin.
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	rinDir := filepath.Join(homeDir, ".rin")

	return &Config{
		Data: DataConfig{
			Dir: rinDir,
		},
		LLM: LLMConfig{
			DefaultProvider: "openai",
			SystemPrompt:    "You are Rin, a helpful personal assistant. Be concise but thorough.",
			Providers: map[string]ProviderConfig{
				"openai": {
					Endpoint: "https://api.openai.com/v1",
					APIKey:   "",
					Model:    "gpt-4o-mini",
				},
				"ollama": {
					Endpoint: "http://127.0.0.1:11434",
					Model:    "llama3.2",
				},
				"echo": {},
			},
		},
		Search: SearchConfig{
			Provider:   "serpapi",
			APIKey:     "",
			MaxResults: 5,
		},
		Voice: VoiceConfig{
			TTSEngine:     "none",
			STTEngine:     "none",
			AudioDir:      filepath.Join(rinDir, "audio"),
			RecordSeconds: 5,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  filepath.Join(rinDir, "logs", "rin.log"),
		},
	}
}

// Load reads configuration from the default location (~/.rin/config.yaml)
// and merges with environment variables. If no config file exists, one is
// created with default values.
func Load() (*Config, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}

	return LoadFromPath(filepath.Join(homeDir, ".rin", "config.yaml"))
}

// LoadFromPath reads configuration from a specific file path and merges with
// environment variables. A missing file is created with default values.
func LoadFromPath(path string) (*Config, error) {
	path = expandPath(path)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := writeConfigFile(path, Default()); err != nil {
			return nil, fmt.Errorf("failed to write default config: %w", err)
		}
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Environment overrides, e.g. RIN_LLM_DEFAULT_PROVIDER, RIN_SEARCH_API_KEY.
	v.SetEnvPrefix("RIN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Data.Dir = expandPath(cfg.Data.Dir)
	cfg.Voice.AudioDir = expandPath(cfg.Voice.AudioDir)
	cfg.Logging.File = expandPath(cfg.Logging.File)
	cfg.applyDefaults()

	return &cfg, nil
}

// applyDefaults fills in values a hand-edited config file may have dropped.
func (c *Config) applyDefaults() {
	defaults := Default()

	if c.Data.Dir == "" {
		c.Data.Dir = defaults.Data.Dir
	}
	if c.LLM.DefaultProvider == "" {
		c.LLM.DefaultProvider = defaults.LLM.DefaultProvider
	}
	if c.LLM.SystemPrompt == "" {
		c.LLM.SystemPrompt = defaults.LLM.SystemPrompt
	}
	if c.LLM.Providers == nil {
		c.LLM.Providers = defaults.LLM.Providers
	}
	if c.Search.Provider == "" {
		c.Search.Provider = defaults.Search.Provider
	}
	if c.Search.MaxResults <= 0 {
		c.Search.MaxResults = defaults.Search.MaxResults
	}
	if c.Voice.TTSEngine == "" {
		c.Voice.TTSEngine = defaults.Voice.TTSEngine
	}
	if c.Voice.STTEngine == "" {
		c.Voice.STTEngine = defaults.Voice.STTEngine
	}
	if c.Voice.AudioDir == "" {
		c.Voice.AudioDir = filepath.Join(c.Data.Dir, "audio")
	}
	if c.Voice.RecordSeconds <= 0 {
		c.Voice.RecordSeconds = defaults.Voice.RecordSeconds
	}
	if c.Logging.Level == "" {
		c.Logging.Level = defaults.Logging.Level
	}
}

// SaveToPath writes the current configuration to a specific file path.
func (c *Config) SaveToPath(path string) error {
	path = expandPath(path)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	return writeConfigFile(path, c)
}

// EnsureDirectories creates all directories Rin needs at runtime: the data
// directory, the audio artifact directory, and the log directory.
func (c *Config) EnsureDirectories() error {
	dirs := []string{
		c.Data.Dir,
		c.Voice.AudioDir,
	}
	if c.Logging.File != "" {
		dirs = append(dirs, filepath.Dir(c.Logging.File))
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// writeConfigFile marshals cfg to YAML and writes it to path.
func writeConfigFile(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// expandPath expands a leading tilde to the user's home directory.
func expandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		if path == "~" {
			return homeDir
		}
		return filepath.Join(homeDir, path[2:])
	}
	return path
}
