package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// LLM provider names
const (
	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// Database drivers
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds all configuration for the application
type Config struct {
	Env      Environment    `yaml:"-"`
	Log      LogConfig      `yaml:"log"`
	Server   ServerConfig   `yaml:"server"`
	LLM      LLMConfig      `yaml:"llm"`
	Prompts  PromptsConfig  `yaml:"prompts"`
	Redis    RedisConfig    `yaml:"redis"`
	Database DatabaseConfig `yaml:"database"`
	Backend  BackendConfig  `yaml:"backend"`
}

// LogConfig controls structured logging
type LogConfig struct {
	Level slog.Level `yaml:"level"`
	JSON  bool       `yaml:"json"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	CORSOrigins     []string      `yaml:"cors_origins"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// Address returns the listen address
func (c ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// LLMConfig selects and configures the language model providers
type LLMConfig struct {
	Provider       string       `yaml:"provider"`
	MaxTokens      int          `yaml:"max_tokens"`
	FuzzyThreshold float64      `yaml:"fuzzy_threshold"`
	Ollama         OllamaConfig `yaml:"ollama"`
	OpenAI         OpenAIConfig `yaml:"openai"`
	Gemini         GeminiConfig `yaml:"gemini"`
}

// OllamaConfig configures the local Ollama server
type OllamaConfig struct {
	URL   string `yaml:"url"`
	Model string `yaml:"model"`
}

// OpenAIConfig configures an OpenAI-compatible endpoint
type OpenAIConfig struct {
	APIKey string `yaml:"api_key"`
	URL    string `yaml:"url"`
	Model  string `yaml:"model"`
}

// GeminiConfig configures Google Gemini
type GeminiConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

// PromptsConfig points at an optional directory of prompt overrides
type PromptsConfig struct {
	Dir string `yaml:"dir"`
}

// RedisConfig holds Redis configuration for drafts and rate limiting
type RedisConfig struct {
	URL        string        `yaml:"url"`
	Host       string        `yaml:"host"`
	Port       string        `yaml:"port"`
	Password   string        `yaml:"password"`
	DB         int           `yaml:"db"`
	DraftTTL   time.Duration `yaml:"draft_ttl"`
	RateLimit  int           `yaml:"rate_limit"`
	RateWindow time.Duration `yaml:"rate_window"`
}

// Enabled reports whether a Redis server is configured
func (c RedisConfig) Enabled() bool {
	return c.URL != "" || c.Host != ""
}

// DatabaseConfig holds the audit log database configuration.
// An empty driver disables the audit log.
type DatabaseConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

// BackendConfig points at the fridge/recipe backend
type BackendConfig struct {
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
}

// NewDefaultConfig returns a Config with defaults for the given environment
func NewDefaultConfig(env Environment) *Config {
	return &Config{
		Env: env,
		Log: LogConfig{
			Level: env.DefaultLogLevel(),
			JSON:  env.JSONLogs(),
		},
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            5001,
			CORSOrigins:     []string{"*"},
			ShutdownTimeout: 10 * time.Second,
		},
		LLM: LLMConfig{
			Provider:  ProviderOllama,
			MaxTokens: 2048,
			Ollama: OllamaConfig{
				URL:   "http://localhost:11434",
				Model: "llama3.2:1b",
			},
			OpenAI: OpenAIConfig{
				URL:   "https://api.openai.com/v1",
				Model: "gpt-4o-mini",
			},
			Gemini: GeminiConfig{
				Model: "gemini-1.5-flash",
			},
		},
		Redis: RedisConfig{
			DraftTTL:   24 * time.Hour,
			RateLimit:  30,
			RateWindow: time.Minute,
		},
		Database: DatabaseConfig{
			Driver: DriverSQLite,
			DSN:    "smartfridge.db",
		},
		Backend: BackendConfig{
			URL:     "http://localhost:8080/api",
			Timeout: 10 * time.Second,
		},
	}
}

// LoadConfig builds the configuration: defaults, then the YAML file at path
// (skipped when path is empty or missing), then environment variables and
// secrets. The result is validated before it is returned.
func LoadConfig(path string) (*Config, error) {
	env := GetEnvironment()
	cfg := NewDefaultConfig(env)

	if path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, err
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to load %s configuration: %w", env, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	expanded := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// applyEnv overlays environment variables and secrets onto cfg
func applyEnv(cfg *Config) error {
	setString(&cfg.Server.Host, "SERVER_HOST")
	if err := setInt(&cfg.Server.Port, "SERVER_PORT"); err != nil {
		return err
	}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		cfg.Server.CORSOrigins = splitList(v)
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		if err := cfg.Log.Level.UnmarshalText([]byte(v)); err != nil {
			return fmt.Errorf("invalid LOG_LEVEL: %w", err)
		}
	}

	setString(&cfg.LLM.Provider, "LLM_PROVIDER")
	if err := setInt(&cfg.LLM.MaxTokens, "LLM_MAX_TOKENS"); err != nil {
		return err
	}
	if v := os.Getenv("FUZZY_THRESHOLD"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid FUZZY_THRESHOLD: %w", err)
		}
		cfg.LLM.FuzzyThreshold = f
	}
	setString(&cfg.LLM.Ollama.URL, "OLLAMA_URL")
	setString(&cfg.LLM.Ollama.Model, "OLLAMA_MODEL")
	setString(&cfg.LLM.OpenAI.URL, "OPENAI_BASE_URL")
	setString(&cfg.LLM.OpenAI.Model, "OPENAI_MODEL")
	setString(&cfg.LLM.Gemini.Model, "GEMINI_MODEL")
	if key := lookupSecret(cfg.Env, "OPENAI_API_KEY", "openai_api_key"); key != "" {
		cfg.LLM.OpenAI.APIKey = key
	}
	if key := lookupSecret(cfg.Env, "GEMINI_API_KEY", "gemini_api_key"); key != "" {
		cfg.LLM.Gemini.APIKey = key
	}

	setString(&cfg.Prompts.Dir, "PROMPTS_DIR")

	setString(&cfg.Redis.URL, "REDIS_URL")
	setString(&cfg.Redis.Host, "REDIS_HOST")
	setString(&cfg.Redis.Port, "REDIS_PORT")
	if err := setInt(&cfg.Redis.DB, "REDIS_DB"); err != nil {
		return err
	}
	if err := setInt(&cfg.Redis.RateLimit, "RATE_LIMIT"); err != nil {
		return err
	}
	if pw := lookupSecret(cfg.Env, "REDIS_PASSWORD", "redis_password"); pw != "" {
		cfg.Redis.Password = pw
	}

	setString(&cfg.Database.Driver, "DB_DRIVER")
	if dsn := lookupSecret(cfg.Env, "DB_DSN", "db_dsn"); dsn != "" {
		cfg.Database.DSN = dsn
	}

	setString(&cfg.Backend.URL, "BACKEND_URL")
	if v := os.Getenv("BACKEND_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid BACKEND_TIMEOUT: %w", err)
		}
		cfg.Backend.Timeout = d
	}

	return nil
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok {
		*dst = strings.TrimSpace(v)
	}
}

func setInt(dst *int, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = n
	return nil
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
