package config

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// Validate checks the whole configuration
func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.LLM.Validate(); err != nil {
		return fmt.Errorf("llm: %w", err)
	}
	if err := c.Redis.Validate(); err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	if err := c.Database.Validate(); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Backend.Validate(); err != nil {
		return fmt.Errorf("backend: %w", err)
	}
	return nil
}

// Validate validates the server configuration
func (c *ServerConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
		validation.Field(&c.ShutdownTimeout, validation.Required),
	)
}

// Validate validates the provider selection and its credentials
func (c *LLMConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Provider, validation.Required, validation.In(ProviderOllama, ProviderOpenAI, ProviderGemini)),
		validation.Field(&c.MaxTokens, validation.Required, validation.Min(1)),
		validation.Field(&c.FuzzyThreshold, validation.Min(0.0), validation.Max(1.0)),
	); err != nil {
		return err
	}

	switch c.Provider {
	case ProviderOllama:
		return validation.ValidateStruct(&c.Ollama,
			validation.Field(&c.Ollama.URL, validation.Required, is.URL),
			validation.Field(&c.Ollama.Model, validation.Required),
		)
	case ProviderOpenAI:
		return validation.ValidateStruct(&c.OpenAI,
			validation.Field(&c.OpenAI.APIKey, validation.Required.Error("OPENAI_API_KEY or OPENAI_API_KEY_FILE must be set")),
			validation.Field(&c.OpenAI.URL, validation.Required, is.URL),
			validation.Field(&c.OpenAI.Model, validation.Required),
		)
	case ProviderGemini:
		return validation.ValidateStruct(&c.Gemini,
			validation.Field(&c.Gemini.APIKey, validation.Required.Error("GEMINI_API_KEY or GEMINI_API_KEY_FILE must be set")),
			validation.Field(&c.Gemini.Model, validation.Required),
		)
	}
	return nil
}

// Validate validates the Redis configuration when Redis is enabled
func (c *RedisConfig) Validate() error {
	if !c.Enabled() {
		return nil
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.DraftTTL, validation.Required),
		validation.Field(&c.RateLimit, validation.Min(0)),
		validation.Field(&c.RateWindow, validation.When(c.RateLimit > 0, validation.Required)),
	)
}

// Validate validates the audit database configuration
func (c *DatabaseConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Driver, validation.In(DriverSQLite, DriverPostgres)),
		validation.Field(&c.DSN, validation.When(c.Driver != "", validation.Required)),
	)
}

// Validate validates the backend configuration
func (c *BackendConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.URL, validation.Required, is.URL),
		validation.Field(&c.Timeout, validation.Required),
	)
}
