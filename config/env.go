package config

import (
	"log/slog"
	"os"
)

// Environment represents the current runtime environment
type Environment string

const (
	Development Environment = "development"
	Test        Environment = "test"
	CI          Environment = "ci"
	Production  Environment = "production"
)

// GetEnvironment determines the current environment.
// CI=true always wins; otherwise ENV selects it and development is the default.
func GetEnvironment() Environment {
	if os.Getenv("CI") == "true" {
		return CI
	}

	switch Environment(os.Getenv("ENV")) {
	case Production:
		return Production
	case Test:
		return Test
	default:
		return Development
	}
}

// UsesDockerSecrets reports whether secrets may be read from SECRETS_DIR.
// CI only ever takes secrets from environment variables.
func (e Environment) UsesDockerSecrets() bool {
	return e != CI
}

// JSONLogs reports whether logs should be emitted as JSON
func (e Environment) JSONLogs() bool {
	return e == Production || e == CI
}

// DefaultLogLevel is the log level used when none is configured
func (e Environment) DefaultLogLevel() slog.Level {
	if e == Development {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}
