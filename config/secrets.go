package config

import (
	"os"
	"path/filepath"
	"strings"
)

const defaultSecretsDir = "/run/secrets"

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = defaultSecretsDir
	}
	if data, err := os.ReadFile(filepath.Join(secretsDir, name)); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}

// lookupSecret resolves a sensitive value. The plain environment variable
// wins, then a file named by <envVar>_FILE, then the Docker secret.
func lookupSecret(env Environment, envVar, secretName string) string {
	if v := strings.TrimSpace(os.Getenv(envVar)); v != "" {
		return v
	}
	if path := os.Getenv(envVar + "_FILE"); path != "" {
		if data, err := os.ReadFile(path); err == nil {
			return strings.TrimSpace(string(data))
		}
	}
	if env.UsesDockerSecrets() {
		return readSecret(secretName)
	}
	return ""
}
