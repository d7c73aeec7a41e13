package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Ollama defaults
const (
	DefaultOllamaURL   = "http://localhost:11434"
	DefaultOllamaModel = "llama3.2:1b"

	ollamaGenerateTimeout = 180 * time.Second
	ollamaProbeTimeout    = 2 * time.Second
)

// Ollama generates text with a local Ollama server
type Ollama struct {
	baseURL      string
	model        string
	client       *http.Client
	probeTimeout time.Duration
}

// OllamaOption configures an Ollama provider
type OllamaOption func(*Ollama)

// WithOllamaHTTPClient replaces the HTTP client used for generation
func WithOllamaHTTPClient(c *http.Client) OllamaOption {
	return func(o *Ollama) { o.client = c }
}

// NewOllama creates an Ollama provider. Empty arguments fall back to the defaults.
func NewOllama(baseURL, model string, opts ...OllamaOption) *Ollama {
	if baseURL == "" {
		baseURL = DefaultOllamaURL
	}
	if model == "" {
		model = DefaultOllamaModel
	}
	o := &Ollama{
		baseURL:      strings.TrimRight(baseURL, "/"),
		model:        model,
		client:       &http.Client{Timeout: ollamaGenerateTimeout},
		probeTimeout: ollamaProbeTimeout,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *Ollama) Name() string  { return "ollama" }
func (o *Ollama) Model() string { return o.model }

// Available checks that the server answers on /api/tags
func (o *Ollama) Available(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, o.probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.baseURL+"/api/tags", nil)
	if err != nil {
		return false
	}
	resp, err := o.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

type ollamaOptions struct {
	NumPredict int `json:"num_predict"`
}

type ollamaRequest struct {
	Model   string        `json:"model"`
	Prompt  string        `json:"prompt"`
	Stream  bool          `json:"stream"`
	Options ollamaOptions `json:"options"`
	Format  string        `json:"format,omitempty"`
}

type ollamaResponse struct {
	Response string `json:"response"`
}

// Generate posts prompt to /api/generate without streaming
func (o *Ollama) Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error) {
	body := ollamaRequest{
		Model:   o.model,
		Prompt:  prompt,
		Stream:  false,
		Options: ollamaOptions{NumPredict: opts.maxTokens()},
	}
	if opts.JSON {
		body.Format = "json"
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/api/generate", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", statusError(o.Name(), resp)
	}

	var out ollamaResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if strings.TrimSpace(out.Response) == "" {
		return "", ErrEmptyResponse
	}
	return out.Response, nil
}
