// Package llm talks to the language model backends used for recipe parsing
// and substitution suggestions.
package llm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
)

// Default generation settings
const (
	DefaultMaxTokens = 2048
)

var (
	// ErrEmptyResponse is returned when a provider answers with no text
	ErrEmptyResponse = errors.New("LLM returned an empty response")
	// ErrUnknownProvider is returned by the registry for unregistered names
	ErrUnknownProvider = errors.New("unknown LLM provider")
)

// GenerateOptions controls a single generation request
type GenerateOptions struct {
	// JSON asks the model to answer with a JSON document
	JSON bool
	// MaxTokens caps the reply length; zero means DefaultMaxTokens
	MaxTokens int
}

func (o GenerateOptions) maxTokens() int {
	if o.MaxTokens > 0 {
		return o.MaxTokens
	}
	return DefaultMaxTokens
}

// Provider is a text generation backend
type Provider interface {
	// Name is the provider identifier, e.g. "ollama"
	Name() string
	// Model is the model the provider sends prompts to
	Model() string
	// Available reports whether the backend is reachable right now
	Available(ctx context.Context) bool
	// Generate sends prompt to the model and returns its raw text reply
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)
}

// StatusError is returned when a provider answers with a non-200 status
type StatusError struct {
	Provider string
	Status   int
	Body     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned status %d: %s", e.Provider, e.Status, e.Body)
}

func statusError(provider string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return &StatusError{
		Provider: provider,
		Status:   resp.StatusCode,
		Body:     strings.TrimSpace(string(body)),
	}
}

// Registry holds the configured providers and the one used by default
type Registry struct {
	providers map[string]Provider
	fallback  string
}

// NewRegistry creates a registry whose default is the first provider given
func NewRegistry(providers ...Provider) *Registry {
	r := &Registry{providers: make(map[string]Provider, len(providers))}
	for _, p := range providers {
		r.Register(p)
	}
	return r
}

// Register adds p, making it the default if it is the first one
func (r *Registry) Register(p Provider) {
	if r.fallback == "" {
		r.fallback = p.Name()
	}
	r.providers[p.Name()] = p
}

// SetDefault selects the provider returned by Default
func (r *Registry) SetDefault(name string) error {
	if _, ok := r.providers[name]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownProvider, name)
	}
	r.fallback = name
	return nil
}

// Get returns the provider registered under name
func (r *Registry) Get(name string) (Provider, error) {
	p, ok := r.providers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, name)
	}
	return p, nil
}

// Default returns the default provider
func (r *Registry) Default() (Provider, error) {
	return r.Get(r.fallback)
}

// Names lists the registered provider names in sorted order
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
