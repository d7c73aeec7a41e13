package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// DefaultGeminiModel is used when no Gemini model is configured
const DefaultGeminiModel = "gemini-1.5-flash"

// Gemini generates text with Google's Gemini API
type Gemini struct {
	apiKey string
	model  string
	opts   []option.ClientOption
}

// NewGemini creates a Gemini provider. Extra client options are appended
// after the API key, which lets tests point the client elsewhere.
func NewGemini(apiKey, model string, opts ...option.ClientOption) *Gemini {
	if model == "" {
		model = DefaultGeminiModel
	}
	return &Gemini{
		apiKey: strings.TrimSpace(apiKey),
		model:  strings.TrimSpace(model),
		opts:   opts,
	}
}

func (g *Gemini) Name() string  { return "gemini" }
func (g *Gemini) Model() string { return g.model }

func (g *Gemini) newClient(ctx context.Context) (*genai.Client, error) {
	if g.apiKey == "" {
		return nil, errors.New("GEMINI_API_KEY is empty")
	}
	opts := append([]option.ClientOption{option.WithAPIKey(g.apiKey)}, g.opts...)
	return genai.NewClient(ctx, opts...)
}

// Available lists models and reports whether the call succeeded
func (g *Gemini) Available(ctx context.Context) bool {
	cl, err := g.newClient(ctx)
	if err != nil {
		return false
	}
	defer cl.Close()

	it := cl.ListModels(ctx)
	_, err = it.Next()
	return err == nil || errors.Is(err, iterator.Done)
}

// Generate sends prompt to the configured model
func (g *Gemini) Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error) {
	cl, err := g.newClient(ctx)
	if err != nil {
		return "", err
	}
	defer cl.Close()

	m := cl.GenerativeModel(g.model)
	maxTokens := int32(opts.maxTokens())
	m.GenerationConfig = genai.GenerationConfig{
		MaxOutputTokens: &maxTokens,
	}
	if opts.JSON {
		m.GenerationConfig.ResponseMIMEType = "application/json"
	}

	resp, err := m.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}

	txt := firstText(resp)
	if strings.TrimSpace(txt) == "" {
		return "", ErrEmptyResponse
	}
	return txt, nil
}

func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	for _, c := range resp.Candidates {
		if c.Content == nil {
			continue
		}
		for _, p := range c.Content.Parts {
			if t, ok := p.(genai.Text); ok {
				return string(t)
			}
		}
	}
	return ""
}
