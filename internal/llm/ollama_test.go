package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOllamaGenerate(t *testing.T) {
	var got ollamaRequest
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"response": "{\"name\": \"Soup\"}", "done": true}`))
	}))
	defer ts.Close()

	o := NewOllama(ts.URL+"/", "")
	out, err := o.Generate(context.Background(), "parse this", GenerateOptions{JSON: true})
	require.NoError(t, err)

	assert.Equal(t, `{"name": "Soup"}`, out)
	assert.Equal(t, DefaultOllamaModel, got.Model)
	assert.Equal(t, "parse this", got.Prompt)
	assert.False(t, got.Stream)
	assert.Equal(t, "json", got.Format)
	assert.Equal(t, DefaultMaxTokens, got.Options.NumPredict)
}

func TestOllamaGenerateWithoutJSONOmitsFormat(t *testing.T) {
	var raw map[string]any
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		_, _ = w.Write([]byte(`{"response": "hello"}`))
	}))
	defer ts.Close()

	_, err := NewOllama(ts.URL, "mistral").Generate(context.Background(), "hi", GenerateOptions{MaxTokens: 10})
	require.NoError(t, err)

	_, hasFormat := raw["format"]
	assert.False(t, hasFormat)
	assert.Equal(t, "mistral", raw["model"])
	assert.Equal(t, 10.0, raw["options"].(map[string]any)["num_predict"])
}

func TestOllamaGenerateErrors(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer ts.Close()

	_, err := NewOllama(ts.URL, "").Generate(context.Background(), "x", GenerateOptions{})
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusNotFound, statusErr.Status)
	assert.Contains(t, statusErr.Body, "model not found")
}

func TestOllamaEmptyResponse(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"response": ""}`))
	}))
	defer ts.Close()

	_, err := NewOllama(ts.URL, "").Generate(context.Background(), "x", GenerateOptions{})
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestOllamaAvailable(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tags", r.URL.Path)
		_, _ = w.Write([]byte(`{"models": []}`))
	}))

	o := NewOllama(ts.URL, "")
	assert.True(t, o.Available(context.Background()))

	ts.Close()
	assert.False(t, o.Available(context.Background()))
}
