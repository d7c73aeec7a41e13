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

func TestOpenAIGenerate(t *testing.T) {
	var got chatRequest
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"{\"substitutes\":[]}"}}]}`))
	}))
	defer ts.Close()

	o := NewOpenAI("test-key", ts.URL, "")
	out, err := o.Generate(context.Background(), "suggest", GenerateOptions{JSON: true})
	require.NoError(t, err)

	assert.Equal(t, `{"substitutes":[]}`, out)
	assert.Equal(t, DefaultOpenAIModel, got.Model)
	assert.Equal(t, DefaultMaxTokens, got.MaxTokens)
	assert.Equal(t, "json_object", got.ResponseFormat["type"])
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "user", got.Messages[0].Role)
}

func TestOpenAIGenerateNoChoices(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer ts.Close()

	_, err := NewOpenAI("k", ts.URL, "").Generate(context.Background(), "x", GenerateOptions{})
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestOpenAIGenerateStatusError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid key"}`, http.StatusUnauthorized)
	}))
	defer ts.Close()

	_, err := NewOpenAI("bad", ts.URL, "").Generate(context.Background(), "x", GenerateOptions{})
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusUnauthorized, statusErr.Status)
}

func TestOpenAIAvailable(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer good" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	defer ts.Close()

	assert.True(t, NewOpenAI("good", ts.URL, "").Available(context.Background()))
	assert.False(t, NewOpenAI("bad", ts.URL, "").Available(context.Background()))
	assert.False(t, NewOpenAI("", ts.URL, "").Available(context.Background()))
}
