package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/smartfridge/config"
	"github.com/pageza/smartfridge/internal/backend/backendtest"
	"github.com/pageza/smartfridge/internal/llm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestServeStopsOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	srv := New(ln.Addr().String(), handler, quietLogger(), time.Second)

	taskStopped := make(chan struct{})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- srv.Serve(ctx, ln, func(ctx context.Context) error {
			<-ctx.Done()
			close(taskStopped)
			return nil
		})
	}()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String())
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusTeapot
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
	<-taskStopped
}

func TestServeReturnsTaskError(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	srv := New(ln.Addr().String(), http.NotFoundHandler(), quietLogger(), time.Second)

	boom := errors.New("watcher failed")
	err = srv.Serve(context.Background(), ln, func(context.Context) error { return boom })
	assert.ErrorIs(t, err, boom)
}

func TestNewProviders(t *testing.T) {
	cfg := config.NewDefaultConfig(config.Development).LLM

	reg, err := NewProviders(cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"ollama"}, reg.Names())

	cfg.OpenAI.APIKey = "sk-test"
	cfg.Gemini.APIKey = "gm-test"
	cfg.Provider = config.ProviderGemini
	reg, err = NewProviders(cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"gemini", "ollama", "openai"}, reg.Names())
	p, err := reg.Default()
	require.NoError(t, err)
	assert.Equal(t, "gemini", p.Name())

	cfg.Provider = "claude"
	_, err = NewProviders(cfg)
	assert.ErrorIs(t, err, llm.ErrUnknownProvider)
}

func TestAppRouter(t *testing.T) {
	ollama := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/tags":
			_, _ = w.Write([]byte(`{"models":[]}`))
		case "/api/generate":
			_, _ = w.Write([]byte(`{"response":"{\"name\":\"toast\",\"cuisine\":\"French\",\"ingredients\":[\"bread\",\"salt\"],\"instructions\":[\"Toast bread\"]}"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(ollama.Close)
	fridge := backendtest.NewServer(t, "bread")

	cfg := config.NewDefaultConfig(config.Development)
	cfg.LLM.Ollama.URL = ollama.URL
	cfg.Database.DSN = filepath.Join(t.TempDir(), "audit.db")
	cfg.Backend.URL = fridge.APIURL()

	app, err := NewApp(context.Background(), cfg, quietLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	router := app.Router()

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"healthy","provider":"ollama","model":"llama3.2:1b","llm_available":true,"ollama_available":true}`, rr.Body.String())

	req := httptest.NewRequest(http.MethodPost, "/ai/parse-recipe", strings.NewReader(`{"recipeText":"toast with salt"}`))
	req.Header.Set("Content-Type", "application/json")
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var parsed struct {
		Success bool   `json:"success"`
		DraftID string `json:"draftId"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &parsed))
	assert.True(t, parsed.Success)
	require.NotEmpty(t, parsed.DraftID)

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/ai/drafts/"+parsed.DraftID+"/submit", nil))
	require.Equal(t, http.StatusCreated, rr.Code)

	fridge.Lock()
	stored := fridge.Recipes["toast"]
	fridge.Unlock()
	assert.Equal(t, "FRENCH", stored.CuisineType)
	assert.Equal(t, []string{"bread"}, stored.Ingredients)
	assert.Equal(t, []string{"salt"}, stored.Seasonings)

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/ai/calls", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"count":1`)
}
