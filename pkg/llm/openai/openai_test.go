package openai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/engage/pkg/llm"
)

func completionServer(t *testing.T, content string, status int, captured *map[string]any) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		if captured != nil {
			require.NoError(t, json.Unmarshal(body, captured))
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			_, _ = w.Write([]byte(`{"error":{"message":"boom","type":"server_error"}}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 1700000000,
			"model":   "test-model",
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": content},
			}},
		})
	}))
}

func TestNewProvider_RequiresAPIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	_, err := NewProvider("")
	assert.Error(t, err)
}

func TestNewProvider_Defaults(t *testing.T) {
	t.Setenv("OPENAI_BASE_URL", "")
	p, err := NewProvider("k")
	require.NoError(t, err)
	assert.Equal(t, DefaultModel, p.GetModel())
	assert.Equal(t, DefaultBaseURL, p.GetBaseURL())

	t.Setenv("OPENAI_BASE_URL", "http://localhost:8080/v1")
	p, err = NewProvider("k", WithModel("local-model"))
	require.NoError(t, err)
	assert.Equal(t, "local-model", p.GetModel())
	assert.Equal(t, "http://localhost:8080/v1", p.GetBaseURL())
}

func TestGenerateText_RequiresInit(t *testing.T) {
	p, err := NewProvider("test-key")
	require.NoError(t, err)

	_, err = p.GenerateText(context.Background(), "hi", 10, 0.7)
	assert.ErrorIs(t, err, llm.ErrNotInitialized)
}

func TestGenerateText(t *testing.T) {
	var body map[string]any
	srv := completionServer(t, "  So spooky 👻  ", http.StatusOK, &body)
	defer srv.Close()

	p, err := NewProvider("test-key", WithBaseURL(srv.URL), WithModel("test-model"))
	require.NoError(t, err)
	require.NoError(t, p.Init(context.Background()))
	defer p.Shutdown()

	text, err := p.GenerateText(context.Background(), "write a comment", 25, 0.7)
	require.NoError(t, err)
	assert.Equal(t, "  So spooky 👻  ", text)

	assert.Equal(t, "test-model", body["model"])
	assert.EqualValues(t, 25, body["max_tokens"])
	assert.InDelta(t, 0.7, body["temperature"], 1e-9)
	messages := body["messages"].([]any)
	require.Len(t, messages, 1)
	assert.Equal(t, "user", messages[0].(map[string]any)["role"])
}

func TestGenerateText_ServerError(t *testing.T) {
	srv := completionServer(t, "", http.StatusInternalServerError, nil)
	defer srv.Close()

	p, err := NewProvider("test-key", WithBaseURL(srv.URL))
	require.NoError(t, err)
	require.NoError(t, p.Init(context.Background()))

	_, err = p.GenerateText(context.Background(), "x", 25, 0.7)
	assert.Error(t, err)
}

func TestShutdownIsIdempotent(t *testing.T) {
	p, err := NewProvider("test-key")
	require.NoError(t, err)
	require.NoError(t, p.Init(context.Background()))
	require.NoError(t, p.Init(context.Background()))
	assert.NoError(t, p.Shutdown())
	assert.NoError(t, p.Shutdown())

	_, err = p.GenerateText(context.Background(), "x", 25, 0.7)
	assert.ErrorIs(t, err, llm.ErrNotInitialized)
}
