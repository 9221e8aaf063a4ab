package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spigell/hh-screener/internal/ai"
)

func TestGenerate(t *testing.T) {
	var got map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/generate", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"model":"neural-chat","response":"  Hi Alex!  ","done":true}`))
	}))
	defer server.Close()

	client := New(server.URL+"/", "", time.Second, zap.NewNop())
	out, err := client.Generate(context.Background(), ai.Request{System: "be nice", Prompt: "greet", Temperature: 0.5})
	require.NoError(t, err)
	assert.Equal(t, "Hi Alex!", out)

	assert.Equal(t, DefaultModel, got["model"])
	assert.Equal(t, "greet", got["prompt"])
	assert.Equal(t, "be nice", got["system"])
	assert.Equal(t, false, got["stream"])

	options, ok := got["options"].(map[string]any)
	require.True(t, ok)
	assert.InDelta(t, 0.5, options["temperature"], 1e-6)
	assert.Equal(t, float64(ai.DefaultMaxTokens), options["num_predict"])
}

func TestGenerateErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		errText string
	}{
		{name: "server error message", status: http.StatusNotFound, body: `{"error":"model 'x' not found"}`, errText: "model 'x' not found"},
		{name: "empty response", status: http.StatusOK, body: `{"response":"","done":true}`, errText: "empty response"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := New(server.URL, "x", time.Second, nil).Generate(context.Background(), ai.Request{Prompt: "hi"})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errText)
		})
	}
}

func TestGenerateTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	_, err := New(server.URL, "", 50*time.Millisecond, nil).Generate(context.Background(), ai.Request{Prompt: "hi"})
	assert.Error(t, err)
}

func TestGenerateRejectsEmptyPrompt(t *testing.T) {
	_, err := New("", "", 0, nil).Generate(context.Background(), ai.Request{Prompt: " "})
	assert.Error(t, err)
}
