package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completion(content string) string {
	b, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{{"message": map[string]string{"role": "assistant", "content": content}}},
	})
	return string(b)
}

func TestCompleteNotConfiguredMakesNoRequest(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer srv.Close()

	c := NewClient(Options{BaseURL: srv.URL, Model: "m", Timeout: time.Second})
	_, err := c.Complete(context.Background(), "sys", "usr", true)
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestCompleteStructuredRequest(t *testing.T) {
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(completion(`{"diet":[]}`)))
	}))
	defer srv.Close()

	c := NewClient(Options{BaseURL: srv.URL + "/v1/", APIKey: "sk-test", Model: "json-model", RecipeModel: "text-model", Timeout: time.Second})
	out, err := c.Complete(context.Background(), "sys", "usr", true)
	require.NoError(t, err)
	assert.Equal(t, `{"diet":[]}`, out)

	assert.Equal(t, "json-model", got.Model)
	require.NotNil(t, got.ResponseFormat)
	assert.Equal(t, "json_object", got.ResponseFormat.Type)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "usr", got.Messages[1].Content)
}

func TestCompleteFreeTextRequest(t *testing.T) {
	var raw map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&raw)
		w.Write([]byte(completion("Soak the dal overnight.")))
	}))
	defer srv.Close()

	c := NewClient(Options{BaseURL: srv.URL, APIKey: "k", Model: "json-model", RecipeModel: "text-model", Timeout: time.Second})
	out, err := c.Complete(context.Background(), "sys", "usr", false)
	require.NoError(t, err)
	assert.Equal(t, "Soak the dal overnight.", out)
	assert.Equal(t, "text-model", raw["model"])
	assert.NotContains(t, raw, "response_format")
}

func TestCompleteErrors(t *testing.T) {
	cases := []struct {
		name    string
		handler http.HandlerFunc
		want    error
	}{
		{"status", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":"rate limited"}`, http.StatusTooManyRequests)
		}, ErrTransport},
		{"garbage envelope", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("<html>"))
		}, ErrTransport},
		{"no choices", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"choices":[]}`))
		}, ErrEmptyResponse},
		{"blank content", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(completion("  ")))
		}, ErrEmptyResponse},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(tc.handler)
			defer srv.Close()
			c := NewClient(Options{BaseURL: srv.URL, APIKey: "k", Model: "m", Timeout: time.Second})
			_, err := c.Complete(context.Background(), "s", "u", true)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestCompleteUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := NewClient(Options{BaseURL: url, APIKey: "k", Model: "m", Timeout: time.Second})
	_, err := c.Complete(context.Background(), "s", "u", true)
	assert.ErrorIs(t, err, ErrTransport)
}

func TestCompleteTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c := NewClient(Options{BaseURL: srv.URL, APIKey: "k", Model: "m", Timeout: 50 * time.Millisecond})
	start := time.Now()
	_, err := c.Complete(context.Background(), "s", "u", true)
	assert.ErrorIs(t, err, ErrTransport)
	assert.Less(t, time.Since(start), 5*time.Second)
}
