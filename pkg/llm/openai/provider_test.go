package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"ai-chat-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatSendsExpectedRequest(t *testing.T) {
	var gotPath, gotAuth string
	var gotReq openaiChatRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		json.NewEncoder(w).Encode(openaiChatResponse{
			Choices: []openaiChoice{
				{Message: openaiMessage{Role: "assistant", Content: "Hello there!"}},
			},
		})
	}))
	defer srv.Close()

	provider := NewOpenAIProvider(srv.URL, "test-key", "gpt-3.5-turbo")

	history := []llm.Message{
		{Role: "system", Content: "You are helpful."},
		{Role: "user", Content: "Hi"},
		{Role: "model", Content: "earlier reply"}, // legacy role gets normalized
		{Role: "user", Content: "Hi again"},
	}

	reply, err := provider.Chat(context.Background(), history,
		llm.WithMaxTokens(256),
		llm.WithTemperature(0.2),
	)

	require.NoError(t, err)
	assert.Equal(t, "Hello there!", reply)
	assert.Equal(t, "/chat/completions", gotPath)
	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "gpt-3.5-turbo", gotReq.Model)
	assert.Equal(t, 256, gotReq.MaxTokens)
	assert.InDelta(t, 0.2, gotReq.Temperature, 0.0001)

	require.Len(t, gotReq.Messages, 4)
	assert.Equal(t, "system", gotReq.Messages[0].Role)
	assert.Equal(t, "assistant", gotReq.Messages[2].Role)
	assert.Equal(t, "earlier reply", gotReq.Messages[2].Content)
}

func TestChatModelOverride(t *testing.T) {
	var gotReq openaiChatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotReq)
		json.NewEncoder(w).Encode(openaiChatResponse{
			Choices: []openaiChoice{{Message: openaiMessage{Content: "ok"}}},
		})
	}))
	defer srv.Close()

	provider := NewOpenAIProvider(srv.URL, "test-key", "gpt-3.5-turbo")
	_, err := provider.Chat(context.Background(),
		[]llm.Message{{Role: "user", Content: "Hi"}},
		llm.WithModel("gpt-4o"),
	)

	require.NoError(t, err)
	assert.Equal(t, "gpt-4o", gotReq.Model)
}

func TestChatErrorResponses(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantErrPart string
	}{
		{
			name:        "http error status",
			status:      http.StatusTooManyRequests,
			body:        `{"error":{"message":"rate limited","type":"rate_limit_error"}}`,
			wantErrPart: "status 429",
		},
		{
			name:        "error object in 200 body",
			status:      http.StatusOK,
			body:        `{"error":{"message":"model overloaded","type":"server_error"}}`,
			wantErrPart: "model overloaded",
		},
		{
			name:        "no choices",
			status:      http.StatusOK,
			body:        `{"choices":[]}`,
			wantErrPart: "no choices",
		},
		{
			name:        "empty content",
			status:      http.StatusOK,
			body:        `{"choices":[{"message":{"role":"assistant","content":"   "}}]}`,
			wantErrPart: "empty message content",
		},
		{
			name:        "malformed json",
			status:      http.StatusOK,
			body:        `{not json`,
			wantErrPart: "unmarshal response",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			provider := NewOpenAIProvider(srv.URL, "test-key", "gpt-3.5-turbo")
			_, err := provider.Chat(context.Background(), []llm.Message{{Role: "user", Content: "Hi"}})

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErrPart)
		})
	}
}

func TestChatUnreachableServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // immediately: connection refused

	provider := NewOpenAIProvider(srv.URL, "test-key", "gpt-3.5-turbo")
	_, err := provider.Chat(context.Background(), []llm.Message{{Role: "user", Content: "Hi"}})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "openai request failed")
}

func TestGenerateWrapsChat(t *testing.T) {
	var gotReq openaiChatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotReq)
		json.NewEncoder(w).Encode(openaiChatResponse{
			Choices: []openaiChoice{{Message: openaiMessage{Content: "generated"}}},
		})
	}))
	defer srv.Close()

	provider := NewOpenAIProvider(srv.URL, "test-key", "gpt-3.5-turbo")
	reply, err := provider.Generate(context.Background(), "one-shot prompt")

	require.NoError(t, err)
	assert.Equal(t, "generated", reply)
	require.Len(t, gotReq.Messages, 1)
	assert.Equal(t, "user", gotReq.Messages[0].Role)
	assert.Equal(t, "one-shot prompt", gotReq.Messages[0].Content)
}

func TestDefaultBaseURL(t *testing.T) {
	provider := NewOpenAIProvider("", "key", "model")
	assert.Equal(t, "https://api.openai.com/v1", provider.BaseURL)
}
