package deepseek

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aurahealth/aura-be/pkg/llm"
)

func TestChatCompletion(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %s, want /chat/completions", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("Authorization = %q", auth)
		}

		var req llm.ChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Model != "deepseek-chat" {
			t.Errorf("model = %q, want default deepseek-chat", req.Model)
		}
		if req.Stream {
			t.Error("stream should be false for ChatCompletion")
		}
		if len(req.Messages) != 2 || req.Messages[0].Role != "system" {
			t.Errorf("messages = %+v", req.Messages)
		}

		json.NewEncoder(w).Encode(llm.ChatResponse{
			Model: "deepseek-chat",
			Choices: []llm.Choice{{
				Message:      llm.ChatMessage{Role: "assistant", Content: "Stay hydrated and rest."},
				FinishReason: "stop",
			}},
			Usage: llm.Usage{PromptTokens: 20, CompletionTokens: 6, TotalTokens: 26},
		})
	}))
	defer server.Close()

	client := NewHTTPClient(Config{APIKey: "test-key", BaseURL: server.URL})

	resp, err := client.ChatCompletion(context.Background(), llm.ChatRequest{
		Messages: []llm.ChatMessage{
			{Role: "system", Content: "You are a helpful medical assistant."},
			{Role: "user", Content: "I have a mild fever"},
		},
	})
	if err != nil {
		t.Fatalf("ChatCompletion error: %v", err)
	}
	if got := resp.FirstContent(); got != "Stay hydrated and rest." {
		t.Errorf("content = %q", got)
	}
	if resp.Usage.TotalTokens != 26 {
		t.Errorf("total tokens = %d, want 26", resp.Usage.TotalTokens)
	}
}

func TestChatCompletionAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid api key"}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewHTTPClient(Config{APIKey: "bad-key", BaseURL: server.URL})

	_, err := client.ChatCompletion(context.Background(), llm.ChatRequest{
		Messages: []llm.ChatMessage{{Role: "user", Content: "hello"}},
	})
	if err == nil {
		t.Fatal("expected error for non-200 response")
	}
}

func TestStreamChatCompletion(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req llm.ChatRequest
		json.NewDecoder(r.Body).Decode(&req)
		if !req.Stream {
			t.Error("stream should be true for StreamChatCompletion")
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Write([]byte(`data: {"choices":[{"delta":{"content":"Take "}}]}` + "\n\n"))
		w.Write([]byte(`data: {"choices":[{"delta":{"content":"a deep breath."}}]}` + "\n\n"))
		w.Write([]byte("data: [DONE]\n\n"))
	}))
	defer server.Close()

	client := NewHTTPClient(Config{APIKey: "test-key", BaseURL: server.URL})

	ch, err := client.StreamChatCompletion(context.Background(), llm.ChatRequest{
		Messages: []llm.ChatMessage{{Role: "user", Content: "I feel anxious"}},
	})
	if err != nil {
		t.Fatalf("StreamChatCompletion error: %v", err)
	}

	var got string
	for chunk := range ch {
		if len(chunk.Choices) > 0 {
			got += chunk.Choices[0].Delta.Content
		}
	}
	if got != "Take a deep breath." {
		t.Errorf("assembled content = %q", got)
	}
}

func TestConfigDefaults(t *testing.T) {
	client := NewHTTPClient(Config{APIKey: "k"})
	if client.baseURL != "https://api.deepseek.com/v1" {
		t.Errorf("baseURL = %q", client.baseURL)
	}
	if client.model != "deepseek-chat" {
		t.Errorf("model = %q", client.model)
	}
	if client.timeout != 30*time.Second {
		t.Errorf("timeout = %v", client.timeout)
	}
}
