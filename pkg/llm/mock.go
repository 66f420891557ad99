package llm

import (
	"context"
	"sync"
)

// MockClient implements the Client interface for testing
type MockClient struct {
	mu sync.Mutex

	// StreamFunc allows customizing the streaming behavior
	StreamFunc func(context.Context, ChatRequest) (<-chan ChatChunk, error)

	// ChatFunc allows customizing the non-streaming behavior
	ChatFunc func(context.Context, ChatRequest) (*ChatResponse, error)

	// Tracking for assertions
	StreamCalls []ChatRequest
	ChatCalls   []ChatRequest
}

// NewMockClient creates a new mock client with default behavior
func NewMockClient() *MockClient {
	return &MockClient{
		StreamCalls: make([]ChatRequest, 0),
		ChatCalls:   make([]ChatRequest, 0),
	}
}

// TextResponse builds a single-choice ChatResponse, which is what most
// tests want a ChatFunc to return.
func TextResponse(content string) *ChatResponse {
	return &ChatResponse{
		ID:     "mock-response",
		Object: "chat.completion",
		Model:  "mock",
		Choices: []Choice{
			{Message: ChatMessage{Role: "assistant", Content: content}, FinishReason: "stop"},
		},
		Usage: Usage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15},
	}
}

// StreamChatCompletion implements Client.StreamChatCompletion
func (m *MockClient) StreamChatCompletion(ctx context.Context, req ChatRequest) (<-chan ChatChunk, error) {
	m.mu.Lock()
	m.StreamCalls = append(m.StreamCalls, req)
	m.mu.Unlock()

	if m.StreamFunc != nil {
		return m.StreamFunc(ctx, req)
	}

	finish := "stop"
	ch := make(chan ChatChunk, 3)
	ch <- ChatChunk{ID: "mock-chunk-1", Model: req.Model, Choices: []StreamChoice{{Delta: Delta{Content: "This is "}}}}
	ch <- ChatChunk{ID: "mock-chunk-2", Model: req.Model, Choices: []StreamChoice{{Delta: Delta{Content: "a mock response."}}}}
	ch <- ChatChunk{ID: "mock-chunk-3", Model: req.Model, Choices: []StreamChoice{{FinishReason: &finish}}}
	close(ch)
	return ch, nil
}

// ChatCompletion implements Client.ChatCompletion
func (m *MockClient) ChatCompletion(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	m.mu.Lock()
	m.ChatCalls = append(m.ChatCalls, req)
	m.mu.Unlock()

	if m.ChatFunc != nil {
		return m.ChatFunc(ctx, req)
	}
	return TextResponse("This is a mock response."), nil
}

// Reset clears the call history
func (m *MockClient) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.StreamCalls = make([]ChatRequest, 0)
	m.ChatCalls = make([]ChatRequest, 0)
}

// ChatCallCount returns the number of non-streaming calls made
func (m *MockClient) ChatCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.ChatCalls)
}

// LastChatCall returns the most recent non-streaming request, if any
func (m *MockClient) LastChatCall() (ChatRequest, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.ChatCalls) == 0 {
		return ChatRequest{}, false
	}
	return m.ChatCalls[len(m.ChatCalls)-1], true
}
