package session

import (
	"sync"
	"time"

	"github.com/aurahealth/aura-be/internal/triage"
	"github.com/google/uuid"
)

// Message roles
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message represents one turn entry in a session's history
type Message struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// NewMessage builds a message with a fresh ID and timestamp
func NewMessage(role, content string) Message {
	return Message{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// Session is the per-browser-session state: the triage category, fixed once,
// and the ordered append-only message history. All mutation goes through
// methods so concurrent transports (REST and WebSocket) stay safe.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu         sync.RWMutex
	category   triage.Category
	history    []Message
	lastActive time.Time
}

// Category returns the session's triage category (CategoryUnset before triage)
func (s *Session) Category() triage.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.category
}

// setCategory fixes the category. It succeeds exactly once; the category is
// immutable for the remainder of the session.
func (s *Session) setCategory(category triage.Category) error {
	if !category.Valid() {
		return ErrInvalidCategory
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.category != triage.CategoryUnset {
		return ErrCategoryAssigned
	}
	s.category = category
	s.lastActive = time.Now()
	return nil
}

// History returns a copy of the full message history
func (s *Session) History() []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history := make([]Message, len(s.history))
	copy(history, s.history)
	return history
}

// MessageCount returns the number of messages in the history
func (s *Session) MessageCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.history)
}

// PromptWindow returns at most max history messages for LLM context. The
// history itself is never truncated; only the window is bounded. The opening
// exchange (greeting plus first user message) is pinned so triage context
// survives long conversations.
func (s *Session) PromptWindow(max int) []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if max <= 0 || len(s.history) <= max {
		history := make([]Message, len(s.history))
		copy(history, s.history)
		return history
	}

	pinned := 2
	if pinned > max {
		pinned = max
	}

	window := make([]Message, 0, max)
	window = append(window, s.history[:pinned]...)
	window = append(window, s.history[len(s.history)-(max-pinned):]...)
	return window
}

// append adds messages and bumps the activity clock. Callers commit a user
// message and its assistant reply together, so a failed LLM call leaves the
// history exactly as it was before the turn.
func (s *Session) append(msgs ...Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.history = append(s.history, msgs...)
	s.lastActive = time.Now()
}

// LastActive returns the time of the most recent mutation
func (s *Session) LastActive() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastActive
}
