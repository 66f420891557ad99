package session

import (
	"errors"
	"sync"
	"time"

	"github.com/aurahealth/aura-be/internal/triage"
	"github.com/google/uuid"
)

var (
	ErrNotFound         = errors.New("session not found")
	ErrCategoryAssigned = errors.New("session category already assigned")
	ErrInvalidCategory  = errors.New("invalid triage category")
)

// Config holds store configuration
type Config struct {
	Greeting     string        // assistant message seeded into every new session
	PromptWindow int           // max messages handed to the LLM, 0 = unbounded
	IdleTTL      time.Duration // idle sessions older than this are swept, 0 = never
}

// Store is the in-memory session registry. Sessions live only for the
// duration of the conversation; nothing is written to disk.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	greeting     string
	promptWindow int
	idleTTL      time.Duration
}

// NewStore creates a session store. When cfg.IdleTTL is set, a janitor
// goroutine sweeps idle sessions in the background.
func NewStore(cfg Config) *Store {
	s := &Store{
		sessions:     make(map[string]*Session),
		greeting:     cfg.Greeting,
		promptWindow: cfg.PromptWindow,
		idleTTL:      cfg.IdleTTL,
	}

	if s.idleTTL > 0 {
		go s.sweepIdle()
	}

	return s
}

// Create registers a new unclassified session seeded with the greeting
func (s *Store) Create() *Session {
	now := time.Now()
	sess := &Session{
		ID:         uuid.NewString(),
		CreatedAt:  now,
		lastActive: now,
	}
	if s.greeting != "" {
		sess.history = append(sess.history, NewMessage(RoleAssistant, s.greeting))
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	return sess
}

// Get retrieves a session by ID
func (s *Store) Get(id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return sess, nil
}

// Delete removes a session
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// Len returns the number of live sessions
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// SetCategory fixes the triage category for a session. It fails with
// ErrCategoryAssigned after the first successful assignment.
func (s *Store) SetCategory(id string, category triage.Category) error {
	sess, err := s.Get(id)
	if err != nil {
		return err
	}
	return sess.setCategory(category)
}

// AppendExchange commits a full user/assistant turn atomically
func (s *Store) AppendExchange(id string, userMsg, assistantMsg Message) error {
	sess, err := s.Get(id)
	if err != nil {
		return err
	}
	sess.append(userMsg, assistantMsg)
	return nil
}

// PromptWindow returns the bounded history window for LLM context
func (s *Store) PromptWindow(id string) ([]Message, error) {
	sess, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	return sess.PromptWindow(s.promptWindow), nil
}

// sweepIdle drops sessions that have been idle longer than the TTL
func (s *Store) sweepIdle() {
	interval := s.idleTTL / 2
	if interval < time.Minute {
		interval = time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		cutoff := time.Now().Add(-s.idleTTL)

		s.mu.Lock()
		for id, sess := range s.sessions {
			if sess.LastActive().Before(cutoff) {
				delete(s.sessions, id)
			}
		}
		s.mu.Unlock()
	}
}
