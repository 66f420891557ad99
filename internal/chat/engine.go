package chat

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/aurahealth/aura-be/internal/circuitbreaker"
	"github.com/aurahealth/aura-be/internal/fallback"
	"github.com/aurahealth/aura-be/internal/privacy"
	"github.com/aurahealth/aura-be/internal/prompt"
	"github.com/aurahealth/aura-be/internal/session"
	"github.com/aurahealth/aura-be/internal/triage"
	"github.com/aurahealth/aura-be/pkg/llm"
)

// Responder defines the interface for sending responses to any transport
type Responder interface {
	SendTriage(category triage.Category) error
	SendMessage(content string) error
	SendError(message string) error
	SendDone() error
}

// ProcessRequest contains all data needed to process one turn
type ProcessRequest struct {
	SessionID string
	Message   string
	Responder Responder
}

// Interfaces for dependencies
type ClassifierInterface interface {
	Classify(ctx context.Context, statement string) (triage.Category, error)
}

type SessionStore interface {
	Get(id string) (*session.Session, error)
	SetCategory(id string, category triage.Category) error
	AppendExchange(id string, userMsg, assistantMsg session.Message) error
	PromptWindow(id string) ([]session.Message, error)
}

type PromptInterface interface {
	BuildPrompt(req prompt.Request) []llm.ChatMessage
}

// Engine routes conversation turns independent of transport. The first user
// turn of a session fixes its triage category; every later turn replays the
// same category's persona. A failed LLM call leaves session state untouched
// and surfaces as a chat-level error; there are no automatic retries.
type Engine struct {
	classifier     ClassifierInterface
	sessions       SessionStore
	promptBuilder  PromptInterface
	llmClient      llm.Client
	circuitBreaker *circuitbreaker.CircuitBreaker
	aiTimeout      time.Duration
	temperature    float64
	maxTokens      int
}

// NewEngine creates a transport-agnostic conversation engine
func NewEngine(
	cls ClassifierInterface,
	sessions SessionStore,
	pb PromptInterface,
	client llm.Client,
) *Engine {
	return &Engine{
		classifier:     cls,
		sessions:       sessions,
		promptBuilder:  pb,
		llmClient:      client,
		circuitBreaker: circuitbreaker.New(5, 5*time.Minute),
		aiTimeout:      30 * time.Second,
		temperature:    0.7,
		maxTokens:      500,
	}
}

// ProcessMessage handles one user turn and sends results via the responder.
// The returned error reports transport or session-registry failures only;
// LLM failures are converted to error frames for the client.
func (e *Engine) ProcessMessage(ctx context.Context, req ProcessRequest) error {
	sess, err := e.sessions.Get(req.SessionID)
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}

	log.Printf("Processing turn: session=%s, length=%d", req.SessionID, len(req.Message))
	if privacy.ContainsPII(req.Message) {
		log.Printf("Warning: potential PII in message for session=%s", req.SessionID)
	}

	category := sess.Category()
	firstTurn := category == triage.CategoryUnset

	if firstTurn {
		category, err = e.classify(ctx, req.Message)
		if err != nil {
			log.Printf("Triage failed for session=%s: %v", req.SessionID, err)
			return e.sendFailure(req.Responder, fallback.GetTriageFailureResponse())
		}

		if err := e.sessions.SetCategory(req.SessionID, category); err != nil {
			// A concurrent first turn won the race; keep its category.
			if !errors.Is(err, session.ErrCategoryAssigned) {
				return fmt.Errorf("failed to fix category: %w", err)
			}
			category = sess.Category()
		}
		log.Printf("Session %s triaged as %s", req.SessionID, category)

		if err := req.Responder.SendTriage(category); err != nil {
			return err
		}

		// General and emergency sessions open with a fixed template reply.
		if reply, ok := prompt.FirstReply(category, req.Message); ok {
			if err := e.commitAndSend(req, reply); err != nil {
				return err
			}
			return req.Responder.SendDone()
		}
	}

	if e.circuitBreaker.State() == circuitbreaker.StateOpen {
		log.Printf("Circuit breaker open, serving fallback for session=%s", req.SessionID)
		return e.sendFailure(req.Responder, fallback.GetCircuitOpenResponse())
	}

	// The prompt window is read before the turn is committed, so the current
	// user message appears exactly once, as the final prompt entry.
	history, err := e.sessions.PromptWindow(req.SessionID)
	if err != nil {
		return fmt.Errorf("failed to read history: %w", err)
	}

	messages := e.promptBuilder.BuildPrompt(prompt.Request{
		Category:    category,
		UserMessage: req.Message,
		History:     history,
	})

	reply, err := e.generate(ctx, messages)
	if err != nil {
		log.Printf("LLM call failed for session=%s: %v", req.SessionID, err)
		return e.sendFailure(req.Responder, failureResponse(category, err))
	}

	if err := e.commitAndSend(req, reply); err != nil {
		return err
	}
	return req.Responder.SendDone()
}

// classify runs the triage classifier under the breaker and the AI timeout
func (e *Engine) classify(ctx context.Context, statement string) (triage.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, e.aiTimeout)
	defer cancel()

	var category triage.Category
	err := e.circuitBreaker.Call(func() error {
		var cerr error
		category, cerr = e.classifier.Classify(ctx, statement)
		return cerr
	})
	return category, err
}

// generate runs one persona completion under the breaker and the AI timeout
func (e *Engine) generate(ctx context.Context, messages []llm.ChatMessage) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, e.aiTimeout)
	defer cancel()

	var reply string
	err := e.circuitBreaker.Call(func() error {
		resp, cerr := e.llmClient.ChatCompletion(ctx, llm.ChatRequest{
			Messages:    messages,
			Temperature: e.temperature,
			MaxTokens:   e.maxTokens,
		})
		if cerr != nil {
			return cerr
		}
		if len(resp.Choices) == 0 {
			return fmt.Errorf("no response from LLM")
		}
		reply = resp.FirstContent()
		return nil
	})
	return reply, err
}

// commitAndSend appends the user/assistant exchange atomically and delivers
// the reply. Nothing is appended before this point, so failed turns leave
// the history unchanged.
func (e *Engine) commitAndSend(req ProcessRequest, reply string) error {
	userMsg := session.NewMessage(session.RoleUser, req.Message)
	assistantMsg := session.NewMessage(session.RoleAssistant, reply)
	if err := e.sessions.AppendExchange(req.SessionID, userMsg, assistantMsg); err != nil {
		return fmt.Errorf("failed to commit exchange: %w", err)
	}
	return req.Responder.SendMessage(reply)
}

// sendFailure delivers a fallback as an error frame and completes the turn
func (e *Engine) sendFailure(r Responder, resp fallback.Response) error {
	if err := r.SendError(resp.Content); err != nil {
		return err
	}
	return r.SendDone()
}

// failureResponse picks the fallback matching how the LLM call failed
func failureResponse(category triage.Category, err error) fallback.Response {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return fallback.GetTimeoutResponse()
	case errors.Is(err, circuitbreaker.ErrCircuitOpen),
		errors.Is(err, circuitbreaker.ErrTooManyRequests):
		return fallback.GetCircuitOpenResponse()
	default:
		return fallback.GetFallbackResponse(category)
	}
}
