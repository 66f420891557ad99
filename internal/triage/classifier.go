package triage

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/aurahealth/aura-be/pkg/llm"
)

// classifierPrompt instructs the model to answer with a single category label.
const classifierPrompt = "You are a helpful medical assistant. Classify the user's statement into one of the following categories: " +
	"'General', 'Emergency', or 'Mental Health'. Your response should be a single word. " +
	"For example, if the user says 'I have a fever', you should respond with 'General'. " +
	"If the user says 'I'm having chest pains', you should respond with 'Emergency'. " +
	"If the user says 'I feel anxious and sad', you should respond with 'Mental Health'."

// Classifier assigns a handling category to a session's opening statement
// with a single LLM call.
type Classifier struct {
	client    llm.Client
	maxTokens int
}

// NewClassifier creates a classifier backed by the given LLM client
func NewClassifier(client llm.Client) *Classifier {
	return &Classifier{
		client:    client,
		maxTokens: 16, // the answer is a single label
	}
}

// Classify sends the opening statement to the model and parses the returned
// label. A response that matches none of the known labels falls back to
// CategoryGeneral. Provider failures are returned to the caller; the session
// stays unclassified and the user may retry.
func (c *Classifier) Classify(ctx context.Context, statement string) (Category, error) {
	req := llm.ChatRequest{
		Messages: []llm.ChatMessage{
			{Role: "system", Content: classifierPrompt},
			{Role: "user", Content: fmt.Sprintf("User's statement: %q", statement)},
		},
		Temperature: 0,
		MaxTokens:   c.maxTokens,
	}

	resp, err := c.client.ChatCompletion(ctx, req)
	if err != nil {
		return CategoryUnset, fmt.Errorf("triage call failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return CategoryUnset, fmt.Errorf("triage call returned no choices")
	}

	raw := resp.FirstContent()
	category := ParseCategory(raw)
	if category == CategoryUnset {
		log.Printf("Triage response %q matched no category, falling back to general", raw)
		category = CategoryGeneral
	}

	return category, nil
}

// ParseCategory matches raw model output against the known labels,
// case-insensitively and ignoring surrounding punctuation. It returns
// CategoryUnset when nothing matches. Match order mirrors the label
// wording: "mental health" must win over a stray "general" elsewhere
// in a verbose answer, so the most specific labels are checked first.
func ParseCategory(raw string) Category {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	normalized = strings.Trim(normalized, `"'.,!`)

	switch {
	case strings.Contains(normalized, "mental"):
		return CategoryMentalHealth
	case strings.Contains(normalized, "emergency"):
		return CategoryEmergency
	case strings.Contains(normalized, "general"):
		return CategoryGeneral
	default:
		return CategoryUnset
	}
}
