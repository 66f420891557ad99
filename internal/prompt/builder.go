package prompt

import (
	"fmt"

	"github.com/aurahealth/aura-be/internal/session"
	"github.com/aurahealth/aura-be/internal/triage"
	"github.com/aurahealth/aura-be/pkg/llm"
)

// Request contains everything needed to build a conversational prompt
type Request struct {
	Category    triage.Category
	UserMessage string
	History     []session.Message
}

// Builder assembles the message list sent to the LLM. The system persona is
// selected by category alone; turn count never changes it.
type Builder struct{}

// NewBuilder creates a new prompt builder
func NewBuilder() *Builder {
	return &Builder{}
}

// BuildPrompt constructs persona system prompt + history window + current
// user message.
func (b *Builder) BuildPrompt(req Request) []llm.ChatMessage {
	messages := make([]llm.ChatMessage, 0, 2+len(req.History))

	messages = append(messages, llm.ChatMessage{
		Role:    "system",
		Content: PersonaFor(req.Category),
	})

	for _, msg := range req.History {
		messages = append(messages, llm.ChatMessage{
			Role:    msg.Role,
			Content: msg.Content,
		})
	}

	messages = append(messages, llm.ChatMessage{
		Role:    "user",
		Content: req.UserMessage,
	})

	return messages
}

// PersonaFor returns the system prompt for a category. Unknown or unset
// categories get the general persona, matching the triage fallback.
func PersonaFor(category triage.Category) string {
	switch category {
	case triage.CategoryEmergency:
		return emergencyPersona
	case triage.CategoryMentalHealth:
		return mentalHealthPersona
	default:
		return generalPersona
	}
}

// FirstReply returns the fixed template reply sent right after triage for
// categories that do not open with an LLM turn. The second return value is
// false when the category converses through the LLM from its first reply
// (mental health).
func FirstReply(category triage.Category, statement string) (string, bool) {
	switch category {
	case triage.CategoryGeneral:
		return fmt.Sprintf(generalFirstReply, statement), true
	case triage.CategoryEmergency:
		return fmt.Sprintf(emergencyFirstReply, statement), true
	default:
		return "", false
	}
}
