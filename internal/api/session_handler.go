package api

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/aurahealth/aura-be/internal/chat"
	"github.com/aurahealth/aura-be/internal/session"
	"github.com/aurahealth/aura-be/internal/triage"
	"github.com/gin-gonic/gin"
)

// Engine is the conversation engine surface the handler needs
type Engine interface {
	ProcessMessage(ctx context.Context, req chat.ProcessRequest) error
}

// SessionHandler exposes sessions and synchronous chat turns over REST
type SessionHandler struct {
	engine Engine
	store  *session.Store
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(engine Engine, store *session.Store) *SessionHandler {
	return &SessionHandler{engine: engine, store: store}
}

// RegisterRoutes mounts the session routes on a router group
func (h *SessionHandler) RegisterRoutes(r *gin.RouterGroup) {
	sessions := r.Group("/sessions")
	sessions.POST("", h.CreateSession)
	sessions.GET("/:id", h.GetSession)
	sessions.DELETE("/:id", h.DeleteSession)
	sessions.GET("/:id/messages", h.GetMessages)
	sessions.POST("/:id/messages", h.PostMessage)
}

// CreateSession starts a new unclassified session
func (h *SessionHandler) CreateSession(c *gin.Context) {
	sess := h.store.Create()

	greeting := ""
	if history := sess.History(); len(history) > 0 {
		greeting = history[0].Content
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":         sess.ID,
		"greeting":   greeting,
		"created_at": sess.CreatedAt,
	})
}

// GetSession returns session metadata
func (h *SessionHandler) GetSession(c *gin.Context) {
	sess, err := h.store.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":            sess.ID,
		"category":      sess.Category(),
		"created_at":    sess.CreatedAt,
		"message_count": sess.MessageCount(),
	})
}

// DeleteSession ends a session and discards its state
func (h *SessionHandler) DeleteSession(c *gin.Context) {
	h.store.Delete(c.Param("id"))
	c.Status(http.StatusNoContent)
}

// GetMessages returns the ordered session history
func (h *SessionHandler) GetMessages(c *gin.Context) {
	sess, err := h.store.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": sess.History()})
}

// PostMessage processes one chat turn synchronously
func (h *SessionHandler) PostMessage(c *gin.Context) {
	var req struct {
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "content is required"})
		return
	}

	responder := &turnCollector{}
	err := h.engine.ProcessMessage(c.Request.Context(), chat.ProcessRequest{
		SessionID: c.Param("id"),
		Message:   req.Content,
		Responder: responder,
	})
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
			return
		}
		log.Printf("Turn processing failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process message"})
		return
	}

	if responder.errMsg != "" {
		body := gin.H{"error": responder.errMsg}
		if responder.category != nil {
			body["category"] = *responder.category
		}
		c.JSON(http.StatusBadGateway, body)
		return
	}

	body := gin.H{
		"session_id": c.Param("id"),
		"reply":      responder.reply(),
	}
	if responder.category != nil {
		body["category"] = *responder.category
		body["category_label"] = responder.category.Label()
	}
	c.JSON(http.StatusOK, body)
}

// turnCollector implements chat.Responder by buffering a single synchronous
// turn for the REST response.
type turnCollector struct {
	category *triage.Category
	messages []string
	errMsg   string
}

func (t *turnCollector) SendTriage(category triage.Category) error {
	t.category = &category
	return nil
}

func (t *turnCollector) SendMessage(content string) error {
	t.messages = append(t.messages, content)
	return nil
}

func (t *turnCollector) SendError(message string) error {
	t.errMsg = message
	return nil
}

func (t *turnCollector) SendDone() error { return nil }

func (t *turnCollector) reply() string {
	if len(t.messages) == 0 {
		return ""
	}
	return t.messages[len(t.messages)-1]
}
