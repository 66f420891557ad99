package ws

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/aurahealth/aura-be/internal/chat"
	"github.com/aurahealth/aura-be/internal/session"
	"github.com/aurahealth/aura-be/internal/triage"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // the widget is served from arbitrary origins
	},
}

// Engine is the conversation engine surface the handler needs
type Engine interface {
	ProcessMessage(ctx context.Context, req chat.ProcessRequest) error
}

// ChatHandler handles WebSocket chat connections
type ChatHandler struct {
	engine Engine
	store  *session.Store
}

// NewChatHandler creates a new chat handler
func NewChatHandler(engine Engine, store *session.Store) *ChatHandler {
	return &ChatHandler{engine: engine, store: store}
}

// IncomingMessage represents a message from the client
type IncomingMessage struct {
	Content string `json:"content"`
}

// OutgoingMessage represents a frame sent to the client
type OutgoingMessage struct {
	Type    string      `json:"type"` // "session", "triage", "message", "error", "done"
	Content string      `json:"content,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// HandleChat upgrades the connection and runs the per-session read loop.
// A session is created when the client does not present one; either way the
// first frame tells the client which session it is talking in.
func (h *ChatHandler) HandleChat(c *gin.Context) {
	var sess *session.Session
	if id := c.Query("session"); id != "" {
		existing, err := h.store.Get(id)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
			return
		}
		sess = existing
	} else {
		sess = h.store.Create()
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	log.Printf("WebSocket connected: session=%s", sess.ID)

	greeting := ""
	if history := sess.History(); len(history) > 0 && history[0].Role == session.RoleAssistant {
		greeting = history[0].Content
	}
	if err := conn.WriteJSON(OutgoingMessage{
		Type: "session",
		Data: gin.H{"id": sess.ID, "category": sess.Category(), "greeting": greeting},
	}); err != nil {
		return
	}

	responder := &connResponder{conn: conn}

	for {
		var msg IncomingMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}

		if strings.TrimSpace(msg.Content) == "" {
			responder.SendError("Please type a message first.")
			responder.SendDone()
			continue
		}

		err := h.engine.ProcessMessage(c.Request.Context(), chat.ProcessRequest{
			SessionID: sess.ID,
			Message:   msg.Content,
			Responder: responder,
		})
		if err != nil {
			log.Printf("Error processing message: %v", err)
			responder.SendError("Something went wrong. Please try again.")
			responder.SendDone()
		}
	}
}

// connResponder implements chat.Responder over a single WebSocket connection
type connResponder struct {
	conn *websocket.Conn
}

// SendTriage tells the client which category the session settled into,
// with the thinking note rendered in the chat transcript.
func (r *connResponder) SendTriage(category triage.Category) error {
	note := fmt.Sprintf("(Thinking... It seems like this might be a %s concern.)",
		strings.ToLower(category.Label()))
	return r.conn.WriteJSON(OutgoingMessage{
		Type:    "triage",
		Content: note,
		Data:    gin.H{"category": category, "label": category.Label()},
	})
}

func (r *connResponder) SendMessage(content string) error {
	return r.conn.WriteJSON(OutgoingMessage{Type: "message", Content: content})
}

func (r *connResponder) SendError(message string) error {
	return r.conn.WriteJSON(OutgoingMessage{Type: "error", Content: message})
}

func (r *connResponder) SendDone() error {
	return r.conn.WriteJSON(OutgoingMessage{Type: "done"})
}
