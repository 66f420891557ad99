package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aurahealth/aura-be/internal/chat"
	"github.com/aurahealth/aura-be/internal/session"
	"github.com/aurahealth/aura-be/internal/triage"
	"github.com/gin-gonic/gin"
)

// stubEngine scripts responder behavior for a turn
type stubEngine struct {
	run func(req chat.ProcessRequest) error
}

func (s *stubEngine) ProcessMessage(ctx context.Context, req chat.ProcessRequest) error {
	if _, err := testStore.Get(req.SessionID); err != nil {
		return err
	}
	return s.run(req)
}

var testStore *session.Store

func newTestRouter(engine Engine) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := NewSessionHandler(engine, testStore)
	handler.RegisterRoutes(router.Group("/api"))
	return router
}

func setup(run func(req chat.ProcessRequest) error) *gin.Engine {
	testStore = session.NewStore(session.Config{Greeting: "Hello! I'm Aura.", PromptWindow: 50})
	return newTestRouter(&stubEngine{run: run})
}

func TestCreateSession(t *testing.T) {
	router := setup(nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/sessions", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", w.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if body["id"] == "" {
		t.Error("expected a session id")
	}
	if body["greeting"] != "Hello! I'm Aura." {
		t.Errorf("greeting = %v", body["greeting"])
	}
}

func TestGetSession(t *testing.T) {
	router := setup(nil)
	sess := testStore.Create()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/sessions/"+sess.ID, nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var body map[string]any
	json.Unmarshal(w.Body.Bytes(), &body)
	if body["category"] != "" {
		t.Errorf("new session category = %v, want empty", body["category"])
	}
	if body["message_count"] != float64(1) {
		t.Errorf("message_count = %v, want 1", body["message_count"])
	}
}

func TestGetSession_NotFound(t *testing.T) {
	router := setup(nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/sessions/missing", nil))

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestPostMessage_SuccessfulTurn(t *testing.T) {
	router := setup(func(req chat.ProcessRequest) error {
		if err := req.Responder.SendTriage(triage.CategoryMentalHealth); err != nil {
			return err
		}
		if err := req.Responder.SendMessage("It sounds like you're going through a lot."); err != nil {
			return err
		}
		return req.Responder.SendDone()
	})
	sess := testStore.Create()

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/sessions/"+sess.ID+"/messages",
		strings.NewReader(`{"content":"I've been feeling really hopeless lately"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body=%s", w.Code, w.Body.String())
	}
	var body map[string]any
	json.Unmarshal(w.Body.Bytes(), &body)
	if body["category"] != string(triage.CategoryMentalHealth) {
		t.Errorf("category = %v, want mental_health", body["category"])
	}
	if body["category_label"] != "Mental Health" {
		t.Errorf("category_label = %v", body["category_label"])
	}
	if body["reply"] != "It sounds like you're going through a lot." {
		t.Errorf("reply = %v", body["reply"])
	}
}

func TestPostMessage_GenerationFailure(t *testing.T) {
	router := setup(func(req chat.ProcessRequest) error {
		if err := req.Responder.SendError("I'm having trouble responding right now."); err != nil {
			return err
		}
		return req.Responder.SendDone()
	})
	sess := testStore.Create()

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/sessions/"+sess.ID+"/messages",
		strings.NewReader(`{"content":"hello?"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", w.Code)
	}
	var body map[string]any
	json.Unmarshal(w.Body.Bytes(), &body)
	if body["error"] == "" {
		t.Error("expected an error message")
	}
}

func TestPostMessage_MissingContent(t *testing.T) {
	router := setup(nil)
	sess := testStore.Create()

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/sessions/"+sess.ID+"/messages", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestPostMessage_UnknownSession(t *testing.T) {
	router := setup(func(req chat.ProcessRequest) error { return nil })

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/sessions/missing/messages",
		strings.NewReader(`{"content":"hi"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestDeleteSession(t *testing.T) {
	router := setup(nil)
	sess := testStore.Create()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("DELETE", "/api/sessions/"+sess.ID, nil))
	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", w.Code)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/sessions/"+sess.ID, nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("status after delete = %d, want 404", w.Code)
	}
}

func TestGetMessages(t *testing.T) {
	router := setup(nil)
	sess := testStore.Create()
	testStore.AppendExchange(sess.ID,
		session.NewMessage(session.RoleUser, "I can't sleep"),
		session.NewMessage(session.RoleAssistant, "How long has this been going on?"))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/sessions/"+sess.ID+"/messages", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var body struct {
		Messages []session.Message `json:"messages"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(body.Messages) != 3 {
		t.Fatalf("messages = %d, want 3", len(body.Messages))
	}
	if body.Messages[1].Role != session.RoleUser || body.Messages[1].Content != "I can't sleep" {
		t.Errorf("unexpected second message: %+v", body.Messages[1])
	}
}
