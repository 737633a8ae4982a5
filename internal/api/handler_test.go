package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tmc/langchaingo/schema"
	"go.uber.org/zap"

	"github.com/h0ng79/Botcare/internal/chat"
	"github.com/h0ng79/Botcare/internal/history"
	"github.com/h0ng79/Botcare/internal/models"
)

type stubRetriever struct {
	passages []models.RetrievedPassage
}

func (s *stubRetriever) Retrieve(ctx context.Context, query string) ([]models.RetrievedPassage, error) {
	return s.passages, nil
}

type stubConversational struct {
	response string
}

func (s *stubConversational) Respond(ctx context.Context, mem schema.Memory, contextText, query string) (string, error) {
	return s.response, nil
}

type stubDocumentQA struct {
	response string
}

func (s *stubDocumentQA) Respond(ctx context.Context, docs []schema.Document, query string) (string, error) {
	return s.response, nil
}

func newTestHandler(t *testing.T) (*Handler, *chat.Sessions, *history.Store) {
	t.Helper()
	retriever := &stubRetriever{passages: []models.RetrievedPassage{
		{Text: "context", SourceID: "movie-a", Score: 0.9},
	}}
	orchestrator := chat.NewOrchestrator(retriever,
		&stubConversational{response: "conversational answer"},
		&stubDocumentQA{response: "qa answer"},
		zap.NewNop())
	sessions := chat.NewSessions()
	store := history.NewStore(history.NewFSStore(t.TempDir()))
	return NewHandler(orchestrator, sessions, store, "History", zap.NewNop()), sessions, store
}

func postJSON(t *testing.T, handler http.HandlerFunc, url string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, url, bytes.NewReader(payload))
	w := httptest.NewRecorder()
	handler(w, req)
	return w
}

func TestHandleChatPersistsTranscript(t *testing.T) {
	handler, sessions, store := newTestHandler(t)
	sess := sessions.Create()

	w := postJSON(t, handler.HandleChat, "/api/chat", ChatRequest{
		SessionID: sess.ID,
		Content:   "hello",
		Backend:   "openai",
		RAG:       true,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("HandleChat status = %d, want %d: %s", w.Code, http.StatusOK, w.Body.String())
	}

	var resp ChatResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if resp.Response != "conversational answer" {
		t.Fatalf("response = %q, want %q", resp.Response, "conversational answer")
	}
	if resp.References != "movie-a" {
		t.Fatalf("references = %q, want %q", resp.References, "movie-a")
	}

	conv, err := store.Load(context.Background(), "History", "chat_history_openai.txt")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(conv) != 2 {
		t.Fatalf("persisted transcript has %d turns, want 2", len(conv))
	}
	if conv[0].Content != "hello" || conv[1].Content != "conversational answer" {
		t.Fatalf("persisted transcript = %v, want the exchange", conv)
	}
}

func TestHandleChatUnknownSession(t *testing.T) {
	handler, _, _ := newTestHandler(t)

	w := postJSON(t, handler.HandleChat, "/api/chat", ChatRequest{
		SessionID: "missing",
		Content:   "hello",
		Backend:   "openai",
	})
	if w.Code != http.StatusNotFound {
		t.Fatalf("HandleChat status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

func TestHandleChatUnknownBackend(t *testing.T) {
	handler, sessions, _ := newTestHandler(t)
	sess := sessions.Create()

	w := postJSON(t, handler.HandleChat, "/api/chat", ChatRequest{
		SessionID: sess.ID,
		Content:   "hello",
		Backend:   "mystery",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("HandleChat status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestHandleChatRejectsPathTraversalFilename(t *testing.T) {
	handler, sessions, _ := newTestHandler(t)
	sess := sessions.Create()

	w := postJSON(t, handler.HandleChat, "/api/chat", ChatRequest{
		SessionID: sess.ID,
		Content:   "hello",
		Backend:   "openai",
		Filename:  "../escape.txt",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("HandleChat status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestCreateAndResetSession(t *testing.T) {
	handler, sessions, _ := newTestHandler(t)

	w := httptest.NewRecorder()
	handler.CreateSession(w, httptest.NewRequest(http.MethodPost, "/api/sessions", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("CreateSession status = %d, want %d", w.Code, http.StatusOK)
	}
	var resp SessionResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	sess, ok := sessions.Get(resp.SessionID)
	if !ok {
		t.Fatalf("session %q not registered", resp.SessionID)
	}

	w2 := postJSON(t, handler.HandleChat, "/api/chat", ChatRequest{
		SessionID: sess.ID, Content: "hello", Backend: "openai",
	})
	if w2.Code != http.StatusOK {
		t.Fatalf("HandleChat status = %d, want %d", w2.Code, http.StatusOK)
	}

	w3 := postJSON(t, handler.ResetSession, "/api/sessions/reset", ResetRequest{
		SessionID: sess.ID, Backend: "openai",
	})
	if w3.Code != http.StatusOK {
		t.Fatalf("ResetSession status = %d, want %d", w3.Code, http.StatusOK)
	}
	if n := len(sess.Transcript(models.BackendOpenAI)); n != 0 {
		t.Fatalf("transcript has %d turns after reset, want 0", n)
	}
}

func TestHistoryEndpoints(t *testing.T) {
	handler, _, store := newTestHandler(t)
	ctx := context.Background()

	conv := models.Conversation{
		{Role: models.RoleUser, Timestamp: "2024-06-01 10:00:00", Content: "q"},
		{Role: models.RoleBot, Timestamp: "2024-06-01 10:00:01", Content: "a"},
	}
	if err := store.Save(ctx, conv, "History", "old.txt"); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	w := httptest.NewRecorder()
	handler.ListHistory(w, httptest.NewRequest(http.MethodGet, "/api/history", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("ListHistory status = %d, want %d", w.Code, http.StatusOK)
	}
	var names []string
	if err := json.Unmarshal(w.Body.Bytes(), &names); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if len(names) != 1 || names[0] != "old.txt" {
		t.Fatalf("ListHistory = %v, want [old.txt]", names)
	}

	w2 := httptest.NewRecorder()
	handler.LoadHistory(w2, httptest.NewRequest(http.MethodGet, "/api/history/load?file=old.txt", nil))
	if w2.Code != http.StatusOK {
		t.Fatalf("LoadHistory status = %d, want %d", w2.Code, http.StatusOK)
	}
	var loaded models.Conversation
	if err := json.Unmarshal(w2.Body.Bytes(), &loaded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if len(loaded) != 2 || loaded[0].Content != "q" {
		t.Fatalf("LoadHistory = %v, want the saved conversation", loaded)
	}

	w3 := httptest.NewRecorder()
	handler.DeleteHistory(w3, httptest.NewRequest(http.MethodDelete, "/api/history/delete?file=old.txt", nil))
	if w3.Code != http.StatusOK {
		t.Fatalf("DeleteHistory status = %d, want %d", w3.Code, http.StatusOK)
	}

	// Deleting again is a no-op, not an error.
	w4 := httptest.NewRecorder()
	handler.DeleteHistory(w4, httptest.NewRequest(http.MethodDelete, "/api/history/delete?file=old.txt", nil))
	if w4.Code != http.StatusOK {
		t.Fatalf("DeleteHistory second call status = %d, want %d", w4.Code, http.StatusOK)
	}
}

func TestMethodGuards(t *testing.T) {
	handler, _, _ := newTestHandler(t)

	checks := []struct {
		name string
		fn   http.HandlerFunc
		req  *http.Request
	}{
		{"chat", handler.HandleChat, httptest.NewRequest(http.MethodGet, "/api/chat", nil)},
		{"sessions", handler.CreateSession, httptest.NewRequest(http.MethodGet, "/api/sessions", nil)},
		{"reset", handler.ResetSession, httptest.NewRequest(http.MethodGet, "/api/sessions/reset", nil)},
		{"list", handler.ListHistory, httptest.NewRequest(http.MethodPost, "/api/history", nil)},
		{"load", handler.LoadHistory, httptest.NewRequest(http.MethodPost, "/api/history/load", nil)},
		{"delete", handler.DeleteHistory, httptest.NewRequest(http.MethodGet, "/api/history/delete", nil)},
	}
	for _, c := range checks {
		w := httptest.NewRecorder()
		c.fn(w, c.req)
		if w.Code != http.StatusMethodNotAllowed {
			t.Fatalf("%s status = %d, want %d", c.name, w.Code, http.StatusMethodNotAllowed)
		}
	}
}
