package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"path"
	"strings"

	"go.uber.org/zap"

	"github.com/h0ng79/Botcare/internal/chat"
	"github.com/h0ng79/Botcare/internal/history"
	"github.com/h0ng79/Botcare/internal/models"
)

type Handler struct {
	orchestrator *chat.Orchestrator
	sessions     *chat.Sessions
	store        *history.Store
	collection   string
	logger       *zap.Logger
}

func NewHandler(orchestrator *chat.Orchestrator, sessions *chat.Sessions, store *history.Store, collection string, logger *zap.Logger) *Handler {
	return &Handler{
		orchestrator: orchestrator,
		sessions:     sessions,
		store:        store,
		collection:   collection,
		logger:       logger,
	}
}

type ChatRequest struct {
	SessionID string `json:"session_id"`
	Content   string `json:"content"`
	Backend   string `json:"backend"`
	RAG       bool   `json:"rag"`
	Filename  string `json:"filename,omitempty"`
}

type ChatResponse struct {
	Response   string `json:"response"`
	References string `json:"references,omitempty"`
	Timestamp  string `json:"timestamp"`
}

type SessionResponse struct {
	SessionID string `json:"session_id"`
}

type ResetRequest struct {
	SessionID string `json:"session_id"`
	Backend   string `json:"backend"`
}

func (h *Handler) HandleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Content == "" {
		http.Error(w, "Content is required", http.StatusBadRequest)
		return
	}
	backend, ok := models.ParseBackend(req.Backend)
	if !ok {
		http.Error(w, "Unknown backend", http.StatusBadRequest)
		return
	}
	sess, ok := h.sessions.Get(req.SessionID)
	if !ok {
		http.Error(w, "Unknown session", http.StatusNotFound)
		return
	}

	turn, refs, err := h.orchestrator.Exchange(r.Context(), sess, req.Content, req.RAG, backend)
	if err != nil {
		h.logger.Error("Failed to answer query", zap.Error(err))
		http.Error(w, fmt.Sprintf("Failed to answer query: %v", err), http.StatusInternalServerError)
		return
	}

	filename, err := logFilename(req.Filename, backend)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.store.Save(r.Context(), sess.Transcript(backend), h.collection, filename); err != nil {
		h.logger.Error("Failed to save chat history", zap.Error(err))
		http.Error(w, fmt.Sprintf("Failed to save chat history: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(ChatResponse{
		Response:   turn.Content,
		References: refs,
		Timestamp:  turn.Timestamp,
	}); err != nil {
		h.logger.Error("Failed to encode response", zap.Error(err))
	}
}

func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sess := h.sessions.Create()
	h.logger.Debug("Created session", zap.String("session", sess.ID))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(SessionResponse{SessionID: sess.ID})
}

func (h *Handler) ResetSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req ResetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	backend, ok := models.ParseBackend(req.Backend)
	if !ok {
		http.Error(w, "Unknown backend", http.StatusBadRequest)
		return
	}
	sess, ok := h.sessions.Get(req.SessionID)
	if !ok {
		http.Error(w, "Unknown session", http.StatusNotFound)
		return
	}

	sess.Reset(backend)
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) ListHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	names, err := h.store.List(r.Context(), h.collectionParam(r))
	if err != nil {
		h.logger.Error("Failed to list chat history", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(names)
}

func (h *Handler) LoadHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	name := r.URL.Query().Get("file")
	if err := validateFilename(name); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	conv, err := h.store.Load(r.Context(), h.collectionParam(r), name)
	if err != nil {
		h.logger.Error("Failed to load chat history", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(conv)
}

func (h *Handler) DeleteHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	name := r.URL.Query().Get("file")
	if err := validateFilename(name); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.store.Delete(r.Context(), h.collectionParam(r), name); err != nil {
		h.logger.Error("Failed to delete chat history", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *Handler) collectionParam(r *http.Request) string {
	if c := r.URL.Query().Get("collection"); c != "" {
		return c
	}
	return h.collection
}

// logFilename resolves the name a transcript is saved under, defaulting
// per backend and forcing the fixed extension.
func logFilename(name string, backend models.Backend) (string, error) {
	if name == "" {
		name = fmt.Sprintf("chat_history_%s%s", backend, history.Ext)
	}
	if !strings.HasSuffix(name, history.Ext) {
		name += history.Ext
	}
	if err := validateFilename(name); err != nil {
		return "", err
	}
	return name, nil
}

func validateFilename(name string) error {
	if name == "" || name != path.Base(name) {
		return fmt.Errorf("invalid file name %q", name)
	}
	return nil
}
