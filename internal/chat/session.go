package chat

import (
	"sync"

	"github.com/google/uuid"
	"github.com/tmc/langchaingo/memory"
	"github.com/tmc/langchaingo/schema"

	"github.com/h0ng79/Botcare/internal/models"
)

// Session carries the explicit per-conversation state that used to live in
// ambient UI state: one transcript per backend, plus the rolling memory
// buffer for the memory-bearing backend.
type Session struct {
	ID string

	mu          sync.Mutex
	transcripts map[models.Backend]models.Conversation
	buffer      schema.Memory
}

func newSession() *Session {
	return &Session{
		ID:          uuid.NewString(),
		transcripts: make(map[models.Backend]models.Conversation),
		buffer:      memory.NewConversationBuffer(),
	}
}

// Memory returns the rolling buffer backing the conversational backend.
func (s *Session) Memory() schema.Memory {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buffer
}

// Append records completed turns on the backend's transcript.
func (s *Session) Append(backend models.Backend, turns ...models.Turn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transcripts[backend] = append(s.transcripts[backend], turns...)
}

// Transcript returns a copy of the backend's transcript.
func (s *Session) Transcript(backend models.Backend) models.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.transcripts[backend]
	out := make(models.Conversation, len(t))
	copy(out, t)
	return out
}

// Reset implements "New Chat" for one backend: the transcript is emptied
// and, for the memory-bearing backend, the buffer is replaced with a fresh
// one so no prior turns leak into the next conversation.
func (s *Session) Reset(backend models.Backend) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.transcripts, backend)
	if backend == models.BackendOpenAI {
		s.buffer = memory.NewConversationBuffer()
	}
}

// Sessions is the registry of live sessions.
type Sessions struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

func NewSessions() *Sessions {
	return &Sessions{sessions: make(map[string]*Session)}
}

// Create registers and returns a fresh session.
func (r *Sessions) Create() *Session {
	s := newSession()
	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()
	return s
}

func (r *Sessions) Get(id string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	return s, ok
}
