package chat

import (
	"testing"
	"time"

	"github.com/h0ng79/Botcare/internal/models"
)

func TestSessionsCreateAndGet(t *testing.T) {
	sessions := NewSessions()
	sess := sessions.Create()
	if sess.ID == "" {
		t.Fatal("Create() produced a session with empty id")
	}

	got, ok := sessions.Get(sess.ID)
	if !ok || got != sess {
		t.Fatalf("Get(%q) = %v, %v; want the created session", sess.ID, got, ok)
	}

	if _, ok := sessions.Get("nope"); ok {
		t.Fatal("Get(nope) = ok, want miss")
	}
}

func TestResetClearsTranscriptAndReplacesBuffer(t *testing.T) {
	sess := NewSessions().Create()
	now := time.Now()
	sess.Append(models.BackendOpenAI,
		models.NewTurn(models.RoleUser, "q", now),
		models.NewTurn(models.RoleBot, "a", now))

	before := sess.Memory()
	sess.Reset(models.BackendOpenAI)

	if n := len(sess.Transcript(models.BackendOpenAI)); n != 0 {
		t.Fatalf("transcript has %d turns after reset, want 0", n)
	}
	if sess.Memory() == before {
		t.Fatal("Memory() unchanged after reset, want a fresh buffer")
	}
}

func TestResetNonMemoryBackendKeepsBuffer(t *testing.T) {
	sess := NewSessions().Create()
	now := time.Now()
	sess.Append(models.BackendGoogleAI, models.NewTurn(models.RoleUser, "q", now))

	before := sess.Memory()
	sess.Reset(models.BackendGoogleAI)

	if n := len(sess.Transcript(models.BackendGoogleAI)); n != 0 {
		t.Fatalf("transcript has %d turns after reset, want 0", n)
	}
	if sess.Memory() != before {
		t.Fatal("Memory() replaced on non-memory backend reset")
	}
}

func TestTranscriptReturnsCopy(t *testing.T) {
	sess := NewSessions().Create()
	now := time.Now()
	sess.Append(models.BackendOpenAI, models.NewTurn(models.RoleUser, "q", now))

	got := sess.Transcript(models.BackendOpenAI)
	got[0].Content = "mutated"

	if sess.Transcript(models.BackendOpenAI)[0].Content != "q" {
		t.Fatal("Transcript() exposes internal state")
	}
}
