// Package chat runs the answer flow: optional retrieval, dispatch to the
// selected model backend, and per-session transcript bookkeeping.
package chat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pkoukk/tiktoken-go"
	"github.com/tmc/langchaingo/schema"
	"go.uber.org/zap"

	"github.com/h0ng79/Botcare/internal/models"
)

// Retriever fetches relevance-filtered passages for a query.
type Retriever interface {
	Retrieve(ctx context.Context, query string) ([]models.RetrievedPassage, error)
}

// ConversationalModel is the memory-bearing backend.
type ConversationalModel interface {
	Respond(ctx context.Context, mem schema.Memory, contextText, query string) (string, error)
}

// DocumentQAModel is the stateless per-call backend.
type DocumentQAModel interface {
	Respond(ctx context.Context, docs []schema.Document, query string) (string, error)
}

// Orchestrator answers user queries, optionally grounding them in
// retrieved passages. One blocking sequence per query, no internal
// parallelism, no retries.
type Orchestrator struct {
	retriever Retriever
	conv      ConversationalModel
	qa        DocumentQAModel
	logger    *zap.Logger
	encoding  *tiktoken.Tiktoken
}

func NewOrchestrator(retriever Retriever, conv ConversationalModel, qa DocumentQAModel, logger *zap.Logger) *Orchestrator {
	// Token accounting is best effort; cl100k_base is close enough for
	// both backends' prompt-size logging.
	enc, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		logger.Warn("token encoding unavailable", zap.Error(err))
	}
	return &Orchestrator{
		retriever: retriever,
		conv:      conv,
		qa:        qa,
		logger:    logger,
		encoding:  enc,
	}
}

// Answer resolves one query. When rag is enabled the retrieved passages
// are joined into the model context and their source ids are reported
// back, de-duplicated in first-seen order. With rag disabled the retriever
// is never consulted and the references are empty. Retrieval and model
// failures are returned as-is.
func (o *Orchestrator) Answer(ctx context.Context, sess *Session, query string, ragEnabled bool, backend models.Backend) (string, string, error) {
	var passages []models.RetrievedPassage
	if ragEnabled {
		var err error
		passages, err = o.retriever.Retrieve(ctx, query)
		if err != nil {
			return "", "", err
		}
	}
	contextText := joinPassages(passages)
	referenceIDs := dedupSources(passages)

	o.logger.Debug("dispatching query",
		zap.String("session", sess.ID),
		zap.String("backend", string(backend)),
		zap.Bool("rag", ragEnabled),
		zap.Int("passages", len(passages)),
		zap.Int("prompt_tokens", o.countTokens(contextText+query)))

	var (
		response string
		err      error
	)
	switch backend {
	case models.BackendOpenAI:
		response, err = o.conv.Respond(ctx, sess.Memory(), contextText, query)
	case models.BackendGoogleAI:
		response, err = o.qa.Respond(ctx, passageDocs(passages), query)
	default:
		err = fmt.Errorf("chat: unknown backend %q", backend)
	}
	if err != nil {
		return "", "", err
	}
	return response, referenceIDs, nil
}

// Exchange answers the query and appends the user and bot turns to the
// session transcript, both stamped with the same wall-clock timestamp, as
// the log format records them.
func (o *Orchestrator) Exchange(ctx context.Context, sess *Session, query string, ragEnabled bool, backend models.Backend) (models.Turn, string, error) {
	now := time.Now()
	response, refs, err := o.Answer(ctx, sess, query, ragEnabled, backend)
	if err != nil {
		return models.Turn{}, "", err
	}
	bot := models.NewTurn(models.RoleBot, response, now)
	sess.Append(backend, models.NewTurn(models.RoleUser, query, now), bot)
	return bot, refs, nil
}

func joinPassages(passages []models.RetrievedPassage) string {
	texts := make([]string, 0, len(passages))
	for _, p := range passages {
		texts = append(texts, p.Text)
	}
	return strings.Join(texts, "\n")
}

// dedupSources keeps the first occurrence of each source id, preserving
// ranking order, and renders them comma-space joined.
func dedupSources(passages []models.RetrievedPassage) string {
	seen := make(map[string]struct{}, len(passages))
	ids := make([]string, 0, len(passages))
	for _, p := range passages {
		if p.SourceID == "" {
			continue
		}
		if _, ok := seen[p.SourceID]; ok {
			continue
		}
		seen[p.SourceID] = struct{}{}
		ids = append(ids, p.SourceID)
	}
	return strings.Join(ids, ", ")
}

func passageDocs(passages []models.RetrievedPassage) []schema.Document {
	docs := make([]schema.Document, 0, len(passages))
	for _, p := range passages {
		docs = append(docs, schema.Document{PageContent: p.Text, Score: p.Score})
	}
	return docs
}

func (o *Orchestrator) countTokens(text string) int {
	if o.encoding == nil {
		return 0
	}
	return len(o.encoding.Encode(text, nil, nil))
}
