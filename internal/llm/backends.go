// Package llm adapts the two model integrations behind the orchestrator:
// a memory-bearing conversational backend and a stateless per-call
// document-QA backend.
package llm

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/chains"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"

	"github.com/h0ng79/Botcare/internal/models"
)

// Conversational is the memory-bearing backend. Prior turns come from the
// caller-held memory buffer, so one buffer per session keeps sessions
// isolated from each other.
type Conversational struct {
	llm llms.Model
}

func NewConversational(token, model string) (*Conversational, error) {
	client, err := openai.New(
		openai.WithToken(token),
		openai.WithModel(model),
	)
	if err != nil {
		return nil, err
	}
	return &Conversational{llm: client}, nil
}

// Respond runs the conversation chain over mem with a single combined
// context+query input, the same shape the original prompt used.
func (c *Conversational) Respond(ctx context.Context, mem schema.Memory, contextText, query string) (string, error) {
	chain := chains.NewConversation(c.llm, mem)
	input := fmt.Sprintf("Context:\n %s \n\n Query:\n%s", contextText, query)
	out, err := chains.Run(ctx, chain, input)
	if err != nil {
		return "", &ModelError{Backend: models.BackendOpenAI, Err: err}
	}
	return out, nil
}

// DocumentQA is the stateless backend: retrieved documents plus the query
// go in on every call and nothing is kept between calls. Its history lives
// only in the caller's transcript.
type DocumentQA struct {
	llm llms.Model
}

func NewDocumentQA(ctx context.Context, apiKey, model string) (*DocumentQA, error) {
	client, err := googleai.New(ctx,
		googleai.WithAPIKey(apiKey),
		googleai.WithDefaultModel(model),
	)
	if err != nil {
		return nil, err
	}
	return &DocumentQA{llm: client}, nil
}

// Respond stuffs docs into the QA chain and extracts the answer text. A
// structured response without the expected text field degrades to its
// string rendering rather than an error.
func (d *DocumentQA) Respond(ctx context.Context, docs []schema.Document, query string) (string, error) {
	chain := chains.LoadStuffQA(d.llm)
	out, err := chains.Call(ctx, chain, map[string]any{
		"input_documents": docs,
		"question":        query,
	})
	if err != nil {
		return "", &ModelError{Backend: models.BackendGoogleAI, Err: err}
	}
	if text, ok := out["text"].(string); ok {
		return text, nil
	}
	return fmt.Sprint(out), nil
}
