package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"

	"github.com/h0ng79/Botcare/internal/api"
	"github.com/h0ng79/Botcare/internal/chat"
	"github.com/h0ng79/Botcare/internal/config"
	"github.com/h0ng79/Botcare/internal/history"
	"github.com/h0ng79/Botcare/internal/llm"
	"github.com/h0ng79/Botcare/internal/retrieval"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	ctx := context.Background()

	blobs, err := newBlobStore(cfg)
	if err != nil {
		logger.Fatal("failed to initialize history backend",
			zap.Error(err),
			zap.String("backend", cfg.HistoryBackend))
	}
	store := history.NewStore(blobs)

	conversational, err := llm.NewConversational(cfg.OpenAIAPIKey, cfg.OpenAIModel)
	if err != nil {
		logger.Fatal("failed to initialize conversational backend", zap.Error(err))
	}

	qa, err := llm.NewDocumentQA(ctx, cfg.GoogleAPIKey, cfg.GoogleModel)
	if err != nil {
		logger.Fatal("failed to initialize document QA backend", zap.Error(err))
	}

	embedClient, err := openai.New(
		openai.WithToken(cfg.OpenAIAPIKey),
		openai.WithEmbeddingModel(cfg.EmbedModel),
	)
	if err != nil {
		logger.Fatal("failed to initialize embeddings client", zap.Error(err))
	}
	embedder, err := embeddings.NewEmbedder(embedClient)
	if err != nil {
		logger.Fatal("failed to initialize embedder", zap.Error(err))
	}

	searcher, err := retrieval.NewPineconeSearcher(retrieval.PineconeConfig{
		APIKey:    cfg.PineconeAPIKey,
		Host:      cfg.PineconeHost,
		Namespace: cfg.PineconeNamespace,
	}, embedder)
	if err != nil {
		logger.Fatal("failed to connect to vector index", zap.Error(err))
	}
	retriever := retrieval.NewClient(searcher, cfg.RetrievalK, float32(cfg.ScoreThreshold), cfg.SourceMetadataKey)

	orchestrator := chat.NewOrchestrator(retriever, conversational, qa, logger)
	sessions := chat.NewSessions()
	handler := api.NewHandler(orchestrator, sessions, store, cfg.Collection, logger)

	http.HandleFunc("/api/sessions", handler.CreateSession)
	http.HandleFunc("/api/sessions/reset", handler.ResetSession)
	http.HandleFunc("/api/chat", handler.HandleChat)
	http.HandleFunc("/api/history", handler.ListHistory)
	http.HandleFunc("/api/history/load", handler.LoadHistory)
	http.HandleFunc("/api/history/delete", handler.DeleteHistory)

	logger.Info("Starting server", zap.String("addr", cfg.BindAddr))
	if err := http.ListenAndServe(cfg.BindAddr, nil); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}
}

func newBlobStore(cfg config.Config) (history.BlobStore, error) {
	switch cfg.HistoryBackend {
	case config.BackendFS:
		return history.NewFSStore(cfg.HistoryRoot), nil
	case config.BackendSQLite:
		s, err := history.NewSQLiteStore(cfg.HistoryDBPath)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.BackendS3:
		s, err := history.NewS3Store(history.S3Config{
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Bucket:    cfg.S3Bucket,
			UseSSL:    cfg.S3UseSSL,
		})
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown history backend %q", cfg.HistoryBackend)
	}
}
