package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/dgallion1/tripgest/internal/api"
	"github.com/dgallion1/tripgest/internal/config"
	"github.com/dgallion1/tripgest/internal/embedding"
	"github.com/dgallion1/tripgest/internal/parentstore"
	"github.com/dgallion1/tripgest/internal/pipeline"
	"github.com/dgallion1/tripgest/internal/vecstore"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		log.Error("create data dir", "error", err)
		os.Exit(1)
	}

	// Initialize the embedding provider.
	var (
		embedder embedding.Provider
		err      error
	)
	switch cfg.EmbeddingProvider {
	case "openai":
		embedder, err = embedding.NewOpenAI(cfg.EmbeddingBaseURL, cfg.EmbeddingAPIKey, cfg.EmbeddingModel)
	default:
		embedder, err = embedding.NewOllama(cfg.EmbeddingBaseURL, cfg.EmbeddingModel)
	}
	if err != nil {
		log.Error("init embedding provider", "provider", cfg.EmbeddingProvider, "error", err)
		os.Exit(1)
	}

	// Initialize stores.
	parents, err := parentstore.Open(filepath.Join(cfg.DataDir, "parents.db"))
	if err != nil {
		log.Error("open parent store", "error", err)
		os.Exit(1)
	}

	index, err := vecstore.Open(filepath.Join(cfg.DataDir, "vectors"), "children", cfg.VectorInMemory)
	if err != nil {
		log.Error("open vector index", "error", err)
		os.Exit(1)
	}

	// Initialize pipeline.
	orch := pipeline.NewOrchestrator(cfg, embedder, parents, index, log)
	orch.Start(ctx)

	// Initialize HTTP server.
	srv := api.NewServer(orch, embedder, index, parents, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		orch.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		parents.Close()
	}()

	log.Info("starting tripgest", "port", cfg.Port, "embedding_provider", cfg.EmbeddingProvider, "children_indexed", index.Count())
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
