package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Harshitk-cp/sensei/internal/api"
	"github.com/Harshitk-cp/sensei/internal/buildconfig"
	"github.com/Harshitk-cp/sensei/internal/config"
	"github.com/Harshitk-cp/sensei/internal/domain"
	"github.com/Harshitk-cp/sensei/internal/embedding"
	"github.com/Harshitk-cp/sensei/internal/knowledge"
	"github.com/Harshitk-cp/sensei/internal/llm"
	"github.com/Harshitk-cp/sensei/internal/search"
	"github.com/Harshitk-cp/sensei/internal/store"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := config.Load(); err != nil {
		// The logger level comes from config, so fall back to a default one.
		zap.Must(zap.NewProduction()).Fatal("failed to load config", zap.Error(err))
	}

	logger := newLogger(config.LogLevel())
	defer func() { _ = logger.Sync() }()

	info := buildconfig.VersionInfo()
	logger.Info("starting sensei", zap.String("version", info.Version), zap.String("commit", info.Commit))

	ctx := context.Background()

	components := api.Components{}

	// Knowledge base storage: Postgres when configured, memory otherwise.
	if dbURL := config.DatabaseURL(); dbURL != "" {
		pool, err := pgxpool.New(ctx, dbURL)
		if err != nil {
			logger.Fatal("failed to connect to database", zap.Error(err))
		}
		defer pool.Close()

		if err := pool.Ping(ctx); err != nil {
			logger.Fatal("failed to ping database", zap.Error(err))
		}
		logger.Info("connected to database")

		docs := store.NewPGDocumentStore(pool)
		if err := docs.EnsureSchema(ctx); err != nil {
			logger.Fatal("failed to prepare schema", zap.Error(err))
		}
		components.Documents = docs
		components.DB = pool
	} else {
		logger.Info("DATABASE_URL not set, using in-memory knowledge base")
		components.Documents = store.NewMemoryDocumentStore()
	}

	// External clients via provider factory
	var err error
	components.LLM, err = llm.NewClient(config.LLMProvider(), config.LLMAPIKey(), config.LLMModel())
	if err != nil {
		logger.Fatal("LLM client initialization failed", zap.String("provider", config.LLMProvider()), zap.Error(err))
	}
	logger.Info("LLM client initialized", zap.String("provider", config.LLMProvider()))

	components.Embedder, err = embedding.NewClient(config.EmbeddingProvider(), config.EmbeddingAPIKey(), config.EmbeddingModel())
	if err != nil {
		logger.Fatal("Embedding client initialization failed", zap.String("provider", config.EmbeddingProvider()), zap.Error(err))
	}
	logger.Info("Embedding client initialized", zap.String("provider", config.EmbeddingProvider()))

	components.Search, err = search.NewClient(config.SearchProvider(), config.SearchAPIKey(), search.Options{
		CacheTTL:  config.SearchCacheTTL(),
		CacheSize: config.SearchCacheSize(),
	})
	if err != nil {
		logger.Fatal("Search client initialization failed", zap.String("provider", config.SearchProvider()), zap.Error(err))
	}
	logger.Info("Search client initialized", zap.String("provider", config.SearchProvider()))

	// Corpus and ontology load independently.
	var corpus []domain.Document
	g := new(errgroup.Group)
	g.Go(func() error {
		var err error
		corpus, err = knowledge.LoadCorpus(config.CorpusPath())
		return err
	})
	g.Go(func() error {
		var err error
		components.Ontology, err = knowledge.LoadOntology(config.OntologyPath())
		return err
	})
	if err := g.Wait(); err != nil {
		logger.Fatal("failed to load knowledge base", zap.Error(err))
	}

	app := api.NewApp(components, logger)

	indexCtx, cancelIndex := context.WithTimeout(ctx, 2*time.Minute)
	n, err := app.Retrieval.Index(indexCtx, corpus)
	cancelIndex()
	if err != nil {
		logger.Fatal("failed to index corpus", zap.Error(err))
	}
	logger.Info("knowledge base ready", zap.Int("documents", n), zap.Int("concepts", components.Ontology.Len()))

	// Start background services
	app.Start()

	addr := config.ServerAddr()
	srv := &http.Server{
		Addr:              addr,
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("server starting", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}

	// Stop background services
	app.Stop()

	logger.Info("server stopped")
}

func newLogger(level string) *zap.Logger {
	cfg := zap.NewProductionConfig()
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return zap.Must(cfg.Build())
}
