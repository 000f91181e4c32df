package api

import (
	"context"
	"encoding/json"
	"net/http"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Harshitk-cp/sensei/internal/api/handlers"
	mw "github.com/Harshitk-cp/sensei/internal/api/middleware"
	"github.com/Harshitk-cp/sensei/internal/buildconfig"
	"github.com/Harshitk-cp/sensei/internal/config"
	"github.com/Harshitk-cp/sensei/internal/domain"
	"github.com/Harshitk-cp/sensei/internal/embedding"
	"github.com/Harshitk-cp/sensei/internal/knowledge"
	"github.com/Harshitk-cp/sensei/internal/llm"
	"github.com/Harshitk-cp/sensei/internal/metrics"
	"github.com/Harshitk-cp/sensei/internal/search"
	"github.com/Harshitk-cp/sensei/internal/service"
	"github.com/Harshitk-cp/sensei/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Components are the collaborators the pipeline is built from.
type Components struct {
	Documents domain.DocumentStore
	Embedder  domain.EmbeddingClient
	LLM       domain.LLMClient
	Search    domain.SearchClient
	Ontology  *knowledge.Ontology
	// DB is optional; nil means the knowledge base is in memory.
	DB Pinger
}

// App holds the router and background services for lifecycle management.
type App struct {
	Router    *chi.Mux
	Retrieval *service.RetrievalService
	Sessions  *service.SessionManager
	Metrics   *metrics.Metrics

	startTime    time.Time
	requestCount atomic.Int64
	errorCount   atomic.Int64
	done         chan struct{}
	stopOnce     sync.Once
}

func NewApp(c Components, logger *zap.Logger) *App {
	m := metrics.New()

	// Services
	retrievalSvc := service.NewRetrievalService(c.Documents, c.Embedder, c.LLM, c.Ontology, logger)
	retrievalSvc.SetTopK(config.RetrievalTopK())
	retrievalSvc.SetMetrics(m)

	sessions := service.NewSessionManager(retrievalSvc, c.Search, c.LLM, logger)
	sessions.SetTTL(config.SessionTTL())
	sessions.SetMaxResults(config.SearchMaxResults())
	sessions.SetMetrics(m)

	verifySvc := service.NewVerificationService(c.Search, c.LLM, logger)
	verifySvc.SetMaxResults(config.SearchMaxResults())
	verifySvc.SetMetrics(m)

	supportSvc := service.NewSupportService(c.Ontology)

	// Handlers
	sessionHandler := handlers.NewSessionHandler(sessions, supportSvc, verifySvc, logger)
	verifyHandler := handlers.NewVerifyHandler(verifySvc, logger)
	freshnessHandler := handlers.NewFreshnessHandler()

	r := chi.NewRouter()

	app := &App{
		Router:    r,
		Retrieval: retrievalSvc,
		Sessions:  sessions,
		Metrics:   m,
		startTime: time.Now(),
		done:      make(chan struct{}),
	}

	metricsCollector := mw.NewMetricsCollector(&app.requestCount, &app.errorCount, m)

	// Global middleware (order matters)
	r.Use(mw.RequestID)
	r.Use(middleware.RealIP)
	r.Use(metricsCollector.Middleware)
	r.Use(mw.Logging(logger))
	r.Use(middleware.Recoverer)
	r.Use(mw.RateLimit(config.RateLimitRPS(), config.RateLimitBurst(), app.done))

	// Unauthenticated operational endpoints
	r.Get("/health", healthHandler(c.DB))
	r.Get("/metrics", app.metricsHandler())
	r.Method(http.MethodGet, "/metrics/prometheus", m.Handler())
	r.Get("/version", versionHandler)

	r.Route("/v1", func(r chi.Router) {
		r.Use(mw.APIKeyAuth(config.APIKeys()))

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", sessionHandler.Create)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", sessionHandler.Get)
				r.Delete("/", sessionHandler.Delete)
				r.Post("/question", sessionHandler.SetQuestion)
				r.Post("/latest", sessionHandler.FetchLatest)
				r.Post("/regenerate", sessionHandler.Regenerate)
				r.Post("/verify", sessionHandler.Verify)
			})
		})

		r.Post("/verify", verifyHandler.Verify)
		r.Post("/freshness", freshnessHandler.Analyze)
	})

	return app
}

// Start launches background workers.
func (app *App) Start() {
	app.Sessions.Start()
}

// Stop halts background workers. It is safe to call more than once.
func (app *App) Stop() {
	app.stopOnce.Do(func() {
		close(app.done)
		app.Sessions.Stop()
	})
}

func healthHandler(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if db != nil {
			if err := db.Ping(r.Context()); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				_ = json.NewEncoder(w).Encode(map[string]string{"status": "error", "error": err.Error()})
				return
			}
		}

		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}
}

func versionHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(buildconfig.VersionInfo())
}

func (app *App) metricsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var memStats runtime.MemStats
		runtime.ReadMemStats(&memStats)

		uptime := time.Since(app.startTime)

		response := map[string]any{
			"uptime_seconds":  uptime.Seconds(),
			"uptime_human":    uptime.Round(time.Second).String(),
			"request_count":   app.requestCount.Load(),
			"error_count":     app.errorCount.Load(),
			"active_sessions": app.Sessions.Len(),
			"goroutines":      runtime.NumGoroutine(),
			"memory": map[string]any{
				"alloc_mb":       float64(memStats.Alloc) / 1024 / 1024,
				"total_alloc_mb": float64(memStats.TotalAlloc) / 1024 / 1024,
				"sys_mb":         float64(memStats.Sys) / 1024 / 1024,
				"num_gc":         memStats.NumGC,
			},
			"go_version": runtime.Version(),
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(response)
	}
}

// Ensure stores and clients satisfy interfaces at compile time.
var (
	_ domain.DocumentStore   = (*store.PGDocumentStore)(nil)
	_ domain.DocumentStore   = (*store.MemoryDocumentStore)(nil)
	_ domain.EmbeddingClient = (*embedding.OpenAIClient)(nil)
	_ domain.EmbeddingClient = (*embedding.MockClient)(nil)
	_ domain.LLMClient       = (*llm.OpenAIClient)(nil)
	_ domain.LLMClient       = (*llm.AnthropicClient)(nil)
	_ domain.LLMClient       = (*llm.GeminiClient)(nil)
	_ domain.LLMClient       = (*llm.CerebrasClient)(nil)
	_ domain.LLMClient       = (*llm.MockClient)(nil)
	_ domain.SearchClient    = (*search.TavilyClient)(nil)
	_ domain.SearchClient    = (*search.DuckDuckGoClient)(nil)
	_ domain.SearchClient    = (*search.CachedClient)(nil)
	_ domain.SearchClient    = (*search.MockClient)(nil)
	_ domain.Retriever       = (*service.RetrievalService)(nil)
)
