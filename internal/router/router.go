package router

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/ciphersql/sandbox/internal/config"
	"github.com/ciphersql/sandbox/internal/handler"
	"github.com/ciphersql/sandbox/internal/middleware"
	"github.com/ciphersql/sandbox/internal/service"
)

// New builds the HTTP router. recorder is created by main so it can also be
// drained on shutdown; rdb may be nil, which disables rate limiting.
func New(cfg *config.Config, sandbox *pgxpool.Pool, content *sql.DB, rdb *redis.Client, recorder *service.Recorder) http.Handler {
	validator := service.NewValidator(cfg.MaxQueryLength)
	executor := service.NewExecutor(sandbox, cfg)
	assignmentSvc := service.NewAssignmentService(content)
	previewSvc := service.NewPreviewService(sandbox)
	hintSvc := service.NewHintService(cfg.HintBaseURL, cfg.HintAPIKey, cfg.HintModel)

	healthH := handler.NewHealthHandler("1.0.0")
	queryH := handler.NewQueryHandler(validator, executor, recorder, cfg.MaxResultRows)
	assignmentH := handler.NewAssignmentHandler(assignmentSvc, previewSvc)
	hintH := handler.NewHintHandler(hintSvc)

	globalLimit := middleware.NewRateLimiter(rdb, "global",
		cfg.GlobalRateLimit, time.Duration(cfg.GlobalRateWindowS)*time.Second,
		"Too many requests, please try again later.")
	hintLimit := middleware.NewRateLimiter(rdb, "hint",
		cfg.HintRateLimit, time.Duration(cfg.HintRateWindowS)*time.Second,
		"Hint rate limit reached. Please wait before requesting another hint.")

	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Trace)
	r.Use(globalLimit.Middleware)

	r.Get("/api/health", healthH.Health)
	r.Get("/api/assignments", assignmentH.List)
	r.Get("/api/assignments/{assignment_id}", assignmentH.Get)
	r.Post("/api/query/execute", queryH.Execute)
	r.With(hintLimit.Middleware).Post("/api/hint", hintH.Hint)

	return r
}
