// Package server provides the HTTP REST API for the resume editor.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jonathan/resume-editor/internal/config"
	"github.com/jonathan/resume-editor/internal/db"
	"github.com/jonathan/resume-editor/internal/events"
	"github.com/jonathan/resume-editor/internal/llm"
	"github.com/jonathan/resume-editor/internal/logging"
	"github.com/jonathan/resume-editor/internal/server/middleware"
	"github.com/jonathan/resume-editor/internal/server/ratelimit"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 2 << 20

// ResumeStore is the resume persistence used by the handlers.
type ResumeStore interface {
	CreateResume(ctx context.Context, userID uuid.UUID, title, content string) (*db.Resume, error)
	GetResume(ctx context.Context, id uuid.UUID) (*db.Resume, error)
	ListResumes(ctx context.Context, userID uuid.UUID) ([]db.ResumeSummary, error)
	UpdateResume(ctx context.Context, id uuid.UUID, title, content string) error
	DeleteResume(ctx context.Context, id uuid.UUID) error
	ApplySectionEdit(ctx context.Context, id uuid.UUID, oldFragment, newFragment string) (string, error)
	RecordSectionEdit(ctx context.Context, edit *db.SectionEdit) error
	ListSectionEdits(ctx context.Context, resumeID uuid.UUID, limit int) ([]db.SectionEdit, error)
}

// Store is everything the server persists.
type Store interface {
	DBClient
	ResumeStore
	Ping(ctx context.Context) error
}

// PDFRenderer prints resume HTML.
type PDFRenderer interface {
	PDF(ctx context.Context, title, content string) ([]byte, error)
}

// ObjectStore receives exported files.
type ObjectStore interface {
	Put(ctx context.Context, key, contentType string, body []byte) error
}

// Config holds server configuration
type Config struct {
	Port       int
	CORSOrigin string
	RateLimit  bool
}

// Deps are the collaborators a Server is built from. LLM, Renderer and Exports are
// optional; their endpoints answer 503 when unset.
type Deps struct {
	Store     Store
	LLM       llm.Client
	Renderer  PDFRenderer
	Exports   ObjectStore
	Events    events.Publisher
	Logger    *slog.Logger
	JWT       *config.JWTConfig
	Passwords *config.PasswordConfig
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	store       Store
	llm         llm.Client
	renderer    PDFRenderer
	exports     ObjectStore
	events      events.Publisher
	logger      *slog.Logger
	corsOrigin  string
	rateLimiter *ratelimit.Limiter
	jwtService  *JWTService
	authHandler *AuthHandler
	validator   *validator.Validate
	now         func() time.Time
}

// New creates a new server instance
func New(cfg Config, deps Deps) (*Server, error) {
	if deps.Store == nil {
		return nil, fmt.Errorf("server requires a store")
	}
	if deps.JWT == nil || deps.Passwords == nil {
		return nil, fmt.Errorf("server requires JWT and password configuration")
	}

	s := &Server{
		store:      deps.Store,
		llm:        deps.LLM,
		renderer:   deps.Renderer,
		exports:    deps.Exports,
		events:     deps.Events,
		logger:     deps.Logger,
		corsOrigin: cfg.CORSOrigin,
		validator:  validator.New(),
		now:        time.Now,
	}
	if s.events == nil {
		s.events = events.NopPublisher{}
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.corsOrigin == "" {
		s.corsOrigin = "*"
	}

	s.rateLimiter = ratelimit.NewLimiter(ratelimit.FromEnv(cfg.RateLimit))

	s.jwtService = NewJWTService(deps.JWT)
	s.authHandler = NewAuthHandler(NewUserService(deps.Store, deps.Passwords), s.jwtService)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 180 * time.Second, // Model calls and PDF rendering
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Handler returns the full middleware chain around the router.
func (s *Server) Handler() http.Handler {
	return s.withRateLimit(logging.Middleware(s.logger, s.withCORS(s.routes())))
}

func (s *Server) routes() http.Handler {
	auth := middleware.AuthMiddleware(s.jwtService.Validator())
	protected := func(h http.HandlerFunc) http.Handler { return auth(h) }

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)

	// Auth
	mux.HandleFunc("POST /auth/register", s.authHandler.Register)
	mux.HandleFunc("POST /auth/login", s.authHandler.Login)
	mux.Handle("GET /auth/me", protected(s.authHandler.Me))
	mux.Handle("PUT /auth/password", protected(s.authHandler.UpdatePassword))

	// Resumes
	mux.Handle("GET /resumes", protected(s.handleListResumes))
	mux.Handle("POST /resumes", protected(s.handleCreateResume))
	mux.Handle("POST /resumes/import", protected(s.handleImportResume))
	mux.Handle("GET /resumes/{id}", protected(s.handleGetResume))
	mux.Handle("PUT /resumes/{id}", protected(s.handleUpdateResume))
	mux.Handle("DELETE /resumes/{id}", protected(s.handleDeleteResume))
	mux.Handle("GET /resumes/{id}/export.pdf", protected(s.handleExportPDF))

	// Section updates
	mux.HandleFunc("GET /sections", s.handleListSections)
	mux.Handle("POST /resumes/{id}/sections/{kind}/update", protected(s.handleUpdateSection))
	mux.Handle("POST /resumes/{id}/sections/apply", protected(s.handleApplySection))
	mux.Handle("GET /resumes/{id}/edits", protected(s.handleListEdits))

	// Tool calling surface for agent loops
	mux.HandleFunc("GET /tools", s.handleListTools)
	mux.Handle("POST /tools/{name}", protected(s.handleCallTool))
	mux.Handle("POST /detect-mode", protected(s.handleDetectMode))

	return mux
}

// Start listens until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			s.rateLimiter.Stop()
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
	}
	s.logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.Close()
	s.logger.Info("server stopped")
	return nil
}

// Close releases background resources. The store and publisher are owned by the caller.
func (s *Server) Close() {
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", s.corsOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(extractClientID(r), r.URL.Path, r.Method)
		setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// handleHealth reports liveness and database reachability
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := s.store.Ping(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded", "database": "unreachable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeJSON writes a JSON response
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

// writeError writes an error JSON response
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeServiceError maps err to its status. Internal errors are logged and hidden.
func writeServiceError(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	if status == http.StatusInternalServerError {
		slog.Error("request failed", "error", err)
		writeError(w, status, "internal server error")
		return
	}
	writeError(w, status, err.Error())
}

// decodeAndValidate reads a JSON body into dst and runs struct validation.
// On failure it writes a 400 and returns false.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v *validator.Validate, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	if err := v.Struct(dst); err != nil {
		writeError(w, http.StatusBadRequest, extractValidationErrors(err))
		return false
	}
	return true
}

// extractClientID returns the client IP from RemoteAddr. Forwarded headers are ignored
// since they are client-controlled without a trusted proxy.
func extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]any{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		seconds := int(info.RetryAfter.Seconds())
		response["retry_after"] = seconds
		w.Header().Set("Retry-After", fmt.Sprintf("%d", seconds))
	}

	s.logger.Warn("rate limit exceeded", "limit", info.Limit, "reset", info.ResetTime.Format(time.RFC3339))
	writeJSON(w, http.StatusTooManyRequests, response)
}

// currentUser returns the authenticated user, writing a 401 when absent.
func currentUser(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return uuid.Nil, false
	}
	return userID, true
}

// ownedResume loads the {id} resume and checks it belongs to userID.
func (s *Server) ownedResume(ctx context.Context, userID uuid.UUID, rawID string) (*db.Resume, error) {
	id, err := uuid.Parse(strings.TrimSpace(rawID))
	if err != nil {
		return nil, &ErrResumeNotFound{ResumeID: rawID}
	}
	resume, err := s.store.GetResume(ctx, id)
	if err != nil {
		return nil, err
	}
	if resume == nil || resume.UserID != userID {
		return nil, &ErrResumeNotFound{ResumeID: rawID}
	}
	return resume, nil
}
