// Package httpapi exposes the validation pipeline over HTTP. One endpoint
// does the work; the rest is liveness and metadata.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"legitscan/internal/core/domain"
	"legitscan/internal/core/usecases"
	"legitscan/internal/platform/logx"
	"legitscan/internal/platform/registry"
)

// Version is stamped at build time via -ldflags.
var Version = "dev"

// Server is the HTTP front end over the orchestrator.
type Server struct {
	orchestrator *usecases.Orchestrator
	writer       ArtifactWriter
	logger       logx.Logger
	http         *http.Server
}

// ArtifactWriter persists reports. Nil disables artifact writing.
type ArtifactWriter interface {
	Write(report *domain.LegitimacyReport) (string, error)
}

// NewServer wires the router and handlers.
func NewServer(addr string, orchestrator *usecases.Orchestrator, writer ArtifactWriter, logger logx.Logger) *Server {
	s := &Server{
		orchestrator: orchestrator,
		writer:       writer,
		logger:       logger.With("component", "httpapi"),
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/", s.handleInfo)
	r.Get("/healthz", s.handleHealth)
	r.Post("/validate", s.handleValidate)

	s.http = &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler exposes the router, mainly for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// ListenAndServe blocks serving requests until Shutdown or failure.
func (s *Server) ListenAndServe() error {
	s.logger.Info("listening", "addr", s.http.Addr)
	err := s.http.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down")
	return s.http.Shutdown(ctx)
}

// validateRequest is the POST /validate body.
type validateRequest struct {
	CompanyName string `json:"company_name"`
	GSTIN       string `json:"gstin,omitempty"`
	CIN         string `json:"cin,omitempty"`
}

// errorResponse is the JSON error envelope.
type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req validateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	identity := domain.NewCompanyIdentity(req.CompanyName, req.GSTIN, req.CIN)
	report, err := s.orchestrator.Validate(r.Context(), identity)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrMalformedIdentifier), errors.Is(err, domain.ErrInvalidIdentity):
			s.writeError(w, http.StatusUnprocessableEntity, err.Error())
		default:
			s.logger.Err(err, "company", req.CompanyName)
			s.writeError(w, http.StatusInternalServerError, "validation failed")
		}
		return
	}

	if s.writer != nil {
		if _, err := s.writer.Write(report); err != nil {
			// Artifact persistence is best effort; the caller still
			// gets the report.
			s.logger.Warn("artifact write failed", "error", err.Error())
		}
	}

	s.writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	checks := registry.Global().Names()
	names := make([]string, 0, len(checks))
	for _, c := range checks {
		names = append(names, c.String())
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"checks": names,
	})
}

func (s *Server) handleInfo(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"service": "legitscan",
		"version": Version,
		"endpoints": []string{
			"POST /validate",
			"GET /healthz",
		},
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Err(err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, errorResponse{Error: msg})
}

// requestLogger logs one line per request with latency and status.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
