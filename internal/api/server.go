// Package api serves the capability registry over HTTP.
package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/sells-group/webresearch/internal/capability"
	"github.com/sells-group/webresearch/internal/failure"
)

// maxRequestBytes bounds an invocation request body.
const maxRequestBytes = 64 << 10

// Server routes HTTP requests to capabilities.
type Server struct {
	registry       *capability.Registry
	allowedOrigins []string
}

// NewServer creates a Server. An empty allowedOrigins allows any origin.
func NewServer(registry *capability.Registry, allowedOrigins []string) *Server {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	return &Server{registry: registry, allowedOrigins: allowedOrigins}
}

// Router builds the HTTP handler.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", s.health)
	r.Get("/v1/capabilities", s.listCapabilities)
	r.Post("/v1/capabilities/{name}", s.invokeCapability)
	return r
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		zap.L().Info("api: request",
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSONStatus(w, http.StatusOK, map[string]string{"status": "ok"})
}

type capabilityInfo struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Params      []capability.Param `json:"params"`
}

func (s *Server) listCapabilities(w http.ResponseWriter, _ *http.Request) {
	caps := s.registry.List()
	out := make([]capabilityInfo, 0, len(caps))
	for _, c := range caps {
		out = append(out, capabilityInfo{Name: c.Name(), Description: c.Description(), Params: c.Params()})
	}
	writeJSONStatus(w, http.StatusOK, map[string]any{"capabilities": out})
}

type invokeResponse struct {
	Name   string `json:"name"`
	Result string `json:"result"`
}

func (s *Server) invokeCapability(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	var args capability.Args
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "could not read request body")
		return
	}
	if len(body) > 0 {
		if err := json.Unmarshal(body, &args); err != nil {
			writeError(w, http.StatusBadRequest, "arguments must be a JSON object of strings")
			return
		}
	}

	result, err := s.registry.Invoke(r.Context(), name, args)
	if err != nil {
		status := statusFor(err)
		zap.L().Warn("api: capability failed",
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.String("capability", name),
			zap.Int("status", status),
			zap.Error(err),
		)
		if errors.Is(err, capability.ErrUnknown) {
			writeError(w, status, "unknown capability")
			return
		}
		writeError(w, status, failure.UserMessage(err))
		return
	}

	writeJSONStatus(w, http.StatusOK, invokeResponse{Name: name, Result: result})
}

func statusFor(err error) int {
	if errors.Is(err, capability.ErrUnknown) {
		return http.StatusNotFound
	}
	if failure.IsCancelled(err) {
		return http.StatusServiceUnavailable
	}
	kind, ok := failure.KindOf(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch kind {
	case failure.KindInput:
		return http.StatusBadRequest
	case failure.KindTransport, failure.KindDecoding:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSONStatus(w, status, map[string]string{"error": msg})
}

func writeJSONStatus(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		zap.L().Debug("api: write response", zap.Error(err))
	}
}
