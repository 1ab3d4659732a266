// Package server exposes the blockgrid engine over HTTP.
//
// The host canvas framework is expected to be a remote UI: it pushes node
// geometry, forwards drag lifecycle events, and applies the corrected
// positions and updated group containers the engine returns. Each editor
// instance maps to one session; engine calls within a session are
// serialized by a per-session mutex, preserving the engine's
// single-logical-caller model under a concurrent HTTP listener.
//
// All responses use a uniform JSON envelope:
//
//	{"success": true,  "data": ...}
//	{"success": false, "error": {"code": "...", "message": "..."}}
//
// Validation failures are structured results with a 4xx status, never a
// panic or opaque 500, so the UI can surface them as user feedback.
package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/matzehuels/blockgrid/pkg/config"
	"github.com/matzehuels/blockgrid/pkg/engine"
	"github.com/matzehuels/blockgrid/pkg/errors"
	"github.com/matzehuels/blockgrid/pkg/store"
)

// editorSession pairs an engine instance with the mutex that serializes
// access to it.
type editorSession struct {
	mu  sync.Mutex
	eng *engine.Engine
}

// Server is the HTTP boundary for one blockgrid process.
type Server struct {
	cfg    config.Config
	store  store.Store
	logger *log.Logger

	mu       sync.RWMutex
	sessions map[string]*editorSession
}

// New creates a server over the given configuration and session store.
func New(cfg config.Config, st store.Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		cfg:      cfg,
		store:    st,
		logger:   logger,
		sessions: make(map[string]*editorSession),
	}
}

// Router builds the chi route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeData(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/sessions", func(r chi.Router) {
		r.Post("/", s.handleCreateSession)
		r.Get("/", s.handleListSessions)

		r.Route("/{sessionID}", func(r chi.Router) {
			r.Get("/", s.handleGetSession)
			r.Delete("/", s.handleCloseSession)
			r.Post("/save", s.handleSaveSession)
			r.Post("/load", s.handleLoadSession)

			r.Get("/grid", s.handleGetGrid)
			r.Put("/grid", s.handleSetGrid)
			r.Post("/snap", s.handleSnap)

			r.Post("/nodes", s.handleSetNodes)
			r.Put("/nodes/{nodeID}", s.handleUpsertNode)
			r.Delete("/nodes/{nodeID}", s.handleRemoveNode)
			r.Post("/nodes/{nodeID}/clone", s.handleClone)

			r.Post("/drag/start", s.handleDragStart)
			r.Post("/drag/move", s.handleDragMove)
			r.Post("/drag/stop", s.handleDragStop)
			r.Post("/drag/cancel", s.handleDragCancel)

			r.Post("/groups", s.handleCreateGroup)
			r.Get("/groups", s.handleListGroups)
			r.Delete("/groups/{groupID}", s.handleDeleteGroup)
			r.Put("/groups/{groupID}/title", s.handleSetGroupTitle)
			r.Post("/groups/{groupID}/nodes", s.handleAddGroupNodes)
			r.Delete("/groups/{groupID}/nodes", s.handleRemoveGroupNodes)
			r.Post("/groups/{groupID}/refresh", s.handleRefreshGroup)
			r.Post("/groups/{groupID}/select", s.handleSelectGroup)
			r.Delete("/groups/{groupID}/select", s.handleDeselectGroup)
		})
	})

	return r
}

// ListenAndServe runs the HTTP server until the listener fails.
func (s *Server) ListenAndServe() error {
	s.logger.Info("listening", "addr", s.cfg.Server.Addr)
	srv := &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return srv.ListenAndServe()
}

// newEngine builds an engine from the server configuration.
func (s *Server) newEngine() (*engine.Engine, error) {
	mode, err := s.cfg.Mode()
	if err != nil {
		return nil, err
	}
	return engine.New(engine.Options{
		Grid:              s.cfg.Grid,
		Bounds:            s.cfg.Groups,
		ConstraintPadding: s.cfg.Constraint.Padding,
		Mode:              mode,
		Logger:            s.logger,
	})
}

// session looks up a live editor session.
func (s *Server) session(id string) (*editorSession, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

// addSession registers a new editor session under a fresh ID.
func (s *Server) addSession(eng *engine.Engine) string {
	id := uuid.NewString()
	s.mu.Lock()
	s.sessions[id] = &editorSession{eng: eng}
	s.mu.Unlock()
	return id
}

// logRequests logs each request with its duration and status.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start).Round(time.Microsecond))
	})
}

// =============================================================================
// Response Envelope
// =============================================================================

type envelope struct {
	Success bool      `json:"success"`
	Data    any       `json:"data,omitempty"`
	Error   *apiError `json:"error,omitempty"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeData(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{Success: true, Data: data})
}

func writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusFor(code))
	_ = json.NewEncoder(w).Encode(envelope{
		Success: false,
		Error:   &apiError{Code: string(code), Message: errors.UserMessage(err)},
	})
}

// statusFor maps error codes to HTTP status codes.
func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeGroupNotFound, errors.ErrCodeNodeNotFound, errors.ErrCodeSessionNotFound:
		return http.StatusNotFound
	case errors.ErrCodeIDExhausted:
		return http.StatusConflict
	case errors.ErrCodeInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

// decode parses a JSON request body into v.
func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "malformed request body")
	}
	return nil
}
