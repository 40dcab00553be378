package api

import (
	"net/http"

	"github.com/dbknowledge/dbchat/ui/service"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

// Config holds API router configuration.
type Config struct {
	// MaxAttachmentBytes bounds attachment content sent through the API.
	MaxAttachmentBytes int64

	// Logger for structured logging.
	Logger Logger
}

// Logger interface for structured logging.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// router holds the API router state.
type router struct {
	svc    *service.Service
	config *Config
}

// NewRouter creates a new API router.
func NewRouter(svc *service.Service, cfg *Config) http.Handler {
	if cfg == nil {
		cfg = &Config{
			MaxAttachmentBytes: service.DefaultMaxAttachmentBytes,
		}
	}

	r := &router{
		svc:    svc,
		config: cfg,
	}

	mux := http.NewServeMux()

	// Sessions
	mux.HandleFunc("GET /sessions", r.handleListSessions)
	mux.HandleFunc("POST /sessions", r.handleCreateSession)
	mux.HandleFunc("POST /sessions/{id}/rename", r.handleRenameSession)
	mux.HandleFunc("DELETE /sessions/{id}", r.handleDeleteSession)

	// Messages
	mux.HandleFunc("GET /sessions/{id}/messages", r.handleGetMessages)
	mux.HandleFunc("POST /sessions/{id}/messages", r.handleSendMessage)
	mux.HandleFunc("POST /messages/{id}/satisfaction", r.handleSatisfaction)

	// Rendering
	mux.HandleFunc("POST /render", r.handleRender)

	return withMiddleware(mux, cfg)
}

// withMiddleware wraps the handler with common middleware.
func withMiddleware(handler http.Handler, cfg *Config) http.Handler {
	// Add JSON content type
	handler = jsonMiddleware(handler)
	// Add error recovery
	handler = recoveryMiddleware(handler, cfg.Logger)
	return handler
}

// jsonMiddleware sets JSON content type for all responses.
func jsonMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

// recoveryMiddleware recovers from panics and returns 500.
func recoveryMiddleware(next http.Handler, logger Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				if logger != nil {
					logger.Error("panic recovered", "error", err, "path", r.URL.Path)
				}
				http.Error(w, `{"error":{"code":"internal_error","message":"internal server error"}}`, http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
