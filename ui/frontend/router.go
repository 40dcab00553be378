package frontend

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/dbknowledge/dbchat/render"
	"github.com/dbknowledge/dbchat/ui/service"
)

//go:embed templates/*
var templatesFS embed.FS

//go:embed static/*
var staticFS embed.FS

// Config holds frontend router configuration.
type Config struct {
	// BasePath is the URL prefix where the UI is mounted.
	// All navigation links will be prefixed with this path.
	BasePath string

	// MaxAttachmentBytes bounds uploaded files.
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

// router holds the frontend router state.
type router struct {
	svc      *service.Service
	config   *Config
	renderer *renderer
}

// NewRouter creates a new frontend router.
func NewRouter(svc *service.Service, cfg *Config) http.Handler {
	if cfg == nil {
		cfg = &Config{}
	}
	if cfg.MaxAttachmentBytes <= 0 {
		cfg.MaxAttachmentBytes = service.DefaultMaxAttachmentBytes
	}

	// Parse base templates (layout and shared partials).
	// Page-specific templates are parsed dynamically by the renderer
	// to avoid conflicts between "content" blocks in different pages.
	baseTmpl := template.Must(template.New("").
		Funcs(templateFuncs()).
		ParseFS(templatesFS,
			"templates/base.html",
			"templates/chat/sidebar.html",
			"templates/chat/message-bubble.html",
			"templates/chat/rating.html",
			"templates/chat/messages.html",
		))

	r := &router{
		svc:      svc,
		config:   cfg,
		renderer: newRenderer(baseTmpl, templatesFS, cfg),
	}

	mux := http.NewServeMux()

	// Static assets
	staticSub, _ := fs.Sub(staticFS, "static")
	mux.HandleFunc("GET /static/chroma.css", handleStyleSheet)
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticSub))))

	// Pages
	mux.HandleFunc("GET /{$}", r.handleRedirectToChat)
	mux.HandleFunc("GET /chat", r.handleChat)
	mux.HandleFunc("GET /chat/session/{id}", r.handleChatSession)
	mux.HandleFunc("GET /help", r.handleHelp)

	// Chat actions
	mux.HandleFunc("POST /chat/new", r.handleChatNew)
	mux.HandleFunc("POST /chat/session/{id}/rename", r.handleChatRename)
	mux.HandleFunc("POST /chat/session/{id}/delete", r.handleChatDelete)
	mux.HandleFunc("POST /chat/send", r.handleChatSend)
	mux.HandleFunc("POST /chat/messages/{id}/satisfaction", r.handleSatisfaction)

	// HTMX fragments
	mux.HandleFunc("GET /chat/session/{id}/messages", r.handleChatMessages)

	return withFrontendMiddleware(mux, cfg)
}

// withFrontendMiddleware wraps the handler with frontend-specific middleware.
func withFrontendMiddleware(handler http.Handler, cfg *Config) http.Handler {
	handler = frontendRecoveryMiddleware(handler, cfg.Logger)
	return handler
}

// frontendRecoveryMiddleware recovers from panics.
func frontendRecoveryMiddleware(next http.Handler, logger Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				if logger != nil {
					logger.Error("panic recovered", "error", err, "path", r.URL.Path)
				}
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func handleStyleSheet(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = w.Write([]byte(render.StyleSheet()))
}

// templateFuncs returns custom template functions.
func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"formatTime":  formatTime,
		"formatClock": formatClock,
		"formatBytes": formatBytes,
		"truncate":    truncate,
		"markdown":    markdown,
		"lineCount":   lineCount,
		"dict":        dictFunc,
	}
}

// dictFunc creates a map from key-value pairs for use in templates.
// Usage: {{template "foo" (dict "key1" val1 "key2" val2)}}
func dictFunc(values ...any) map[string]any {
	if len(values)%2 != 0 {
		return nil
	}
	dict := make(map[string]any, len(values)/2)
	for i := 0; i < len(values); i += 2 {
		key, ok := values[i].(string)
		if !ok {
			continue
		}
		dict[key] = values[i+1]
	}
	return dict
}
