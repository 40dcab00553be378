package ui

import (
	"net/http"

	"github.com/dbknowledge/dbchat/ui/api"
	"github.com/dbknowledge/dbchat/ui/frontend"
	"github.com/dbknowledge/dbchat/ui/service"
)

// Handler returns an http.Handler serving the chat UI at / and the JSON
// API at /api/.
//
// The client is usually a *backend.Client.
//
// Usage:
//
//	http.Handle("/ui/", http.StripPrefix("/ui", ui.Handler(client, cfg)))
func Handler(client service.Backend, cfg *Config) http.Handler {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	cfg.applyDefaults()

	// Validate configuration (panic on invalid config as this is a programmer error)
	if err := cfg.validate(); err != nil {
		panic("ui: invalid configuration: " + err.Error())
	}

	svc := service.New(client, service.WithHooks(cfg.Hooks))

	apiHandler := api.NewRouter(svc, &api.Config{
		MaxAttachmentBytes: cfg.MaxAttachmentBytes,
		Logger:             cfg.Logger,
	})
	frontendHandler := frontend.NewRouter(svc, &frontend.Config{
		BasePath:           cfg.BasePath,
		MaxAttachmentBytes: cfg.MaxAttachmentBytes,
		Logger:             cfg.Logger,
	})

	mux := http.NewServeMux()
	mux.Handle("/api/", http.StripPrefix("/api", apiHandler))
	mux.Handle("/", frontendHandler)

	return staffMiddleware(mux, svc, cfg)
}
