package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dbknowledge/dbchat/backend"
	"github.com/dbknowledge/dbchat/hooks"
	"github.com/dbknowledge/dbchat/internal/config"
	"github.com/dbknowledge/dbchat/internal/logging"
	"github.com/dbknowledge/dbchat/ui"
)

// shutdownTimeout bounds graceful shutdown.
const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	var addr, logLevel string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the chat UI and JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.ListenAddr = addr
			}
			if logLevel != "" {
				cfg.LogLevel = logLevel
			}
			return serve(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides DBCHAT_LISTEN_ADDR)")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "log level (overrides DBCHAT_LOG_LEVEL)")
	return cmd
}

// buildHandler wires the backend client and the UI from cfg.
func buildHandler(cfg *config.Cfg, logger *logging.Logger) (http.Handler, error) {
	client, err := backend.New(&backend.Config{
		BaseURL:           cfg.BackendURL,
		TokenURL:          cfg.TokenURL,
		Timeout:           cfg.RequestTimeout,
		RequestsPerSecond: cfg.RequestsPerSecond,
		Burst:             cfg.Burst,
		Logger:            logger,
	})
	if err != nil {
		return nil, err
	}

	registry := hooks.NewRegistry()
	hooks.NewLoggingHooks(logger).Register(registry)
	if len(cfg.BlockedPatterns) > 0 {
		guard, err := hooks.NewContentGuard(cfg.BlockedPatterns...)
		if err != nil {
			return nil, err
		}
		registry.OnBeforeSend(guard.BeforeSend)
	}

	uiCfg := &ui.Config{
		BasePath:           cfg.BasePath,
		DefaultStaffID:     cfg.DefaultStaffID,
		SecureCookie:       cfg.SecureCookie,
		MaxAttachmentBytes: cfg.MaxAttachmentBytes,
		Hooks:              registry,
		Logger:             logger,
	}
	if cfg.CookieSecret != "" {
		uiCfg.CookieSecret = []byte(cfg.CookieSecret)
	} else {
		logger.Warn("DBCHAT_COOKIE_SECRET not set, staff cookies will not survive a restart")
	}

	mux := http.NewServeMux()
	if cfg.BasePath == "" {
		mux.Handle("/", ui.Handler(client, uiCfg))
	} else {
		mux.Handle(cfg.BasePath+"/", http.StripPrefix(cfg.BasePath, ui.Handler(client, uiCfg)))
		mux.Handle("GET /{$}", http.RedirectHandler(cfg.BasePath+"/", http.StatusTemporaryRedirect))
	}
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux, nil
}

func serve(ctx context.Context, cfg *config.Cfg) error {
	logger, err := logging.Stderr(cfg.LogFormat, cfg.LogLevel)
	if err != nil {
		return err
	}

	handler, err := buildHandler(cfg, logger)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		// Replies can take as long as the backend timeout.
		WriteTimeout: cfg.RequestTimeout + 30*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting chat server",
			"addr", cfg.ListenAddr,
			"backend", cfg.BackendURL,
			"base_path", cfg.BasePath,
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutCtx); err != nil {
		logger.Error("shutdown error", "error", err)
		return err
	}
	return nil
}
