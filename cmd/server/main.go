package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/boardstream/boardstream/internal/api"
	"github.com/boardstream/boardstream/internal/config"
	"github.com/boardstream/boardstream/internal/identity"
	"github.com/boardstream/boardstream/internal/notify"
	"github.com/boardstream/boardstream/internal/realtime"
	"github.com/boardstream/boardstream/internal/store"
)

func main() {
	configPath := flag.String("config", "", "path to config file; empty runs with defaults")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	slog.Info("boardstream-server starting", "config", *configPath)

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			slog.Error("failed to load config", "err", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	if len(cfg.Server.Auth.Secret()) == 0 {
		slog.Warn("no signing secret configured, all connections will be anonymous",
			"secret_env", cfg.Server.Auth.SecretEnv)
	}

	slog.Info("config loaded",
		"http_port", cfg.Server.HTTPPort,
		"allowed_origins", cfg.Server.Realtime.AllowedOrigins,
		"send_buffer", cfg.Server.Realtime.SendBuffer,
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	resolver := identity.New(cfg.Server.Auth.Secret(), cfg.Server.Auth.CookieName)

	registry := realtime.NewRegistry()
	broadcaster := realtime.NewBroadcaster(registry)
	gateway := realtime.NewGateway(
		registry,
		broadcaster,
		resolver,
		cfg.Server.Realtime.SendBuffer,
		cfg.Server.Realtime.MaxMessageSize,
		cfg.Server.Realtime.AllowedOrigins,
	)
	go gateway.Run(ctx)

	st := store.New()
	notifier := notify.New(st, broadcaster)

	// Hot reload: origin allow-list and signing secret pick up file changes
	// without a restart. Existing connections keep their handshake identity.
	if *configPath != "" {
		go func() {
			err := config.Watch(ctx, *configPath, func(next *config.Config) {
				gateway.SetAllowedOrigins(next.Server.Realtime.AllowedOrigins)
				resolver.SetSecret(next.Server.Auth.Secret())
			})
			if err != nil {
				slog.Error("config watcher stopped", "err", err)
			}
		}()
	}

	mux := http.NewServeMux()
	mux.Handle("/api/", api.New(st, broadcaster, notifier, resolver, registry))
	mux.Handle("/ws", gateway)
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler: mux,
	}
	go func() {
		slog.Info("HTTP server listening", "port", cfg.Server.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server stopped", "err", err)
		}
	}()

	<-ctx.Done()
	slog.Info("boardstream-server shutting down")
	srv.Shutdown(context.Background()) //nolint:errcheck
}
