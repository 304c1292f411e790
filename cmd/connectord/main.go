package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/dieptv1999/trustkeys-connector/internal/api"
	"github.com/dieptv1999/trustkeys-connector/internal/config"
	"github.com/dieptv1999/trustkeys-connector/internal/connector"
	"github.com/dieptv1999/trustkeys-connector/internal/journal"
	"github.com/dieptv1999/trustkeys-connector/internal/logging"
	"github.com/dieptv1999/trustkeys-connector/internal/provider/rpcbridge"
	"github.com/dieptv1999/trustkeys-connector/internal/relay"
)

var version = "dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		if err := runServe(); err != nil {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	case "version":
		fmt.Printf("connectord %s\n", version)
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `Usage: connectord <command>

Commands:
  serve     Start the wallet connector daemon
  version   Print version information
`)
}

func runServe() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logCloser, err := logging.Setup(cfg.LogLevel, cfg.LogDir)
	if err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	defer logCloser.Close()

	slog.Info("starting connectord",
		"version", version,
		"bridgeURL", cfg.BridgeURL,
		"port", cfg.Port,
		"dbPath", cfg.DBPath,
		"logLevel", cfg.LogLevel,
	)

	store, err := journal.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open journal: %w", err)
	}
	defer store.Close()

	if err := store.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	slog.Info("journal opened", "path", cfg.DBPath)

	// SSE hub for lifecycle event fan-out.
	hub := relay.NewSSEHub()
	hubCtx, hubCancel := context.WithCancel(context.Background())
	defer hubCancel()
	go hub.Run(hubCtx)

	// Dial the wallet bridge. A failed dial is not fatal: the connector
	// reports the provider as unavailable until the daemon is restarted,
	// which matches how a dapp behaves when no wallet is injected.
	var bridge *rpcbridge.Bridge
	bridge, err = rpcbridge.Dial(context.Background(), cfg.BridgeURL, cfg.BridgeRPS)
	if err != nil {
		slog.Warn("wallet bridge unreachable, provider reported unavailable",
			"bridgeURL", cfg.BridgeURL,
			"error", err,
		)
		bridge = nil
	} else {
		defer bridge.Close()
	}

	locate := func() any {
		if bridge == nil {
			return nil
		}
		return bridge
	}

	conn := connector.New(locate, relay.NewRelay(hub, store))

	router := api.NewRouter(conn, hub, store, cfg)

	addr := fmt.Sprintf("127.0.0.1:%d", cfg.Port)
	srv := &http.Server{
		Addr:           addr,
		Handler:        router,
		ReadTimeout:    config.ServerReadTimeout,
		WriteTimeout:   config.ServerWriteTimeout,
		IdleTimeout:    config.ServerIdleTimeout,
		MaxHeaderBytes: config.ServerMaxHeaderBytes,
	}

	slog.Info("server configured",
		"readTimeout", config.ServerReadTimeout,
		"writeTimeout", config.ServerWriteTimeout,
		"idleTimeout", config.ServerIdleTimeout,
		"maxHeaderBytes", config.ServerMaxHeaderBytes,
	)

	// Graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		slog.Info("server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server listen error", "error", err)
			os.Exit(1)
		}
	}()

	<-done
	slog.Info("initiating graceful shutdown", "timeout", config.ShutdownTimeout)

	// 1. Tear down the wallet session so handlers are unbound before exit.
	conn.Deactivate()

	// 2. Drain SSE clients.
	hubCancel()

	// 3. Shut down the HTTP server.
	ctx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}
