package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"pivot/internal/config"
	httpHandler "pivot/internal/handler/http"
	"pivot/internal/repository/file"
	"pivot/internal/service"
	"pivot/pkg/logger"

	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}
}

// serve runs the service until SIGINT or SIGTERM.
//
// Startup flow: config → logger → route table (fatal if the file is missing
// or malformed) → handler + router → http.Server. On a signal the server
// stops accepting connections and drains in-flight requests.
func serve(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger := logger.New(cfg.App.LogLevel, cfg.App.LogFormat)
	appLogger.WithFields(map[string]interface{}{
		"port":          cfg.Server.Port,
		"data_location": cfg.Store.DataLocation,
		"metrics":       cfg.App.EnableMetrics,
	}).Info("Starting Pivot")

	routes := service.NewRouteService(file.NewRouteRepository(cfg.Store.DataLocation))
	if err := routes.Load(ctx); err != nil {
		appLogger.Error("Failed to load route table", "error", err)
		return err
	}
	appLogger.Info("Route table loaded", "routes", len(routes.List(ctx)))

	handler := httpHandler.NewHandler(routes, appLogger.Logger, cfg.App.Banner)
	router := httpHandler.NewRouter(handler, httpHandler.RouterConfig{
		AuthToken:     cfg.Auth.Token,
		EnableMetrics: cfg.App.EnableMetrics,
		Logger:        appLogger.Logger,
	})

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		appLogger.Info("Pivot API server listening", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			appLogger.Error("Server failed", "error", err)
			return err
		}
		return nil
	case <-ctx.Done():
	}

	appLogger.Info("Shutting down server...")

	// Fresh context: the signal context is already cancelled
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shutdown", "error", err)
		return err
	}

	appLogger.Info("Server exited gracefully")
	return nil
}
