package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	chiTransport "github.com/arfaouiahmed1/stage/internal/transport/chi"
	"github.com/arfaouiahmed1/stage/internal/version"
)

var servePort int

// NewServeCmd creates the serve command
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API.

The corpus is indexed before the listener opens, so the server never
accepts requests it cannot answer. SIGINT or SIGTERM drains in-flight
requests before exiting.`,
		Example: `  # Serve on the configured port
  questgen serve

  # Override the port
  questgen serve --port 9000`,
		RunE: runServe,
	}

	cmd.Flags().IntVarP(&servePort, "port", "p", 0, "listen port (default: http.port from config)")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sess, err := startSession(ctx)
	if err != nil {
		return err
	}
	defer sess.Close()

	cfg, logger := sess.cfg, sess.logger
	srv := newHTTPServer(sess, servePort)
	addr := srv.Addr

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server",
			zap.String("addr", addr),
			zap.String("version", version.Version),
			zap.String("commit", version.Commit),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
		return fmt.Errorf("shutdown: %w", err)
	}

	logger.Info("Server stopped gracefully")
	return nil
}

// newHTTPServer builds the API server for sess. port overrides http.port when positive.
func newHTTPServer(sess *session, port int) *http.Server {
	cfg := sess.cfg
	if port <= 0 {
		port = cfg.HTTP.Port
	}
	server := chiTransport.NewServer(sess.engine, sess.logger)
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           server.Handler(cfg.Auth.APIKeys),
		ReadHeaderTimeout: time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		ReadTimeout:       time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout:      time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}
}
