package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/docrank/internal/api"
	"github.com/dgallion1/docrank/internal/lang"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP ranking service",
	Long: `Serves outline extraction and persona ranking over HTTP. Outline requests
are synchronous; ranking requests return a job ID to poll. Set
DOCRANK_API_KEY to require authentication on the /api endpoints.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&cfg.Port, "port", "p", cfg.Port, "listen port")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	// Service mode logs structured JSON to stdout.
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stats := newStats()
	provider := newProvider(stats)

	if err := provider.Ping(ctx); err != nil {
		log.Warn("embedding service not reachable at startup", "endpoint", cfg.EmbedBaseURL, "error", err)
	}

	srv := api.NewServer(provider, lang.New(), stats, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		provider.Close()
	}()

	log.Info("starting docrank", "port", cfg.Port, "model", cfg.EmbedModel)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		return err
	}
	return nil
}
