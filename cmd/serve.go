package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SAP-F-2025/reproducible-assessment/internal/drafts"
	"github.com/SAP-F-2025/reproducible-assessment/internal/events"
	"github.com/SAP-F-2025/reproducible-assessment/internal/handlers"
	"github.com/SAP-F-2025/reproducible-assessment/internal/metrics"
	"github.com/SAP-F-2025/reproducible-assessment/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		seedDefault, _ := cmd.Flags().GetBool("seed-default")
		return runServer(cmd, seedDefault)
	},
}

func init() {
	serveCmd.Flags().Bool("seed-default", false, "Freeze the built-in calculus pool at startup")
}

func runServer(cmd *cobra.Command, seedDefault bool) error {
	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	a, err := newApp(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	metrics.Init()

	if seedDefault {
		version, created, err := a.services.QuestionBank().Freeze(ctx, drafts.DefaultPool(), "built-in calculus pool")
		if err != nil {
			return fmt.Errorf("freeze default pool: %w", err)
		}
		a.logger.Info("Default pool ready", "version_id", version.ID, "created", created)
	}

	if channel, ok := a.publisher.(*events.ChannelEventPublisher); ok {
		if err := logEvents(ctx, channel, a); err != nil {
			return err
		}
	}

	if a.cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	handlers.NewHandlerManager(a.services, a.validator, utils.NewSlogLogger(a.logger)).SetupRoutes(router)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: a.cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID", "Content-Disposition"},
	})

	srv := &http.Server{
		Addr:              ":" + a.cfg.Port,
		Handler:           corsHandler.Handler(router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		a.logger.Info("Server starting", "addr", srv.Addr, "environment", a.cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case sig := <-quit:
		a.logger.Info("Shutting down server", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	a.logger.Info("Server exited")
	return nil
}

// logEvents subscribes to the in-process publisher and logs each event until ctx ends.
func logEvents(ctx context.Context, publisher *events.ChannelEventPublisher, a *app) error {
	stream, err := publisher.Subscribe(ctx)
	if err != nil {
		return err
	}
	go func() {
		for event := range stream {
			a.logger.Info("Domain event",
				"event_id", event.ID,
				"type", event.Type,
				"source", event.Source)
		}
	}()
	return nil
}
