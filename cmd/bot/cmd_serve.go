package main

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
)

var serveTestMode bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the scheduler and the callback HTTP server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&serveTestMode, "test", false, "push to all enabled users once immediately, then exit")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}

	if serveTestMode {
		app.logger.Info("Running in test mode, pushing once to all enabled users")
		return app.scheduler.RunAll()
	}

	app.scheduler.Start()
	defer app.scheduler.Stop()

	server := &http.Server{
		Handler:      newRouter(app),
		Addr:         ":" + app.envVars.port,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		app.logger.Info("Shutdown signal received")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			app.logger.WithError(err).Error("Server shutdown error")
		}
	}()

	app.logger.Infof("Starting server on :%s", app.envVars.port)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}
