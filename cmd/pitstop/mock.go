package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kass/pitstop/internal/mockapi"
)

var mockCmd = &cobra.Command{
	Use:   "mock",
	Short: "Run a stub backend for offline development",
	Long: `Serve the search and routes endpoints from built-in Singapore fixtures.
Point the client at it with --base-url http://<addr>.`,
	RunE: runMock,
}

var (
	mockAddr    string
	mockLatency time.Duration
)

func init() {
	mockCmd.Flags().StringVar(&mockAddr, "addr", "127.0.0.1:8000", "Listen address")
	mockCmd.Flags().DurationVar(&mockLatency, "latency", 0, "Delay added to every response")
	rootCmd.AddCommand(mockCmd)
}

func runMock(cmd *cobra.Command, args []string) error {
	backend := mockapi.New(
		mockapi.WithLogger(log.Named("mockapi")),
		mockapi.WithLatency(mockLatency),
	)

	srv := &http.Server{
		Addr:         mockAddr,
		Handler:      backend.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("mock backend starting", zap.String("addr", mockAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("failed to serve: %w", err)
		}
		return nil
	case <-cmd.Context().Done():
	}

	log.Info("shutting down mock backend")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}

	log.Info("mock backend stopped", zap.Int64("requests", backend.Requests()))
	return nil
}
