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

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"restobrowse/internal/fakeapi"
	"restobrowse/internal/logging"
	"restobrowse/internal/types"
)

var (
	serverAddr     string
	serverFixtures string
)

var mockServerCmd = &cobra.Command{
	Use:   "mock-server",
	Short: "Serve a local copy of the restaurant API",
	Long: `Serves the list, search, detail and review endpoints from fixtures so
the browser can run without the public API:

  resto mock-server &
  resto --base-url http://127.0.0.1:8080/`,
	Args: cobra.NoArgs,
	RunE: runMockServer,
}

func init() {
	mockServerCmd.Flags().StringVar(&serverAddr, "addr", "", "Listen address (default server.addr)")
	mockServerCmd.Flags().StringVar(&serverFixtures, "fixtures", "", "JSON fixtures file (default server.fixtures, else built-in sample)")
}

func runMockServer(cmd *cobra.Command, args []string) error {
	addr := cfg.Server.Addr
	if serverAddr != "" {
		addr = serverAddr
	}
	fixtures := cfg.Server.Fixtures
	if serverFixtures != "" {
		fixtures = serverFixtures
	}

	restaurants := fakeapi.SampleRestaurants()
	if fixtures != "" {
		var err error
		restaurants, err = fakeapi.LoadFixtures(fixtures)
		if err != nil {
			return err
		}
	}

	if !verbose {
		gin.SetMode(gin.ReleaseMode)
	}
	log := logging.Get(logging.CategoryServer)
	srv := newMockHTTPServer(addr, restaurants, log)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return serve(ctx, cmd, srv, restaurants, log)
}

func newMockHTTPServer(addr string, restaurants []types.Restaurant, log *zap.Logger) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           fakeapi.New(restaurants, fakeapi.WithLogger(log)).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// serve runs srv until ctx is done, then shuts it down gracefully.
func serve(ctx context.Context, cmd *cobra.Command, srv *http.Server, restaurants []types.Restaurant, log *zap.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	fmt.Fprintf(cmd.OutOrStdout(), "Serving %d restaurants on http://%s/\n", len(restaurants), srv.Addr)
	log.Info("mock server listening", zap.String("addr", srv.Addr), zap.Int("restaurants", len(restaurants)))

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	log.Info("mock server stopped")
	return nil
}
