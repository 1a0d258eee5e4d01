// cli/serve.go
package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gewnthar/moviefinder/handlers"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the movie finder page and JSON API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := settings(cmd)
			if err != nil {
				return err
			}
			if port, _ := cmd.Flags().GetString("port"); port != "" {
				cfg.Server.Port = port
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			// Load before listening so a bad dataset fails startup instead of every request.
			cache, closeFn, err := loadTable(ctx, cfg, log)
			if err != nil {
				return fmt.Errorf("failed to load dataset: %w", err)
			}
			defer closeFn()

			gin.SetMode(cfg.Server.Mode)
			h := handlers.NewMovieHandler(cache, cfg.Query.DefaultTopN, cfg.Dataset.MinVotes, log)
			router, err := handlers.SetupRouter(h, cfg.Server.MetricsEnabled)
			if err != nil {
				return err
			}

			srv := &http.Server{
				Addr:              ":" + cfg.Server.Port,
				Handler:           router,
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				log.Info("Server starting", "addr", srv.Addr, "metrics", cfg.Server.MetricsEnabled)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case <-ctx.Done():
				log.Info("Shutting down server")
			case err := <-errCh:
				if err != nil {
					return fmt.Errorf("server failed: %w", err)
				}
				return nil
			}

			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
			defer shutdownCancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("failed to shut down server: %w", err)
			}
			log.Info("Server stopped")
			return nil
		},
	}
	cmd.Flags().StringP("port", "p", "", "port to listen on (overrides config)")
	return cmd
}
