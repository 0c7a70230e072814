package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/2492dfd/stockLog-final/api"
	"github.com/2492dfd/stockLog-final/logger"
)

var serverCMD = &cobra.Command{
	Use:   "server",
	Short: "Start the API server",
	Long:  `Start the HTTP API server for trade logs, reports, CSV import and stock lookups.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		a, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer shutdown(context.Background())

		gin.SetMode(gin.ReleaseMode)
		r := api.SetupRoutes(api.Deps{
			TradeLogs:  a.tradeLogs,
			Aggregator: a.aggregator,
			Analysis:   a.analysis,
			Importer:   a.importer,
		})

		srv := &http.Server{Addr: a.cfg.HTTP.Addr, Handler: r}
		errCh := make(chan error, 1)
		go func() {
			logger.Info(ctx, "Starting server", "addr", a.cfg.HTTP.Addr)
			errCh <- srv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		case <-ctx.Done():
		}

		logger.Info(ctx, "Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}
