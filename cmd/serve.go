package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/yeremiapane/table-reservation/database"
	"github.com/yeremiapane/table-reservation/hub"
	"github.com/yeremiapane/table-reservation/router"
	"github.com/yeremiapane/table-reservation/scheduling"
	"github.com/yeremiapane/table-reservation/services"
	"github.com/yeremiapane/table-reservation/utils"
)

func newServeCmd() *cobra.Command {
	var migrateUp bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, floor board and status monitor",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := bootstrap()
			if err != nil {
				return err
			}
			if cfg.GinMode == gin.ReleaseMode {
				gin.SetMode(gin.ReleaseMode)
			}

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			db, err := openDatabase(cfg, migrateUp)
			if err != nil {
				return err
			}
			defer closeDatabase(db)

			store := database.NewStore(db)
			scheduler := scheduling.NewScheduler(store, store, scheduling.Config{
				DefaultDurationMinutes: cfg.DefaultDurationMinutes,
				Location:               cfg.Location,
				Logger:                 utils.InfoLogger,
			})
			boardHub := hub.NewHub(utils.InfoLogger)

			monitor := services.NewStatusMonitor(scheduler, boardHub, utils.InfoLogger)
			monitor.Interval = cfg.StatusMonitorInterval
			monitor.Start()
			defer monitor.Stop()

			r := router.SetupRouter(router.Dependencies{
				DB:        db,
				Scheduler: scheduler,
				Hub:       boardHub,
				Config:    cfg,
			})
			srv := &http.Server{
				Addr:              ":" + cfg.Port,
				Handler:           r,
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				utils.InfoLogger.Printf("Listening on port %s", cfg.Port)
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

			utils.InfoLogger.Info("shutting down")
			shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
			defer stop()
			return srv.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().BoolVar(&migrateUp, "migrate", true, "run database migrations on startup")
	return cmd
}
