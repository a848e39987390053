package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Spok95/daybook/internal/domain/records"
	httpx "github.com/Spok95/daybook/internal/infra/http"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the bookkeeping service",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		a, err := buildApp(ctx)
		if err != nil {
			return err
		}
		defer a.close()

		// touch every registry so a fresh store gets its seed lists
		for _, reg := range a.registries {
			if _, err := reg.GetAll(ctx, false); err != nil {
				return err
			}
		}

		if err := a.engine.Generate(ctx); err != nil {
			a.log.Error("notification generation failed", "err", err)
		}

		// regenerate whenever records change and once a minute so
		// checkpoint reminders appear as the day goes on
		a.repo.OnChange(func(ev records.Event) {
			a.log.Debug("records changed", "op", string(ev.Op), "id", ev.ID)
			if err := a.engine.Generate(ctx); err != nil {
				a.log.Error("notification generation failed", "err", err)
			}
		})

		srv := httpx.New(a.cfg.HTTP.Addr, a.cfg.Metrics.Enabled, httpx.Deps{
			Records: a.repo,
			Engine:  a.engine,
		})
		go func() {
			if err := srv.Start(); err != nil && err.Error() != "http: Server closed" {
				a.log.Error("http server error", "err", err)
			}
		}()
		a.log.Info("HTTP server started", "addr", a.cfg.HTTP.Addr)

		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = srv.Shutdown(shutdownCtx)
				a.log.Info("graceful shutdown complete")
				return nil
			case <-ticker.C:
				if err := a.engine.Generate(ctx); err != nil {
					a.log.Error("notification generation failed", "err", err)
				}
			}
		}
	},
}
