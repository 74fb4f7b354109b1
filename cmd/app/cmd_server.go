package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"listaai/cmd/fx/checkout_fx"
	"listaai/cmd/fx/config_fx"
	"listaai/cmd/fx/controllers_fx"
	"listaai/cmd/fx/db_fx"
	"listaai/cmd/fx/list_fx"
	"listaai/cmd/fx/mail_fx"
	"listaai/cmd/fx/memcache_fx"
	"listaai/cmd/fx/payment_fx"
	"listaai/cmd/fx/storage_fx"
	"listaai/cmd/fx/user_fx"
	"listaai/internal/config"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server and the checkout poller",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		app := fx.New(
			config_fx.Module(cfg),
			db_fx.Module,
			memcache_fx.Module,
			storage_fx.Module,
			mail_fx.Module,
			user_fx.Module,
			list_fx.Module,
			payment_fx.Module,
			checkout_fx.Module,
			controllers_fx.Module,

			checkout_fx.Poller,
			fx.Invoke(StartServer),
			fx.WithLogger(func(logger *slog.Logger) fxevent.Logger {
				return &fxevent.SlogLogger{Logger: logger}
			}),
		)
		if err := app.Err(); err != nil {
			return err
		}

		app.Run()
		return nil
	},
}

func StartServer(lc fx.Lifecycle, cfg *config.Config, engine *gin.Engine) {
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				slog.Info("starting HTTP server", "addr", srv.Addr)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					slog.Error("HTTP server failed", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			slog.Info("stopping HTTP server")
			return srv.Shutdown(ctx)
		},
	})
}
