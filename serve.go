package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/spf13/cobra"

	"github.com/feira-troca/backend/config"
	"github.com/feira-troca/backend/controllers"
	"github.com/feira-troca/backend/database"
	"github.com/feira-troca/backend/middleware"
	"github.com/feira-troca/backend/routes"
	"github.com/feira-troca/backend/services"
	"github.com/feira-troca/backend/store"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return serve(ctx, cfg)
	},
}

func serve(ctx context.Context, cfg *config.Config) (err error) {
	s, err := database.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err = errors.Join(err, s.Close(closeCtx))
	}()

	if cfg.Storage.AutoMigrate {
		if err := database.Migrate(ctx, s); err != nil {
			return err
		}
	}

	app := newApp(cfg, s)

	errCh := make(chan error, 1)
	go func() {
		log.Infof("🚀 Server running on port %s", cfg.Server.Port)
		errCh <- app.Listen(":" + cfg.Server.Port)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down server")
	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		return err
	}
	return <-errCh
}

func newApp(cfg *config.Config, s store.Store) *fiber.App {
	catalog := services.NewCatalogService(s)
	trades := services.NewTradeService(s)
	auth := services.NewAuthService(s, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	opts := routes.Options{CORSOrigins: cfg.Server.CORSOrigins}
	if cfg.Auth.Enabled {
		opts.Auth = middleware.JWTMiddleware(auth)
		log.Info("🔐 Auth enabled for mutating routes")
	}

	return routes.NewApp(routes.Controllers{
		Items:   controllers.NewItemController(catalog),
		Traders: controllers.NewTraderController(catalog),
		Trades:  controllers.NewTradeController(trades),
		Auth:    controllers.NewAuthController(auth),
		Health:  controllers.NewHealthController(s),
	}, opts)
}
