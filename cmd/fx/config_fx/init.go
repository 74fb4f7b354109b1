package config_fx

import (
	"log/slog"

	"go.uber.org/fx"

	"listaai/internal/config"
	"listaai/pkg/logging"
	"listaai/pkg/middleware"
	"listaai/pkg/utils"
)

// Module provides the configuration and the values derived directly from it.
func Module(cfg *config.Config) fx.Option {
	return fx.Options(
		fx.Supply(cfg),
		fx.Provide(provideLogger, provideJWT, provideRateLimiter),
	)
}

func provideLogger(cfg *config.Config) *slog.Logger {
	return logging.Setup(cfg.LogLevel, cfg.IsProduction())
}

func provideJWT(cfg *config.Config) *utils.JWTManager {
	if cfg.IsProduction() && cfg.JWT.Secret == "change-me-in-production" {
		slog.Warn("JWT_SECRET is not set; using the development default")
	}
	return utils.NewJWTManager(cfg.JWT.Secret, cfg.JWT.TTL)
}

func provideRateLimiter(cfg *config.Config) *middleware.RateLimiter {
	return middleware.NewRateLimiter(cfg.Rate.RPS, cfg.Rate.Burst)
}
