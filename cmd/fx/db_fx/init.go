package db_fx

import (
	"context"
	"fmt"

	"go.uber.org/fx"
	"gorm.io/gorm"

	"listaai/internal/config"
	"listaai/internal/infra"
)

var Module = fx.Provide(provideDB)

func provideDB(lc fx.Lifecycle, cfg *config.Config) (*gorm.DB, error) {
	db, err := infra.OpenDatabase(cfg.Database)
	if err != nil {
		return nil, err
	}

	if cfg.Database.AutoMigrate {
		if err := infra.Migrate(db); err != nil {
			return nil, fmt.Errorf("auto migrate: %w", err)
		}
		if err := infra.Seed(db, cfg.Admin); err != nil {
			return nil, err
		}
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			infra.CloseDatabase(db)
			return nil
		},
	})
	return db, nil
}
