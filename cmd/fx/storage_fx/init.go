package storage_fx

import (
	"go.uber.org/fx"

	"listaai/internal/config"
	"listaai/pkg/storage"
)

var Module = fx.Provide(provideDisk)

func provideDisk(cfg *config.Config) (storage.Disk, error) {
	return storage.New(cfg.Storage)
}
