//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"
	"github.com/pdcgo/bookkeeping_service"
	"github.com/pdcgo/bookkeeping_service/config"
)

func InitializeMigration() (*Migration, error) {
	wire.Build(
		config.NewProductionConfig,
		NewDatabase,
		bookkeeping_service.NewMigrationHandler,
		bookkeeping_service.NewSeedHandler,
		NewMigration,
	)

	return &Migration{}, nil
}
