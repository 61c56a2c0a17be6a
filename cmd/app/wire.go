//go:build wireinject
// +build wireinject

package main

import (
	"net/http"

	"github.com/google/wire"
	"github.com/pdcgo/bookkeeping_service"
	"github.com/pdcgo/bookkeeping_service/config"
)

func InitializeApp() (*App, func(), error) {
	wire.Build(
		config.NewProductionConfig,
		http.NewServeMux,
		NewDatabase,
		NewCache,
		NewNameResolver,
		NewLocker,
		NewEventSink,
		NewBook,
		bookkeeping_service.NewMigrationHandler,
		bookkeeping_service.NewRegister,
		NewApp,
	)

	return &App{}, nil, nil
}
