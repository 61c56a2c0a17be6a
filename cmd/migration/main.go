package main

import (
	"log"

	"github.com/pdcgo/bookkeeping_service"
	"github.com/pdcgo/bookkeeping_service/config"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func NewDatabase(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Database.Driver {
	case "postgres":
		dialector = postgres.Open(cfg.Database.DSN)
	default:
		dialector = sqlite.Open(cfg.Database.DSN)
	}

	return gorm.Open(dialector, &gorm.Config{})
}

type Migration struct {
	Run func() error
}

func NewMigration(
	migrate bookkeeping_service.MigrationHandler,
	seed bookkeeping_service.SeedHandler,
) *Migration {
	return &Migration{
		Run: func() error {
			err := migrate()
			if err != nil {
				return err
			}

			err = seed()
			if err != nil {
				return err
			}

			log.Println("migration done")
			return nil
		},
	}
}

func main() {
	mig, err := InitializeMigration()
	if err != nil {
		panic(err)
	}

	err = mig.Run()
	if err != nil {
		panic(err)
	}
}
