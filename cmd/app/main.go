package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	cloudtasks "cloud.google.com/go/cloudtasks/apiv2"
	"github.com/dgraph-io/badger/v4"
	"github.com/pdcgo/bookkeeping_service"
	"github.com/pdcgo/bookkeeping_service/config"
	"github.com/pdcgo/bookkeeping_service/events"
	"github.com/pdcgo/bookkeeping_service/ledger_core"
	"github.com/pdcgo/bookkeeping_service/lookup"
	"github.com/pdcgo/bookkeeping_service/redislock"
	"github.com/pdcgo/shared/pkg/cloud_logging"
	"github.com/redis/go-redis/v9"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
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

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	if db.Dialector.Name() == "sqlite" {
		// sqlite has a single writer, units of work queue on one connection
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	return db, nil
}

func NewCache(cfg *config.Config) (*badger.DB, func(), error) {
	cache, err := lookup.OpenCache(cfg.Cache.Path)
	if err != nil {
		return nil, nil, err
	}
	return cache, func() { cache.Close() }, nil
}

func NewNameResolver(cfg *config.Config, db *gorm.DB, cache *badger.DB) *lookup.NameResolver {
	return lookup.NewNameResolver(db, cache, cfg.Cache.NameTTL)
}

func NewLocker(cfg *config.Config) (ledger_core.KeyLocker, func(), error) {
	if cfg.Lock.Driver != "redis" {
		return ledger_core.NewLocalLocker(), func() {}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr: cfg.Lock.RedisAddr,
	})
	err := client.Ping(context.Background()).Err()
	if err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("redis lock backend unreachable: %w", err)
	}

	locker := redislock.NewLocker(client, redislock.Options{
		Expiry: cfg.Lock.Expiry,
	})
	return locker, func() { client.Close() }, nil
}

func NewEventSink(cfg *config.Config) (ledger_core.EventSink, func(), error) {
	sinks := []ledger_core.EventSink{}
	closers := []func(){}
	cleanup := func() {
		for _, closeFn := range closers {
			closeFn()
		}
	}

	if cfg.Events.Log {
		sinks = append(sinks, events.NewLogSink(nil))
	}

	kafkaCfg := cfg.Events.Kafka
	if len(kafkaCfg.Brokers) != 0 {
		sink := events.NewKafkaSink(events.NewKafkaWriter(kafkaCfg.Brokers, kafkaCfg.Topic))
		sinks = append(sinks, sink)
		closers = append(closers, func() { sink.Close() })
	}

	taskCfg := cfg.Events.CloudTask
	if taskCfg.Endpoint != "" {
		var dispatcher events.TaskDispatcher
		if taskCfg.Local {
			dispatcher = events.NewLocalTaskDispatcher(nil)
		} else {
			client, err := cloudtasks.NewClient(context.Background())
			if err != nil {
				cleanup()
				return nil, nil, err
			}
			closers = append(closers, func() { client.Close() })
			dispatcher = events.NewCloudTaskDispatcher(client)
		}
		sinks = append(sinks, events.NewCloudTaskSink(dispatcher, taskCfg.Queue, taskCfg.Endpoint))
	}

	if len(sinks) == 0 {
		return ledger_core.NewNopSink(), cleanup, nil
	}
	return events.NewMultiSink(sinks...), cleanup, nil
}

func NewBook(
	cfg *config.Config,
	db *gorm.DB,
	locker ledger_core.KeyLocker,
	sink ledger_core.EventSink,
) *ledger_core.Book {
	policy := ledger_core.SkipMissingDestination
	if cfg.Ledger.RejectMissingTransferDestination {
		policy = ledger_core.RejectMissingDestination
	}

	return ledger_core.NewBook(db,
		ledger_core.WithLocker(locker),
		ledger_core.WithEventSink(sink),
		ledger_core.WithDestinationPolicy(policy),
		ledger_core.WithLockTimeout(cfg.Lock.Timeout),
	)
}

func withCors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Headers", "Connect-Protocol-Version, Referer, Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, Accept, Origin, Cache-Control, X-Requested-With")
		w.Header().Set("Access-Control-Expose-Headers", "Ledger-Error-Code")
		w.Header().Set("Access-Control-Allow-Methods", "HEAD,PATCH,OPTIONS,GET,POST,PUT,DELETE")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

type App struct {
	Run func() error
}

func NewApp(
	cfg *config.Config,
	mux *http.ServeMux,
	migrate bookkeeping_service.MigrationHandler,
	register bookkeeping_service.RegisterHandler,
) *App {
	return &App{
		Run: func() error {
			if cfg.Database.Driver == "sqlite" {
				err := migrate()
				if err != nil {
					return err
				}
			}

			register()

			listen := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
			log.Println("listening on", listen)

			return http.ListenAndServe(
				listen,
				// Use h2c so we can serve HTTP/2 without TLS.
				h2c.NewHandler(
					withCors(mux),
					&http2.Server{}),
			)
		},
	}
}

func main() {
	cloud_logging.SetCloudLoggingDefault()
	app, cleanup, err := InitializeApp()
	if err != nil {
		panic(err)
	}
	defer cleanup()

	err = app.Run()
	if err != nil {
		panic(err)
	}
}
