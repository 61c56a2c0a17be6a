package redislock

import (
	"context"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/pdcgo/bookkeeping_service/ledger_core"
	"github.com/redis/go-redis/v9"
)

const (
	DefaultExpiry     = 30 * time.Second
	DefaultRetryDelay = 50 * time.Millisecond
	KeyPrefix         = "bookkeeping:lock:"
)

type Options struct {
	Expiry     time.Duration
	RetryDelay time.Duration
	// ExtendInterval is how often held keys are pushed back to a full
	// Expiry. Defaults to a third of Expiry.
	ExtendInterval time.Duration
}

func DefaultOptions() Options {
	return Options{
		Expiry:     DefaultExpiry,
		RetryDelay: DefaultRetryDelay,
	}
}

// Locker is a ledger_core.KeyLocker shared by every instance talking to the
// same redis. Waiting is bounded by the context passed to Lock.
type Locker struct {
	redsync *redsync.Redsync
	opts    Options
}

func NewLocker(client redis.UniversalClient, opts Options) *Locker {
	if opts.Expiry <= 0 {
		opts.Expiry = DefaultExpiry
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = DefaultRetryDelay
	}
	if opts.ExtendInterval <= 0 || opts.ExtendInterval >= opts.Expiry {
		opts.ExtendInterval = opts.Expiry / 3
	}

	pool := goredis.NewPool(client)
	return &Locker{
		redsync: redsync.New(pool),
		opts:    opts,
	}
}

// Lock implements ledger_core.KeyLocker.
func (l *Locker) Lock(ctx context.Context, keys ...string) (func(), error) {
	keys = ledger_core.SortKeys(keys)
	held := []*redsync.Mutex{}

	unlockAll := func() {
		for i := len(held) - 1; i >= 0; i-- {
			mutex := held[i]
			ok, err := mutex.UnlockContext(context.Background())
			if err != nil || !ok {
				slog.Warn("redis lock release failed",
					slog.String("key", mutex.Name()),
					slog.Any("error", err),
				)
			}
		}
	}

	for _, key := range keys {
		mutex := l.redsync.NewMutex(
			KeyPrefix+key,
			redsync.WithExpiry(l.opts.Expiry),
			redsync.WithTries(math.MaxInt32),
			redsync.WithRetryDelay(l.opts.RetryDelay),
		)

		err := mutex.LockContext(ctx)
		if err != nil {
			unlockAll()
			return func() {}, &ledger_core.ConflictError{Keys: keys, Err: err}
		}
		held = append(held, mutex)
	}

	stop := make(chan struct{})
	done := make(chan struct{})
	go l.keepAlive(held, stop, done)

	var once sync.Once
	release := func() {
		once.Do(func() {
			close(stop)
			<-done
			unlockAll()
		})
	}

	return release, nil
}

// keepAlive extends every held mutex until stop is closed, so a unit of work
// running past Expiry keeps its keys.
func (l *Locker) keepAlive(held []*redsync.Mutex, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(l.opts.ExtendInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			for _, mutex := range held {
				ok, err := mutex.ExtendContext(context.Background())
				if err != nil || !ok {
					slog.Warn("redis lock extend failed",
						slog.String("key", mutex.Name()),
						slog.Any("error", err),
					)
				}
			}
		}
	}
}

var _ ledger_core.KeyLocker = (*Locker)(nil)
