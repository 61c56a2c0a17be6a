package lookup

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/pdcgo/bookkeeping_service/ledger_core"
	"github.com/pdcgo/bookkeeping_service/ledger_model"
	"gorm.io/gorm"
)

const DefaultNameTTL = 5 * time.Minute

const (
	CategoryKind = "category"
	AccountKind  = "account"
)

// NameResolver resolves category and account display names. Lookups never
// fail the caller: a missing record or a storage error resolves to "".
type NameResolver struct {
	db    *gorm.DB
	cache *badger.DB
	ttl   time.Duration
}

func NewNameResolver(db *gorm.DB, cache *badger.DB, ttl time.Duration) *NameResolver {
	if ttl <= 0 {
		ttl = DefaultNameTTL
	}
	return &NameResolver{
		db:    db,
		cache: cache,
		ttl:   ttl,
	}
}

// OpenCache opens a badger store at path, or an in memory one when path is empty.
func OpenCache(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	return badger.Open(opts)
}

func (r *NameResolver) CategoryName(ctx context.Context, id string) string {
	return r.resolve(ctx, CategoryKind+"/"+id, id, &ledger_model.Category{})
}

func (r *NameResolver) AccountName(ctx context.Context, id string) string {
	return r.resolve(ctx, AccountKind+"/"+id, id, &ledger_core.Account{})
}

// Forget drops a cached name, used after the record changes.
func (r *NameResolver) Forget(kind string, id string) {
	if r.cache == nil {
		return
	}
	err := r.cache.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(kind + "/" + id))
	})
	if err != nil {
		slog.Warn("name cache delete failed", slog.String("key", kind+"/"+id), slog.String("error", err.Error()))
	}
}

func (r *NameResolver) resolve(ctx context.Context, key string, id string, model any) string {
	if id == "" {
		return ""
	}

	name, ok := r.getCache(key)
	if ok {
		return name
	}

	var names []string
	err := r.db.
		WithContext(ctx).
		Model(model).
		Where("id = ?", id).
		Limit(1).
		Pluck("name", &names).
		Error

	if err != nil {
		slog.Warn("name lookup failed", slog.String("key", key), slog.String("error", err.Error()))
		return ""
	}

	if len(names) == 0 {
		return ""
	}

	r.setCache(key, names[0])
	return names[0]
}

func (r *NameResolver) getCache(key string) (string, bool) {
	if r.cache == nil {
		return "", false
	}

	var value []byte
	err := r.cache.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})

	if err != nil {
		if !errors.Is(err, badger.ErrKeyNotFound) {
			slog.Warn("name cache read failed", slog.String("key", key), slog.String("error", err.Error()))
		}
		return "", false
	}

	return string(value), true
}

func (r *NameResolver) setCache(key string, name string) {
	if r.cache == nil {
		return
	}

	err := r.cache.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry([]byte(key), []byte(name)).WithTTL(r.ttl)
		return txn.SetEntry(entry)
	})

	if err != nil {
		slog.Warn("name cache write failed", slog.String("key", key), slog.String("error", err.Error()))
	}
}
