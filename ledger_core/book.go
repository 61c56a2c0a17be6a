package ledger_core

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
)

var ErrSkipTransaction = errors.New("skip transaction")

const DefaultLockTimeout = 10 * time.Second

type BookOption func(b *Book)

func WithLocker(locker KeyLocker) BookOption {
	return func(b *Book) {
		b.locker = locker
	}
}

func WithEventSink(sink EventSink) BookOption {
	return func(b *Book) {
		b.sink = sink
	}
}

func WithDestinationPolicy(policy DestinationPolicy) BookOption {
	return func(b *Book) {
		b.policy = policy
	}
}

func WithClock(now func() time.Time) BookOption {
	return func(b *Book) {
		b.now = now
	}
}

func WithLockTimeout(d time.Duration) BookOption {
	return func(b *Book) {
		b.lockTimeout = d
	}
}

// Book runs ledger mutations as single units of work: every write inside
// OpenTransaction commits together, and events are emitted only after commit.
type Book struct {
	db          *gorm.DB
	locker      KeyLocker
	sink        EventSink
	policy      DestinationPolicy
	now         func() time.Time
	lockTimeout time.Duration
	tracer      trace.Tracer
}

func NewBook(db *gorm.DB, opts ...BookOption) *Book {
	b := &Book{
		db:          db,
		locker:      NewLocalLocker(),
		sink:        NewNopSink(),
		policy:      SkipMissingDestination,
		now:         time.Now,
		lockTimeout: DefaultLockTimeout,
		tracer:      otel.Tracer("bookkeeping_service/ledger_core"),
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

func (b *Book) DB() *gorm.DB {
	return b.db
}

func (b *Book) Now() time.Time {
	return b.now()
}

type BookManage interface {
	Lock(keys ...string) error
	LockAccounts(accountIDs ...string) error
	Reconciler() *Reconciler
	NewEntryMutation() EntryMutation
	Emit(name string, payload any)
	Now() time.Time
}

type pendingEvent struct {
	name    string
	payload any
}

type bookManageImpl struct {
	ctx     context.Context
	book    *Book
	tx      *gorm.DB
	held    map[string]bool
	unlocks []func()
	events  []*pendingEvent
}

// Lock implements BookManage.
func (h *bookManageImpl) Lock(keys ...string) error {
	wanted := []string{}
	for _, key := range SortKeys(keys) {
		if !h.held[key] {
			wanted = append(wanted, key)
		}
	}

	if len(wanted) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(h.ctx, h.book.lockTimeout)
	defer cancel()

	unlock, err := h.book.locker.Lock(ctx, wanted...)
	if err != nil {
		if errors.Is(err, ErrConflict) {
			return err
		}
		return &ConflictError{Keys: wanted, Err: err}
	}

	h.unlocks = append(h.unlocks, unlock)
	for _, key := range wanted {
		h.held[key] = true
	}
	return nil
}

// LockAccounts implements BookManage.
func (h *bookManageImpl) LockAccounts(accountIDs ...string) error {
	keys := make([]string, 0, len(accountIDs))
	for _, id := range accountIDs {
		if id == "" {
			continue
		}
		keys = append(keys, AccountLockKey(id))
	}
	return h.Lock(keys...)
}

// Reconciler implements BookManage.
func (h *bookManageImpl) Reconciler() *Reconciler {
	rec := NewReconciler(h.tx, h.book.policy)
	rec.now = h.book.now
	return rec
}

// NewEntryMutation implements BookManage.
func (h *bookManageImpl) NewEntryMutation() EntryMutation {
	return &entryMutationImpl{
		tx:      h.tx,
		bookmng: h,
	}
}

// Emit implements BookManage.
func (h *bookManageImpl) Emit(name string, payload any) {
	h.events = append(h.events, &pendingEvent{
		name:    name,
		payload: payload,
	})
}

// Now implements BookManage.
func (h *bookManageImpl) Now() time.Time {
	return h.book.now()
}

func (h *bookManageImpl) release() {
	for i := len(h.unlocks) - 1; i >= 0; i-- {
		h.unlocks[i]()
	}
	h.unlocks = nil
	h.held = map[string]bool{}
}

func (b *Book) OpenTransaction(ctx context.Context, name string, handle func(tx *gorm.DB, bookmng BookManage) error) error {
	ctx, span := b.tracer.Start(ctx, name)
	defer span.End()

	hdlr := &bookManageImpl{
		ctx:  ctx,
		book: b,
		held: map[string]bool{},
	}
	defer hdlr.release()

	err := b.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		hdlr.tx = tx
		return handle(tx, hdlr)
	})

	hdlr.release()

	if err != nil {
		if errors.Is(err, ErrSkipTransaction) {
			return nil
		}

		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.String("ledger.error_code", string(ErrorCode(err))))
		return err
	}

	for _, event := range hdlr.events {
		err = b.sink.Emit(ctx, event.name, event.payload)
		if err != nil {
			slog.Error("emit ledger event failed", slog.String("event", event.name), slog.String("error", err.Error()))
		}
	}

	return nil
}
