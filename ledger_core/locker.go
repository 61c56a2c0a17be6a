package ledger_core

import (
	"context"
	"sort"
	"sync"
)

// KeyLocker serializes mutations over shared keys. Keys inside one call are
// acquired in sorted order; across calls callers acquire in tiers
// (batch, entry, account) so two units of work never wait on each other in a cycle.
type KeyLocker interface {
	Lock(ctx context.Context, keys ...string) (unlock func(), err error)
}

func AccountLockKey(id string) string {
	return "ledger/account/" + id
}

func EntryLockKey(id string) string {
	return "ledger/entry/" + id
}

func BatchLockKey(id string) string {
	return "ledger/batch/" + id
}

func BatchNoLockKey(day string) string {
	return "ledger/batch_no/" + day
}

func SortKeys(keys []string) []string {
	seen := map[string]bool{}
	result := []string{}
	for _, key := range keys {
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		result = append(result, key)
	}
	sort.Strings(result)
	return result
}

type localLocker struct {
	mapMu sync.Mutex
	muMap map[string]chan struct{}
}

func NewLocalLocker() KeyLocker {
	return &localLocker{
		muMap: map[string]chan struct{}{},
	}
}

func (l *localLocker) getKeyLock(key string) chan struct{} {
	l.mapMu.Lock()
	defer l.mapMu.Unlock()

	mu, ok := l.muMap[key]
	if !ok {
		mu = make(chan struct{}, 1)
		l.muMap[key] = mu
	}
	return mu
}

// Lock implements KeyLocker.
func (l *localLocker) Lock(ctx context.Context, keys ...string) (func(), error) {
	keys = SortKeys(keys)
	held := []chan struct{}{}

	release := func() {
		for i := len(held) - 1; i >= 0; i-- {
			<-held[i]
		}
	}

	for _, key := range keys {
		mu := l.getKeyLock(key)
		select {
		case mu <- struct{}{}:
			held = append(held, mu)
		case <-ctx.Done():
			release()
			return func() {}, &ConflictError{Keys: keys, Err: ctx.Err()}
		}
	}

	return release, nil
}
