package ledger_mock

import (
	"context"
	"sync"
	"time"

	"github.com/pdcgo/bookkeeping_service/ledger_core"
)

type RecordingSink struct {
	sync.Mutex
	events []*ledger_core.Event
}

func NewRecordingSink() *RecordingSink {
	return &RecordingSink{
		events: []*ledger_core.Event{},
	}
}

// Emit implements ledger_core.EventSink.
func (r *RecordingSink) Emit(ctx context.Context, name string, payload any) error {
	r.Lock()
	defer r.Unlock()

	r.events = append(r.events, &ledger_core.Event{
		Name:       name,
		Payload:    payload,
		OccurredAt: time.Now(),
	})
	return nil
}

func (r *RecordingSink) Events() []*ledger_core.Event {
	r.Lock()
	defer r.Unlock()

	result := make([]*ledger_core.Event, len(r.events))
	copy(result, r.events)
	return result
}

func (r *RecordingSink) Names() []string {
	names := []string{}
	for _, ev := range r.Events() {
		names = append(names, ev.Name)
	}
	return names
}

func (r *RecordingSink) Reset() {
	r.Lock()
	defer r.Unlock()

	r.events = []*ledger_core.Event{}
}

// Clock is a settable time source for ledger_core.WithClock.
type Clock struct {
	sync.Mutex
	t time.Time
}

func NewClock(t time.Time) *Clock {
	return &Clock{t: t}
}

func (c *Clock) Now() time.Time {
	c.Lock()
	defer c.Unlock()

	return c.t
}

func (c *Clock) Set(t time.Time) {
	c.Lock()
	defer c.Unlock()

	c.t = t
}

func (c *Clock) Advance(d time.Duration) {
	c.Lock()
	defer c.Unlock()

	c.t = c.t.Add(d)
}
