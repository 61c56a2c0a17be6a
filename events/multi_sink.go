package events

import (
	"context"
	"errors"

	"github.com/pdcgo/bookkeeping_service/ledger_core"
)

type multiSink []ledger_core.EventSink

// NewMultiSink fans an event out to every sink. A failing sink does not stop
// the others; the failures are joined.
func NewMultiSink(sinks ...ledger_core.EventSink) ledger_core.EventSink {
	return multiSink(sinks)
}

// Emit implements ledger_core.EventSink.
func (m multiSink) Emit(ctx context.Context, name string, payload any) error {
	var errs []error
	for _, sink := range m {
		err := sink.Emit(ctx, name, payload)
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
