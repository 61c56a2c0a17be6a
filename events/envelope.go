package events

import (
	"encoding/json"
	"time"

	"github.com/pdcgo/bookkeeping_service/ledger_core"
)

const EventNameHeader = "Ledger-Event"

func encodeEvent(name string, payload any, at time.Time) ([]byte, error) {
	return json.Marshal(&ledger_core.Event{
		Name:       name,
		Payload:    payload,
		OccurredAt: at.UTC(),
	})
}

// eventKey picks the id of the record an event is about, used as the
// partition key so events of one record stay ordered.
func eventKey(payload any) string {
	switch pay := payload.(type) {
	case *ledger_core.EntryEventPayload:
		return pay.ID
	case *ledger_core.BatchEventPayload:
		return pay.ID
	default:
		return ""
	}
}
