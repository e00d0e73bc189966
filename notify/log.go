// Package notify delivers committed program events to observers outside the
// ledger. Sinks run after commit; their failures never undo an operation.
package notify

import (
	"context"

	"supercollab/ledger"
	"supercollab/logutils"
)

// LogSink writes one structured log entry per event.
type LogSink struct{}

func (LogSink) Publish(_ context.Context, signature string, ev ledger.Event) error {
	logutils.Log.WithFields(logutils.Fields{
		"signature": signature,
		"event":     ev.EventName(),
		"payload":   ev,
	}).Info("program event")
	return nil
}
