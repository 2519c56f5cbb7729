// Package eventsink holds the destinations for messaging events observed by
// the dispatcher.
package eventsink

import (
	"context"
	"errors"

	"github.com/DIMO-Network/messenger-webhook-api/internal/services/dispatcher"
	"github.com/rs/zerolog"
)

// LogSink writes each observation as a structured log line.
type LogSink struct {
	logger zerolog.Logger
}

// NewLogSink creates a LogSink. The request logger found on the context takes
// precedence over logger so request fields are kept.
func NewLogSink(logger zerolog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (l *LogSink) Record(ctx context.Context, obs dispatcher.Observation) error {
	logger := &l.logger
	if ctxLogger := zerolog.Ctx(ctx); ctxLogger.GetLevel() != zerolog.Disabled {
		logger = ctxLogger
	}
	logger.Info().
		Int("entry", obs.EntryIndex).
		Str("senderPsid", obs.PSID).
		Str("messageId", obs.MessageID).
		Int64("seq", obs.Seq).
		Str("text", obs.Text).
		Msg("Messaging event received")
	return nil
}

// Multi fans an observation out to every sink and joins their errors.
type Multi []dispatcher.Sink

func (m Multi) Record(ctx context.Context, obs dispatcher.Observation) error {
	var errs []error
	for _, sink := range m {
		if err := sink.Record(ctx, obs); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
