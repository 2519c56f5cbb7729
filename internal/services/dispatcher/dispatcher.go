//go:generate go tool mockgen -source=dispatcher.go -destination=dispatcher_mock_test.go -package=dispatcher
package dispatcher

import (
	"context"
	"fmt"
	"net/http"

	"github.com/DIMO-Network/messenger-webhook-api/internal/bodysource"
	"github.com/DIMO-Network/messenger-webhook-api/internal/messaging"
	"github.com/rs/zerolog"
)

const (
	// AckBody is the fixed body returned for every accepted page batch.
	AckBody = "EVENT_RECEIVED"

	// EventsReadPerEntry is how many messaging events are read from each entry.
	// The platform delivers one event per entry in practice; any further
	// events in the same entry are ignored.
	EventsReadPerEntry = 1
)

// Kind classifies a dispatch outcome.
type Kind string

const (
	Accepted      Kind = "accepted"
	NotApplicable Kind = "not_applicable"
)

// Response is the transport independent result of a dispatch.
type Response struct {
	Kind   Kind
	Status int
	Body   string
}

// Observation is what the dispatcher records for one messaging event.
type Observation struct {
	EntryIndex int
	PSID       string
	Text       string
	MessageID  string
	Seq        int64
}

// Sink receives observations. Errors are logged and never change the response.
type Sink interface {
	Record(ctx context.Context, obs Observation) error
}

// Dispatcher acknowledges event batches and records what they contained.
type Dispatcher struct {
	sink Sink
}

// New creates a Dispatcher recording to sink.
func New(sink Sink) *Dispatcher {
	return &Dispatcher{sink: sink}
}

// Handle acquires the batch from src and dispatches it.
// Acquisition failures are returned as errors and nothing is dispatched.
func (d *Dispatcher) Handle(ctx context.Context, src bodysource.Source) (Response, error) {
	batch, err := src.Batch(ctx)
	if err != nil {
		return Response{}, fmt.Errorf("failed to acquire event batch: %w", err)
	}
	return d.Dispatch(ctx, batch), nil
}

// Dispatch returns NotApplicable for non page batches. For page batches it
// records the leading event of each entry and returns the fixed acknowledgment.
func (d *Dispatcher) Dispatch(ctx context.Context, batch *messaging.EventBatch) Response {
	if batch == nil || batch.Object != messaging.PageObject {
		return Response{Kind: NotApplicable, Status: http.StatusNotFound}
	}

	for i, entry := range batch.Entry {
		events := entry.Messaging[:min(len(entry.Messaging), EventsReadPerEntry)]
		for _, ev := range events {
			d.record(ctx, Observation{
				EntryIndex: i,
				PSID:       ev.Sender.ID,
				Text:       ev.Message.Text,
				MessageID:  ev.Message.MID,
				Seq:        ev.Message.Seq,
			})
		}
	}

	return Response{Kind: Accepted, Status: http.StatusOK, Body: AckBody}
}

func (d *Dispatcher) record(ctx context.Context, obs Observation) {
	if d.sink == nil {
		return
	}
	if err := d.sink.Record(ctx, obs); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Int("entry", obs.EntryIndex).Msg("Failed to record messaging event")
	}
}
