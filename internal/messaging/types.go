// Package messaging holds the wire model of a Messenger webhook event batch.
package messaging

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// PageObject is the object kind sent for page subscriptions.
const PageObject = "page"

// EventBatch is the body of a POST /webhook delivery.
type EventBatch struct {
	// Object is the subscription kind, "page" for Messenger.
	Object string `json:"object"`
	// Entry is the list of batched entries, in delivery order.
	Entry []Entry `json:"entry"`
}

// Entry groups the messaging events of one page.
type Entry struct {
	// ID is the page id. Accepted but not used.
	ID string `json:"id,omitempty"`
	// Time is the delivery time in epoch milliseconds. Accepted but not used.
	Time int64 `json:"time,omitempty"`
	// Messaging holds the events of this entry.
	Messaging []Event `json:"messaging"`
}

// Event is one messaging notification.
type Event struct {
	Sender    Sender  `json:"sender"`
	Recipient *Sender `json:"recipient,omitempty"`
	Timestamp int64   `json:"timestamp,omitempty"`
	Message   Message `json:"message"`
}

// Sender identifies a user by page-scoped id (PSID).
type Sender struct {
	ID string `json:"id"`
}

// Message is the message part of an event. The platform sends an object
// with mid, seq and text; older fixtures send the text as a bare string.
// Both forms decode into Message.
type Message struct {
	MID  string `json:"mid,omitempty"`
	Seq  int64  `json:"seq,omitempty"`
	Text string `json:"text"`
}

var errMissingField = errors.New("missing required field")

// UnmarshalJSON requires both the object and entry keys.
func (b *EventBatch) UnmarshalJSON(data []byte) error {
	var raw struct {
		Object *string  `json:"object"`
		Entry  *[]Entry `json:"entry"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Object == nil {
		return fmt.Errorf("%w: object", errMissingField)
	}
	if raw.Entry == nil {
		return fmt.Errorf("%w: entry", errMissingField)
	}
	b.Object = *raw.Object
	b.Entry = *raw.Entry
	return nil
}

// UnmarshalJSON requires the messaging key.
func (e *Entry) UnmarshalJSON(data []byte) error {
	type entryAlias Entry
	var raw struct {
		entryAlias
		Messaging *[]Event `json:"messaging"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Messaging == nil {
		return fmt.Errorf("%w: entry.messaging", errMissingField)
	}
	*e = Entry(raw.entryAlias)
	e.Messaging = *raw.Messaging
	return nil
}

// UnmarshalJSON requires the sender and message keys.
func (ev *Event) UnmarshalJSON(data []byte) error {
	type eventAlias Event
	var raw struct {
		eventAlias
		Sender  *Sender  `json:"sender"`
		Message *Message `json:"message"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Sender == nil {
		return fmt.Errorf("%w: messaging.sender", errMissingField)
	}
	if raw.Message == nil {
		return fmt.Errorf("%w: messaging.message", errMissingField)
	}
	*ev = Event(raw.eventAlias)
	ev.Sender = *raw.Sender
	ev.Message = *raw.Message
	return nil
}

// UnmarshalJSON requires the id key.
func (s *Sender) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID *string `json:"id"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.ID == nil {
		return fmt.Errorf("%w: sender.id", errMissingField)
	}
	s.ID = *raw.ID
	return nil
}

// UnmarshalJSON accepts either a bare string or a message object.
func (m *Message) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var text string
		if err := json.Unmarshal(trimmed, &text); err != nil {
			return err
		}
		*m = Message{Text: text}
		return nil
	}
	type messageAlias Message
	var raw messageAlias
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return err
	}
	*m = Message(raw)
	return nil
}
