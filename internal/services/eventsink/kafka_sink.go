package eventsink

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/DIMO-Network/cloudevent"
	"github.com/DIMO-Network/messenger-webhook-api/internal/services/dispatcher"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

const (
	// MessageEventType is the CloudEvent type of published observations.
	MessageEventType   = "messenger.message"
	messageDataVersion = "messenger.message/v1.0"
)

// PartitionKeyMetadata is the watermill metadata key holding the Kafka partition key.
const PartitionKeyMetadata = "partition_key"

// MessageEvent is the CloudEvent payload published for an observation.
type MessageEvent struct {
	EntryIndex int    `json:"entryIndex"`
	SenderPSID string `json:"senderPsid"`
	MessageID  string `json:"messageId,omitempty"`
	Seq        int64  `json:"seq,omitempty"`
	Text       string `json:"text"`
}

// Publisher is the subset of a watermill publisher the sink needs.
type Publisher interface {
	Publish(topic string, messages ...*message.Message) error
}

// KafkaSink publishes each observation as a CloudEvent.
type KafkaSink struct {
	publisher Publisher
	topic     string
	source    string
	now       func() time.Time
}

// NewKafkaSink creates a KafkaSink publishing to topic. source becomes the
// CloudEvent source, usually the service name.
func NewKafkaSink(publisher Publisher, topic, source string) *KafkaSink {
	return &KafkaSink{
		publisher: publisher,
		topic:     topic,
		source:    source,
		now:       time.Now,
	}
}

func (k *KafkaSink) Record(ctx context.Context, obs dispatcher.Observation) error {
	event := cloudevent.CloudEvent[MessageEvent]{
		CloudEventHeader: cloudevent.CloudEventHeader{
			ID:              uuid.New().String(),
			Source:          k.source,
			Subject:         obs.PSID,
			Time:            k.now().UTC(),
			DataContentType: "application/json",
			DataVersion:     messageDataVersion,
			Type:            MessageEventType,
			SpecVersion:     "1.0",
		},
		Data: MessageEvent{
			EntryIndex: obs.EntryIndex,
			SenderPSID: obs.PSID,
			MessageID:  obs.MessageID,
			Seq:        obs.Seq,
			Text:       obs.Text,
		},
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal message event: %w", err)
	}

	msg := message.NewMessage(event.ID, payload)
	msg.SetContext(ctx)
	// Partition by sender so a user's messages stay ordered.
	msg.Metadata.Set(PartitionKeyMetadata, obs.PSID)

	if err := k.publisher.Publish(k.topic, msg); err != nil {
		return fmt.Errorf("failed to publish message event to %s: %w", k.topic, err)
	}
	return nil
}
