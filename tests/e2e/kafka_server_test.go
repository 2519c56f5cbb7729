package e2e_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/testcontainers/testcontainers-go/modules/kafka"
)

type mockKafkaServer struct {
	container *kafka.KafkaContainer
	client    sarama.Client
}

func setupMockKafkaServer(t *testing.T) *mockKafkaServer {
	t.Helper()

	ctx := context.Background()

	kafkaContainer, err := kafka.Run(ctx,
		"confluentinc/confluent-local:7.5.0",
		kafka.WithClusterID("test-cluster"),
	)
	if err != nil {
		t.Fatalf("Failed to start Kafka container: %v", err)
	}

	brokers, err := kafkaContainer.Brokers(ctx)
	if err != nil {
		t.Fatalf("Failed to get Kafka brokers: %v", err)
	}

	config := sarama.NewConfig()
	config.Version = sarama.V2_8_1_0
	config.Consumer.Offsets.Initial = sarama.OffsetOldest
	config.Consumer.Return.Errors = true

	client, err := sarama.NewClient(brokers, config)
	if err != nil {
		t.Fatalf("Failed to create Kafka client: %v", err)
	}

	return &mockKafkaServer{
		container: kafkaContainer,
		client:    client,
	}
}

// WaitForMessages reads topic from the oldest offset until want messages
// arrived or timeout elapsed, and returns what was read.
func (m *mockKafkaServer) WaitForMessages(t *testing.T, topic string, want int, timeout time.Duration) []*sarama.ConsumerMessage {
	t.Helper()
	deadline := time.Now().Add(timeout)

	// The topic is created by the first publish, so wait for its partitions.
	var partitions []int32
	for {
		_ = m.client.RefreshMetadata(topic)
		var err error
		partitions, err = m.client.Partitions(topic)
		if err == nil && len(partitions) > 0 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("Topic %s was not created in time: %v", topic, err)
		}
		time.Sleep(200 * time.Millisecond)
	}

	consumer, err := sarama.NewConsumerFromClient(m.client)
	if err != nil {
		t.Fatalf("Failed to create consumer: %v", err)
	}
	defer consumer.Close() //nolint:errcheck

	received := make(chan *sarama.ConsumerMessage)
	for _, partition := range partitions {
		pc, err := consumer.ConsumePartition(topic, partition, sarama.OffsetOldest)
		if err != nil {
			t.Fatalf("Failed to consume partition %d of %s: %v", partition, topic, err)
		}
		defer pc.AsyncClose()
		go func() {
			for msg := range pc.Messages() {
				select {
				case received <- msg:
				case <-time.After(time.Until(deadline)):
					return
				}
			}
		}()
	}

	var messages []*sarama.ConsumerMessage
	for len(messages) < want {
		select {
		case msg := <-received:
			messages = append(messages, msg)
		case <-time.After(time.Until(deadline)):
			return messages
		}
	}
	return messages
}

// GetBrokerAddress returns the first broker address as a string
func (m *mockKafkaServer) GetBrokerAddress(t *testing.T) string {
	brokers, err := m.container.Brokers(t.Context())
	if err != nil {
		t.Fatalf("Failed to get Kafka brokers: %v", err)
	}
	if len(brokers) > 0 {
		return brokers[0]
	}
	t.Fatalf("No brokers found")
	return ""
}

// Close closes the client and terminates the container
func (m *mockKafkaServer) Close() error {
	if m.client != nil {
		_ = m.client.Close()
	}
	if m.container != nil {
		if err := m.container.Terminate(context.Background()); err != nil {
			return fmt.Errorf("failed to terminate kafka container: %w", err)
		}
	}
	return nil
}
