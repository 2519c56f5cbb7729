package kafka

import (
	"fmt"

	"github.com/IBM/sarama"
	"github.com/ThreeDotsLabs/watermill"
	wm_kafka "github.com/ThreeDotsLabs/watermill-kafka/v3/pkg/kafka"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/rs/zerolog"
)

type Config struct {
	ClusterConfig   *sarama.Config
	BrokerAddresses []string
	// PartitionKeyMetadata names the message metadata used as the Kafka key.
	// Empty means messages are published without a key.
	PartitionKeyMetadata string
}

// NewPublisher creates a synchronous watermill Kafka publisher.
func NewPublisher(cfg *Config, logger zerolog.Logger) (*wm_kafka.Publisher, error) {
	saramaPublisherConfig := wm_kafka.DefaultSaramaSyncPublisherConfig()
	if cfg.ClusterConfig != nil {
		saramaPublisherConfig.Version = cfg.ClusterConfig.Version
		saramaPublisherConfig.Producer.RequiredAcks = cfg.ClusterConfig.Producer.RequiredAcks
		saramaPublisherConfig.Producer.Retry.Max = cfg.ClusterConfig.Producer.Retry.Max
	}

	var marshaler wm_kafka.Marshaler = wm_kafka.DefaultMarshaler{}
	if cfg.PartitionKeyMetadata != "" {
		key := cfg.PartitionKeyMetadata
		marshaler = wm_kafka.NewWithPartitioningMarshaler(func(_ string, msg *message.Message) (string, error) {
			return msg.Metadata.Get(key), nil
		})
	}

	publisher, err := wm_kafka.NewPublisher(
		wm_kafka.PublisherConfig{
			Brokers:               cfg.BrokerAddresses,
			Marshaler:             marshaler,
			OverwriteSaramaConfig: saramaPublisherConfig,
		},
		NewLoggerAdapter(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka publisher: %w", err)
	}
	return publisher, nil
}

// LoggerAdapter routes watermill logs to zerolog.
type LoggerAdapter struct {
	logger zerolog.Logger
}

// NewLoggerAdapter creates a watermill.LoggerAdapter backed by logger.
func NewLoggerAdapter(logger zerolog.Logger) *LoggerAdapter {
	return &LoggerAdapter{logger: logger.With().Str("component", "watermill").Logger()}
}

func (l *LoggerAdapter) Error(msg string, err error, fields watermill.LogFields) {
	l.logger.Error().Err(err).Fields(map[string]any(fields)).Msg(msg)
}

func (l *LoggerAdapter) Info(msg string, fields watermill.LogFields) {
	l.logger.Info().Fields(map[string]any(fields)).Msg(msg)
}

func (l *LoggerAdapter) Debug(msg string, fields watermill.LogFields) {
	l.logger.Debug().Fields(map[string]any(fields)).Msg(msg)
}

func (l *LoggerAdapter) Trace(msg string, fields watermill.LogFields) {
	l.logger.Trace().Fields(map[string]any(fields)).Msg(msg)
}

func (l *LoggerAdapter) With(fields watermill.LogFields) watermill.LoggerAdapter {
	return &LoggerAdapter{logger: l.logger.With().Fields(map[string]any(fields)).Logger()}
}
