package config

import "time"

// Settings contains the application config
type Settings struct {
	Port        int    `env:"PORT" envDefault:"8080"`
	MonPort     int    `env:"MON_PORT" envDefault:"8888"`
	EnablePprof bool   `env:"ENABLE_PPROF"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	ServiceName string `env:"SERVICE_NAME" envDefault:"messenger-webhook-api"`

	// Debug switches POST /webhook to the streamed body strategy.
	Debug bool `env:"DEBUG"`

	VerifyTokenFile string        `env:"VERIFY_TOKEN_FILE" envDefault:"verify_token"`
	SecretCacheTTL  time.Duration `env:"SECRET_CACHE_TTL"`

	MaxBodySize     int           `env:"MAX_BODY_SIZE" envDefault:"1048576"`
	BodyReadTimeout time.Duration `env:"BODY_READ_TIMEOUT" envDefault:"10s"`

	CORSAllowOrigins string `env:"CORS_ALLOW_ORIGINS" envDefault:"*"`
	EnableSwagger    bool   `env:"ENABLE_SWAGGER"`

	KafkaBrokers       string `env:"KAFKA_BROKERS"`
	MessageEventsTopic string `env:"MESSAGE_EVENTS_TOPIC" envDefault:"topic.messenger.events"`
}

// KafkaEnabled reports whether observations should also be published to Kafka.
func (s *Settings) KafkaEnabled() bool {
	return s.KafkaBrokers != "" && s.MessageEventsTopic != ""
}
