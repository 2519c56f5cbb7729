package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	_ "github.com/DIMO-Network/messenger-webhook-api/docs" // Import Swagger docs
	"github.com/DIMO-Network/messenger-webhook-api/internal/config"
	"github.com/DIMO-Network/messenger-webhook-api/internal/controllers/webhook"
	"github.com/DIMO-Network/messenger-webhook-api/internal/kafka"
	"github.com/DIMO-Network/messenger-webhook-api/internal/services/dispatcher"
	"github.com/DIMO-Network/messenger-webhook-api/internal/services/eventsink"
	"github.com/DIMO-Network/messenger-webhook-api/internal/services/secretstore"
	"github.com/DIMO-Network/messenger-webhook-api/internal/services/verifier"
	"github.com/DIMO-Network/server-garage/pkg/fibercommon"
	"github.com/IBM/sarama"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

// metricsSink is shared by every app in the process since its collectors
// live in the default registry.
var metricsSink = sync.OnceValue(func() *eventsink.MetricsSink {
	return eventsink.NewMetricsSink(prometheus.DefaultRegisterer)
})

func CreateServers(ctx context.Context, settings *config.Settings, logger zerolog.Logger) (*fiber.App, error) {
	secrets := newSecretStore(settings)
	if _, err := secrets.Load(ctx); err != nil {
		// Requests are denied until the token file is fixed; the server still starts.
		var cfgErr *secretstore.ConfigurationError
		if errors.As(err, &cfgErr) {
			logger.Warn().Err(err).Str("path", cfgErr.Path).Msg("Verify token is not readable yet")
		}
	}

	sink, err := createSink(ctx, settings, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create event sink: %w", err)
	}

	app := CreateFiberApp(logger, verifier.New(secrets), dispatcher.New(sink), settings)
	return app, nil
}

// CreateFiberApp sets up the middleware and routes of the webhook server.
func CreateFiberApp(logger zerolog.Logger, v webhook.Verifier, d webhook.Dispatcher, settings *config.Settings) *fiber.App {
	logger.Info().Bool("streamBody", settings.Debug).Msg("Starting Messenger Webhook API...")

	app := fiber.New(fiberConfig(settings))
	useMiddleware(app, settings)

	if settings.EnableSwagger {
		app.Get("/swagger/*", swagger.HandlerDefault)
	}

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Hello world!")
	})

	webhookController := webhook.NewWebhookController(v, d, webhook.BodyOptions{
		Stream:      settings.Debug,
		MaxBytes:    int64(settings.MaxBodySize),
		ReadTimeout: settings.BodyReadTimeout,
	})
	app.Get("/webhook", webhookController.VerifyWebhook)
	app.Post("/webhook", webhookController.ReceiveEvent)

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).Send(nil)
	})

	return app
}

func fiberConfig(settings *config.Settings) fiber.Config {
	cfg := fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return fibercommon.ErrorHandler(c, err)
		},
		DisableStartupMessage: true,
		BodyLimit:             settings.MaxBodySize,
		StreamRequestBody:     settings.Debug,
	}
	if settings.Debug {
		// Streamed bodies are read from the connection inside the handler, so
		// the connection deadline is what releases a read from a stalled client.
		cfg.ReadTimeout = settings.BodyReadTimeout
	}
	return cfg
}

// useMiddleware installs the shared middleware. The access log wraps recover
// so a panicking request is still logged and counted as a 500.
func useMiddleware(app *fiber.App, settings *config.Settings) {
	app.Use(requestid.New())
	app.Use(fibercommon.ContextLoggerMiddleware)
	app.Use(accessLogMiddleware)
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{AllowOrigins: settings.CORSAllowOrigins}))
}

func newSecretStore(settings *config.Settings) verifier.SecretStore {
	file := secretstore.NewFileStore(settings.VerifyTokenFile)
	if settings.SecretCacheTTL > 0 {
		return secretstore.NewCachedStore(file, settings.SecretCacheTTL)
	}
	return file
}

// createSink always logs and counts observations, and publishes them to Kafka
// when brokers are configured. The publisher is closed when ctx is done.
func createSink(ctx context.Context, settings *config.Settings, logger zerolog.Logger) (dispatcher.Sink, error) {
	sinks := eventsink.Multi{eventsink.NewLogSink(logger), metricsSink()}
	if !settings.KafkaEnabled() {
		return sinks, nil
	}

	clusterConfig := sarama.NewConfig()
	clusterConfig.Version = sarama.V2_8_1_0
	clusterConfig.Producer.RequiredAcks = sarama.WaitForAll
	clusterConfig.Producer.Retry.Max = 3

	publisher, err := kafka.NewPublisher(&kafka.Config{
		ClusterConfig:        clusterConfig,
		BrokerAddresses:      strings.Split(settings.KafkaBrokers, ","),
		PartitionKeyMetadata: eventsink.PartitionKeyMetadata,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create message events publisher: %w", err)
	}
	go func() {
		<-ctx.Done()
		if err := publisher.Close(); err != nil {
			logger.Error().Err(err).Msg("Failed to close message events publisher")
		}
	}()

	logger.Info().Str("topic", settings.MessageEventsTopic).Msg("Publishing messaging events to Kafka")
	return append(sinks, eventsink.NewKafkaSink(publisher, settings.MessageEventsTopic, settings.ServiceName)), nil
}
