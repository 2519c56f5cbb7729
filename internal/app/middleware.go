package app

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "messenger_webhook",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status.",
		},
		[]string{"route", "method", "status"},
	)
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "messenger_webhook",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and method.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
)

// accessLogMiddleware logs one line per request and records request metrics.
// Handler errors are rendered here so the logged status is the one sent.
func accessLogMiddleware(c *fiber.Ctx) error {
	start := time.Now()

	if err := c.Next(); err != nil {
		if hErr := c.App().ErrorHandler(c, err); hErr != nil {
			_ = c.SendStatus(fiber.StatusInternalServerError)
		}
	}

	status := c.Response().StatusCode()
	route := c.Route().Path
	elapsed := time.Since(start)

	httpRequestsTotal.WithLabelValues(route, c.Method(), strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(route, c.Method()).Observe(elapsed.Seconds())

	logger := zerolog.Ctx(c.UserContext())
	var event *zerolog.Event
	switch {
	case status >= fiber.StatusInternalServerError:
		event = logger.Error()
	case status >= fiber.StatusBadRequest:
		event = logger.Warn()
	default:
		event = logger.Info()
	}
	event.
		Str("method", c.Method()).
		Str("path", c.Path()).
		Int("status", status).
		Dur("latency", elapsed).
		Str("remoteAddr", c.IP()).
		Str("userAgent", c.Get(fiber.HeaderUserAgent)).
		Str("requestId", c.GetRespHeader(fiber.HeaderXRequestID)).
		Msg("Request handled")
	return nil
}
