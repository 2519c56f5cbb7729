//go:generate go tool mockgen -source=webhook_controller.go -destination=webhook_controller_mock_test.go -package=webhook
package webhook

import (
	"bytes"
	"context"
	"errors"
	"io"
	"time"

	"github.com/DIMO-Network/messenger-webhook-api/internal/bodysource"
	"github.com/DIMO-Network/messenger-webhook-api/internal/services/dispatcher"
	"github.com/DIMO-Network/messenger-webhook-api/internal/services/secretstore"
	"github.com/DIMO-Network/messenger-webhook-api/internal/services/verifier"
	"github.com/DIMO-Network/server-garage/pkg/richerrors"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

type Verifier interface {
	Verify(ctx context.Context, req verifier.Request) (verifier.Result, error)
}

type Dispatcher interface {
	Handle(ctx context.Context, src bodysource.Source) (dispatcher.Response, error)
}

// WebhookController serves the Messenger webhook endpoints.
type WebhookController struct {
	verifier   Verifier
	dispatcher Dispatcher
	body       BodyOptions
}

// NewWebhookController creates a new WebhookController.
func NewWebhookController(v Verifier, d Dispatcher, body BodyOptions) *WebhookController {
	return &WebhookController{
		verifier:   v,
		dispatcher: d,
		body:       body,
	}
}

// VerifyWebhook godoc
// @Summary      Confirm the webhook subscription
// @Description  Echoes hub.challenge when hub.mode is "subscribe" and hub.verify_token matches the configured verify token.
// @Tags         Webhook
// @Produce      plain
// @Param        hub.mode          query  string  false  "Subscription mode, must be subscribe"
// @Param        hub.verify_token  query  string  false  "Verify token configured on the app"
// @Param        hub.challenge     query  string  true   "Value to echo back"
// @Success      200  {string}  string  "The challenge"
// @Failure      400  "hub.challenge missing"
// @Failure      403  "Verification denied"
// @Router       /webhook [get]
func (w *WebhookController) VerifyWebhook(c *fiber.Ctx) error {
	args := c.Context().QueryArgs()
	if !args.Has(QueryChallenge) {
		return richerrors.Error{
			ExternalMsg: "Missing " + QueryChallenge,
			Code:        fiber.StatusBadRequest,
		}
	}
	req := verifier.Request{
		Mode:      optionalArg(c, QueryMode),
		Token:     optionalArg(c, QueryVerifyToken),
		Challenge: string(args.Peek(QueryChallenge)),
	}

	logger := zerolog.Ctx(c.UserContext())
	res, err := w.verifier.Verify(c.UserContext(), req)
	if err != nil {
		var cfgErr *secretstore.ConfigurationError
		if errors.As(err, &cfgErr) {
			logger.Error().Err(err).Msg("Verify token unavailable, denying webhook verification")
		} else {
			logger.Warn().Err(err).Msg("Webhook verification denied")
		}
		return c.Status(fiber.StatusForbidden).Send(nil)
	}

	logger.Info().Msg("WEBHOOK_VERIFIED")
	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return c.Status(fiber.StatusOK).SendString(res.Challenge)
}

// ReceiveEvent godoc
// @Summary      Receive a batch of messaging events
// @Description  Acknowledges page event batches with EVENT_RECEIVED. Batches for other objects are rejected with 404.
// @Tags         Webhook
// @Accept       json
// @Produce      plain
// @Param        request  body  messaging.EventBatch  true  "Event batch"
// @Success      200  {string}  string  "EVENT_RECEIVED"
// @Failure      400  "Malformed event payload"
// @Failure      404  "Not a page subscription"
// @Failure      413  "Event payload too large"
// @Router       /webhook [post]
func (w *WebhookController) ReceiveEvent(c *fiber.Ctx) error {
	ctx := c.UserContext()
	if w.body.ReadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.body.ReadTimeout)
		defer cancel()
	}

	src, err := w.bodySource(c)
	if err != nil {
		return payloadError(err)
	}

	resp, err := w.dispatcher.Handle(ctx, src)
	if err != nil {
		if w.body.Stream {
			// Part of the body may still be unread.
			c.Context().SetConnectionClose()
		}
		return payloadError(err)
	}

	c.Status(resp.Status)
	if resp.Body == "" {
		return c.Send(nil)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return c.SendString(resp.Body)
}

// bodySource picks the body strategy. When streaming, the raw request stream
// is handed over undecoded; otherwise the body fiber already buffered is
// decoded here.
func (w *WebhookController) bodySource(c *fiber.Ctx) (bodysource.Source, error) {
	if w.body.Stream {
		var r io.Reader = c.Context().RequestBodyStream()
		if r == nil {
			r = bytes.NewReader(c.Body())
		}
		return bodysource.NewStream(r, w.body.MaxBytes), nil
	}
	batch, err := bodysource.Parse(c.Body())
	if err != nil {
		return nil, err
	}
	return bodysource.NewDecoded(batch), nil
}

func payloadError(err error) error {
	var payloadErr *bodysource.PayloadError
	if !errors.As(err, &payloadErr) {
		return richerrors.Error{
			ExternalMsg: "Failed to process event",
			Err:         err,
			Code:        fiber.StatusInternalServerError,
		}
	}
	code := fiber.StatusBadRequest
	msg := "Invalid event payload"
	switch payloadErr.Stage {
	case bodysource.StageTooLarge:
		code = fiber.StatusRequestEntityTooLarge
		msg = "Event payload too large"
	case bodysource.StageCanceled:
		code = fiber.StatusRequestTimeout
		msg = "Event payload not received in time"
	}
	return richerrors.Error{
		ExternalMsg: msg,
		Err:         err,
		Code:        code,
	}
}

func optionalArg(c *fiber.Ctx, key string) *string {
	args := c.Context().QueryArgs()
	if !args.Has(key) {
		return nil
	}
	v := string(args.Peek(key))
	return &v
}

// BodyOptions selects and bounds the POST /webhook body strategy.
type BodyOptions struct {
	// Stream reads the raw request body stream instead of the buffered body.
	Stream bool
	// MaxBytes caps a streamed body. Zero means no limit.
	MaxBytes int64
	// ReadTimeout bounds acquiring and dispatching a body. Zero means no limit.
	ReadTimeout time.Duration
}
