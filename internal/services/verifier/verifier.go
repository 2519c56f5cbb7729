//go:generate go tool mockgen -source=verifier.go -destination=verifier_mock_test.go -package=verifier
package verifier

import (
	"context"
	"crypto/subtle"
	"fmt"
)

// SubscribeMode is the only hub.mode accepted by the handshake.
const SubscribeMode = "subscribe"

// ErrDenied is returned when a handshake does not prove ownership.
const ErrDenied = constError("webhook verification denied")

type constError string

func (e constError) Error() string {
	return string(e)
}

// SecretStore provides the current verify token.
type SecretStore interface {
	Load(ctx context.Context) (string, error)
}

// Request carries the hub.* query parameters of a handshake.
// Mode and Token are nil when the parameter was absent.
type Request struct {
	Mode      *string
	Token     *string
	Challenge string
}

// Result is a successful handshake.
type Result struct {
	Challenge string
}

// Verifier checks subscription handshakes against the verify token.
type Verifier struct {
	secrets SecretStore
}

// New creates a Verifier reading the token from secrets on every call.
func New(secrets SecretStore) *Verifier {
	return &Verifier{secrets: secrets}
}

// Verify returns the challenge to echo when mode is "subscribe" and the token
// matches the stored secret. Every other outcome wraps ErrDenied, including a
// secret that cannot be loaded.
func (v *Verifier) Verify(ctx context.Context, req Request) (Result, error) {
	if req.Mode == nil || req.Token == nil {
		return Result{}, fmt.Errorf("%w: missing hub.mode or hub.verify_token", ErrDenied)
	}
	secret, err := v.secrets.Load(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrDenied, err)
	}
	if *req.Mode != SubscribeMode {
		return Result{}, fmt.Errorf("%w: unsupported mode %q", ErrDenied, *req.Mode)
	}
	if subtle.ConstantTimeCompare([]byte(*req.Token), []byte(secret)) != 1 {
		return Result{}, fmt.Errorf("%w: token mismatch", ErrDenied)
	}
	return Result{Challenge: req.Challenge}, nil
}
