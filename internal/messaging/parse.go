package messaging

import (
	"encoding/json"
	"errors"
	"fmt"
	"unicode/utf8"
)

// ErrInvalidUTF8 is returned by Parse when the body is not valid UTF-8 text.
var ErrInvalidUTF8 = errors.New("body is not valid UTF-8")

// Parse decodes a raw webhook body into an EventBatch.
// The body must be valid UTF-8 and carry every required key.
func Parse(data []byte) (*EventBatch, error) {
	if !utf8.Valid(data) {
		return nil, ErrInvalidUTF8
	}
	var batch EventBatch
	if err := json.Unmarshal(data, &batch); err != nil {
		return nil, fmt.Errorf("failed to decode event batch: %w", err)
	}
	return &batch, nil
}
