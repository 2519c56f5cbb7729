// Package bodysource provides the ways a POST /webhook handler obtains the
// decoded event batch. Whether the server buffered and decoded the body up
// front or the handler reads the raw stream itself, callers see a Source.
package bodysource

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"

	"github.com/DIMO-Network/messenger-webhook-api/internal/messaging"
)

// Source yields a decoded event batch, possibly after reading a request body.
type Source interface {
	Batch(ctx context.Context) (*messaging.EventBatch, error)
}

// Stage names the step at which body acquisition failed.
type Stage string

const (
	StageRead     Stage = "read"
	StageTooLarge Stage = "too_large"
	StageCanceled Stage = "canceled"
	StageUTF8     Stage = "utf8"
	StageDecode   Stage = "decode"
)

// PayloadError reports an event body that could not be turned into a batch.
type PayloadError struct {
	Stage Stage
	Err   error
}

func (e *PayloadError) Error() string {
	return fmt.Sprintf("invalid event payload (%s): %v", e.Stage, e.Err)
}

func (e *PayloadError) Unwrap() error {
	return e.Err
}

// Parse decodes a fully buffered body, wrapping failures in a PayloadError.
func Parse(data []byte) (*messaging.EventBatch, error) {
	batch, err := messaging.Parse(data)
	if err != nil {
		stage := StageDecode
		if errors.Is(err, messaging.ErrInvalidUTF8) {
			stage = StageUTF8
		}
		return nil, &PayloadError{Stage: stage, Err: err}
	}
	return batch, nil
}

// Decoded is a batch the hosting layer already decoded.
type Decoded struct {
	batch *messaging.EventBatch
}

// NewDecoded wraps an already decoded batch.
func NewDecoded(batch *messaging.EventBatch) *Decoded {
	return &Decoded{batch: batch}
}

// Batch returns the wrapped batch.
func (d *Decoded) Batch(context.Context) (*messaging.EventBatch, error) {
	return d.batch, nil
}

const defaultChunkSize = 4 << 10

// Stream reads the raw body from r in chunks before decoding it.
type Stream struct {
	r         io.Reader
	maxBytes  int64
	chunkSize int
}

// NewStream creates a Stream over r. A maxBytes of zero or less disables the size limit.
func NewStream(r io.Reader, maxBytes int64) *Stream {
	return &Stream{r: r, maxBytes: maxBytes, chunkSize: defaultChunkSize}
}

// Batch reads r to EOF, then validates and decodes the collected bytes.
// Cancellation of ctx is observed while a read is blocked as well as between
// chunks. An abandoned read keeps running in the background until r returns,
// so r must be released by its owner, e.g. through a connection deadline.
func (s *Stream) Batch(ctx context.Context) (*messaging.EventBatch, error) {
	data, err := s.collect(ctx)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

type chunkResult struct {
	data []byte
	err  error
}

func (s *Stream) collect(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, &PayloadError{Stage: StageCanceled, Err: err}
	}

	chunks := make(chan chunkResult)
	stop := make(chan struct{})
	defer close(stop)
	go s.readChunks(chunks, stop)

	var buf bytes.Buffer
	for {
		if err := ctx.Err(); err != nil {
			return nil, &PayloadError{Stage: StageCanceled, Err: err}
		}
		var res chunkResult
		select {
		case <-ctx.Done():
			return nil, &PayloadError{Stage: StageCanceled, Err: ctx.Err()}
		case res = <-chunks:
		}
		if len(res.data) > 0 {
			if s.maxBytes > 0 && int64(buf.Len()+len(res.data)) > s.maxBytes {
				return nil, &PayloadError{
					Stage: StageTooLarge,
					Err:   fmt.Errorf("body exceeds %d bytes", s.maxBytes),
				}
			}
			buf.Write(res.data)
		}
		if errors.Is(res.err, io.EOF) {
			return buf.Bytes(), nil
		}
		if res.err != nil {
			return nil, &PayloadError{Stage: readStage(res.err), Err: res.err}
		}
	}
}

// readChunks reads r until it fails, handing each chunk to collect. It stops
// as soon as collect has returned.
func (s *Stream) readChunks(chunks chan<- chunkResult, stop <-chan struct{}) {
	for {
		chunk := make([]byte, s.chunkSize)
		n, err := s.r.Read(chunk)
		select {
		case chunks <- chunkResult{data: chunk[:n], err: err}:
		case <-stop:
			return
		}
		if err != nil {
			return
		}
	}
}

// readStage treats a read that hit a connection deadline like a timed out context.
func readStage(err error) Stage {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return StageCanceled
	}
	return StageRead
}
