package providers

import (
	"context"
	"io"
)

// Transcriber converts speech to text.
type Transcriber interface {
	Transcribe(ctx context.Context, filename string, audio io.Reader) (string, error)
}
