package upload

import (
	"context"

	"github.com/dmitrijs2005/gophattach/internal/media"
)

// ProgressFunc receives upload progress as a percentage in [0, 100].
type ProgressFunc func(percent int)

// Transport moves the bytes of one file to durable storage and returns the
// URL it can be fetched from. A single Send is one atomic attempt: it either
// returns a URL or an error carrying a human-readable message. Timeouts are
// the transport's concern and surface as ordinary errors.
type Transport interface {
	Send(ctx context.Context, f media.File, onProgress ProgressFunc) (string, error)
}

// TransportFunc adapts a function to the Transport interface.
type TransportFunc func(ctx context.Context, f media.File, onProgress ProgressFunc) (string, error)

func (fn TransportFunc) Send(ctx context.Context, f media.File, onProgress ProgressFunc) (string, error) {
	return fn(ctx, f, onProgress)
}
