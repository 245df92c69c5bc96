// Package transport holds helpers shared by the upload transports: storage
// key generation, public URL construction and per-attempt timeouts.
package transport

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophattach/internal/media"
	"github.com/dmitrijs2005/gophattach/internal/upload"
	"github.com/google/uuid"
)

// Kinds accepted by the configuration.
const (
	KindS3    = "s3"
	KindMinio = "minio"
	KindREST  = "http"
)

var now = time.Now

// ObjectKey returns a fresh storage key for f, laid out by upload date. The
// original extension is kept so the object is served with a usable name.
func ObjectKey(prefix string, f media.File) string {
	d := now()
	key := fmt.Sprintf("%d/%02d/%02d/%v%s", d.Year(), d.Month(), d.Day(), uuid.New(), strings.ToLower(path.Ext(f.Name)))
	if prefix = strings.Trim(prefix, "/"); prefix != "" {
		key = prefix + "/" + key
	}
	return key
}

// ObjectURL builds the durable URL of key. With a public base URL the key is
// appended to it, otherwise a path-style URL on the storage endpoint is used.
func ObjectURL(publicBaseURL, endpoint, bucket, key string) (string, error) {
	if publicBaseURL != "" {
		return joinURL(publicBaseURL, key)
	}
	if endpoint == "" {
		return "", fmt.Errorf("no public base url or endpoint to build object url")
	}
	return joinURL(endpoint, bucket, key)
}

func joinURL(base string, elems ...string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid base url %q: %w", base, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("invalid base url %q: scheme and host required", base)
	}
	return u.JoinPath(elems...).String(), nil
}

// WithTimeout bounds every Send of t by d. A non-positive d returns t as is.
func WithTimeout(t upload.Transport, d time.Duration) upload.Transport {
	if d <= 0 {
		return t
	}
	return upload.TransportFunc(func(ctx context.Context, f media.File, onProgress upload.ProgressFunc) (string, error) {
		ctx, cancel := context.WithTimeout(ctx, d)
		defer cancel()
		return t.Send(ctx, f, onProgress)
	})
}
