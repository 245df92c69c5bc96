package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/gophattach/internal/config"
	"github.com/dmitrijs2005/gophattach/internal/transport"
	"github.com/dmitrijs2005/gophattach/internal/transport/miniostore"
	"github.com/dmitrijs2005/gophattach/internal/transport/rest"
	"github.com/dmitrijs2005/gophattach/internal/transport/s3store"
	"github.com/dmitrijs2005/gophattach/internal/upload"
)

// newTransport builds the transport selected by cfg.Transport, bounded by the
// configured upload timeout.
func newTransport(ctx context.Context, cfg *config.Config) (upload.Transport, error) {
	var (
		t   upload.Transport
		err error
	)

	switch cfg.Transport {
	case transport.KindS3:
		t, err = s3store.New(ctx, s3store.Options{
			Region:        cfg.S3Region,
			AccessKey:     cfg.S3AccessKey,
			SecretKey:     cfg.S3SecretKey,
			Bucket:        cfg.S3Bucket,
			BaseEndpoint:  cfg.S3BaseEndpoint,
			KeyPrefix:     cfg.KeyPrefix,
			PublicBaseURL: cfg.PublicBaseURL,
			HTTPClient:    http.DefaultClient,
		})
	case transport.KindMinio:
		t, err = miniostore.New(miniostore.Options{
			Endpoint:      cfg.S3BaseEndpoint,
			AccessKey:     cfg.S3AccessKey,
			SecretKey:     cfg.S3SecretKey,
			Region:        cfg.S3Region,
			UseSSL:        cfg.S3UseSSL,
			Bucket:        cfg.S3Bucket,
			KeyPrefix:     cfg.KeyPrefix,
			PublicBaseURL: cfg.PublicBaseURL,
		})
	case transport.KindREST:
		t = rest.New(rest.Options{Endpoint: cfg.HTTPEndpoint, AccessToken: cfg.HTTPAccessToken})
	default:
		return nil, fmt.Errorf("unknown transport %q", cfg.Transport)
	}
	if err != nil {
		return nil, fmt.Errorf("transport init error: %w", err)
	}

	return transport.WithTimeout(t, cfg.UploadTimeout), nil
}
