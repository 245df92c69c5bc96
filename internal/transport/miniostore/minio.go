// Package miniostore uploads files to a MinIO (or any S3-compatible) bucket
// with the minio-go client.
package miniostore

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/dmitrijs2005/gophattach/internal/media"
	"github.com/dmitrijs2005/gophattach/internal/netx"
	"github.com/dmitrijs2005/gophattach/internal/transport"
	"github.com/dmitrijs2005/gophattach/internal/upload"
)

type objectPutter interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	EndpointURL() *url.URL
}

var newMinioClient = func(endpoint string, opts *minio.Options) (objectPutter, error) {
	return minio.New(endpoint, opts)
}

type Options struct {
	// Endpoint is host[:port]. An http:// or https:// scheme is accepted
	// and https turns TLS on.
	Endpoint      string
	AccessKey     string
	SecretKey     string
	Region        string
	UseSSL        bool
	Bucket        string
	KeyPrefix     string
	PublicBaseURL string
}

type Transport struct {
	opts   Options
	client objectPutter
}

func New(opts Options) (*Transport, error) {
	endpoint, secure := splitEndpoint(opts.Endpoint)
	client, err := newMinioClient(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL || secure,
		Region: opts.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}
	return &Transport{opts: opts, client: client}, nil
}

// splitEndpoint reduces an endpoint URL to the host[:port] minio-go expects.
func splitEndpoint(endpoint string) (host string, secure bool) {
	host = strings.TrimSpace(endpoint)
	if rest, ok := strings.CutPrefix(host, "https://"); ok {
		host, secure = rest, true
	} else {
		host = strings.TrimPrefix(host, "http://")
	}
	host, _, _ = strings.Cut(host, "/")
	return host, secure
}

func (t *Transport) Send(ctx context.Context, f media.File, onProgress upload.ProgressFunc) (string, error) {
	key := transport.ObjectKey(t.opts.KeyPrefix, f)
	size := int64(len(f.Data))

	_, err := t.client.PutObject(ctx, t.opts.Bucket, key, f.Reader(), size, minio.PutObjectOptions{
		ContentType: f.Type,
		Progress:    netx.NewProgressReader(nil, size, onProgress),
	})
	if err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("upload canceled: %w", ctx.Err())
		}
		if msg := minio.ToErrorResponse(err).Message; msg != "" {
			return "", fmt.Errorf("upload failed: %s", msg)
		}
		return "", fmt.Errorf("upload failed: %w", err)
	}

	endpoint := ""
	if u := t.client.EndpointURL(); u != nil {
		endpoint = u.String()
	}
	return transport.ObjectURL(t.opts.PublicBaseURL, endpoint, t.opts.Bucket, key)
}
