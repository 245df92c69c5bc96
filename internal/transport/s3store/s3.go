// Package s3store uploads files to an S3-compatible bucket through presigned PUT
// URLs.
package s3store

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/dmitrijs2005/gophattach/internal/media"
	"github.com/dmitrijs2005/gophattach/internal/netx"
	"github.com/dmitrijs2005/gophattach/internal/transport"
	"github.com/dmitrijs2005/gophattach/internal/upload"
)

const presignExpiry = 15 * time.Minute

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
)

// Options configure the bucket and how stored objects are addressed.
type Options struct {
	Region        string
	AccessKey     string
	SecretKey     string
	Bucket        string
	BaseEndpoint  string
	KeyPrefix     string
	PublicBaseURL string
	HTTPClient    *http.Client
}

type Transport struct {
	opts      Options
	presigner *s3.PresignClient
}

// New loads the AWS configuration with static credentials and prepares a
// presign client against the configured endpoint.
func New(ctx context.Context, opts Options) (*Transport, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(opts.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			opts.AccessKey,
			opts.SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if opts.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(opts.BaseEndpoint)
			o.UsePathStyle = true
		}
	})

	return &Transport{opts: opts, presigner: newS3PresignClient(client)}, nil
}

// Send presigns a PUT for a fresh key, streams the payload to it and returns
// the durable object URL.
func (t *Transport) Send(ctx context.Context, f media.File, onProgress upload.ProgressFunc) (string, error) {
	bucket := t.opts.Bucket
	key := transport.ObjectKey(t.opts.KeyPrefix, f)
	contentType := f.Type

	req, err := presignPutObject(t.presigner, ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		ContentType: &contentType,
	}, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		return "", fmt.Errorf("failed to presign upload: %w", err)
	}

	if err := netx.UploadToPresignedURL(ctx, t.opts.HTTPClient, req.URL, f.Type, f.Reader(), int64(len(f.Data)), onProgress); err != nil {
		return "", err
	}

	return transport.ObjectURL(t.opts.PublicBaseURL, t.opts.BaseEndpoint, bucket, key)
}
