// Package netx holds HTTP helpers for moving file bytes to object storage.
package netx

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// UploadToPresignedURL PUTs size bytes from body to a presigned object URL,
// reporting progress as the request body is consumed.
func UploadToPresignedURL(ctx context.Context, client *http.Client, url, contentType string, body io.Reader, size int64, onProgress func(percent int)) error {
	pr := NewProgressReader(body, size, onProgress)

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, pr)
	if err != nil {
		return fmt.Errorf("failed to create upload request: %w", err)
	}
	req.ContentLength = size
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	req.Header.Set("Content-Type", contentType)

	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("upload canceled: %w", ctx.Err())
		}
		return fmt.Errorf("failed to send upload request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		msg := strings.TrimSpace(string(b))
		if msg == "" {
			return fmt.Errorf("upload failed: %s", resp.Status)
		}
		return fmt.Errorf("upload failed: %s; body: %s", resp.Status, msg)
	}

	return nil
}
