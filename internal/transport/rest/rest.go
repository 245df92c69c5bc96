// Package rest uploads files to the complaints API as multipart form posts.
package rest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"github.com/bytedance/sonic"

	"github.com/dmitrijs2005/gophattach/internal/common"
	"github.com/dmitrijs2005/gophattach/internal/media"
	"github.com/dmitrijs2005/gophattach/internal/netx"
	"github.com/dmitrijs2005/gophattach/internal/upload"
)

// FormField is the multipart field carrying the file.
const FormField = "file"

type Options struct {
	Endpoint    string
	AccessToken string
	Client      *http.Client
}

type Transport struct {
	opts Options
}

func New(opts Options) *Transport {
	if opts.Client == nil {
		opts.Client = http.DefaultClient
	}
	return &Transport{opts: opts}
}

type reply struct {
	URL   string `json:"url"`
	Error string `json:"error,omitempty"`
}

// Send posts f to the upload endpoint and returns the URL from the JSON reply.
func (t *Transport) Send(ctx context.Context, f media.File, onProgress upload.ProgressFunc) (string, error) {
	body, contentType, err := encodeForm(f)
	if err != nil {
		return "", err
	}

	size := int64(body.Len())
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.opts.Endpoint, netx.NewProgressReader(body, size, onProgress))
	if err != nil {
		return "", fmt.Errorf("failed to create upload request: %w", err)
	}
	req.ContentLength = size
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	if t.opts.AccessToken != "" {
		req.Header.Set(common.AccessTokenHeaderName, t.opts.AccessToken)
	}

	resp, err := t.opts.Client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("upload canceled: %w", ctx.Err())
		}
		return "", fmt.Errorf("failed to send upload request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return "", fmt.Errorf("failed to read upload reply: %w", err)
	}

	var r reply
	decodeErr := sonic.Unmarshal(raw, &r)

	if err := statusError(resp, r.Error); err != nil {
		return "", err
	}
	if decodeErr != nil {
		return "", fmt.Errorf("invalid upload reply: %w", decodeErr)
	}
	if strings.TrimSpace(r.URL) == "" {
		return "", fmt.Errorf("upload reply has no url")
	}
	return r.URL, nil
}

func statusError(resp *http.Response, serverMsg string) error {
	switch resp.StatusCode {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		if serverMsg != "" {
			return fmt.Errorf("file rejected: %s", serverMsg)
		}
		return fmt.Errorf("file rejected by server")
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("not authorized to upload")
	case http.StatusRequestEntityTooLarge:
		return fmt.Errorf("file is too large for the server")
	case http.StatusTooManyRequests:
		return fmt.Errorf("too many uploads, try again later")
	default:
		if resp.StatusCode >= http.StatusInternalServerError {
			return fmt.Errorf("server error: %s", resp.Status)
		}
		if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
			return fmt.Errorf("upload request failed: %s", resp.Status)
		}
	}
	return nil
}

func encodeForm(f media.File) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, FormField, f.Name))
	h.Set("Content-Type", f.Type)

	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", fmt.Errorf("failed to build upload form: %w", err)
	}
	if _, err := part.Write(f.Data); err != nil {
		return nil, "", fmt.Errorf("failed to build upload form: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to build upload form: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}
