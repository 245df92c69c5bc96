// Package upload drives a single file through validation and transport.
//
// The Uploader holds no per-item state: every Attempt is independent and
// reports its outcome only through the caller-supplied Callbacks. Retrying is
// simply calling Attempt again with the same file and item id.
package upload

import (
	"context"
	"errors"
	"strings"

	"github.com/dmitrijs2005/gophattach/internal/logging"
	"github.com/dmitrijs2005/gophattach/internal/media"
	"github.com/dmitrijs2005/gophattach/internal/validation"
)

const (
	msgTimedOut = "upload timed out"
	msgFailed   = "upload failed"
	msgCanceled = "upload canceled"
)

// Callbacks route the outcome of an attempt back to the owner of the item.
// OnProgress may fire zero or more times before exactly one of OnSuccess or
// OnError. Nil callbacks are skipped.
type Callbacks struct {
	OnProgress func(itemID string, percent int)
	OnSuccess  func(itemID string, url string)
	OnError    func(itemID string, message string)
}

type Uploader struct {
	rules     validation.Rules
	transport Transport
	logger    logging.Logger
}

func NewUploader(rules validation.Rules, transport Transport, logger logging.Logger) *Uploader {
	return &Uploader{rules: rules, transport: transport, logger: logger}
}

// Rules returns the admission rules the uploader validates against.
func (u *Uploader) Rules() validation.Rules {
	return u.rules
}

// Attempt validates f and, if accepted, sends it through the transport. It
// blocks until the attempt settles. itemID is only used to tag callbacks.
//
// A rejected file never reaches the transport and never produces a progress
// callback.
func (u *Uploader) Attempt(ctx context.Context, f media.File, itemID string, cb Callbacks) {
	log := u.logger.With("item", itemID, "file", f.Name)

	if err := validation.Validate(f, u.rules); err != nil {
		log.Debug(ctx, "file rejected", "error", err)
		cb.fail(itemID, err.Error())
		return
	}

	log.Debug(ctx, "upload started", "size", f.Size, "type", f.Type)

	url, err := u.transport.Send(ctx, f, func(percent int) {
		if cb.OnProgress != nil {
			cb.OnProgress(itemID, percent)
		}
	})
	if err != nil {
		msg := normalizeError(err)
		log.Warn(ctx, "upload failed", "error", msg)
		cb.fail(itemID, msg)
		return
	}

	log.Debug(ctx, "upload completed", "url", url)
	if cb.OnSuccess != nil {
		cb.OnSuccess(itemID, url)
	}
}

func (cb Callbacks) fail(itemID, msg string) {
	if cb.OnError != nil {
		cb.OnError(itemID, msg)
	}
}

// normalizeError turns a transport error into the message shown on the item.
func normalizeError(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return msgTimedOut
	case errors.Is(err, context.Canceled):
		return msgCanceled
	}

	msg := strings.TrimSpace(err.Error())
	if msg == "" {
		return msgFailed
	}
	return msg
}
