// Package validation implements the cheap admission check run before any
// network activity. It looks only at declared metadata (type and size); the
// authoritative checks belong to whatever accepts the upload remotely.
package validation

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/dmitrijs2005/gophattach/internal/media"
)

// MB is the unit used for size limits in configuration and messages.
const MB = 1024 * 1024

var (
	ErrUnsupportedType = errors.New("unsupported file type")
	ErrFileTooLarge    = errors.New("file too large")
)

// DefaultAllowedTypes are the image types accepted as complaint evidence.
var DefaultAllowedTypes = []string{
	"image/jpeg",
	"image/png",
	"image/webp",
	"image/gif",
}

// Rules is the admission configuration.
type Rules struct {
	AllowedTypes []string
	MaxFileSize  int64 // bytes
}

// NewRules builds Rules from a size limit expressed in megabytes.
func NewRules(allowedTypes []string, maxFileSizeMB int64) Rules {
	types := make([]string, 0, len(allowedTypes))
	for _, t := range allowedTypes {
		types = append(types, normalizeType(t))
	}
	return Rules{AllowedTypes: types, MaxFileSize: maxFileSizeMB * MB}
}

// Validate accepts the file or returns an error wrapping ErrUnsupportedType or
// ErrFileTooLarge. The error text is meant to be shown to the user as is.
func Validate(f media.File, r Rules) error {
	if !slices.Contains(r.AllowedTypes, normalizeType(f.Type)) {
		return fmt.Errorf("%w: %s (allowed: %s)", ErrUnsupportedType, displayType(f.Type), strings.Join(r.AllowedTypes, ", "))
	}

	if f.Size > r.MaxFileSize {
		return fmt.Errorf("%w: %s exceeds the %s limit", ErrFileTooLarge, f.Name, FormatSize(r.MaxFileSize))
	}

	return nil
}

// FormatSize renders a byte count in megabytes, e.g. "3 MB" or "2.5 MB".
func FormatSize(n int64) string {
	if n%MB == 0 {
		return fmt.Sprintf("%d MB", n/MB)
	}
	return fmt.Sprintf("%.1f MB", float64(n)/MB)
}

// normalizeType lowercases the type and drops parameters such as charset.
func normalizeType(t string) string {
	if i := strings.IndexByte(t, ';'); i >= 0 {
		t = t[:i]
	}
	return strings.ToLower(strings.TrimSpace(t))
}

func displayType(t string) string {
	if t == "" {
		return "unknown type"
	}
	return t
}
