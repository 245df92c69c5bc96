package gallery

import "errors"

var (
	ErrItemNotFound = errors.New("upload item not found")
	ErrNotRetryable = errors.New("only failed uploads can be retried")
	ErrClosed       = errors.New("gallery closed")
)
