package rest

import (
	"errors"
)

// Common errors returned by the client. Transport outcomes (failed,
// timed out) are classified on the Response instead of returned as
// errors; only caller mistakes and cancellation surface here.
var (
	// ErrContextCancelled is returned when the caller's context ends
	// while a request or its retry sleep is in progress.
	ErrContextCancelled = errors.New("context cancelled")
)
