package media

import (
	"fmt"
	"strings"
)

type ValidationKind string

const (
	UnsupportedType ValidationKind = "unsupported_type"
	TooLarge        ValidationKind = "too_large"
)

// ValidationError is returned before any network call and is never retried.
type ValidationError struct {
	Kind     ValidationKind
	MimeType string
	Size     int64
	Ceiling  int64
	Allowed  []string
}

func (e *ValidationError) Error() string {
	switch e.Kind {
	case TooLarge:
		return fmt.Sprintf("file size exceeds the maximum limit of %dMB", e.Ceiling/MiB)
	default:
		return fmt.Sprintf("invalid file type %q. Allowed types: %s", e.MimeType, strings.Join(e.Allowed, ", "))
	}
}

// StoreError wraps a failure talking to the remote media host.
type StoreError struct {
	Op    string
	Cause error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("media store %s: %v", e.Op, e.Cause)
}

func (e *StoreError) Unwrap() error { return e.Cause }
