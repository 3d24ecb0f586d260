// Package source opens the byte streams that carry newline-delimited device frames.
package source

import (
	"context"
	"io"
)

// Source opens a stream of newline-delimited frames.
// Each Open yields a fresh stream; callers close it when done.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
	Name() string
}

// Finite is implemented by sources whose streams end on purpose (files).
// EOF on a finite source finishes ingestion instead of triggering a reconnect.
type Finite interface {
	Finite() bool
}

// IsFinite reports whether src ends on EOF.
func IsFinite(src Source) bool {
	f, ok := src.(Finite)
	return ok && f.Finite()
}
