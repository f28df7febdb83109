package opds

import (
	"errors"
	"fmt"
)

// ErrRender matches any *RenderError through errors.Is.
var ErrRender = errors.New("feed render error")

// RenderError reports a feed that could not be produced. Entry is the index
// of the offending catalog entry, or -1 for feed-level problems.
type RenderError struct {
	Entry  int
	Reason string
	Err    error
}

func (e *RenderError) Error() string {
	msg := e.Reason
	if e.Entry >= 0 {
		msg = fmt.Sprintf("entry %d: %s", e.Entry, msg)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return "rendering feed: " + msg
}

func (e *RenderError) Unwrap() error { return e.Err }

// Is reports whether target is ErrRender.
func (e *RenderError) Is(target error) bool {
	return target == ErrRender
}
