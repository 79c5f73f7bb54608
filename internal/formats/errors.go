package formats

import (
	"errors"
	"fmt"
)

// ErrMissingPhone indicates an outgoing MMS was encountered but no self
// phone number was supplied to stamp the sender address with.
var ErrMissingPhone = errors.New("self phone number required to write outgoing MMS (use --phone)")

// ParseError represents malformed or unexpected input structure. Any parse
// failure aborts the whole run; there is no partial output.
type ParseError struct {
	Path string // input file, when known
	Msg  string
	Err  error // underlying cause, when any
}

func (e *ParseError) Error() string {
	msg := e.Msg
	if e.Err != nil {
		if msg != "" {
			msg = fmt.Sprintf("%s: %v", msg, e.Err)
		} else {
			msg = e.Err.Error()
		}
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, msg)
	}
	return msg
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// UnsupportedFormatError is returned when a format identifier names no
// registered reader or writer.
type UnsupportedFormatError struct {
	Format string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported format %q", e.Format)
}
