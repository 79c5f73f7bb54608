package formats

import (
	"io"

	"github.com/mrlokans/textme/internal/entities"
)

// ReadFunc parses one backup document into messages, preserving document order.
type ReadFunc func(r io.Reader) ([]entities.Message, error)

// ReadFileFunc reads messages from a file that cannot be consumed as a plain
// byte stream (for example an SQLite database).
type ReadFileFunc func(path string) ([]entities.Message, error)

// WriteFunc serializes messages into one backup document.
type WriteFunc func(w io.Writer, messages []entities.Message, opts WriteOptions) error

// WriteOptions carries the writer-side context that is not part of the
// message data itself.
type WriteOptions struct {
	// Phone identifies the device owner. Android MMS records name both ends
	// of the conversation, so outgoing MMS cannot be written without it.
	Phone string
}

// Format is a registry entry: a format identifier with its reader and writer.
// Read or Write may be nil for one-directional formats; ReadFile overrides
// Read for formats that need direct file access.
type Format struct {
	Name     string
	Read     ReadFunc
	ReadFile ReadFileFunc
	Write    WriteFunc
}
