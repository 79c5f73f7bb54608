package entities

import (
	"fmt"
	"time"
)

type Direction string

const (
	DirectionReceived Direction = "received"
	DirectionSent     Direction = "sent"
)

// Attachment is a single MMS part. Text parts (plain text and SMIL presentation
// markup) are carried decoded in Text; everything else is raw bytes in Data.
// Base64 and vendor-specific text encodings only exist at the file boundaries.
type Attachment struct {
	ContentType string
	Text        string
	Data        []byte
}

// TextContentTypes lists the MIME types whose payload is treated as text
// rather than opaque binary data.
var TextContentTypes = map[string]bool{
	"text/plain":       true,
	"application/smil": true,
}

func (a Attachment) IsText() bool {
	return TextContentTypes[a.ContentType]
}

// Message is the normalized intermediate record shared by all readers and
// writers. Direction is relative to the device owner: Sender is set for
// received messages, Recipients for sent ones (and holds the other group
// members for group MMS). A Message is never modified after a reader
// constructs it; the merge stage only reorders sequences.
type Message struct {
	Timestamp   time.Time
	Direction   Direction
	Sender      string
	Recipients  []string
	Body        string
	Read        bool
	Attachments []Attachment
}

// Participants returns every phone-number-like identifier on the message:
// the sender (when present) followed by the recipients.
func (m Message) Participants() []string {
	participants := make([]string, 0, len(m.Recipients)+1)
	if m.Sender != "" {
		participants = append(participants, m.Sender)
	}
	participants = append(participants, m.Recipients...)
	return participants
}

// IsGroup reports whether the message involves more than one remote party.
func (m Message) IsGroup() bool {
	return len(m.Participants()) > 1
}

// Validate checks the model invariant: at least one participant, and either
// a non-empty body or at least one attachment. Readers call this for every
// record they produce so that unmappable input aborts the run instead of
// being silently dropped.
func (m Message) Validate() error {
	if m.Direction != DirectionReceived && m.Direction != DirectionSent {
		return fmt.Errorf("unknown direction %q", m.Direction)
	}
	if m.Direction == DirectionReceived && m.Sender == "" {
		return fmt.Errorf("received message has no sender")
	}
	if len(m.Participants()) == 0 {
		return fmt.Errorf("message has no participants")
	}
	if m.Body == "" && len(m.Attachments) == 0 {
		return fmt.Errorf("message has neither body nor attachments")
	}
	return nil
}
