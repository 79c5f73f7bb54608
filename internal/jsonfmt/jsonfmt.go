// Package jsonfmt implements the universal JSON intermediate format: a plain
// array of message objects mirroring the normalized model. Useful for
// inspecting a backup or chaining conversions without an XML schema on
// either side.
package jsonfmt

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/mrlokans/textme/internal/entities"
	"github.com/mrlokans/textme/internal/formats"
)

type jsonMessage struct {
	Timestamp   int64            `json:"timestamp"`
	TimestampNS int64            `json:"timestamp_ns"`
	Sender      *string          `json:"sender"`
	Recipients  []string         `json:"recipients"`
	Body        string           `json:"body"`
	IsRead      bool             `json:"is_read"`
	Attachments []jsonAttachment `json:"attachments"`
}

type jsonAttachment struct {
	ContentType string  `json:"content_type"`
	Text        *string `json:"text,omitempty"`
	DataBase64  *string `json:"data_base64,omitempty"`
}

// Read parses a JSON message array.
func Read(r io.Reader) ([]entities.Message, error) {
	var nodes []jsonMessage
	if err := json.NewDecoder(r).Decode(&nodes); err != nil {
		return nil, &formats.ParseError{Msg: "not a JSON message array", Err: err}
	}

	messages := make([]entities.Message, 0, len(nodes))
	for i, node := range nodes {
		msg, err := convertMessage(node)
		if err != nil {
			return nil, &formats.ParseError{Msg: fmt.Sprintf("message %d", i+1), Err: err}
		}
		messages = append(messages, msg)
	}
	return messages, nil
}

func convertMessage(node jsonMessage) (entities.Message, error) {
	msg := entities.Message{
		Timestamp:  time.Unix(node.Timestamp, node.TimestampNS).UTC(),
		Direction:  entities.DirectionSent,
		Recipients: node.Recipients,
		Body:       node.Body,
		Read:       node.IsRead,
	}
	if node.Sender != nil && *node.Sender != "" {
		msg.Direction = entities.DirectionReceived
		msg.Sender = *node.Sender
	}

	for i, att := range node.Attachments {
		attachment := entities.Attachment{ContentType: att.ContentType}
		switch {
		case att.Text != nil:
			attachment.Text = *att.Text
		case att.DataBase64 != nil:
			data, err := base64.StdEncoding.DecodeString(*att.DataBase64)
			if err != nil {
				return entities.Message{}, fmt.Errorf("attachment %d: invalid base64 payload: %w", i+1, err)
			}
			attachment.Data = data
		default:
			return entities.Message{}, fmt.Errorf("attachment %d: neither text nor data_base64 present", i+1)
		}
		msg.Attachments = append(msg.Attachments, attachment)
	}

	if err := msg.Validate(); err != nil {
		return entities.Message{}, err
	}
	return msg, nil
}

// Write serializes messages as a JSON array. The self phone number is not
// part of this representation, so opts is unused.
func Write(w io.Writer, messages []entities.Message, opts formats.WriteOptions) error {
	nodes := make([]jsonMessage, 0, len(messages))
	for _, msg := range messages {
		nodes = append(nodes, buildMessage(msg))
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return enc.Encode(nodes)
}

func buildMessage(msg entities.Message) jsonMessage {
	node := jsonMessage{
		Timestamp:   msg.Timestamp.Unix(),
		TimestampNS: int64(msg.Timestamp.Nanosecond()),
		Recipients:  msg.Recipients,
		Body:        msg.Body,
		IsRead:      msg.Read,
		Attachments: []jsonAttachment{},
	}
	if node.Recipients == nil {
		node.Recipients = []string{}
	}
	if msg.Direction == entities.DirectionReceived {
		sender := msg.Sender
		node.Sender = &sender
	}

	for _, attachment := range msg.Attachments {
		att := jsonAttachment{ContentType: attachment.ContentType}
		if attachment.IsText() {
			text := attachment.Text
			att.Text = &text
		} else {
			data := base64.StdEncoding.EncodeToString(attachment.Data)
			att.DataBase64 = &data
		}
		node.Attachments = append(node.Attachments, att)
	}
	return node
}
