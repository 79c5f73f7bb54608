package win10

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"

	"github.com/mrlokans/textme/internal/entities"
	"github.com/mrlokans/textme/internal/formats"
)

// Read parses a Windows 10 Mobile backup document into messages, preserving
// document order. It fails with a ParseError when the root element is not
// ArrayOfMessage or when a message lacks the fields the model requires.
func Read(r io.Reader) ([]entities.Message, error) {
	var doc document
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, &formats.ParseError{Msg: "not a win10 message backup", Err: err}
	}

	messages := make([]entities.Message, 0, len(doc.Messages))
	for i, node := range doc.Messages {
		msg, err := convertMessage(node)
		if err != nil {
			return nil, &formats.ParseError{Msg: fmt.Sprintf("message %d", i+1), Err: err}
		}
		messages = append(messages, msg)
	}

	return messages, nil
}

func convertMessage(node messageNode) (entities.Message, error) {
	if node.LocalTimestamp == nil {
		return entities.Message{}, fmt.Errorf("missing LocalTimestamp")
	}
	ticks, err := strconv.ParseInt(*node.LocalTimestamp, 10, 64)
	if err != nil {
		return entities.Message{}, fmt.Errorf("invalid LocalTimestamp %q", *node.LocalTimestamp)
	}

	// The Sender element carries the direction: a non-empty sender means the
	// message was received, an empty one means the device owner sent it.
	if node.Sender == nil {
		return entities.Message{}, fmt.Errorf("missing Sender")
	}
	sender := *node.Sender

	direction := entities.DirectionSent
	if sender != "" {
		direction = entities.DirectionReceived
	}

	attachments, err := convertAttachments(node.Attachments.Attachments)
	if err != nil {
		return entities.Message{}, err
	}

	msg := entities.Message{
		Timestamp:   fromTicks(ticks),
		Direction:   direction,
		Sender:      sender,
		Recipients:  node.Recipients.Strings,
		Body:        node.Body,
		Read:        node.IsRead,
		Attachments: attachments,
	}

	if err := msg.Validate(); err != nil {
		return entities.Message{}, err
	}
	return msg, nil
}

func convertAttachments(nodes []attachmentNode) ([]entities.Attachment, error) {
	var attachments []entities.Attachment
	for i, node := range nodes {
		data, err := decodeBase64(node.DataBase64)
		if err != nil {
			return nil, fmt.Errorf("attachment %d: invalid base64 payload: %w", i+1, err)
		}

		attachment := entities.Attachment{ContentType: node.ContentType}
		if attachment.IsText() {
			text, err := decodeText(data)
			if err != nil {
				return nil, fmt.Errorf("attachment %d: invalid UTF-16 payload: %w", i+1, err)
			}
			attachment.Text = text
		} else {
			attachment.Data = data
		}

		attachments = append(attachments, attachment)
	}
	return attachments, nil
}
