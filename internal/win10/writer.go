package win10

import (
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"

	"github.com/mrlokans/textme/internal/entities"
	"github.com/mrlokans/textme/internal/formats"
)

// Write serializes messages into a Windows 10 Mobile backup document.
// The self phone number is not part of this schema, so opts is unused.
func Write(w io.Writer, messages []entities.Message, opts formats.WriteOptions) error {
	doc := document{Messages: make([]messageNode, 0, len(messages))}

	for i, msg := range messages {
		node, err := buildMessage(msg)
		if err != nil {
			return fmt.Errorf("message %d: %w", i+1, err)
		}
		doc.Messages = append(doc.Messages, node)
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}

func buildMessage(msg entities.Message) (messageNode, error) {
	timestamp := strconv.FormatInt(toTicks(msg.Timestamp), 10)
	sender := msg.Sender // empty for sent messages

	attachments := make([]attachmentNode, 0, len(msg.Attachments))
	for i, attachment := range msg.Attachments {
		data := attachment.Data
		if attachment.IsText() {
			encoded, err := encodeText(attachment.Text)
			if err != nil {
				return messageNode{}, fmt.Errorf("attachment %d: %w", i+1, err)
			}
			data = encoded
		}
		attachments = append(attachments, attachmentNode{
			ContentType: attachment.ContentType,
			DataBase64:  base64.StdEncoding.EncodeToString(data),
		})
	}

	return messageNode{
		Recipients:     recipientsNode{Strings: msg.Recipients},
		Body:           msg.Body,
		IsIncoming:     msg.Direction == entities.DirectionReceived,
		IsRead:         msg.Read,
		Attachments:    attachmentsNode{Attachments: attachments},
		LocalTimestamp: &timestamp,
		Sender:         &sender,
	}, nil
}
