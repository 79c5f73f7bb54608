package android

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/mrlokans/textme/internal/entities"
	"github.com/mrlokans/textme/internal/formats"
	"github.com/mrlokans/textme/internal/phone"
)

// Read parses an Android backup document into messages, preserving document
// order. sms and mms nodes may be freely interleaved; any other child of the
// root is a ParseError.
func Read(r io.Reader) ([]entities.Message, error) {
	dec := xml.NewDecoder(r)

	root, err := nextStart(dec)
	if err != nil {
		return nil, &formats.ParseError{Msg: "not an android message backup", Err: err}
	}
	if root.Name.Local != "smses" {
		return nil, &formats.ParseError{
			Msg: fmt.Sprintf("not an android message backup: unexpected root element <%s>", root.Name.Local),
		}
	}

	var messages []entities.Message
	index := 0
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return nil, &formats.ParseError{Msg: "truncated document"}
		}
		if err != nil {
			return nil, &formats.ParseError{Err: err}
		}

		switch t := tok.(type) {
		case xml.StartElement:
			index++
			var msg entities.Message
			switch t.Name.Local {
			case "sms":
				var node smsNode
				if err := dec.DecodeElement(&node, &t); err != nil {
					return nil, &formats.ParseError{Msg: fmt.Sprintf("message %d", index), Err: err}
				}
				msg, err = convertSMS(node)
			case "mms":
				var node mmsNode
				if err := dec.DecodeElement(&node, &t); err != nil {
					return nil, &formats.ParseError{Msg: fmt.Sprintf("message %d", index), Err: err}
				}
				msg, err = convertMMS(node)
			default:
				return nil, &formats.ParseError{
					Msg: fmt.Sprintf("message %d: unrecognized element <%s>", index, t.Name.Local),
				}
			}
			if err != nil {
				return nil, &formats.ParseError{Msg: fmt.Sprintf("message %d", index), Err: err}
			}
			messages = append(messages, msg)

		case xml.EndElement:
			if t.Name.Local == "smses" {
				return messages, nil
			}
		}
	}
}

func nextStart(dec *xml.Decoder) (xml.StartElement, error) {
	for {
		tok, err := dec.Token()
		if err != nil {
			return xml.StartElement{}, err
		}
		if start, ok := tok.(xml.StartElement); ok {
			return start, nil
		}
	}
}

func parseDate(attr *string) (time.Time, error) {
	if attr == nil {
		return time.Time{}, fmt.Errorf("missing date attribute")
	}
	ms, err := strconv.ParseInt(*attr, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", *attr)
	}
	return time.UnixMilli(ms).UTC(), nil
}

func convertSMS(node smsNode) (entities.Message, error) {
	timestamp, err := parseDate(node.Date)
	if err != nil {
		return entities.Message{}, err
	}

	msg := entities.Message{
		Timestamp: timestamp,
		Read:      node.Read == "1",
	}
	if node.Body != nil {
		msg.Body = *node.Body
	}

	switch node.Type {
	case typeReceived:
		msg.Direction = entities.DirectionReceived
		msg.Sender = node.Address
	case typeSent:
		msg.Direction = entities.DirectionSent
		msg.Recipients = []string{node.Address}
	default:
		return entities.Message{}, fmt.Errorf("unsupported sms type %q", node.Type)
	}

	if err := msg.Validate(); err != nil {
		return entities.Message{}, err
	}
	return msg, nil
}

func convertMMS(node mmsNode) (entities.Message, error) {
	timestamp, err := parseDate(node.Date)
	if err != nil {
		return entities.Message{}, err
	}

	msg := entities.Message{
		Timestamp: timestamp,
		Read:      node.Read == "1",
	}

	// The address attribute lists everyone in the conversation except the
	// device owner. It is the only reliable way to tell the other group
	// members apart from the owner's own addr entry.
	conversation := make(map[string]bool)
	for _, addr := range strings.Split(node.Address, addressSeparator) {
		conversation[phone.Normalize(addr)] = true
	}

	switch node.MsgBox {
	case typeReceived:
		msg.Direction = entities.DirectionReceived
		for _, addr := range node.Addrs {
			if addr.Type == addrTypeFrom {
				msg.Sender = addr.Address
				break
			}
		}
		if msg.Sender == "" {
			return entities.Message{}, fmt.Errorf("received mms has no sender address")
		}
	case typeSent:
		msg.Direction = entities.DirectionSent
	default:
		return entities.Message{}, fmt.Errorf("unsupported mms msg_box %q", node.MsgBox)
	}

	for _, addr := range node.Addrs {
		if addr.Type == addrTypeTo && conversation[phone.Normalize(addr.Address)] {
			msg.Recipients = append(msg.Recipients, addr.Address)
		}
	}

	msg.Attachments, err = convertParts(node.Parts)
	if err != nil {
		return entities.Message{}, err
	}

	if err := msg.Validate(); err != nil {
		return entities.Message{}, err
	}
	return msg, nil
}

func convertParts(parts []partNode) ([]entities.Attachment, error) {
	var attachments []entities.Attachment
	for i, part := range parts {
		attachment := entities.Attachment{ContentType: part.ContentType}

		switch {
		case part.Data != nil:
			data, err := decodeBase64(*part.Data)
			if err != nil {
				return nil, fmt.Errorf("part %d: invalid base64 payload: %w", i+1, err)
			}
			if attachment.IsText() {
				attachment.Text = string(data)
			} else {
				attachment.Data = data
			}
		case part.Text != nil:
			if attachment.IsText() {
				attachment.Text = *part.Text
			} else {
				attachment.Data = []byte(*part.Text)
			}
		default:
			return nil, fmt.Errorf("part %d (%s): neither text nor data present", i+1, part.ContentType)
		}

		attachments = append(attachments, attachment)
	}
	return attachments, nil
}
