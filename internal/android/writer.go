package android

import (
	"encoding/xml"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/mrlokans/textme/internal/entities"
	"github.com/mrlokans/textme/internal/formats"
)

// Write serializes messages into an Android backup document. Messages with
// attachments or more than one participant become mms entries, everything
// else becomes an sms entry.
//
// Outgoing MMS need opts.Phone to stamp the sender address: the consuming
// app reports an "Unrecognized sender" warning when the FROM addr is absent.
// That warning is the app's quirk, not ours; the writer only guarantees the
// address is present, and fails with ErrMissingPhone when it cannot be.
func Write(w io.Writer, messages []entities.Message, opts formats.WriteOptions) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}

	enc := xml.NewEncoder(w)
	root := xml.StartElement{
		Name: xml.Name{Local: "smses"},
		Attr: []xml.Attr{{Name: xml.Name{Local: "count"}, Value: strconv.Itoa(len(messages))}},
	}
	if err := enc.EncodeToken(root); err != nil {
		return err
	}

	for i, msg := range messages {
		var err error
		if len(msg.Attachments) > 0 || msg.IsGroup() {
			var node mmsNode
			node, err = buildMMS(msg, opts.Phone)
			if err == nil {
				err = enc.EncodeElement(node, xml.StartElement{Name: xml.Name{Local: "mms"}})
			}
		} else {
			err = enc.EncodeElement(buildSMS(msg), xml.StartElement{Name: xml.Name{Local: "sms"}})
		}
		if err != nil {
			return fmt.Errorf("message %d: %w", i+1, err)
		}
	}

	if err := enc.EncodeToken(root.End()); err != nil {
		return err
	}
	return enc.Close()
}

func formatDate(msg entities.Message) string {
	return strconv.FormatInt(msg.Timestamp.UnixMilli(), 10)
}

func formatRead(msg entities.Message) string {
	if msg.Read {
		return "1"
	}
	return "0"
}

func buildSMS(msg entities.Message) smsNode {
	date := formatDate(msg)
	body := msg.Body

	node := smsNode{
		Date: &date,
		Body: &body,
		Read: formatRead(msg),
	}
	if msg.Direction == entities.DirectionReceived {
		node.Address = msg.Sender
		node.Type = typeReceived
	} else {
		node.Address = msg.Recipients[0]
		node.Type = typeSent
	}
	return node
}

func buildMMS(msg entities.Message, selfPhone string) (mmsNode, error) {
	received := msg.Direction == entities.DirectionReceived
	if !received && selfPhone == "" {
		return mmsNode{}, formats.ErrMissingPhone
	}

	date := formatDate(msg)
	node := mmsNode{
		Date:    &date,
		Address: joinParticipants(msg),
		Read:    formatRead(msg),
	}
	if received {
		node.MType = mTypeRetrieveConf
		node.MsgBox = typeReceived
	} else {
		node.MType = mTypeSendReq
		node.MsgBox = typeSent
	}

	node.Parts = buildParts(msg)

	if received {
		node.Addrs = append(node.Addrs, newAddr(addrTypeFrom, msg.Sender))
		if selfPhone != "" {
			node.Addrs = append(node.Addrs, newAddr(addrTypeTo, selfPhone))
		}
	} else {
		node.Addrs = append(node.Addrs, newAddr(addrTypeFrom, selfPhone))
	}
	for _, recipient := range msg.Recipients {
		node.Addrs = append(node.Addrs, newAddr(addrTypeTo, recipient))
	}

	return node, nil
}

func buildParts(msg entities.Message) []partNode {
	// A group message without attachments still has to be an MMS, so its
	// body travels as a text/plain part.
	if len(msg.Attachments) == 0 {
		body := msg.Body
		return []partNode{{Charset: charsetUTF8, ContentType: "text/plain", Text: &body}}
	}

	parts := make([]partNode, 0, len(msg.Attachments))
	for _, attachment := range msg.Attachments {
		part := partNode{Charset: charsetUTF8, ContentType: attachment.ContentType}
		if attachment.IsText() {
			text := attachment.Text
			part.Text = &text
		} else {
			data := encodeBase64(attachment.Data)
			part.Data = &data
		}
		parts = append(parts, part)
	}
	return parts
}

func newAddr(addrType, address string) addrNode {
	return addrNode{Charset: charsetUTF8, Address: address, Type: addrType}
}

// joinParticipants builds the mms address attribute: every conversation
// member except the device owner, sorted for stability.
func joinParticipants(msg entities.Message) string {
	participants := msg.Participants()
	sorted := make([]string, len(participants))
	copy(sorted, participants)
	sort.Strings(sorted)
	return strings.Join(sorted, addressSeparator)
}
