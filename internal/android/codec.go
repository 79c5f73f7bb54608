// Package android reads and writes the Android SMS-backup XML format: an
// smses document as produced and consumed by the "SMS Backup & Restore" app.
// Attribute names and the numeric type codes are defined by that app and the
// Android telephony provider.
package android

import (
	"encoding/base64"
	"strings"
)

// Numeric codes from the Android telephony provider schema.
const (
	typeReceived = "1" // sms type / mms msg_box
	typeSent     = "2"

	addrTypeFrom = "137"
	addrTypeTo   = "151"

	charsetUTF8 = "106"

	mTypeRetrieveConf = "132" // received MMS
	mTypeSendReq      = "128" // sent MMS
)

// addressSeparator joins the conversation members in the mms address attribute.
const addressSeparator = "~"

type smsNode struct {
	Date    *string `xml:"date,attr"`
	Address string  `xml:"address,attr"`
	Type    string  `xml:"type,attr"`
	Body    *string `xml:"body,attr"`
	Read    string  `xml:"read,attr"`
}

type mmsNode struct {
	MType   string     `xml:"m_type,attr"`
	MsgBox  string     `xml:"msg_box,attr"`
	Date    *string    `xml:"date,attr"`
	Address string     `xml:"address,attr"`
	Read    string     `xml:"read,attr"`
	Parts   []partNode `xml:"parts>part"`
	Addrs   []addrNode `xml:"addrs>addr"`
}

type partNode struct {
	Charset     string  `xml:"chset,attr"`
	ContentType string  `xml:"ct,attr"`
	Text        *string `xml:"text,attr"`
	Data        *string `xml:"data,attr"`
}

type addrNode struct {
	Charset string `xml:"charset,attr"`
	Address string `xml:"address,attr"`
	Type    string `xml:"type,attr"`
}

func decodeBase64(s string) ([]byte, error) {
	return base64.StdEncoding.DecodeString(strings.Join(strings.Fields(s), ""))
}

func encodeBase64(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}
