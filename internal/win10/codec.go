// Package win10 reads and writes the Windows 10 Mobile SMS/MMS backup format:
// an ArrayOfMessage XML document as produced by the "contacts+message backup"
// app. Field names (including the "Recepients" spelling) are defined by that
// app, not by us.
package win10

import (
	"encoding/base64"
	"encoding/xml"
	"strings"
	"time"

	"golang.org/x/text/encoding/unicode"
)

// LocalTimestamp is a Windows FILETIME: 100-nanosecond ticks since
// 1601-01-01 00:00:00 UTC.
const (
	ticksPerSecond = 10_000_000
	filetimeToUnix = 11_644_473_600
	nanosPerTick   = 100
)

type document struct {
	XMLName  xml.Name      `xml:"ArrayOfMessage"`
	Messages []messageNode `xml:"Message"`
}

// Element order matters to the consuming app, so the struct mirrors the
// order the backup app itself writes.
type messageNode struct {
	Recipients  recipientsNode  `xml:"Recepients"`
	Body        string          `xml:"Body"`
	IsIncoming  bool            `xml:"IsIncoming"`
	IsRead      bool            `xml:"IsRead"`
	Attachments attachmentsNode `xml:"Attachments"`
	// Pointers so the reader can tell a missing element from an empty one.
	LocalTimestamp *string `xml:"LocalTimestamp"`
	Sender         *string `xml:"Sender"`
}

type recipientsNode struct {
	Strings []string `xml:"string"`
}

type attachmentsNode struct {
	Attachments []attachmentNode `xml:"MessageAttachment"`
}

type attachmentNode struct {
	ContentType string `xml:"AttachmentContentType"`
	DataBase64  string `xml:"AttachmentDataBase64String"`
}

func fromTicks(ticks int64) time.Time {
	sec := ticks/ticksPerSecond - filetimeToUnix
	ns := ticks % ticksPerSecond * nanosPerTick
	return time.Unix(sec, ns).UTC()
}

func toTicks(t time.Time) int64 {
	return (t.Unix()+filetimeToUnix)*ticksPerSecond + int64(t.Nanosecond())/nanosPerTick
}

// Text attachments are stored base64-wrapped UTF-16 LE in this format.
var (
	utf16Decoder = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder
	utf16Encoder = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewEncoder
)

func decodeText(data []byte) (string, error) {
	decoded, err := utf16Decoder().Bytes(data)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}

func encodeText(text string) ([]byte, error) {
	return utf16Encoder().Bytes([]byte(text))
}

// decodeBase64 tolerates the line breaks some exports wrap payloads with.
func decodeBase64(s string) ([]byte, error) {
	return base64.StdEncoding.DecodeString(strings.Join(strings.Fields(s), ""))
}
