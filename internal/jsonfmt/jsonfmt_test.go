package jsonfmt

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/textme/internal/entities"
	"github.com/mrlokans/textme/internal/formats"
)

func TestRead_MessageArray(t *testing.T) {
	input := `[
  {
    "timestamp": 1600000000,
    "timestamp_ns": 123000000,
    "sender": "+15551230001",
    "recipients": [],
    "body": "are you there?",
    "is_read": true,
    "attachments": []
  },
  {
    "timestamp": 1600000001,
    "timestamp_ns": 0,
    "sender": null,
    "recipients": ["+15551230001"],
    "body": "",
    "is_read": true,
    "attachments": [
      {"content_type": "text/plain", "text": "caption"},
      {"content_type": "image/jpeg", "data_base64": "/9j/"}
    ]
  }
]`

	messages, err := Read(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, messages, 2)

	first := messages[0]
	assert.Equal(t, entities.DirectionReceived, first.Direction)
	assert.Equal(t, "+15551230001", first.Sender)
	assert.True(t, first.Timestamp.Equal(time.Unix(1600000000, 123000000).UTC()))

	second := messages[1]
	assert.Equal(t, entities.DirectionSent, second.Direction)
	require.Len(t, second.Attachments, 2)
	assert.Equal(t, "caption", second.Attachments[0].Text)
	assert.Equal(t, []byte{0xFF, 0xD8, 0xFF}, second.Attachments[1].Data)
}

func TestRead_NotAnArray(t *testing.T) {
	_, err := Read(strings.NewReader(`{"timestamp": 1}`))

	var parseErr *formats.ParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestRead_InvalidRecord(t *testing.T) {
	// No participants and no content: unmappable, must abort.
	_, err := Read(strings.NewReader(`[{"timestamp": 1600000000, "timestamp_ns": 0, "sender": null, "recipients": [], "body": "", "is_read": false, "attachments": []}]`))

	var parseErr *formats.ParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestWriteRead_RoundTrip(t *testing.T) {
	original := []entities.Message{
		{
			Timestamp: time.Unix(1600000000, 987654000).UTC(),
			Direction: entities.DirectionReceived,
			Sender:    "+15551230001",
			Body:      "hi",
			Read:      true,
		},
		{
			Timestamp:  time.Unix(1600000001, 0).UTC(),
			Direction:  entities.DirectionSent,
			Recipients: []string{"+15551230001", "+15551230002"},
			Body:       "group text",
			Read:       false,
		},
		{
			Timestamp:  time.Unix(1600000002, 0).UTC(),
			Direction:  entities.DirectionSent,
			Recipients: []string{"+15551230001"},
			Attachments: []entities.Attachment{
				{ContentType: "application/smil", Text: "<smil><body/></smil>"},
				{ContentType: "image/png", Data: []byte{0x89, 0x50, 0x4E, 0x47}},
			},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, original, formats.WriteOptions{}))

	parsed, err := Read(&buf)
	require.NoError(t, err)
	require.Len(t, parsed, len(original))

	for i := range original {
		assert.True(t, parsed[i].Timestamp.Equal(original[i].Timestamp), "message %d timestamp", i+1)
		assert.Equal(t, original[i].Direction, parsed[i].Direction, "message %d direction", i+1)
		assert.Equal(t, original[i].Body, parsed[i].Body, "message %d body", i+1)
		assert.Equal(t, original[i].Participants(), parsed[i].Participants(), "message %d participants", i+1)
		assert.Equal(t, original[i].Read, parsed[i].Read, "message %d read flag", i+1)
		assert.Equal(t, original[i].Attachments, parsed[i].Attachments, "message %d attachments", i+1)
	}
}

func TestWrite_WireShape(t *testing.T) {
	messages := []entities.Message{
		{
			Timestamp: time.Unix(1600000000, 0).UTC(),
			Direction: entities.DirectionReceived,
			Sender:    "+15551230001",
			Body:      "hi",
		},
	}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, messages, formats.WriteOptions{}))
	out := buf.String()

	assert.Contains(t, out, `"timestamp":1600000000`)
	assert.Contains(t, out, `"sender":"+15551230001"`)
	assert.Contains(t, out, `"recipients":[]`)
	assert.Contains(t, out, `"is_read":false`)
}
