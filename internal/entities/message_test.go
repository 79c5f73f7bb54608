package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMessage_Participants(t *testing.T) {
	received := Message{Direction: DirectionReceived, Sender: "+15551230001", Body: "hi"}
	assert.Equal(t, []string{"+15551230001"}, received.Participants())

	sent := Message{Direction: DirectionSent, Recipients: []string{"+15551230001", "+15551230002"}, Body: "hi"}
	assert.Equal(t, []string{"+15551230001", "+15551230002"}, sent.Participants())

	groupReceived := Message{
		Direction:  DirectionReceived,
		Sender:     "+15551230001",
		Recipients: []string{"+15551230002"},
		Body:       "hi",
	}
	assert.Equal(t, []string{"+15551230001", "+15551230002"}, groupReceived.Participants())
	assert.True(t, groupReceived.IsGroup())
	assert.False(t, received.IsGroup())
}

func TestMessage_Validate(t *testing.T) {
	valid := Message{
		Timestamp: time.Now(),
		Direction: DirectionSent,
		Recipients: []string{
			"+15551230001",
		},
		Body: "hello",
	}
	assert.NoError(t, valid.Validate())

	withAttachment := valid
	withAttachment.Body = ""
	withAttachment.Attachments = []Attachment{{ContentType: "image/jpeg", Data: []byte{0xFF}}}
	assert.NoError(t, withAttachment.Validate())

	noParticipants := valid
	noParticipants.Recipients = nil
	assert.Error(t, noParticipants.Validate())

	noContent := valid
	noContent.Body = ""
	assert.Error(t, noContent.Validate())

	noDirection := valid
	noDirection.Direction = ""
	assert.Error(t, noDirection.Validate())

	receivedWithoutSender := Message{
		Timestamp:  time.Now(),
		Direction:  DirectionReceived,
		Recipients: []string{"+15551230001"},
		Body:       "hello",
	}
	assert.Error(t, receivedWithoutSender.Validate())
}

func TestAttachment_IsText(t *testing.T) {
	assert.True(t, Attachment{ContentType: "text/plain"}.IsText())
	assert.True(t, Attachment{ContentType: "application/smil"}.IsText())
	assert.False(t, Attachment{ContentType: "image/jpeg"}.IsText())
}
