package android

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/textme/internal/entities"
	"github.com/mrlokans/textme/internal/formats"
)

const backupFixture = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<smses count="3">
  <sms date="1600000000000" address="+15551230001" type="1" body="are you there?" read="1" />
  <sms date="1600000001000" address="+15551230001" type="2" body="on my way" read="1" />
  <mms m_type="132" msg_box="1" date="1600000002000" address="+15551230001~+15551230002" read="0">
    <parts>
      <part chset="106" ct="text/plain" text="look at this" />
      <part chset="106" ct="image/jpeg" data="/9j/" />
    </parts>
    <addrs>
      <addr charset="106" address="+15551230001" type="137" />
      <addr charset="106" address="+15559990000" type="151" />
      <addr charset="106" address="+15551230002" type="151" />
    </addrs>
  </mms>
</smses>`

func TestRead_Backup(t *testing.T) {
	messages, err := Read(strings.NewReader(backupFixture))
	require.NoError(t, err)
	require.Len(t, messages, 3)

	received := messages[0]
	assert.Equal(t, entities.DirectionReceived, received.Direction)
	assert.Equal(t, "+15551230001", received.Sender)
	assert.Empty(t, received.Recipients)
	assert.Equal(t, "are you there?", received.Body)
	assert.True(t, received.Read)
	assert.True(t, received.Timestamp.Equal(time.UnixMilli(1600000000000).UTC()))

	sent := messages[1]
	assert.Equal(t, entities.DirectionSent, sent.Direction)
	assert.Equal(t, []string{"+15551230001"}, sent.Recipients)

	mms := messages[2]
	assert.Equal(t, entities.DirectionReceived, mms.Direction)
	assert.Equal(t, "+15551230001", mms.Sender)
	// The owner's own number (+15559990000) is not part of the address
	// attribute, so only the other group member survives as a recipient.
	assert.Equal(t, []string{"+15551230002"}, mms.Recipients)
	assert.False(t, mms.Read)
	require.Len(t, mms.Attachments, 2)
	assert.Equal(t, "look at this", mms.Attachments[0].Text)
	assert.Equal(t, []byte{0xFF, 0xD8, 0xFF}, mms.Attachments[1].Data)
}

func TestRead_WrongRootElement(t *testing.T) {
	_, err := Read(strings.NewReader("<ArrayOfMessage></ArrayOfMessage>"))

	var parseErr *formats.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Contains(t, parseErr.Error(), "not an android message backup")
}

func TestRead_UnrecognizedElement(t *testing.T) {
	fixture := `<smses count="1">
  <call date="1600000000000" number="+15551230001" />
</smses>`

	_, err := Read(strings.NewReader(fixture))

	var parseErr *formats.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Contains(t, parseErr.Error(), "unrecognized element")
}

func TestRead_UnsupportedSMSType(t *testing.T) {
	// Type 3 is a draft: it has no direction in the model, so it cannot be
	// silently mapped.
	fixture := `<smses count="1">
  <sms date="1600000000000" address="+15551230001" type="3" body="draft" read="0" />
</smses>`

	_, err := Read(strings.NewReader(fixture))

	var parseErr *formats.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Contains(t, parseErr.Error(), "unsupported sms type")
}

func TestRead_MissingDate(t *testing.T) {
	fixture := `<smses count="1">
  <sms address="+15551230001" type="1" body="hi" read="1" />
</smses>`

	_, err := Read(strings.NewReader(fixture))

	var parseErr *formats.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Contains(t, parseErr.Error(), "date")
}

func TestRead_TruncatedDocument(t *testing.T) {
	_, err := Read(strings.NewReader(`<smses count="2"><sms date="1600000000000" address="a" type="1" body="hi" read="1" />`))

	var parseErr *formats.ParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestRead_ReceivedMMSWithoutSender(t *testing.T) {
	fixture := `<smses count="1">
  <mms m_type="132" msg_box="1" date="1600000000000" address="+15551230001" read="1">
    <parts>
      <part chset="106" ct="text/plain" text="hi" />
    </parts>
    <addrs>
      <addr charset="106" address="+15559990000" type="151" />
    </addrs>
  </mms>
</smses>`

	_, err := Read(strings.NewReader(fixture))

	var parseErr *formats.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Contains(t, parseErr.Error(), "sender")
}

func TestRead_NormalizedConversationMatching(t *testing.T) {
	// The address attribute and the addr entries often format the same
	// number differently; matching happens on normalized numbers.
	fixture := `<smses count="1">
  <mms m_type="128" msg_box="2" date="1600000000000" address="1234567890" read="1">
    <parts>
      <part chset="106" ct="text/plain" text="hi" />
    </parts>
    <addrs>
      <addr charset="106" address="+15559990000" type="137" />
      <addr charset="106" address="+1 (123) 456-7890" type="151" />
    </addrs>
  </mms>
</smses>`

	messages, err := Read(strings.NewReader(fixture))
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, []string{"+1 (123) 456-7890"}, messages[0].Recipients)
}
