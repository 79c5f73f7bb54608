// Package androiddb reads messages straight out of an Android mmssms.db
// SQLite database, the on-device telephony store. This covers the common
// "I pulled the raw database off the phone" case where no backup app was
// ever installed.
//
// Binary MMS payloads are not kept inside mmssms.db (the part table's _data
// column points at files under the telephony data directory), so a database
// containing binary parts cannot be converted from the database alone and
// fails rather than dropping the attachment.
package androiddb

import (
	"database/sql"
	"fmt"
	"os"
	"sort"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/mrlokans/textme/internal/entities"
	"github.com/mrlokans/textme/internal/formats"
)

// Numeric codes from the Android telephony provider schema.
const (
	boxReceived = 1
	boxSent     = 2

	addrTypeFrom = 137
	addrTypeTo   = 151
)

// The telephony provider stores this placeholder where the owner's own
// number would go.
const selfAddressToken = "insert-address-token"

// ReadFile reads all inbox and sent messages from an mmssms.db database,
// ordered by timestamp. Drafts, outbox and failed entries are not part of
// the conversation history and are not read.
func ReadFile(path string) ([]entities.Message, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, &formats.ParseError{Path: path, Msg: "database not found"}
	}

	db, err := sql.Open("sqlite3", path+"?mode=ro")
	if err != nil {
		return nil, &formats.ParseError{Path: path, Msg: "failed to open database", Err: err}
	}
	defer db.Close()

	messages, err := readSMS(db)
	if err != nil {
		return nil, &formats.ParseError{Path: path, Err: err}
	}

	mms, err := readMMS(db)
	if err != nil {
		return nil, &formats.ParseError{Path: path, Err: err}
	}
	messages = append(messages, mms...)

	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].Timestamp.Before(messages[j].Timestamp)
	})
	return messages, nil
}

func readSMS(db *sql.DB) ([]entities.Message, error) {
	rows, err := db.Query(`
		SELECT address, date, type, body, read
		FROM sms
		WHERE type IN (?, ?)
		ORDER BY date, _id
	`, boxReceived, boxSent)
	if err != nil {
		return nil, fmt.Errorf("failed to query sms table: %w", err)
	}
	defer rows.Close()

	var messages []entities.Message
	for rows.Next() {
		var (
			address, body sql.NullString
			date          int64 // milliseconds
			box, read     int
		)
		if err := rows.Scan(&address, &date, &box, &body, &read); err != nil {
			return nil, fmt.Errorf("failed to scan sms row: %w", err)
		}

		msg := entities.Message{
			Timestamp: time.UnixMilli(date).UTC(),
			Body:      body.String,
			Read:      read == 1,
		}
		if box == boxReceived {
			msg.Direction = entities.DirectionReceived
			msg.Sender = address.String
		} else {
			msg.Direction = entities.DirectionSent
			msg.Recipients = []string{address.String}
		}

		if err := msg.Validate(); err != nil {
			return nil, fmt.Errorf("sms at %d: %w", date, err)
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

func readMMS(db *sql.DB) ([]entities.Message, error) {
	rows, err := db.Query(`
		SELECT _id, date, msg_box, read
		FROM pdu
		WHERE msg_box IN (?, ?)
		ORDER BY date, _id
	`, boxReceived, boxSent)
	if err != nil {
		return nil, fmt.Errorf("failed to query pdu table: %w", err)
	}
	defer rows.Close()

	var messages []entities.Message
	for rows.Next() {
		var (
			id        int64
			date      int64 // seconds, unlike the sms table
			box, read int
		)
		if err := rows.Scan(&id, &date, &box, &read); err != nil {
			return nil, fmt.Errorf("failed to scan pdu row: %w", err)
		}

		msg := entities.Message{
			Timestamp: time.Unix(date, 0).UTC(),
			Read:      read == 1,
		}
		if box == boxReceived {
			msg.Direction = entities.DirectionReceived
		} else {
			msg.Direction = entities.DirectionSent
		}

		if err := readAddrs(db, id, &msg); err != nil {
			return nil, fmt.Errorf("mms %d: %w", id, err)
		}

		msg.Attachments, err = readParts(db, id)
		if err != nil {
			return nil, fmt.Errorf("mms %d: %w", id, err)
		}

		if err := msg.Validate(); err != nil {
			return nil, fmt.Errorf("mms %d: %w", id, err)
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

func readAddrs(db *sql.DB, msgID int64, msg *entities.Message) error {
	rows, err := db.Query(`
		SELECT address, type
		FROM addr
		WHERE msg_id = ?
		ORDER BY _id
	`, msgID)
	if err != nil {
		return fmt.Errorf("failed to query addr table: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			address  sql.NullString
			addrType int
		)
		if err := rows.Scan(&address, &addrType); err != nil {
			return fmt.Errorf("failed to scan addr row: %w", err)
		}
		if address.String == selfAddressToken {
			continue
		}

		switch addrType {
		case addrTypeFrom:
			if msg.Direction == entities.DirectionReceived && msg.Sender == "" {
				msg.Sender = address.String
			}
		case addrTypeTo:
			msg.Recipients = append(msg.Recipients, address.String)
		}
	}
	return rows.Err()
}

func readParts(db *sql.DB, msgID int64) ([]entities.Attachment, error) {
	rows, err := db.Query(`
		SELECT seq, ct, text
		FROM part
		WHERE mid = ?
		ORDER BY seq, _id
	`, msgID)
	if err != nil {
		return nil, fmt.Errorf("failed to query part table: %w", err)
	}
	defer rows.Close()

	var attachments []entities.Attachment
	for rows.Next() {
		var (
			seq         int
			contentType string
			text        sql.NullString
		)
		if err := rows.Scan(&seq, &contentType, &text); err != nil {
			return nil, fmt.Errorf("failed to scan part row: %w", err)
		}

		if !text.Valid {
			return nil, fmt.Errorf("part %d (%s): payload is stored outside the database", seq, contentType)
		}

		attachment := entities.Attachment{ContentType: contentType}
		if attachment.IsText() {
			attachment.Text = text.String
		} else {
			attachment.Data = []byte(text.String)
		}
		attachments = append(attachments, attachment)
	}
	return attachments, rows.Err()
}
