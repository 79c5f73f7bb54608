// Package pipeline wires readers, the merge/order stage and writers into a
// single conversion run: parse every input, concatenate (or sort), write one
// output document.
package pipeline

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/mrlokans/textme/internal/entities"
	"github.com/mrlokans/textme/internal/formats"
	"github.com/mrlokans/textme/internal/phone"
)

// Options is the explicit configuration threaded through a conversion run.
type Options struct {
	From      string
	To        string
	Phone     string   // self phone number for outgoing MMS sender addresses
	Inputs    []string // concatenated in the order given, no dedup
	Sort      bool     // stable sort by ascending timestamp
	Normalize bool     // normalize phone-number-like participants
}

// Run executes one full conversion and writes the result to w. The first
// invalid input aborts the run; nothing is written until every input has
// been read.
func Run(w io.Writer, opts Options) error {
	source, err := Lookup(opts.From)
	if err != nil {
		return err
	}
	destination, err := Lookup(opts.To)
	if err != nil {
		return err
	}
	if destination.Write == nil {
		return fmt.Errorf("format %q does not support writing", opts.To)
	}

	messages, err := Load(source, opts.Inputs)
	if err != nil {
		return err
	}

	if opts.Normalize {
		messages = NormalizeAddresses(messages)
	}
	if opts.Sort {
		SortByTimestamp(messages)
	}

	return destination.Write(w, messages, formats.WriteOptions{Phone: opts.Phone})
}

// Load reads every input file with the given format and concatenates the
// results in the order the files were listed. Each file is opened, fully
// read and closed before the next one.
func Load(format formats.Format, paths []string) ([]entities.Message, error) {
	var all []entities.Message
	for _, path := range paths {
		messages, err := ReadFile(format, path)
		if err != nil {
			return nil, err
		}
		all = append(all, messages...)
	}
	return all, nil
}

// ReadFile reads a single input file with the given format.
func ReadFile(format formats.Format, path string) ([]entities.Message, error) {
	if format.ReadFile != nil {
		return format.ReadFile(path)
	}
	if format.Read == nil {
		return nil, fmt.Errorf("format %q does not support reading", format.Name)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()

	messages, err := format.Read(file)
	if err != nil {
		var parseErr *formats.ParseError
		if errors.As(err, &parseErr) && parseErr.Path == "" {
			parseErr.Path = path
		}
		return nil, err
	}
	return messages, nil
}

// SortByTimestamp sorts messages by ascending timestamp. The sort is stable:
// messages with equal timestamps keep their relative input order.
func SortByTimestamp(messages []entities.Message) {
	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].Timestamp.Before(messages[j].Timestamp)
	})
}

// NormalizeAddresses returns a copy of the sequence with every sender and
// recipient run through phone.Normalize. Messages are treated as immutable,
// so fresh records are built instead of editing in place.
func NormalizeAddresses(messages []entities.Message) []entities.Message {
	normalized := make([]entities.Message, len(messages))
	for i, msg := range messages {
		msg.Sender = phone.Normalize(msg.Sender)
		msg.Recipients = phone.NormalizeAll(msg.Recipients)
		normalized[i] = msg
	}
	return normalized
}
