package cli

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/mrlokans/textme/internal/config"
	"github.com/mrlokans/textme/internal/entities"
	"github.com/mrlokans/textme/internal/pipeline"
)

// InspectCommand parses backups and prints a summary without converting.
type InspectCommand struct {
	From    string
	Inputs  []string
	Verbose bool
}

func NewInspectCommand() *InspectCommand {
	return &InspectCommand{}
}

func (cmd *InspectCommand) ParseFlags(args []string) error {
	cfg := config.NewConfig()

	fs := flag.NewFlagSet("inspect", flag.ExitOnError)
	fs.StringVar(&cmd.From, "from", cfg.From, "format of ALL input files: "+strings.Join(pipeline.Names(), ", ")+" (required)")
	fs.BoolVar(&cmd.Verbose, "verbose", false, "print every message's timestamp and participants")

	var inputs multiFlag
	fs.Var(&inputs, "input", "input file path (repeatable)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s inspect -from <format> -input FILE [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Parse message backups and print per-file counts without converting.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	cmd.Inputs = append([]string(inputs), fs.Args()...)

	if cmd.From == "" {
		return fmt.Errorf("required flag -from not provided")
	}
	if len(cmd.Inputs) == 0 {
		return fmt.Errorf("no input files given (use -input)")
	}

	return nil
}

func (cmd *InspectCommand) Run() error {
	format, err := pipeline.Lookup(cmd.From)
	if err != nil {
		return err
	}

	var all []entities.Message
	for _, path := range cmd.Inputs {
		messages, err := pipeline.ReadFile(format, path)
		if err != nil {
			return err
		}
		fmt.Printf("%s: %d messages\n", path, len(messages))
		all = append(all, messages...)
	}

	if len(all) == 0 {
		fmt.Println("\nNo messages found")
		return nil
	}

	var sms, mms, sent int
	earliest, latest := all[0].Timestamp, all[0].Timestamp
	for _, msg := range all {
		if len(msg.Attachments) > 0 || msg.IsGroup() {
			mms++
		} else {
			sms++
		}
		if msg.Direction == entities.DirectionSent {
			sent++
		}
		if msg.Timestamp.Before(earliest) {
			earliest = msg.Timestamp
		}
		if msg.Timestamp.After(latest) {
			latest = msg.Timestamp
		}
	}

	fmt.Printf("\nTotal: %d messages (%d SMS, %d MMS)\n", len(all), sms, mms)
	fmt.Printf("Sent: %d, received: %d\n", sent, len(all)-sent)
	fmt.Printf("From %s to %s\n", earliest.Format("2006-01-02 15:04:05"), latest.Format("2006-01-02 15:04:05"))

	if cmd.Verbose {
		fmt.Println()
		for _, msg := range all {
			fmt.Printf("  %s  %-8s  %s\n",
				msg.Timestamp.Format("2006-01-02 15:04:05"),
				msg.Direction,
				strings.Join(msg.Participants(), ", "))
		}
	}

	return nil
}
