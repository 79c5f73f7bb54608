package cli

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/mrlokans/textme/internal/config"
	"github.com/mrlokans/textme/internal/pipeline"
)

// ConvertCommand converts message backups between formats.
type ConvertCommand struct {
	From       string
	To         string
	Phone      string
	OutputPath string
	Inputs     []string
	Sort       bool
	Normalize  bool
}

func NewConvertCommand() *ConvertCommand {
	return &ConvertCommand{}
}

func (cmd *ConvertCommand) ParseFlags(args []string) error {
	cfg := config.NewConfig()
	formatNames := strings.Join(pipeline.Names(), ", ")

	fs := flag.NewFlagSet("convert", flag.ExitOnError)
	fs.StringVar(&cmd.From, "from", cfg.From, "format of ALL input files: "+formatNames+" (required)")
	fs.StringVar(&cmd.To, "to", cfg.To, "format of the output: "+formatNames+" (required)")
	fs.StringVar(&cmd.Phone, "phone", cfg.Phone, "your phone number, used to tag outgoing MMS sender addresses")
	fs.StringVar(&cmd.OutputPath, "output", "", "write the output document to a file instead of stdout")
	fs.BoolVar(&cmd.Sort, "sort", false, "sort messages from oldest to newest instead of keeping input-file order")
	fs.BoolVar(&cmd.Normalize, "norm", false, "normalize phone numbers, e.g. +1 123-456-7890 and (123) 456-7890 become 1234567890")

	var inputs multiFlag
	fs.Var(&inputs, "input", "input file path (repeatable)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s convert -from <format> -to <format> -input FILE [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Convert SMS/MMS message backups between formats.\n\n")
		fmt.Fprintf(os.Stderr, "All input files are parsed before any output is produced, concatenated in\n")
		fmt.Fprintf(os.Stderr, "the order given (duplicates are kept) and written to stdout.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  # Windows 10 Mobile backup to Android:\n")
		fmt.Fprintf(os.Stderr, "  %s convert -from win10 -to android -phone \"+1 555 123 4567\" -input backup.msg > sms-backup.xml\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  # Merge two backups, oldest first:\n")
		fmt.Fprintf(os.Stderr, "  %s convert -from android -to android -phone 5551234567 -sort -input old.xml -input new.xml\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	// Inputs may be given as repeated -input flags, positionals, or both.
	cmd.Inputs = append([]string(inputs), fs.Args()...)

	if cmd.From == "" {
		return fmt.Errorf("required flag -from not provided")
	}
	if cmd.To == "" {
		return fmt.Errorf("required flag -to not provided")
	}
	if len(cmd.Inputs) == 0 {
		return fmt.Errorf("no input files given (use -input)")
	}

	return nil
}

func (cmd *ConvertCommand) Run() error {
	out := os.Stdout
	if cmd.OutputPath != "" {
		file, err := os.Create(cmd.OutputPath)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer file.Close()
		out = file
	}

	return pipeline.Run(out, pipeline.Options{
		From:      cmd.From,
		To:        cmd.To,
		Phone:     cmd.Phone,
		Inputs:    cmd.Inputs,
		Sort:      cmd.Sort,
		Normalize: cmd.Normalize,
	})
}
