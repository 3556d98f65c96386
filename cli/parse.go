// ABOUTME: Parse CLI command
// ABOUTME: Parses raw OCR text into a card record, printed as JSON
package cli

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/harperreed/meishi/parse"
)

// ParseCommand parses raw card text (from a file or stdin) and prints the
// resulting record as JSON. Useful for debugging extraction heuristics.
func ParseCommand(args []string) error {
	fs := flag.NewFlagSet("parse", flag.ExitOnError)
	textPath := fs.String("text", "-", "Text file to parse, or '-' for stdin")
	_ = fs.Parse(args)

	var data []byte
	var err error
	if *textPath == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(*textPath)
	}
	if err != nil {
		return fmt.Errorf("failed to read text: %w", err)
	}

	record := parse.ParseText(string(data))

	out, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
