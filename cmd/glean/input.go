package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	isatty "github.com/mattn/go-isatty"
)

// readInput resolves the text to analyze: the positional file if given,
// otherwise stdin. With no file, no pipe and a custom prompt the text is
// empty and the prompt stands alone.
func (cli *CLI) readInput() (string, error) {
	if cli.File != "" {
		warnFileExtension(cli.File)

		data, err := os.ReadFile(cli.File)
		if err != nil {
			if os.IsNotExist(err) {
				return "", fmt.Errorf("file %q not found", cli.File)
			}

			return "", fmt.Errorf("reading file %q: %w", cli.File, err)
		}

		return string(data), nil
	}

	if isatty.IsTerminal(os.Stdin.Fd()) {
		if cli.Prompt != "" {
			return "", nil
		}

		return "", fmt.Errorf("no file provided and no input from stdin")
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}

	return string(data), nil
}

func warnFileExtension(path string) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case "", ".txt", ".md":
	default:
		warnf("file extension %q may not be optimal for text analysis", ext)
	}
}

// printResult writes the analysis to the output, word-wrapped when it is a
// terminal and verbatim when piped.
func printResult(out *os.File, result string) error {
	if !strings.HasSuffix(result, "\n") {
		result += "\n"
	}

	if isatty.IsTerminal(out.Fd()) {
		ww := NewWrapWriter(out, 100)
		if _, err := ww.WriteString(result); err != nil {
			return err
		}

		return ww.Flush()
	}

	_, err := out.WriteString(result)

	return err
}
