package main

import (
	"bytes"
	"io"
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	bulletRegexp    = regexp.MustCompile(`^\s*([-*]|\d+\.) `)
	wordlikeRegexp  = regexp.MustCompile(`^(\s*)(\S+)\s`)
	quoteRegexp     = regexp.MustCompile(`^> `)
	leadingWsRegexp = regexp.MustCompile(`^\s+`)
	leadingNlRegexp = regexp.MustCompile(`^\n+`)
)

// WrapWriter word-wraps text at a fixed column for terminal output.
// Continuation lines inherit the indentation, bullet or quote prefix of the
// line they broke from, and fenced code blocks pass through unwrapped.
type WrapWriter struct {
	output io.StringWriter
	maxLen int
	line   strings.Builder
	wrap   bool
	buf    []byte
}

func NewWrapWriter(output io.StringWriter, maxLen int) *WrapWriter {
	return &WrapWriter{
		output: output,
		maxLen: maxLen,
		wrap:   true,
	}
}

func (ww *WrapWriter) WriteString(str string) (int, error) {
	ww.buf = append(ww.buf, str...)

	for {
		m := wordlikeRegexp.FindSubmatchIndex(ww.buf)
		if m == nil {
			// No full word yet; flush any leading newlines and keep the rest
			// buffered for the next write or Flush.
			if nl := leadingNlRegexp.FindIndex(ww.buf); nl != nil {
				ww.output.WriteString(string(ww.buf[:nl[1]]))
				ww.buf = ww.buf[nl[1]:]
				ww.line.Reset()
			}

			return len(str), nil
		}

		ws := ww.buf[m[2]:m[3]]
		word := ww.buf[m[4]:m[5]]
		ww.buf = ww.buf[m[5]:]

		ww.writeWord(ws, word)
	}
}

func (ww *WrapWriter) writeWord(ws, word []byte) {
	output := string(ws) + string(word)

	if nl := bytes.Count(ws, []byte("\n")); nl > 0 {
		ww.output.WriteString(strings.Repeat("\n", nl))
		ww.line.Reset()
		// Keep the indentation that followed the last newline.
		indent := ws[bytes.LastIndexByte(ws, '\n')+1:]
		output = string(indent) + string(word)
	}

	if ww.line.Len() == 0 && strings.HasPrefix(string(word), "```") {
		ww.wrap = !ww.wrap
	}

	if ww.wrap && utf8.RuneCountInString(ww.line.String()+output) > ww.maxLen {
		prefix := ww.linePrefix()
		ww.output.WriteString("\n" + prefix)
		ww.line.Reset()
		ww.line.WriteString(prefix)
		output = string(word)
	}

	ww.output.WriteString(output)
	ww.line.WriteString(output)
}

// linePrefix derives the continuation prefix from the current line: bullet
// markers turn into matching indentation, quoted lines stay quoted, and
// plain indentation carries over.
func (ww *WrapWriter) linePrefix() string {
	line := ww.line.String()

	if str := bulletRegexp.FindString(line); str != "" {
		return strings.Repeat(" ", len(str))
	}

	if str := leadingWsRegexp.FindString(line); str != "" {
		return str
	}

	if quoteRegexp.MatchString(line) {
		return "> "
	}

	return ""
}

// Flush writes out whatever is still buffered, wrapping once more if the
// trailing fragment would overflow the line.
func (ww *WrapWriter) Flush() error {
	if len(ww.buf) == 0 {
		return nil
	}

	rest := string(ww.buf)
	ww.buf = ww.buf[:0]

	if ww.wrap && utf8.RuneCountInString(ww.line.String()+rest) > ww.maxLen {
		ww.output.WriteString("\n")
		rest = strings.TrimLeft(rest, " \t")
	}

	_, err := ww.output.WriteString(rest)

	return err
}
