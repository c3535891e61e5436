// Package sse implements the text/event-stream wire format used by the log stream.
package sse

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const ContentType = "text/event-stream"

// Event is a single server-sent event.
type Event struct {
	ID    string
	Type  string // empty means "message"
	Data  string
	Retry time.Duration // zero when the event carried no retry field
}

// lineBreak matches every line terminator an event stream accepts.
var lineBreak = regexp.MustCompile(`\r\n|\r|\n`)

// Write encodes an event. Multi-line data is split into several data fields,
// on CR, LF and CRLF alike, so no terminator ends up inside a field.
func Write(w io.Writer, e Event) error {
	var b strings.Builder
	if e.ID != "" {
		fmt.Fprintf(&b, "id: %s\n", e.ID)
	}
	if e.Type != "" {
		fmt.Fprintf(&b, "event: %s\n", e.Type)
	}
	if e.Retry > 0 {
		fmt.Fprintf(&b, "retry: %d\n", e.Retry.Milliseconds())
	}
	for _, line := range lineBreak.Split(e.Data, -1) {
		fmt.Fprintf(&b, "data: %s\n", line)
	}
	b.WriteByte('\n')

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("failed to write SSE event: %w", err)
	}
	return nil
}

// WriteComment writes a comment line, used as keepalive.
func WriteComment(w io.Writer, text string) error {
	if _, err := fmt.Fprintf(w, ": %s\n\n", text); err != nil {
		return fmt.Errorf("failed to write SSE comment: %w", err)
	}
	return nil
}

// Reader decodes events from a stream.
type Reader struct {
	reader *bufio.Reader

	lastID string
	retry  time.Duration
	// skipLF is set after a CR so that the LF of a CRLF pair is not read as an empty line.
	skipLF bool
}

func NewReader(r io.Reader) *Reader {
	return &Reader{reader: bufio.NewReader(r)}
}

// LastEventID returns the most recent id field seen, which persists across events.
func (r *Reader) LastEventID() string {
	return r.lastID
}

// Next reads until the next dispatchable event. Blocks without any data
// field are skipped, like a browser event stream does. It returns io.EOF when the
// stream ends; a partially received event at the end of the stream is discarded.
func (r *Reader) Next() (Event, error) {
	var (
		data      strings.Builder
		hasData   bool
		eventType string
		retry     time.Duration
	)

	for {
		line, err := r.readLine()
		if err != nil {
			if err == io.EOF {
				return Event{}, io.EOF
			}
			return Event{}, fmt.Errorf("error reading stream: %w", err)
		}

		if line == "" {
			if !hasData {
				eventType = ""
				retry = 0
				continue
			}
			return Event{ID: r.lastID, Type: eventType, Data: data.String(), Retry: retry}, nil
		}

		if strings.HasPrefix(line, ":") {
			continue
		}

		field, value := line, ""
		if idx := strings.IndexByte(line, ':'); idx >= 0 {
			field = line[:idx]
			value = strings.TrimPrefix(line[idx+1:], " ")
		}

		switch field {
		case "data":
			if hasData {
				data.WriteByte('\n')
			}
			data.WriteString(value)
			hasData = true
		case "event":
			eventType = value
		case "id":
			if !strings.ContainsRune(value, 0) {
				r.lastID = value
			}
		case "retry":
			if ms, convErr := strconv.ParseUint(value, 10, 32); convErr == nil {
				r.retry = time.Duration(ms) * time.Millisecond
				retry = r.retry
			}
		}
	}
}

// readLine returns the next line without its terminator. CR, LF and CRLF all
// end a line. A line cut off by the end of the stream is discarded.
func (r *Reader) readLine() (string, error) {
	var line strings.Builder
	for {
		c, err := r.reader.ReadByte()
		if err != nil {
			return "", err
		}
		if r.skipLF {
			r.skipLF = false
			if c == '\n' {
				continue
			}
		}
		switch c {
		case '\n':
			return line.String(), nil
		case '\r':
			r.skipLF = true
			return line.String(), nil
		}
		line.WriteByte(c)
	}
}

// Retry returns the last reconnection delay announced by the server, or zero.
func (r *Reader) Retry() time.Duration {
	return r.retry
}
