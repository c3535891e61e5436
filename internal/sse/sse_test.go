package sse

import (
	"bytes"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readAll(t *testing.T, input string) ([]Event, *Reader) {
	t.Helper()
	r := NewReader(strings.NewReader(input))
	var events []Event
	for {
		e, err := r.Next()
		if err == io.EOF {
			return events, r
		}
		require.NoError(t, err)
		events = append(events, e)
	}
}

func TestReaderNext(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []Event
	}{
		{
			name:     "single_message",
			input:    "data: hello\n\n",
			expected: []Event{{Data: "hello"}},
		},
		{
			name:     "multi_line_data",
			input:    "data: first\ndata: second\n\n",
			expected: []Event{{Data: "first\nsecond"}},
		},
		{
			name:     "comments_and_keepalive_skipped",
			input:    ": keepalive\n\ndata: a\n\n: keepalive\n\n",
			expected: []Event{{Data: "a"}},
		},
		{
			name:     "no_space_after_colon",
			input:    "data:tight\n\n",
			expected: []Event{{Data: "tight"}},
		},
		{
			name:     "empty_data_field_dispatches_empty_message",
			input:    "data:\n\n",
			expected: []Event{{Data: ""}},
		},
		{
			name:     "crlf_line_endings",
			input:    "data: windows\r\n\r\n",
			expected: []Event{{Data: "windows"}},
		},
		{
			name:     "cr_line_endings",
			input:    "data: x\rdata: y\r\r",
			expected: []Event{{Data: "x\ny"}},
		},
		{
			name:     "mixed_line_endings",
			input:    "data: a\r\ndata: b\rdata: c\n\r\ndata: d\n\n",
			expected: []Event{{Data: "a\nb\nc"}, {Data: "d"}},
		},
		{
			name:  "event_type_and_id",
			input: "id: 7\nevent: status\ndata: done\n\n",
			expected: []Event{
				{ID: "7", Type: "status", Data: "done"},
			},
		},
		{
			name:     "incomplete_trailing_event_discarded",
			input:    "data: complete\n\ndata: partial\n",
			expected: []Event{{Data: "complete"}},
		},
		{
			name:     "block_without_data_ignored",
			input:    "event: ping\n\ndata: real\n\n",
			expected: []Event{{Data: "real"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events, _ := readAll(t, tt.input)
			assert.Equal(t, tt.expected, events)
		})
	}
}

func TestReaderRetryAndLastEventID(t *testing.T) {
	events, r := readAll(t, "retry: 1500\n\nid: 1\ndata: a\n\ndata: b\n\n")

	require.Len(t, events, 2)
	assert.Equal(t, 1500*time.Millisecond, r.Retry())
	assert.Equal(t, "1", r.LastEventID())
	// The id persists for later events without an id field.
	assert.Equal(t, "1", events[1].ID)
}

func TestReaderIgnoresInvalidRetry(t *testing.T) {
	_, r := readAll(t, "retry: soon\ndata: x\n\n")
	assert.Zero(t, r.Retry())
}

func TestWriteRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, Event{Data: "line one\nline two"}))
	require.NoError(t, WriteComment(&buf, "keepalive"))
	require.NoError(t, Write(&buf, Event{ID: "2", Type: "status", Data: "ok", Retry: 2 * time.Second}))

	assert.Equal(t,
		"data: line one\ndata: line two\n\n: keepalive\n\nid: 2\nevent: status\nretry: 2000\ndata: ok\n\n",
		buf.String())

	events, _ := readAll(t, buf.String())
	require.Len(t, events, 2)
	assert.Equal(t, "line one\nline two", events[0].Data)
	assert.Equal(t, Event{ID: "2", Type: "status", Data: "ok", Retry: 2 * time.Second}, events[1])
}

func TestWriteSplitsOnEveryLineTerminator(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, Event{Data: "10%\r20%\r\n30%\n"}))

	assert.Equal(t, "data: 10%\ndata: 20%\ndata: 30%\ndata: \n\n", buf.String())
	assert.NotContains(t, buf.String(), "\r")

	events, _ := readAll(t, buf.String())
	require.Len(t, events, 1)
	assert.Equal(t, "10%\n20%\n30%\n", events[0].Data)
}
