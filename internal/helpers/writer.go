package helpers

import (
	"bytes"
	"io"
	"strings"
	"sync"
)

// LineWriter is an io.Writer that calls a function once per complete line.
// Incomplete lines are buffered until a newline arrives or Flush is called.
// Line terminators (\n and a trailing \r) are not passed to the function.
type LineWriter struct {
	mutex  sync.Mutex
	onLine func(line string)
	buf    bytes.Buffer
}

func NewLineWriter(onLine func(line string)) *LineWriter {
	return &LineWriter{onLine: onLine}
}

// Write implements io.Writer.
func (lw *LineWriter) Write(p []byte) (int, error) {
	lw.mutex.Lock()
	defer lw.mutex.Unlock()

	lw.buf.Write(p)
	for {
		line, err := lw.buf.ReadBytes('\n')
		if err == io.EOF {
			// Put the incomplete line back until more data arrives.
			lw.buf.Write(line)
			break
		}
		lw.onLine(strings.TrimRight(string(line), "\r\n"))
	}
	return len(p), nil
}

// Flush emits any buffered partial line.
func (lw *LineWriter) Flush() {
	lw.mutex.Lock()
	defer lw.mutex.Unlock()

	if lw.buf.Len() == 0 {
		return
	}
	line := strings.TrimRight(lw.buf.String(), "\r\n")
	lw.buf.Reset()
	lw.onLine(line)
}
