// Package logview holds the log views the stream client renders into.
package logview

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// View receives log lines in the order they arrived.
type View interface {
	AppendLine(line string)
}

// Buffer is an in-memory log view. It keeps the full text and a scroll
// position over a window of Height lines, and follows the newest line.
type Buffer struct {
	mutex   sync.RWMutex
	content strings.Builder
	lines   int
	height  int
	offset  int
}

// NewBuffer creates a Buffer showing height lines at a time.
func NewBuffer(height int) *Buffer {
	if height < 1 {
		height = 1
	}
	return &Buffer{height: height}
}

// AppendLine appends the line and a line terminator, then scrolls to the bottom.
// A message holding several lines counts as that many lines of the view.
func (b *Buffer) AppendLine(line string) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	b.content.WriteString(line)
	b.content.WriteByte('\n')
	b.lines += strings.Count(line, "\n") + 1
	b.offset = b.maxOffset()
}

// Content returns everything appended so far.
func (b *Buffer) Content() string {
	b.mutex.RLock()
	defer b.mutex.RUnlock()
	return b.content.String()
}

// Lines returns the number of lines of text in the view.
func (b *Buffer) Lines() int {
	b.mutex.RLock()
	defer b.mutex.RUnlock()
	return b.lines
}

// ScrollOffset is the index of the first visible line.
func (b *Buffer) ScrollOffset() int {
	b.mutex.RLock()
	defer b.mutex.RUnlock()
	return b.offset
}

// MaxScrollOffset is the offset at which the newest line is visible.
func (b *Buffer) MaxScrollOffset() int {
	b.mutex.RLock()
	defer b.mutex.RUnlock()
	return b.maxOffset()
}

// ScrollTo moves the window, clamped to the valid range.
func (b *Buffer) ScrollTo(offset int) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	b.offset = max(0, min(offset, b.maxOffset()))
}

// SetHeight changes the window size and keeps the view pinned to the bottom.
func (b *Buffer) SetHeight(height int) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	if height < 1 {
		height = 1
	}
	b.height = height
	b.offset = b.maxOffset()
}

// Visible returns the lines currently inside the window.
func (b *Buffer) Visible() []string {
	b.mutex.RLock()
	defer b.mutex.RUnlock()

	all := strings.Split(strings.TrimSuffix(b.content.String(), "\n"), "\n")
	if b.lines == 0 {
		return nil
	}
	end := min(b.offset+b.height, len(all))
	return all[b.offset:end]
}

func (b *Buffer) maxOffset() int {
	return max(0, b.lines-b.height)
}

// Writer is a view over a terminal or any other io.Writer; the writer's
// own scrolling keeps the newest line visible.
type Writer struct {
	mutex sync.Mutex
	out   io.Writer
	err   error
}

func NewWriter(out io.Writer) *Writer {
	return &Writer{out: out}
}

// AppendLine writes the line and a line terminator. The first write error is kept.
func (w *Writer) AppendLine(line string) {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	if w.err != nil {
		return
	}
	if _, err := fmt.Fprintf(w.out, "%s\n", line); err != nil {
		w.err = fmt.Errorf("failed to write log line: %w", err)
	}
}

// Err returns the first write error, if any.
func (w *Writer) Err() error {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	return w.err
}

// Func adapts a function to the View interface.
type Func func(line string)

func (f Func) AppendLine(line string) { f(line) }
