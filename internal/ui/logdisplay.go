package ui

import (
	"fmt"
	"regexp"

	"github.com/pterm/pterm"
)

// Level is the severity a log line appears to have, guessed from its keywords.
// It only affects how the line is colored, the text is never changed.
type Level int

const (
	LevelNone Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
	LevelSuccess
)

var (
	errorPattern   = regexp.MustCompile(`(?i)\b(error|err|fatal|fail|failed|exception|panic|traceback)\b`)
	warningPattern = regexp.MustCompile(`(?i)\b(warn|warning|caution)\b`)
	infoPattern    = regexp.MustCompile(`(?i)\b(info|information|loading)\b`)
	debugPattern   = regexp.MustCompile(`(?i)\b(debug|trace)\b`)
	successPattern = regexp.MustCompile(`(?i)\b(done|finished|completed|success|successfully)\b`)
)

// LineLevel detects the level of a raw log line.
func LineLevel(line string) Level {
	switch {
	case errorPattern.MatchString(line):
		return LevelError
	case warningPattern.MatchString(line):
		return LevelWarn
	case infoPattern.MatchString(line):
		return LevelInfo
	case debugPattern.MatchString(line):
		return LevelDebug
	case successPattern.MatchString(line):
		return LevelSuccess
	default:
		return LevelNone
	}
}

// DisplayLogLine prints one streamed line, colored by its level.
func DisplayLogLine(line string) {
	switch LineLevel(line) {
	case LevelError:
		Error("%s", line)
	case LevelWarn:
		Warn("%s", line)
	case LevelInfo:
		Info("%s", line)
	case LevelDebug:
		Debug("%s", line)
	case LevelSuccess:
		Success("%s", line)
	default:
		fmt.Fprintf(Output, "%s\n", line)
	}
}

// LogView prints appended lines to the terminal.
type LogView struct{}

func (LogView) AppendLine(line string) {
	DisplayLogLine(line)
}

// Alert reports a failure the user must see.
func Alert(message string) {
	pterm.Error.WithWriter(Output).Println(message)
}
