package ui

import (
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
)

// Output is where the print helpers write. Tests swap it for a buffer.
var Output io.Writer = color.Output

var (
	Success = printer(color.New(color.FgGreen).Add(color.Bold))
	Info    = printer(color.New(color.FgCyan))
	Debug   = printer(color.New(color.FgWhite))
	Command = printer(color.New(color.FgYellow))
	Warn    = printer(color.New(color.FgYellow).Add(color.Bold))
	Error   = printer(color.New(color.FgRed).Add(color.Bold))
)

func printer(c *color.Color) func(format string, a ...any) {
	return func(format string, a ...any) {
		c.Fprintf(Output, format+"\n", a...)
	}
}

func Section(title string, textLines []string) {
	lines := strings.Join(textLines, "\n")
	pterm.DefaultSection.WithWriter(Output).Println(title)
	pterm.Info.WithWriter(Output).Println(lines)
}
