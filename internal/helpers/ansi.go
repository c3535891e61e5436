package helpers

import "github.com/charmbracelet/x/ansi"

// StripANSI removes terminal escape sequences such as color codes.
func StripANSI(s string) string {
	return ansi.Strip(s)
}

// ShortID shortens an identifier for display.
func ShortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}
