// Package terminal provides ANSI color helpers for human-facing CLI output.
package terminal

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

const (
	escapePrefixConstant        = "\x1b["
	resetSequenceConstant       = escapePrefixConstant + "0m"
	redSequenceConstant         = escapePrefixConstant + "91m"
	greenSequenceConstant       = escapePrefixConstant + "92m"
	yellowSequenceConstant      = escapePrefixConstant + "93m"
	boldSequenceConstant        = escapePrefixConstant + "1m"
	noColorEnvironmentVariable  = "NO_COLOR"
	terminalTypeEnvironmentName = "TERM"
)

// Palette holds the escape sequences applied to decorated output.
type Palette struct {
	Red    string
	Green  string
	Yellow string
	Bold   string
	Reset  string
}

// NewPalette resolves a palette for the provided writer, honoring NO_COLOR and
// missing TERM by falling back to an empty palette.
func NewPalette(writer io.Writer) Palette {
	if !colorsEnabled(writer) {
		return Palette{}
	}
	return Palette{
		Red:    redSequenceConstant,
		Green:  greenSequenceConstant,
		Yellow: yellowSequenceConstant,
		Bold:   boldSequenceConstant,
		Reset:  resetSequenceConstant,
	}
}

// Errorf wraps the message in the palette's error color.
func (palette Palette) Errorf(message string) string {
	if len(palette.Red) == 0 {
		return message
	}
	return palette.Red + message + palette.Reset
}

// Successf wraps the message in the palette's success color.
func (palette Palette) Successf(message string) string {
	if len(palette.Green) == 0 {
		return message
	}
	return palette.Green + message + palette.Reset
}

// Emphasize wraps the message in the palette's bold sequence.
func (palette Palette) Emphasize(message string) string {
	if len(palette.Bold) == 0 {
		return message
	}
	return palette.Bold + message + palette.Reset
}

func colorsEnabled(writer io.Writer) bool {
	if len(os.Getenv(noColorEnvironmentVariable)) > 0 {
		return false
	}
	if len(os.Getenv(terminalTypeEnvironmentName)) == 0 {
		return false
	}
	fileWriter, isFile := writer.(*os.File)
	if !isFile {
		return false
	}
	return isatty.IsTerminal(fileWriter.Fd()) || isatty.IsCygwinTerminal(fileWriter.Fd())
}
