package terminal_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tyemirov/makex/internal/terminal"
)

func TestNewPaletteDisablesColorsForNonTerminalWriters(testInstance *testing.T) {
	palette := terminal.NewPalette(&bytes.Buffer{})
	require.Empty(testInstance, palette.Red)
	require.Empty(testInstance, palette.Reset)
}

func TestPaletteDecorationFallsBackToPlainText(testInstance *testing.T) {
	palette := terminal.Palette{}
	require.Equal(testInstance, "installation failed", palette.Errorf("installation failed"))
	require.Equal(testInstance, "done", palette.Successf("done"))
	require.Equal(testInstance, "help", palette.Emphasize("help"))
}

func TestPaletteDecorationWrapsWithSequences(testInstance *testing.T) {
	palette := terminal.Palette{Red: "\x1b[91m", Green: "\x1b[92m", Bold: "\x1b[1m", Reset: "\x1b[0m"}
	require.Equal(testInstance, "\x1b[91mbroken\x1b[0m", palette.Errorf("broken"))
	require.Equal(testInstance, "\x1b[92mok\x1b[0m", palette.Successf("ok"))
	require.Equal(testInstance, "\x1b[1mtitle\x1b[0m", palette.Emphasize("title"))
}
