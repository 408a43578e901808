package tui_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/aretw0/wellplan/internal/presentation/tui"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	tui.PrintBanner(&buf, termenv.Ascii)

	out := buf.String()
	assert.NotContains(t, out, "\x1b[")
	assert.Len(t, strings.Split(strings.Trim(out, "\n"), "\n"), 6)
}

func TestNewRenderer(t *testing.T) {
	render, err := tui.NewRenderer("notty")
	require.NoError(t, err)

	out, err := render("# Run report\n\n| Reagent | Used |\n|---|---|\n| Beads | 600 |\n")
	require.NoError(t, err)
	assert.Contains(t, out, "Run report")
	assert.Contains(t, out, "Beads")
}
