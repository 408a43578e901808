package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/aretw0/wellplan/internal/presentation/graph"
	"github.com/aretw0/wellplan/internal/presentation/report"
	"github.com/aretw0/wellplan/internal/presentation/tui"
	"github.com/aretw0/wellplan/pkg/config"
	"github.com/aretw0/wellplan/pkg/domain"
	"github.com/aretw0/wellplan/pkg/ports"
)

// ReportFormat selects how Report prints a run.
type ReportFormat string

const (
	FormatMarkdown ReportFormat = "markdown" // rendered for the terminal
	FormatRaw      ReportFormat = "raw"      // markdown source
	FormatJSON     ReportFormat = "json"
)

// Report prints the reconciliation report of a stored run.
// style is the glamour style for FormatMarkdown; empty detects the terminal background.
func Report(ctx context.Context, store ports.RunStore, runID string, format ReportFormat, style string, out io.Writer) error {
	state, err := store.Load(ctx, runID)
	if err != nil {
		return fmt.Errorf("failed to load run %s: %w", runID, err)
	}
	rep := domain.BuildReport(state)

	switch format {
	case FormatJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	case FormatRaw:
		_, err := fmt.Fprint(out, report.Markdown(rep))
		return err
	case "", FormatMarkdown:
		render, err := tui.NewRenderer(style)
		if err != nil {
			return err
		}
		text, err := render(report.Markdown(rep))
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(out, text)
		return err
	}
	return fmt.Errorf("unknown format %q (want markdown, raw or json)", format)
}

// Inspect prints the raw snapshot of a run, or its progress on the protocol graph when
// protocolPath is set.
func Inspect(ctx context.Context, store ports.RunStore, runID, protocolPath string, out io.Writer) error {
	state, err := store.Load(ctx, runID)
	if err != nil {
		return fmt.Errorf("failed to load run %s: %w", runID, err)
	}
	if protocolPath != "" {
		p, err := config.Load(protocolPath)
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(out, graph.GenerateMermaid(p, graph.OverlayFromState(state)))
		return err
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(state)
}
