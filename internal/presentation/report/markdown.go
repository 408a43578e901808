// Package report turns a run report into markdown for the terminal and for archiving.
package report

import (
	"fmt"
	"strings"

	"github.com/aretw0/wellplan/pkg/domain"
)

// Markdown renders rep as a markdown document with one table for reagents and one for pools.
func Markdown(rep domain.Report) string {
	var sb strings.Builder

	title := rep.Protocol
	if title == "" {
		title = "run"
	}
	fmt.Fprintf(&sb, "# %s\n\n", title)
	if rep.RunID != "" {
		fmt.Fprintf(&sb, "Run `%s`", rep.RunID)
		if rep.Status != "" {
			fmt.Fprintf(&sb, " is **%s**", rep.Status)
		}
		sb.WriteString(".\n\n")
	}

	sb.WriteString("## Reagents\n\n")
	if len(rep.Reagents) == 0 {
		sb.WriteString("No reagents.\n\n")
	} else {
		sb.WriteString("| Reagent | Used (µl) | Draws | Wells | Leftover per well (µl) | Remaining (µl) |\n")
		sb.WriteString("|---|---:|---:|---:|---|---:|\n")
		for _, r := range rep.Reagents {
			fmt.Fprintf(&sb, "| %s | %s | %d | %d/%d | %s | %s |\n",
				r.Name, num(r.Aspirated), r.Aspirations, r.WellsOpened, r.WellCount, leftovers(r.Leftovers), num(r.Remaining))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("## Consumables\n\n")
	if len(rep.Pools) == 0 {
		sb.WriteString("No pools.\n")
	} else {
		sb.WriteString("| Pool | Kind | Used | In rack | Capacity | Reloads |\n")
		sb.WriteString("|---|---|---:|---:|---:|---:|\n")
		for _, p := range rep.Pools {
			fmt.Fprintf(&sb, "| %s | %s | %d | %d | %d | %d |\n",
				p.Name, p.Kind, p.TotalConsumed, p.Consumed, p.Capacity, p.Replenishments)
		}
	}
	return sb.String()
}

func num(v float64) string {
	return fmt.Sprintf("%.1f", v)
}

func leftovers(log []float64) string {
	if len(log) == 0 {
		return "-"
	}
	parts := make([]string, len(log))
	for i, v := range log {
		parts[i] = num(v)
	}
	return strings.Join(parts, ", ")
}
