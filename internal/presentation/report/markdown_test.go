package report_test

import (
	"testing"

	"github.com/aretw0/wellplan/internal/presentation/report"
	"github.com/aretw0/wellplan/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestMarkdown(t *testing.T) {
	rep := domain.Report{
		RunID:    "run-1",
		Protocol: "extraction",
		Status:   domain.RunCompleted,
		Reagents: []domain.ReagentReport{
			{Name: "Beads", Aspirated: 600, Aspirations: 2, WellsOpened: 2, WellCount: 4, Leftovers: []float64{75}, Remaining: 825},
			{Name: "Ethanol", Aspirated: 0, WellCount: 2, WellsOpened: 1, Leftovers: []float64{}, Remaining: 24000},
		},
		Pools: []domain.PoolReport{
			{Name: "tips300", Kind: domain.PoolTips, Capacity: 96, Consumed: 4, TotalConsumed: 100, Replenishments: 1},
		},
	}

	out := report.Markdown(rep)
	assert.Contains(t, out, "# extraction\n")
	assert.Contains(t, out, "Run `run-1` is **completed**.")
	assert.Contains(t, out, "| Beads | 600.0 | 2 | 2/4 | 75.0 | 825.0 |")
	assert.Contains(t, out, "| Ethanol | 0.0 | 0 | 1/2 | - | 24000.0 |")
	assert.Contains(t, out, "| tips300 | tips | 100 | 4 | 96 | 1 |")
}

func TestMarkdown_Empty(t *testing.T) {
	out := report.Markdown(domain.Report{})
	assert.Contains(t, out, "# run\n")
	assert.Contains(t, out, "No reagents.")
	assert.Contains(t, out, "No pools.")
	assert.NotContains(t, out, "Run `")
}
