package graph_test

import (
	"testing"

	"github.com/aretw0/wellplan/internal/presentation/graph"
	"github.com/aretw0/wellplan/pkg/config"
	"github.com/aretw0/wellplan/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func protocol() *config.Protocol {
	return &config.Protocol{
		Name: "extraction",
		Steps: []config.Step{
			{Action: config.ActionPickTip, Pool: "tips300"},
			{Action: config.ActionAspirate, Reagent: "Beads", Volume: 300, Repeat: 2},
			{Action: config.ActionDelay, Seconds: 30},
			{Name: `move "plate"`, Action: config.ActionPause, Message: "Magnet"},
		},
	}
}

func TestGenerateMermaid(t *testing.T) {
	out := graph.GenerateMermaid(protocol(), nil)

	assert.Contains(t, out, "graph TD\n")
	assert.Contains(t, out, `s0[["pick_tip#0 <br/> tips300"]]`)
	assert.Contains(t, out, `s1["aspirate#1 <br/> 300 µl Beads"]`)
	assert.Contains(t, out, `s1 -- "x2" --> s1`)
	assert.Contains(t, out, `s2["delay#2 <br/> ⏱️ 30s"]`)
	assert.Contains(t, out, `s3[/"move 'plate'"/]`)
	assert.Contains(t, out, "start --> s0")
	assert.Contains(t, out, "s3 --> finish")
	assert.NotContains(t, out, "classDef")
}

func TestGenerateMermaid_Overlay(t *testing.T) {
	tests := []struct {
		name    string
		overlay graph.Overlay
		want    []string
		absent  []string
	}{
		{
			name:    "paused",
			overlay: graph.Overlay{Next: 2, Status: domain.RunPaused},
			want:    []string{"class s0 done;", "class s1 done;", "class s2 current;"},
			absent:  []string{"class s2 done;"},
		},
		{
			name:    "aborted",
			overlay: graph.Overlay{Next: 1, Status: domain.RunAborted},
			want:    []string{"class s0 done;", "class s1 failed;"},
		},
		{
			name:    "completed",
			overlay: graph.Overlay{Next: 4, Status: domain.RunCompleted},
			want:    []string{"class s3 done;", "class finish current;"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := graph.GenerateMermaid(protocol(), &tt.overlay)
			for _, w := range tt.want {
				assert.Contains(t, out, w)
			}
			for _, a := range tt.absent {
				assert.NotContains(t, out, a)
			}
		})
	}
}

func TestOverlayFromState(t *testing.T) {
	state := domain.NewRunState("r", "extraction")
	state.Step = 3
	o := graph.OverlayFromState(state)
	assert.Equal(t, 3, o.Next)
	assert.Equal(t, domain.RunActive, o.Status)
}
