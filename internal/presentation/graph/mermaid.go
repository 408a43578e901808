package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/wellplan/pkg/config"
	"github.com/aretw0/wellplan/pkg/domain"
)

// Overlay marks run progress on the protocol graph.
type Overlay struct {
	// Next is the index of the next step to execute (domain.RunState.Step).
	Next   int
	Status domain.RunStatus
}

// OverlayFromState builds the overlay of a stored run.
func OverlayFromState(state *domain.RunState) *Overlay {
	return &Overlay{Next: state.Step, Status: state.Status}
}

// GenerateMermaid renders a protocol as a Mermaid flowchart, one node per step.
// Node shapes follow who acts:
// - Operator (pause): [/Parallelogram/]
// - Tip handling: [[Subroutine]]
// - Everything else: [Rectangle]
// Repeated steps get a self loop labelled with the count.
func GenerateMermaid(p *config.Protocol, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")
	sb.WriteString("    start((\"start\"))\n")

	prev := "start"
	for i, step := range p.Steps {
		id := stepID(i)

		opener, closer := "[", "]"
		switch {
		case step.Action == config.ActionPause:
			opener, closer = "[/", "/]"
		case step.Action.UsesPool():
			opener, closer = "[[", "]]"
		}

		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", id, opener, nodeLabel(i, step), closer)
		fmt.Fprintf(&sb, "    %s --> %s\n", prev, id)
		if step.Times() > 1 {
			fmt.Fprintf(&sb, "    %s -- \"x%d\" --> %s\n", id, step.Times(), id)
		}
		prev = id
	}
	sb.WriteString("    finish((\"end\"))\n")
	fmt.Fprintf(&sb, "    %s --> finish\n", prev)

	if overlay != nil {
		sb.WriteString("\n    %% Run progress\n")
		// Force black text (color:#000) so the overlay reads on light and dark themes.
		sb.WriteString("    classDef done fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")
		sb.WriteString("    classDef failed fill:#ffcdd2,stroke:#c62828,stroke-width:4px,color:#000;\n")

		for i := 0; i < overlay.Next && i < len(p.Steps); i++ {
			fmt.Fprintf(&sb, "    class %s done;\n", stepID(i))
		}

		switch {
		case overlay.Status == domain.RunCompleted || overlay.Next >= len(p.Steps):
			sb.WriteString("    class finish current;\n")
		case overlay.Status == domain.RunAborted:
			fmt.Fprintf(&sb, "    class %s failed;\n", stepID(overlay.Next))
		default:
			fmt.Fprintf(&sb, "    class %s current;\n", stepID(overlay.Next))
		}
	}

	return sb.String()
}

func stepID(i int) string {
	return fmt.Sprintf("s%d", i)
}

func nodeLabel(i int, step config.Step) string {
	label := sanitizeLabel(step.Label(i))
	switch step.Action {
	case config.ActionAspirate:
		return fmt.Sprintf("%s <br/> %g µl %s", label, step.Volume, sanitizeLabel(step.Reagent))
	case config.ActionDispense, config.ActionMix:
		return fmt.Sprintf("%s <br/> %g µl %s", label, step.Volume, sanitizeLabel(step.Target))
	case config.ActionDelay:
		return fmt.Sprintf("%s <br/> ⏱️ %gs", label, step.Seconds)
	case config.ActionPickTip, config.ActionReturnTip, config.ActionDropTip:
		return fmt.Sprintf("%s <br/> %s", label, sanitizeLabel(step.Pool))
	}
	return label
}

func sanitizeLabel(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}
