package cli

import (
	"fmt"
	"io"

	"github.com/aretw0/wellplan/internal/presentation/graph"
	"github.com/aretw0/wellplan/pkg/config"
)

// Validate loads a protocol, prints its warnings and, optionally, its Mermaid graph.
func Validate(path string, overrides []string, withGraph bool, out io.Writer) error {
	p, err := config.Load(path, overrides...)
	if err != nil {
		return err
	}
	warnings, err := config.Validate(p)
	if err != nil {
		return err
	}
	for _, w := range warnings {
		fmt.Fprintf(out, "warning: %s\n", w)
	}
	if withGraph {
		fmt.Fprint(out, graph.GenerateMermaid(p, nil))
		return nil
	}
	fmt.Fprintf(out, "Protocol %q is valid! ✅ (%d reagents, %d pools, %d steps)\n",
		p.Name, len(p.Reagents), len(p.Pools), len(p.Steps))
	return nil
}
