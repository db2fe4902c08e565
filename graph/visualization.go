package graph

import (
	"fmt"
	"strings"
)

// MermaidOptions defines configuration for Mermaid diagram generation
type MermaidOptions struct {
	// Direction of the flowchart (e.g., "TD", "LR")
	Direction string

	// Highlight maps node ids to a fill colour, e.g. to mark a failed task.
	Highlight map[string]string
}

// DrawMermaid generates a Mermaid diagram representation of the graph
func (g *DependencyGraph) DrawMermaid() string {
	return g.DrawMermaidWithOptions(MermaidOptions{
		Direction: "TD",
	})
}

// DrawMermaidWithOptions generates a Mermaid diagram with custom options
func (g *DependencyGraph) DrawMermaidWithOptions(opts MermaidOptions) string {
	var sb strings.Builder

	direction := opts.Direction
	if direction == "" {
		direction = "TD"
	}
	fmt.Fprintf(&sb, "flowchart %s\n", direction)

	ids := make(map[string]string, len(g.order))
	for i, id := range g.order {
		ids[id] = fmt.Sprintf("n%d", i)
		fmt.Fprintf(&sb, "    %s[\"%s\"]\n", ids[id], escapeLabel(id))
	}

	for _, e := range g.edges {
		fmt.Fprintf(&sb, "    %s --> %s\n", ids[e.From], ids[e.To])
	}

	for _, id := range g.order {
		if colour, ok := opts.Highlight[id]; ok {
			fmt.Fprintf(&sb, "    style %s fill:%s\n", ids[id], colour)
		}
	}

	return sb.String()
}

// Mermaid labels cannot contain raw double quotes.
func escapeLabel(s string) string {
	return strings.ReplaceAll(s, `"`, "#quot;")
}
