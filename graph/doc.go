// Package graph implements the dependency graph behind the task planner.
//
// A DependencyGraph holds task identifiers as nodes and "must complete
// before" constraints as directed edges. Nodes and edges carry opaque
// attribute maps that are merged on repeated insertion, so adding the same
// node or edge twice is a no-op on the graph's shape.
//
// # Edge policy
//
// Edges may name nodes that were never added explicitly. By default such
// nodes are created on the spot (source first, then target). Graphs built
// with WithStrictEdges reject those edges with an UnknownNodeError instead:
//
//	g := graph.New(graph.WithStrictEdges())
//	err := g.AddEdge("X", "Y", nil) // errors.Is(err, graph.ErrUnknownNode)
//
// # Ordering
//
// TopologicalOrder uses Kahn's algorithm with ties broken by insertion order:
//
//	g := graph.New()
//	g.AddEdge("load", "chunk", nil)
//	g.AddEdge("chunk", "embed", nil)
//	order, err := g.TopologicalOrder() // [load chunk embed]
//
// A cycle yields a CycleError naming the nodes that could not be ordered.
// Levels groups nodes by dependency depth and ShortestPath runs a
// breadth-first search over outgoing edges.
//
// DrawMermaid renders the graph as a Mermaid flowchart.
package graph
