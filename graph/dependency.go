package graph

import (
	"maps"
	"slices"
)

// Edge is a directed dependency: From must complete before To may start.
type Edge struct {
	From string
	To   string
}

type node struct {
	id    string
	index int
	attrs map[string]any
	out   []string
	in    []string
}

// Option configures a DependencyGraph.
type Option func(*DependencyGraph)

// WithStrictEdges makes AddEdge reject edges whose endpoints were not added
// with AddNode first. The default is to create missing endpoints.
func WithStrictEdges() Option {
	return func(g *DependencyGraph) {
		g.strict = true
	}
}

// DependencyGraph is a directed graph of task identifiers.
//
// Nodes and edges are only ever added. Iteration order everywhere is node
// insertion order, which keeps TopologicalOrder deterministic.
// A DependencyGraph is not safe for concurrent mutation.
type DependencyGraph struct {
	nodes     map[string]*node
	order     []string
	edgeAttrs map[Edge]map[string]any
	edges     []Edge
	strict    bool
}

// New creates an empty DependencyGraph.
func New(opts ...Option) *DependencyGraph {
	g := &DependencyGraph{
		nodes:     make(map[string]*node),
		edgeAttrs: make(map[Edge]map[string]any),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// AddNode inserts id if absent and merges attrs into its attributes.
func (g *DependencyGraph) AddNode(id string, attrs map[string]any) {
	n := g.ensure(id)
	maps.Copy(n.attrs, attrs)
}

// AddEdge inserts the edge source -> target if absent and merges attrs into
// its attributes. Missing endpoints are created unless the graph is strict,
// in which case an UnknownNodeError is returned and nothing changes.
func (g *DependencyGraph) AddEdge(source, target string, attrs map[string]any) error {
	if g.strict {
		for _, id := range []string{source, target} {
			if _, ok := g.nodes[id]; !ok {
				return &UnknownNodeError{Node: id}
			}
		}
	}

	src := g.ensure(source)
	dst := g.ensure(target)

	e := Edge{From: source, To: target}
	existing, ok := g.edgeAttrs[e]
	if !ok {
		existing = make(map[string]any)
		g.edgeAttrs[e] = existing
		g.edges = append(g.edges, e)
		src.out = append(src.out, target)
		dst.in = append(dst.in, source)
	}
	maps.Copy(existing, attrs)
	return nil
}

func (g *DependencyGraph) ensure(id string) *node {
	if n, ok := g.nodes[id]; ok {
		return n
	}
	n := &node{id: id, index: len(g.order), attrs: make(map[string]any)}
	g.nodes[id] = n
	g.order = append(g.order, id)
	return n
}

// HasNode reports whether id is in the graph.
func (g *DependencyGraph) HasNode(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// HasEdge reports whether the edge source -> target is in the graph.
func (g *DependencyGraph) HasEdge(source, target string) bool {
	_, ok := g.edgeAttrs[Edge{From: source, To: target}]
	return ok
}

// Len returns the number of nodes.
func (g *DependencyGraph) Len() int {
	return len(g.order)
}

// Nodes returns all node ids in insertion order.
func (g *DependencyGraph) Nodes() []string {
	return slices.Clone(g.order)
}

// Edges returns all edges in insertion order.
func (g *DependencyGraph) Edges() []Edge {
	return slices.Clone(g.edges)
}

// NodeAttributes returns a copy of the attributes of id.
func (g *DependencyGraph) NodeAttributes(id string) (map[string]any, bool) {
	n, ok := g.nodes[id]
	if !ok {
		return nil, false
	}
	return maps.Clone(n.attrs), true
}

// EdgeAttributes returns a copy of the attributes of source -> target.
func (g *DependencyGraph) EdgeAttributes(source, target string) (map[string]any, bool) {
	attrs, ok := g.edgeAttrs[Edge{From: source, To: target}]
	if !ok {
		return nil, false
	}
	return maps.Clone(attrs), true
}

// Neighbors returns the nodes reachable from id by a single outgoing edge.
// Callers must not depend on the order.
func (g *DependencyGraph) Neighbors(id string) ([]string, error) {
	n, ok := g.nodes[id]
	if !ok {
		return nil, &UnknownNodeError{Node: id}
	}
	return slices.Clone(n.out), nil
}

// Predecessors returns the nodes with an edge into id.
func (g *DependencyGraph) Predecessors(id string) ([]string, error) {
	n, ok := g.nodes[id]
	if !ok {
		return nil, &UnknownNodeError{Node: id}
	}
	return slices.Clone(n.in), nil
}

// TopologicalOrder returns every node such that for each edge (u, v), u
// precedes v. It uses Kahn's algorithm; among nodes that are ready at the
// same time, the one inserted first comes first.
func (g *DependencyGraph) TopologicalOrder() ([]string, error) {
	indegree := make(map[string]int, len(g.nodes))
	for id, n := range g.nodes {
		indegree[id] = len(n.in)
	}

	ready := make([]string, 0, len(g.order))
	for _, id := range g.order {
		if indegree[id] == 0 {
			ready = append(ready, id)
		}
	}

	result := make([]string, 0, len(g.order))
	for len(ready) > 0 {
		id := ready[0]
		ready = ready[1:]
		result = append(result, id)

		var released []string
		for _, next := range g.nodes[id].out {
			indegree[next]--
			if indegree[next] == 0 {
				released = append(released, next)
			}
		}
		ready = g.mergeByIndex(ready, released)
	}

	if len(result) != len(g.order) {
		var stuck []string
		for _, id := range g.order {
			if indegree[id] > 0 {
				stuck = append(stuck, id)
			}
		}
		return nil, &CycleError{Nodes: stuck}
	}

	return result, nil
}

// mergeByIndex inserts released into ready keeping ready sorted by insertion
// index.
func (g *DependencyGraph) mergeByIndex(ready, released []string) []string {
	if len(released) == 0 {
		return ready
	}
	ready = append(ready, released...)
	slices.SortStableFunc(ready, func(a, b string) int {
		return g.nodes[a].index - g.nodes[b].index
	})
	return ready
}

// Levels groups nodes by the length of the longest dependency chain leading
// to them. Level 0 holds nodes without dependencies. Nodes in the same level
// never depend on each other.
func (g *DependencyGraph) Levels() ([][]string, error) {
	order, err := g.TopologicalOrder()
	if err != nil {
		return nil, err
	}

	depth := make(map[string]int, len(order))
	var levels [][]string
	for _, id := range order {
		d := 0
		for _, p := range g.nodes[id].in {
			d = max(d, depth[p]+1)
		}
		depth[id] = d
		for len(levels) <= d {
			levels = append(levels, nil)
		}
		levels[d] = append(levels[d], id)
	}
	return levels, nil
}

// ShortestPath returns the path from source to target with the fewest
// edges, both ends included. A node is trivially reachable from itself.
func (g *DependencyGraph) ShortestPath(source, target string) ([]string, error) {
	if !g.HasNode(source) {
		return nil, &UnknownNodeError{Node: source}
	}
	if !g.HasNode(target) {
		return nil, &UnknownNodeError{Node: target}
	}
	if source == target {
		return []string{source}, nil
	}

	parent := map[string]string{source: ""}
	queue := []string{source}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]

		for _, next := range g.nodes[id].out {
			if _, seen := parent[next]; seen {
				continue
			}
			parent[next] = id
			if next == target {
				return buildPath(parent, source, target), nil
			}
			queue = append(queue, next)
		}
	}

	return nil, &NoPathError{Source: source, Target: target}
}

func buildPath(parent map[string]string, source, target string) []string {
	path := []string{target}
	for cur := target; cur != source; {
		cur = parent[cur]
		path = append(path, cur)
	}
	slices.Reverse(path)
	return path
}
