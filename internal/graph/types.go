// Package graph provides dependency graph structures and algorithms for
// orgmigrate. Nodes are object types; an edge A -> B means records of B hold
// references to records of A, so A must be inserted first.
package graph

// Graph represents the object-type dependency structure of a migration plan.
type Graph struct {
	Nodes    map[string]bool     // object type -> present
	Children map[string][]string // referenced type -> referencing types (outgoing edges)
	Parents  map[string][]string // referencing type -> referenced types (incoming edges)
}

// NewGraph creates a new empty graph.
func NewGraph() *Graph {
	return &Graph{
		Nodes:    make(map[string]bool),
		Children: make(map[string][]string),
		Parents:  make(map[string][]string),
	}
}

// AddNode adds an object type node to the graph.
func (g *Graph) AddNode(name string) {
	g.Nodes[name] = true
}

// AddEdge adds a referenced -> referencing relationship to the graph.
// Duplicate edges are collapsed; self-loops are ignored because a
// self-reference is deferred to post-insertion remapping rather than
// constraining insertion order.
func (g *Graph) AddEdge(from, to string) {
	if from == to {
		return
	}
	g.AddNode(from)
	g.AddNode(to)
	for _, existing := range g.Children[from] {
		if existing == to {
			return
		}
	}
	g.Children[from] = append(g.Children[from], to)
	g.Parents[to] = append(g.Parents[to], from)
}

// GetChildren returns all types directly depending on the given type.
func (g *Graph) GetChildren(name string) []string {
	return g.Children[name]
}

// GetParents returns all types the given type directly depends on.
func (g *Graph) GetParents(name string) []string {
	return g.Parents[name]
}

// HasNode returns true if the graph contains the given object type.
func (g *Graph) HasNode(name string) bool {
	return g.Nodes[name]
}

// NodeCount returns the number of object types in the graph.
func (g *Graph) NodeCount() int {
	return len(g.Nodes)
}

// EdgeCount returns the number of dependency edges in the graph.
func (g *Graph) EdgeCount() int {
	count := 0
	for _, children := range g.Children {
		count += len(children)
	}
	return count
}

// AllNodes returns a slice of all object type names in the graph.
func (g *Graph) AllNodes() []string {
	nodes := make([]string, 0, len(g.Nodes))
	for name := range g.Nodes {
		nodes = append(nodes, name)
	}
	return nodes
}

// InDegree returns the number of types the given type depends on.
func (g *Graph) InDegree(name string) int {
	return len(g.Parents[name])
}
