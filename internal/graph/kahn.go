package graph

import (
	"container/list"
	"fmt"
	"sort"
	"strings"
)

// CycleInfo contains information about incomplete processing due to cycles.
type CycleInfo struct {
	TotalNodes       int      // Total number of object types in the graph
	ProcessedNodes   int      // Number of types successfully ordered
	UnprocessedNodes []string // Types that are part of or blocked by a cycle
}

// CycleError reports that the type-level dependency graph contains a cycle.
// Mutually-referencing object types cannot be fully ordered; their remaining
// references are resolved by post-insertion remapping instead.
type CycleError struct {
	Info *CycleInfo
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("cycle detected in dependency graph: %d of %d object types could not be ordered (%s)",
		len(e.Info.UnprocessedNodes), e.Info.TotalNodes,
		strings.Join(e.Info.UnprocessedNodes, ", "))
}

// calculateInDegrees computes the number of incoming edges for each node.
// This is the first step of Kahn's algorithm for topological sorting.
func (g *Graph) calculateInDegrees() map[string]int {
	inDegree := make(map[string]int)
	for name := range g.Nodes {
		inDegree[name] = 0
	}
	for _, children := range g.Children {
		for _, child := range children {
			inDegree[child]++
		}
	}
	return inDegree
}

// TopologicalSort returns object types in dependency order using Kahn's
// algorithm: referenced types first, referencing types after. Ties are
// broken alphabetically so the result is deterministic.
// Returns a CycleError if the graph contains a cycle.
func (g *Graph) TopologicalSort() ([]string, error) {
	inDegree := g.calculateInDegrees()

	queue := list.New()
	var ready []string
	for name, degree := range inDegree {
		if degree == 0 {
			ready = append(ready, name)
		}
	}
	sort.Strings(ready)
	for _, name := range ready {
		queue.PushBack(name)
	}

	var result []string
	for queue.Len() > 0 {
		elem := queue.Front()
		queue.Remove(elem)
		node := elem.Value.(string)
		result = append(result, node)

		children := append([]string(nil), g.GetChildren(node)...)
		sort.Strings(children)
		for _, child := range children {
			inDegree[child]--
			if inDegree[child] == 0 {
				queue.PushBack(child)
			}
		}
	}

	if len(result) != len(g.Nodes) {
		processed := make(map[string]bool, len(result))
		for _, name := range result {
			processed[name] = true
		}
		var unprocessed []string
		for name := range g.Nodes {
			if !processed[name] {
				unprocessed = append(unprocessed, name)
			}
		}
		sort.Strings(unprocessed)
		return nil, &CycleError{Info: &CycleInfo{
			TotalNodes:       len(g.Nodes),
			ProcessedNodes:   len(result),
			UnprocessedNodes: unprocessed,
		}}
	}

	return result, nil
}

// HasCycle returns true if the dependency graph contains a cycle.
func (g *Graph) HasCycle() bool {
	_, err := g.TopologicalSort()
	return err != nil
}

// ValidateOrder checks that a proposed insertion order respects every edge:
// for each edge A -> B, A must not appear after B. Types absent from the
// order are ignored (the terminal leaf never appears in it).
func (g *Graph) ValidateOrder(order []string) error {
	position := make(map[string]int, len(order))
	for i, name := range order {
		position[name] = i
	}

	for from, children := range g.Children {
		fromPos, ok := position[from]
		if !ok {
			continue
		}
		for _, to := range children {
			toPos, ok := position[to]
			if !ok {
				continue
			}
			if fromPos > toPos {
				return fmt.Errorf("order violates dependency: %s must be inserted before %s", from, to)
			}
		}
	}
	return nil
}
