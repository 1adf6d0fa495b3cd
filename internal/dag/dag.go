package dag

import (
	"fmt"
	"strings"
)

type CycleError struct {
	Nodes []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("dependency cycle between %s", strings.Join(e.Nodes, ", "))
}

// Graph orders nodes so that every edge from -> to puts from first.
// Ties resolve in insertion order, which keeps the order stable across runs.
type Graph struct {
	nodes []string
	seen  map[string]bool
	edges map[string][]string
}

func New() *Graph {
	return &Graph{
		seen:  map[string]bool{},
		edges: map[string][]string{},
	}
}

func (g *Graph) AddNode(name string) {
	if g.seen[name] {
		return
	}
	g.seen[name] = true
	g.nodes = append(g.nodes, name)
}

func (g *Graph) AddEdge(from, to string) {
	g.AddNode(from)
	g.AddNode(to)
	g.edges[from] = append(g.edges[from], to)
}

func (g *Graph) Sort() ([]string, error) {
	inDegree := make(map[string]int, len(g.nodes))
	for _, targets := range g.edges {
		for _, to := range targets {
			inDegree[to]++
		}
	}

	var queue []string
	for _, node := range g.nodes {
		if inDegree[node] == 0 {
			queue = append(queue, node)
		}
	}

	sorted := make([]string, 0, len(g.nodes))
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		sorted = append(sorted, node)

		for _, to := range g.edges[node] {
			inDegree[to]--
			if inDegree[to] == 0 {
				queue = append(queue, to)
			}
		}
	}

	if len(sorted) != len(g.nodes) {
		var stuck []string
		for _, node := range g.nodes {
			if inDegree[node] > 0 {
				stuck = append(stuck, node)
			}
		}
		return nil, &CycleError{Nodes: stuck}
	}

	return sorted, nil
}

// Reverse is Sort walked backwards, for teardown.
func (g *Graph) Reverse() ([]string, error) {
	sorted, err := g.Sort()
	if err != nil {
		return nil, err
	}

	for i, j := 0, len(sorted)-1; i < j; i, j = i+1, j-1 {
		sorted[i], sorted[j] = sorted[j], sorted[i]
	}

	return sorted, nil
}
