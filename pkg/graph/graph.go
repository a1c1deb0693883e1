// Package graph implements the directed, read-only adjacency structure
// used to validate postal-code/admin-region co-occurrence: "can this
// postal code appear next to that city/state phrase".
package graph

import "github.com/addrstat/addrstat/pkg/binreader"

// Graph is a directed adjacency set keyed by integer node id. The only
// hot-path query is HasEdge; there is no parent-pointer or cycle-detection
// bookkeeping since edges are never walked transitively.
type Graph struct {
	numNodes int
	edges    map[uint32]map[uint32]struct{}
}

// New creates an empty graph over numNodes nodes (0..numNodes-1).
func New(numNodes int) *Graph {
	return &Graph{numNodes: numNodes, edges: make(map[uint32]map[uint32]struct{})}
}

// NumNodes returns the declared node count.
func (g *Graph) NumNodes() int { return g.numNodes }

// AddEdge records a directed edge u -> v. Self-loops are permitted; the
// model format has no policy against them.
func (g *Graph) AddEdge(u, v uint32) {
	set, ok := g.edges[u]
	if !ok {
		set = make(map[uint32]struct{})
		g.edges[u] = set
	}
	set[v] = struct{}{}
}

// HasEdge reports whether u -> v is present.
func (g *Graph) HasEdge(u, v uint32) bool {
	set, ok := g.edges[u]
	if !ok {
		return false
	}
	_, ok = set[v]
	return ok
}

// NumEdges returns the total number of directed edges.
func (g *Graph) NumEdges() int {
	n := 0
	for _, set := range g.edges {
		n += len(set)
	}
	return n
}

// WriteTo serializes the graph as: num_nodes, num_edges, then num_edges
// pairs of (u, v).
func (g *Graph) WriteTo(w *binreader.Writer) error {
	if err := w.U32(uint32(g.numNodes)); err != nil {
		return err
	}
	if err := w.U32(uint32(g.NumEdges())); err != nil {
		return err
	}
	for u, set := range g.edges {
		for v := range set {
			if err := w.U32(u); err != nil {
				return err
			}
			if err := w.U32(v); err != nil {
				return err
			}
		}
	}
	return nil
}

// Read deserializes a graph written by WriteTo.
func Read(r *binreader.Reader) (*Graph, error) {
	numNodes, err := r.U32()
	if err != nil {
		return nil, err
	}
	numEdges, err := r.U32()
	if err != nil {
		return nil, err
	}
	g := New(int(numNodes))
	for i := uint32(0); i < numEdges; i++ {
		u, err := r.U32()
		if err != nil {
			return nil, err
		}
		v, err := r.U32()
		if err != nil {
			return nil, err
		}
		g.AddEdge(u, v)
	}
	return g, nil
}
