// Package route finds conversion paths between assets. Assets are nodes of a
// directed graph whose edges know how to build the workflow step that
// performs the conversion.
package route

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/branched-services/go-hooliganhorde/mode"
	"github.com/branched-services/go-hooliganhorde/workflow"
)

var (
	// ErrNoRoute indicates there is no path between two assets.
	ErrNoRoute = errors.New("route: no route found")

	// ErrInvalidEdge indicates an edge without endpoints or builder.
	ErrInvalidEdge = errors.New("route: invalid edge")
)

// Builder creates a fresh workflow step for one hop. It is called every
// time a route is materialized.
type Builder func(account common.Address, from mode.From, to mode.To) (workflow.Step, error)

// Edge is a single hop between two assets.
type Edge struct {
	From  string
	To    string
	Label string
	Build Builder
}

// ParallelEdgePolicy picks among several edges registered for the same pair.
type ParallelEdgePolicy uint8

const (
	// LastRegistered uses the most recently added edge.
	LastRegistered ParallelEdgePolicy = iota

	// FirstRegistered uses the earliest added edge.
	FirstRegistered
)

// GraphOption configures a Graph.
type GraphOption func(*Graph)

// WithParallelEdgePolicy sets how parallel edges are resolved.
// Default is LastRegistered.
func WithParallelEdgePolicy(p ParallelEdgePolicy) GraphOption {
	return func(g *Graph) {
		g.policy = p
	}
}

type pair struct {
	from, to string
}

// Graph is a directed multigraph with deterministic iteration order:
// nodes and neighbors are visited in the order they were first added.
type Graph struct {
	nodes     []string
	nodeSet   map[string]struct{}
	neighbors map[string][]string
	edges     map[pair][]Edge
	policy    ParallelEdgePolicy
}

// NewGraph creates an empty graph.
func NewGraph(opts ...GraphOption) *Graph {
	g := &Graph{
		nodeSet:   make(map[string]struct{}),
		neighbors: make(map[string][]string),
		edges:     make(map[pair][]Edge),
		policy:    LastRegistered,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// AddNode adds a node if it is not present.
func (g *Graph) AddNode(name string) {
	if _, ok := g.nodeSet[name]; ok {
		return
	}
	g.nodeSet[name] = struct{}{}
	g.nodes = append(g.nodes, name)
}

// HasNode reports whether name is a node.
func (g *Graph) HasNode(name string) bool {
	_, ok := g.nodeSet[name]
	return ok
}

// Nodes returns the nodes in insertion order.
func (g *Graph) Nodes() []string {
	out := make([]string, len(g.nodes))
	copy(out, g.nodes)
	return out
}

// AddEdge adds e, creating its endpoints if needed.
func (g *Graph) AddEdge(e Edge) error {
	if e.From == "" || e.To == "" || e.Build == nil {
		return fmt.Errorf("%w: %q -> %q", ErrInvalidEdge, e.From, e.To)
	}
	g.AddNode(e.From)
	g.AddNode(e.To)

	key := pair{e.From, e.To}
	if len(g.edges[key]) == 0 {
		g.neighbors[e.From] = append(g.neighbors[e.From], e.To)
	}
	g.edges[key] = append(g.edges[key], e)
	return nil
}

// MustAddEdge is like AddEdge but panics on error.
func (g *Graph) MustAddEdge(e Edge) {
	if err := g.AddEdge(e); err != nil {
		panic(err)
	}
}

// Neighbors returns the nodes reachable from name in one hop.
func (g *Graph) Neighbors(name string) []string {
	out := make([]string, len(g.neighbors[name]))
	copy(out, g.neighbors[name])
	return out
}

// Edges returns every edge registered from -> to, oldest first.
func (g *Graph) Edges(from, to string) []Edge {
	es := g.edges[pair{from, to}]
	out := make([]Edge, len(es))
	copy(out, es)
	return out
}

// Edge returns the edge used for from -> to under the graph's policy.
func (g *Graph) Edge(from, to string) (Edge, bool) {
	es := g.edges[pair{from, to}]
	if len(es) == 0 {
		return Edge{}, false
	}
	if g.policy == FirstRegistered {
		return es[0], true
	}
	return es[len(es)-1], true
}
