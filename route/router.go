package route

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"

	"github.com/branched-services/go-hooliganhorde/mode"
	"github.com/branched-services/go-hooliganhorde/workflow"
)

// SelfEdgeFunc returns the edge used when source and target are the same
// node, or false when no self route exists.
type SelfEdgeFunc func(node string) (Edge, bool)

// RouterOption configures a Router.
type RouterOption func(*Router)

// WithRouterLogger sets the logger. Default is the root logger.
func WithRouterLogger(l log.Logger) RouterOption {
	return func(r *Router) {
		r.log = l
	}
}

// Router resolves shortest routes over a Graph.
type Router struct {
	graph *Graph
	self  SelfEdgeFunc
	log   log.Logger
}

// NewRouter creates a router. self may be nil.
func NewRouter(g *Graph, self SelfEdgeFunc, opts ...RouterOption) *Router {
	r := &Router{graph: g, self: self, log: log.Root()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Graph returns the underlying graph.
func (r *Router) Graph() *Graph {
	return r.graph
}

// GetRoute returns the route with the fewest hops from -> to. Ties are
// broken by neighbor insertion order. An unknown node or an unreachable
// target yields an empty route.
func (r *Router) GetRoute(from, to string) *Route {
	if from == to {
		if r.self != nil {
			if e, ok := r.self(from); ok {
				return &Route{edges: []Edge{e}}
			}
		}
		return &Route{}
	}
	if !r.graph.HasNode(from) || !r.graph.HasNode(to) {
		r.log.Debug("Route endpoint unknown", "from", from, "to", to)
		return &Route{}
	}

	parent := map[string]string{}
	visited := map[string]bool{from: true}
	queue := []string{from}
	for len(queue) > 0 && !visited[to] {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range r.graph.neighbors[cur] {
			if visited[next] {
				continue
			}
			visited[next] = true
			parent[next] = cur
			queue = append(queue, next)
		}
	}
	if !visited[to] {
		r.log.Debug("No route", "from", from, "to", to)
		return &Route{}
	}

	path := []string{to}
	for n := to; n != from; {
		n = parent[n]
		path = append(path, n)
	}
	edges := make([]Edge, 0, len(path)-1)
	for i := len(path) - 1; i > 0; i-- {
		e, _ := r.graph.Edge(path[i], path[i-1])
		edges = append(edges, e)
	}
	return &Route{edges: edges}
}

// Route is an ordered list of edges; each edge starts where the previous
// one ends.
type Route struct {
	edges []Edge
}

// Len returns the number of hops.
func (r *Route) Len() int {
	return len(r.edges)
}

// Empty reports whether the route has no hops.
func (r *Route) Empty() bool {
	return len(r.edges) == 0
}

// Step returns hop i, or the zero Edge when i is out of range.
func (r *Route) Step(i int) Edge {
	if i < 0 || i >= len(r.edges) {
		return Edge{}
	}
	return r.edges[i]
}

// Steps returns every hop.
func (r *Route) Steps() []Edge {
	out := make([]Edge, len(r.edges))
	copy(out, r.edges)
	return out
}

// Nodes returns the visited nodes, source first.
func (r *Route) Nodes() []string {
	if len(r.edges) == 0 {
		return nil
	}
	nodes := make([]string, 0, len(r.edges)+1)
	nodes = append(nodes, r.edges[0].From)
	for _, e := range r.edges {
		nodes = append(nodes, e.To)
	}
	return nodes
}

// String renders the route as "A -> B -> C", or "" when empty.
func (r *Route) String() string {
	return strings.Join(r.Nodes(), " -> ")
}

// Materialize builds a fresh step for every hop. The first hop spends from
// the caller's mode and later hops tolerate whatever the previous hop left
// internally; intermediate hops deliver internally and the last hop
// delivers to the caller's mode.
func (r *Route) Materialize(account common.Address, from mode.From, to mode.To) ([]workflow.Step, error) {
	if r.Empty() {
		return nil, ErrNoRoute
	}
	steps := make([]workflow.Step, 0, len(r.edges))
	for i, e := range r.edges {
		f, t := mode.InternalTolerant, mode.ToInternal
		if i == 0 {
			f = from
		}
		if i == len(r.edges)-1 {
			t = to
		}
		s, err := e.Build(account, f, t)
		if err != nil {
			return nil, fmt.Errorf("route: build %s -> %s: %w", e.From, e.To, err)
		}
		steps = append(steps, s)
	}
	return steps, nil
}
