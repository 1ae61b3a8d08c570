// Package graph builds the milestone dependency graph and reports cycles.
// The extract does not guarantee acyclicity; cycles are surfaced, never
// rejected.
package graph

import (
	"sort"

	"github.com/example/milestones/internal/models"
)

// Graph is the directed dependency graph over one set of milestones.
// Edges point from predecessor to successor. References to codes outside the
// set are dropped.
type Graph struct {
	Nodes  []string            // sorted
	Adj    map[string][]string // code -> successors
	RevAdj map[string][]string // code -> predecessors
}

// Build merges each milestone's predecessor and successor sets into one
// edge set.
func Build(milestones []*models.Milestone) *Graph {
	g := &Graph{
		Adj:    make(map[string][]string, len(milestones)),
		RevAdj: make(map[string][]string, len(milestones)),
	}

	known := make(map[string]bool, len(milestones))
	for _, ms := range milestones {
		known[ms.Code] = true
		g.Nodes = append(g.Nodes, ms.Code)
	}
	sort.Strings(g.Nodes)

	edges := make(map[[2]string]bool)
	add := func(from, to string) {
		if !known[from] || !known[to] || edges[[2]string{from, to}] {
			return
		}
		edges[[2]string{from, to}] = true
		g.Adj[from] = append(g.Adj[from], to)
		g.RevAdj[to] = append(g.RevAdj[to], from)
	}

	for _, ms := range milestones {
		for _, p := range ms.Predecessors.Sorted() {
			add(p, ms.Code)
		}
		for _, s := range ms.Successors.Sorted() {
			add(ms.Code, s)
		}
	}

	for _, list := range g.Adj {
		sort.Strings(list)
	}
	for _, list := range g.RevAdj {
		sort.Strings(list)
	}
	return g
}

// EdgeCount returns the number of distinct edges.
func (g *Graph) EdgeCount() int {
	n := 0
	for _, list := range g.Adj {
		n += len(list)
	}
	return n
}

// Cycle is one strongly connected group of milestones that depend on each
// other, with a witness path that starts and ends on the same code.
type Cycle struct {
	Members []string
	Path    []string
}

// Cycles returns every dependency cycle, ordered by first member.
func (g *Graph) Cycles() []Cycle {
	var cycles []Cycle
	for _, comp := range g.components() {
		if len(comp) == 1 && !g.hasEdge(comp[0], comp[0]) {
			continue
		}
		sort.Strings(comp)
		cycles = append(cycles, Cycle{Members: comp, Path: g.witness(comp)})
	}
	sort.Slice(cycles, func(i, j int) bool {
		return cycles[i].Members[0] < cycles[j].Members[0]
	})
	return cycles
}

func (g *Graph) hasEdge(from, to string) bool {
	for _, v := range g.Adj[from] {
		if v == to {
			return true
		}
	}
	return false
}

// components returns the strongly connected components (Tarjan).
func (g *Graph) components() [][]string {
	var (
		index   = make(map[string]int, len(g.Nodes))
		lowlink = make(map[string]int, len(g.Nodes))
		onStack = make(map[string]bool, len(g.Nodes))
		stack   []string
		next    int
		out     [][]string
	)

	var strongconnect func(v string)
	strongconnect = func(v string) {
		index[v] = next
		lowlink[v] = next
		next++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range g.Adj[v] {
			if _, seen := index[w]; !seen {
				strongconnect(w)
				lowlink[v] = min(lowlink[v], lowlink[w])
			} else if onStack[w] {
				lowlink[v] = min(lowlink[v], index[w])
			}
		}

		if lowlink[v] == index[v] {
			var comp []string
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				comp = append(comp, w)
				if w == v {
					break
				}
			}
			out = append(out, comp)
		}
	}

	for _, v := range g.Nodes {
		if _, seen := index[v]; !seen {
			strongconnect(v)
		}
	}
	return out
}

// witness walks the component depth-first from its first member and returns
// the first closed path found, e.g. [A B C A].
func (g *Graph) witness(comp []string) []string {
	const (
		white = 0
		gray  = 1
		black = 2
	)

	inComp := make(map[string]bool, len(comp))
	for _, c := range comp {
		inComp[c] = true
	}
	color := make(map[string]int, len(comp))
	parent := make(map[string]string, len(comp))

	var cycle []string
	var dfs func(u string) bool
	dfs = func(u string) bool {
		color[u] = gray
		for _, v := range g.Adj[u] {
			if !inComp[v] {
				continue
			}
			switch color[v] {
			case white:
				parent[v] = u
				if dfs(v) {
					return true
				}
			case gray:
				// Back-edge u -> v closes v ... u -> v.
				cycle = append(cycle, v)
				for cur := u; cur != v; cur = parent[cur] {
					cycle = append(cycle, cur)
				}
				cycle = append(cycle, v)
				return true
			}
		}
		color[u] = black
		return false
	}
	dfs(comp[0])

	out := make([]string, len(cycle))
	for i := range cycle {
		out[i] = cycle[len(cycle)-1-i]
	}
	return out
}
