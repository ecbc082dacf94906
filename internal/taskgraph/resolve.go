package taskgraph

import (
	"log/slog"
	"sort"

	"git.home.luguber.info/inful/docrunner/internal/logfields"
)

// Plan is the ordered sequence of tasks to execute for a set of targets.
type Plan struct {
	Targets []string
	Tasks   []*Task
	skipped map[string]bool
	graph   *Graph
}

// Names returns the task names in plan order.
func (p *Plan) Names() []string {
	names := make([]string, len(p.Tasks))
	for i, t := range p.Tasks {
		names[i] = t.Name
	}
	return names
}

// Contains reports whether the named task is part of the plan.
func (p *Plan) Contains(name string) bool {
	for _, t := range p.Tasks {
		if key(t.Name) == key(name) {
			return true
		}
	}
	return false
}

// Skip marks tasks to be treated like tasks with a false condition. Names must
// be registered; names that are registered but not planned are ignored.
func (p *Plan) Skip(names ...string) error {
	for _, name := range names {
		if _, ok := p.graph.Lookup(name); !ok {
			return &UnknownTaskError{Name: name}
		}
		if p.skipped == nil {
			p.skipped = make(map[string]bool)
		}
		p.skipped[key(name)] = true
	}
	return nil
}

// IsSkipped reports whether the named task was passed to Skip.
func (p *Plan) IsSkipped(name string) bool {
	return p.skipped[key(name)]
}

// Resolve computes the execution plan for a single target.
func (g *Graph) Resolve(target string) (*Plan, error) {
	return g.ResolveAll(target)
}

// ResolveAll computes one plan covering several targets: the DependsOn
// closure of all targets, ordered by DependsOn, After and Before edges.
func (g *Graph) ResolveAll(targets ...string) (*Plan, error) {
	planned := make(map[int]bool)
	var resolvedTargets []string
	var queue []int

	for _, target := range targets {
		i, ok := g.position(target)
		if !ok {
			return nil, &UnknownTaskError{Name: target}
		}
		resolvedTargets = append(resolvedTargets, g.tasks[i].Name)
		if !planned[i] {
			planned[i] = true
			queue = append(queue, i)
		}
	}

	// Transitive DependsOn closure. The visited set bounds the walk, so
	// cycles terminate here and are reported by the ordering step.
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, dep := range g.tasks[current].DependsOn {
			j, ok := g.position(dep)
			if !ok {
				return nil, &UnknownTaskError{Name: dep, ReferencedBy: g.tasks[current].Name}
			}
			if !planned[j] {
				planned[j] = true
				queue = append(queue, j)
			}
		}
	}

	order, err := g.order(planned)
	if err != nil {
		return nil, err
	}

	plan := &Plan{Targets: resolvedTargets, graph: g}
	for _, i := range order {
		plan.Tasks = append(plan.Tasks, g.tasks[i])
	}
	return plan, nil
}

// edges builds successor lists over the planned set. Ordering-only edges to
// tasks outside the plan are dropped.
func (g *Graph) edges(planned map[int]bool) map[int][]int {
	succ := make(map[int][]int, len(planned))
	add := func(from, to int) {
		succ[from] = append(succ[from], to)
	}
	for i := range planned {
		t := g.tasks[i]
		for _, dep := range t.DependsOn {
			j, _ := g.position(dep)
			add(j, i)
		}
		for _, name := range t.After {
			if j, ok := g.position(name); ok && planned[j] {
				add(j, i)
			} else if !ok {
				g.logger.Debug("Ignoring ordering constraint on unknown task", logfields.Task(t.Name), slog.String("after", name))
			}
		}
		for _, name := range t.Before {
			if j, ok := g.position(name); ok && planned[j] {
				add(i, j)
			} else if !ok {
				g.logger.Debug("Ignoring ordering constraint on unknown task", logfields.Task(t.Name), slog.String("before", name))
			}
		}
	}
	for i := range succ {
		sort.Ints(succ[i])
	}
	return succ
}

// order performs Kahn's algorithm over the planned set, always picking the
// ready task registered first.
func (g *Graph) order(planned map[int]bool) ([]int, error) {
	succ := g.edges(planned)
	inDegree := make(map[int]int, len(planned))
	for i := range planned {
		for _, j := range succ[i] {
			inDegree[j]++
		}
	}

	var ready []int
	for i := range planned {
		if inDegree[i] == 0 {
			ready = append(ready, i)
		}
	}
	sort.Ints(ready)

	result := make([]int, 0, len(planned))
	for len(ready) > 0 {
		current := ready[0]
		ready = ready[1:]
		result = append(result, current)

		for _, next := range succ[current] {
			inDegree[next]--
			if inDegree[next] == 0 {
				ready = append(ready, next)
				sort.Ints(ready)
			}
		}
	}

	if len(result) != len(planned) {
		remaining := make(map[int]bool)
		for i := range planned {
			if inDegree[i] > 0 {
				remaining[i] = true
			}
		}
		return nil, &CyclicDependencyError{Cycle: g.findCycle(remaining, succ)}
	}
	return result, nil
}

// findCycle returns the names along one cycle within nodes, first name
// repeated at the end. Every node left over by Kahn's algorithm either lies
// on a cycle or is downstream of one, so a depth-first walk finds it.
func (g *Graph) findCycle(nodes map[int]bool, succ map[int][]int) []string {
	const (
		white = iota
		gray
		black
	)
	color := make(map[int]int, len(nodes))
	var stack []int
	var cycle []int

	var visit func(n int) bool
	visit = func(n int) bool {
		color[n] = gray
		stack = append(stack, n)
		for _, m := range succ[n] {
			if !nodes[m] {
				continue
			}
			switch color[m] {
			case gray:
				for k := len(stack) - 1; k >= 0; k-- {
					if stack[k] == m {
						cycle = append(append([]int(nil), stack[k:]...), m)
						return true
					}
				}
			case white:
				if visit(m) {
					return true
				}
			}
		}
		stack = stack[:len(stack)-1]
		color[n] = black
		return false
	}

	starts := make([]int, 0, len(nodes))
	for n := range nodes {
		starts = append(starts, n)
	}
	sort.Ints(starts)
	for _, n := range starts {
		if color[n] == white && visit(n) {
			break
		}
	}

	names := make([]string, len(cycle))
	for i, n := range cycle {
		names[i] = g.tasks[n].Name
	}
	return names
}
