package taskgraph

import (
	"log/slog"

	derrors "git.home.luguber.info/inful/docrunner/internal/errors"
	"git.home.luguber.info/inful/docrunner/internal/metrics"
	"golang.org/x/text/cases"
)

// Graph holds the registered tasks. Tasks are immutable once registered; the
// graph itself is meant to be populated once at start-up and is not safe for
// concurrent registration.
type Graph struct {
	tasks    []*Task
	index    map[string]int
	logger   *slog.Logger
	recorder metrics.Recorder
}

// Option configures a Graph.
type Option func(*Graph)

// WithLogger sets the logger used during execution.
func WithLogger(l *slog.Logger) Option {
	return func(g *Graph) {
		if l != nil {
			g.logger = l
		}
	}
}

// WithRecorder sets the metrics recorder used during execution.
func WithRecorder(r metrics.Recorder) Option {
	return func(g *Graph) {
		if r != nil {
			g.recorder = r
		}
	}
}

// New creates an empty graph.
func New(opts ...Option) *Graph {
	g := &Graph{
		index:    make(map[string]int),
		logger:   slog.Default(),
		recorder: metrics.NoopRecorder{},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// key folds task names so lookups are case-insensitive.
func key(name string) string {
	return cases.Fold().String(name)
}

// Register adds a task definition. The graph keeps its own copy.
func (g *Graph) Register(t *Task) error {
	if t == nil || t.Name == "" {
		return derrors.ValidationFailed("task.name", "must not be empty")
	}
	k := key(t.Name)
	if _, exists := g.index[k]; exists {
		return &DuplicateTaskError{Name: t.Name}
	}
	g.index[k] = len(g.tasks)
	g.tasks = append(g.tasks, t.clone())
	return nil
}

// MustRegister registers tasks and panics on the first error. Intended for
// static task tables.
func (g *Graph) MustRegister(tasks ...*Task) {
	for _, t := range tasks {
		if err := g.Register(t); err != nil {
			panic(err)
		}
	}
}

// Lookup returns the task registered under name (case-insensitive).
func (g *Graph) Lookup(name string) (*Task, bool) {
	i, ok := g.index[key(name)]
	if !ok {
		return nil, false
	}
	return g.tasks[i], true
}

// Tasks returns the registered tasks in registration order.
func (g *Graph) Tasks() []*Task {
	out := make([]*Task, len(g.tasks))
	copy(out, g.tasks)
	return out
}

// Len returns the number of registered tasks.
func (g *Graph) Len() int { return len(g.tasks) }

func (g *Graph) position(name string) (int, bool) {
	i, ok := g.index[key(name)]
	return i, ok
}
