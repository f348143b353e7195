package registry

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/specialistvlad/zpdev/internal/config"
	"github.com/specialistvlad/zpdev/internal/dag"
)

// Module is the interface that all core modules must implement to be registered.
type Module interface {
	Register(r *Registry)
}

// Invocation is everything a task receives when it runs: the finalized
// project and the outputs of the tasks it depends on.
type Invocation struct {
	Project *config.Project
	outputs map[string]any
}

// NewInvocation creates an Invocation for project with no recorded outputs.
func NewInvocation(project *config.Project) *Invocation {
	return &Invocation{Project: project, outputs: make(map[string]any)}
}

// Output returns the recorded output of a completed task.
func (inv *Invocation) Output(task string) (any, bool) {
	v, ok := inv.outputs[task]
	return v, ok
}

// Record stores a task's output for its dependents.
func (inv *Invocation) Record(task string, output any) {
	inv.outputs[task] = output
}

// Task is a named unit of work.
type Task struct {
	Name        string
	Group       string
	Description string
	// DependsOn lists tasks that must complete before this one.
	DependsOn []string
	// OnlyIf, when set, decides whether the task runs. A skipped task
	// still satisfies its dependents.
	OnlyIf func(p *config.Project) bool
	// Exclusive tasks touch the run directory and need the run lock.
	Exclusive bool
	Run       func(ctx context.Context, inv *Invocation) (any, error)
}

// Registry holds the registered tasks for a single application instance.
type Registry struct {
	tasks map[string]*Task
}

// New creates and initializes a new Registry instance.
func New() *Registry {
	return &Registry{tasks: make(map[string]*Task)}
}

// RegisterTask adds a task. Registering the same name twice is a programmer
// error and panics.
func (r *Registry) RegisterTask(t *Task) {
	if t.Name == "" {
		panic("task registered without a name")
	}
	if t.Run == nil {
		panic(fmt.Sprintf("task '%s' registered without a Run function", t.Name))
	}
	if _, exists := r.tasks[t.Name]; exists {
		panic(fmt.Sprintf("task with name '%s' already registered", t.Name))
	}
	slog.Debug("Registering task.", "name", t.Name, "depends_on", t.DependsOn)
	r.tasks[t.Name] = t
}

// Task looks up a task by name.
func (r *Registry) Task(name string) (*Task, bool) {
	t, ok := r.tasks[name]
	return t, ok
}

// Tasks returns every registered task sorted by group, then name.
func (r *Registry) Tasks() []*Task {
	out := make([]*Task, 0, len(r.tasks))
	for _, t := range r.tasks {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Group != out[j].Group {
			return out[i].Group < out[j].Group
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Graph builds the dependency graph of all registered tasks.
func (r *Registry) Graph() (*dag.Graph, error) {
	g := dag.New()
	for name := range r.tasks {
		g.AddNode(name)
	}
	for _, t := range r.tasks {
		for _, dep := range t.DependsOn {
			if err := g.AddEdge(dep, t.Name); err != nil {
				return nil, fmt.Errorf("task '%s': %w", t.Name, err)
			}
		}
	}
	if err := g.DetectCycles(); err != nil {
		return nil, fmt.Errorf("error validating task graph: %w", err)
	}
	return g, nil
}
