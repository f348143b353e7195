package app

import (
	"context"
	"time"

	"github.com/specialistvlad/zpdev/internal/console"
	"github.com/specialistvlad/zpdev/internal/ctxlog"
	"github.com/specialistvlad/zpdev/internal/dag"
	"github.com/specialistvlad/zpdev/internal/failure"
	"github.com/specialistvlad/zpdev/internal/registry"
	"github.com/specialistvlad/zpdev/internal/runlock"
)

// Run executes the targets and everything they depend on, one task at a
// time. The first failing task stops the run and its error is returned
// as is.
func (a *App) Run(ctx context.Context, targets ...string) (err error) {
	ctx = a.Context(ctx)
	logger := ctxlog.FromContext(ctx)
	start := time.Now()

	graph, err := a.registry.Graph()
	if err != nil {
		return err
	}
	for _, name := range targets {
		if !graph.Has(name) {
			return failure.Newf(failure.Configuration, "", "task '%s' not found", name)
		}
	}

	project, err := a.Project(ctx)
	if err != nil {
		return err
	}

	plan, err := graph.Plan(targets...)
	if err != nil {
		return err
	}
	logger.Debug("Task plan ready.", "targets", targets, "plan", plan)

	if a.needsLock(plan) {
		release, err := runlock.Acquire(project.RunDirectory)
		if err != nil {
			return err
		}
		defer release()
	}

	defer func() { a.console.Result(err, time.Since(start)) }()

	inv := registry.NewInvocation(project)
	exec := dag.NewExecutor(graph, func(ctx context.Context, name string) error {
		return a.runTask(ctx, inv, name)
	})
	return exec.Execute(ctx, targets...)
}

func (a *App) needsLock(plan []string) bool {
	for _, name := range plan {
		if t, ok := a.registry.Task(name); ok && t.Exclusive {
			return true
		}
	}
	return false
}

func (a *App) runTask(ctx context.Context, inv *registry.Invocation, name string) error {
	task, _ := a.registry.Task(name)
	ctx = ctxlog.With(ctx, "task", name)
	logger := ctxlog.FromContext(ctx)

	if task.OnlyIf != nil && !task.OnlyIf(inv.Project) {
		logger.Debug("Task skipped.")
		a.console.Task(name, console.Skipped)
		return nil
	}

	a.console.Task(name, console.Executed)
	started := time.Now()
	out, err := task.Run(ctx, inv)
	if err != nil {
		a.console.Task(name, console.Failed)
		return err
	}
	inv.Record(name, out)
	logger.Debug("Task finished.", "duration", time.Since(started))
	return nil
}
