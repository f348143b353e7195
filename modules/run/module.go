// Package run registers the run task, which starts ZenithProxy with the
// staged plugin and waits for it to exit.
package run

import (
	"context"

	"github.com/specialistvlad/zpdev/internal/launcher"
	"github.com/specialistvlad/zpdev/internal/registry"
	"github.com/specialistvlad/zpdev/internal/repository"
	"github.com/specialistvlad/zpdev/modules/copyplugin"
)

// TaskName is the name the task is registered under.
const TaskName = "run"

// Module implements the registry.Module interface for this package.
// Configure, when set, adjusts the descriptor before launch.
type Module struct {
	Configure func(d *launcher.Descriptor)
}

func (m *Module) onRun(ctx context.Context, inv *registry.Invocation) (any, error) {
	cp, err := launcher.ReadClasspath(repository.ClasspathPath(inv.Project))
	if err != nil {
		return nil, err
	}
	d, err := launcher.NewDescriptor(inv.Project, cp)
	if err != nil {
		return nil, err
	}
	if m.Configure != nil {
		m.Configure(d)
	}
	return nil, launcher.Launch(ctx, d)
}

// Register registers the task with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterTask(&registry.Task{
		Name:        TaskName,
		Group:       "build",
		Description: "Runs ZenithProxy in the run directory with the staged plugin.",
		DependsOn:   []string{copyplugin.TaskName},
		Exclusive:   true,
		Run:         m.onRun,
	})
}
