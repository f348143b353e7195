// Package build registers the build task, which runs the host build and
// stamps the archive it produces.
package build

import (
	"context"

	"github.com/specialistvlad/zpdev/internal/packager"
	"github.com/specialistvlad/zpdev/internal/registry"
	"github.com/specialistvlad/zpdev/internal/repository"
	"github.com/specialistvlad/zpdev/modules/repositories"
	"github.com/specialistvlad/zpdev/modules/templates"
)

// TaskName is the name the task is registered under.
const TaskName = "build"

// Module implements the registry.Module interface for this package. A nil
// Packager streams build output to the process's stdout and stderr.
type Module struct {
	Packager *packager.Packager
}

func (m *Module) onRun(ctx context.Context, inv *registry.Invocation) (any, error) {
	initScript := repository.InitScriptPath(inv.Project)
	if out, ok := inv.Output(repositories.TaskName); ok {
		initScript = out.(*repositories.Output).InitScript
	}

	pk := m.Packager
	if pk == nil {
		pk = &packager.Packager{}
	}
	art, err := pk.Package(ctx, inv.Project, initScript)
	if err != nil {
		return nil, err
	}
	return art, nil
}

// Register registers the task with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterTask(&registry.Task{
		Name:        TaskName,
		Group:       "build",
		Description: "Builds the plugin archive and stamps its manifest.",
		DependsOn:   []string{templates.TaskName, repositories.TaskName},
		Run:         m.onRun,
	})
}
