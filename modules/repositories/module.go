// Package repositories registers the configureRepositories task, which
// writes the init script that points the host build at the plugin
// repositories and injects the ZenithProxy dependency.
package repositories

import (
	"context"

	"github.com/specialistvlad/zpdev/internal/registry"
	"github.com/specialistvlad/zpdev/internal/repository"
)

// TaskName is the name the task is registered under.
const TaskName = "configureRepositories"

// Module implements the registry.Module interface for this package.
type Module struct{}

// Output is what the task hands to its dependents.
type Output struct {
	InitScript string
}

// OnRunConfigureRepositories writes the init script for the invocation's
// project.
func OnRunConfigureRepositories(ctx context.Context, inv *registry.Invocation) (any, error) {
	path, err := repository.WriteInitScript(ctx, inv.Project)
	if err != nil {
		return nil, err
	}
	return &Output{InitScript: path}, nil
}

// Register registers the task with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterTask(&registry.Task{
		Name:        TaskName,
		Group:       "setup",
		Description: "Writes the Gradle init script with the plugin repositories and dependencies.",
		Run:         OnRunConfigureRepositories,
	})
}
