// Package templates registers the generateTemplates task.
package templates

import (
	"context"

	"github.com/specialistvlad/zpdev/internal/config"
	"github.com/specialistvlad/zpdev/internal/registry"
	gen "github.com/specialistvlad/zpdev/internal/templates"
)

// TaskName is the name the task is registered under.
const TaskName = "generateTemplates"

// Module implements the registry.Module interface for this package.
type Module struct{}

// Output reports how many sources were generated.
type Output struct {
	Generated int
}

// OnRunGenerateTemplates renders the templates directory into the generated
// sources directory.
func OnRunGenerateTemplates(ctx context.Context, inv *registry.Invocation) (any, error) {
	set, err := gen.Plan(inv.Project)
	if err != nil {
		return nil, err
	}
	n, err := gen.Generate(ctx, set)
	if err != nil {
		return nil, err
	}
	return &Output{Generated: n}, nil
}

// Register registers the task with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterTask(&registry.Task{
		Name:        TaskName,
		Group:       "setup",
		Description: "Renders source templates with the project's template properties.",
		OnlyIf:      func(p *config.Project) bool { return p.GenerateTemplates },
		Run:         OnRunGenerateTemplates,
	})
}
