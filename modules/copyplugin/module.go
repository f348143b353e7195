// Package copyplugin registers the copyPlugin task.
package copyplugin

import (
	"context"

	"github.com/specialistvlad/zpdev/internal/failure"
	"github.com/specialistvlad/zpdev/internal/packager"
	"github.com/specialistvlad/zpdev/internal/registry"
	"github.com/specialistvlad/zpdev/internal/stager"
	"github.com/specialistvlad/zpdev/modules/build"
)

// TaskName is the name the task is registered under.
const TaskName = "copyPlugin"

// Module implements the registry.Module interface for this package.
type Module struct{}

// Output is the staged plugin location.
type Output struct {
	Path string
}

// OnRunCopyPlugin stages the archive produced by the build task.
func OnRunCopyPlugin(ctx context.Context, inv *registry.Invocation) (any, error) {
	out, ok := inv.Output(build.TaskName)
	if !ok {
		return nil, failure.Newf(failure.IO, "stage plugin", "no archive was built in this invocation")
	}
	art := out.(*packager.Artifact)

	dest, err := stager.Stage(ctx, art.Path, inv.Project.PluginsDir())
	if err != nil {
		return nil, err
	}
	return &Output{Path: dest}, nil
}

// Register registers the task with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterTask(&registry.Task{
		Name:        TaskName,
		Group:       "build",
		Description: "Copies the built archive to run/plugins/plugin.jar.",
		DependsOn:   []string{build.TaskName},
		Exclusive:   true,
		Run:         OnRunCopyPlugin,
	})
}
