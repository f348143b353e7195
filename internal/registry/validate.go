package registry

import (
	"context"
	"fmt"
	"strings"

	"github.com/specialistvlad/zpdev/internal/ctxlog"
)

// ValidateRegistry checks that every declared dependency names a registered
// task and that the task graph is acyclic.
func (r *Registry) ValidateRegistry(ctx context.Context) error {
	var errs []string
	logger := ctxlog.FromContext(ctx)

	for _, t := range r.Tasks() {
		for _, dep := range t.DependsOn {
			if _, ok := r.tasks[dep]; !ok {
				errs = append(errs, fmt.Sprintf("task '%s' depends on unknown task '%s'", t.Name, dep))
			}
		}
		if t.Group == "" {
			logger.Warn("Task has no group and will be listed under 'other'.", "task", t.Name)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("registry validation failed:\n- %s", strings.Join(errs, "\n- "))
	}

	if _, err := r.Graph(); err != nil {
		return err
	}
	return nil
}
