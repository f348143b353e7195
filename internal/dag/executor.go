package dag

import (
	"context"

	"github.com/specialistvlad/zpdev/internal/ctxlog"
)

// RunFunc executes a single node.
type RunFunc func(ctx context.Context, id string) error

// Executor runs a plan sequentially. Each node blocks until it completes;
// the first error aborts the remaining nodes and is returned unchanged.
type Executor struct {
	graph *Graph
	run   RunFunc
}

// NewExecutor creates an executor for graph that calls run for every node.
func NewExecutor(graph *Graph, run RunFunc) *Executor {
	return &Executor{graph: graph, run: run}
}

// Execute plans the targets and runs each planned node in order.
func (e *Executor) Execute(ctx context.Context, targets ...string) error {
	logger := ctxlog.FromContext(ctx)

	order, err := e.graph.Plan(targets...)
	if err != nil {
		return err
	}
	logger.Debug("Execution plan ready.", "targets", targets, "order", order)

	for i, id := range order {
		if err := ctx.Err(); err != nil {
			logger.Warn("Context canceled, remaining nodes not run.", "next", id)
			return err
		}
		logger.Debug("Running node.", "node", id, "position", i+1, "of", len(order))
		if err := e.run(ctx, id); err != nil {
			logger.Debug("Node failed, aborting remaining nodes.", "node", id, "skipped", order[i+1:])
			return err
		}
	}
	return nil
}
