// Package dag holds the task dependency graph. Edges are declared explicitly
// when tasks are registered; nothing is inferred from inputs or outputs.
//
// Plan turns a set of requested targets into a single linear order, and
// Executor walks that order one node at a time, stopping at the first
// failure.
package dag
