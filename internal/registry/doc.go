// Package registry provides the central "glue" for the task system.
//
// Modules register named tasks together with their declared dependencies.
// During startup the registry is validated so every declared dependency
// refers to a registered task, then converted into a dag.Graph for planning.
package registry
