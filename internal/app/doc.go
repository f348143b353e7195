// Package app contains the core application logic. It wires the task
// modules into a registry, resolves the project configuration and runs the
// requested tasks, decoupled from any specific entrypoint like a CLI.
package app
