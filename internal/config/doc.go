// Package config holds the project configuration in two phases. An Extension
// collects values from the project file and the command line, then Finalize
// applies defaults and freezes them into an immutable Project that is passed
// explicitly to every task.
//
// Concrete file formats live in separate packages that implement Loader, such
// as the HCL loader in internal/hcl.
package config
