// Package hcl provides the HCL implementation of config.Loader. It parses the
// project file (zenith.hcl by default) and applies every attribute it finds
// to a config.Extension, leaving unset attributes to the built-in defaults.
package hcl
