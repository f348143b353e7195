package config

import "context"

// Loader reads a project file and applies its values to an Extension.
type Loader interface {
	// Load applies the settings found at path. A missing file is not an
	// error; every setting has a default.
	Load(ctx context.Context, path string, ext *Extension) error
}
