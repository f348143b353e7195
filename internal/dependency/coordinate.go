// Package dependency models Maven coordinates and the dependency set zpdev
// injects into the host build.
package dependency

// Coordinate identifies an artifact as group:name:version.
type Coordinate struct {
	Group   string
	Name    string
	Version string
}

func (c Coordinate) String() string {
	return c.Group + ":" + c.Name + ":" + c.Version
}
