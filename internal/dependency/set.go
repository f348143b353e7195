package dependency

import "github.com/specialistvlad/zpdev/internal/config"

// Gradle configurations the ZenithProxy coordinate is added to.
const (
	Implementation      = "implementation"
	AnnotationProcessor = "annotationProcessor"
)

// ZenithGroup and ZenithName identify the ZenithProxy artifact.
const (
	ZenithGroup = "com.zenith"
	ZenithName  = "ZenithProxy"
)

// Entry is one dependency declaration.
type Entry struct {
	Configuration string
	Coordinate    Coordinate
}

// Set is an ordered list of dependency declarations.
type Set struct {
	entries []Entry
}

// Add appends a declaration. Exact duplicates are ignored.
func (s *Set) Add(configuration string, c Coordinate) {
	for _, e := range s.entries {
		if e.Configuration == configuration && e.Coordinate == c {
			return
		}
	}
	s.entries = append(s.entries, Entry{Configuration: configuration, Coordinate: c})
}

// Entries returns a copy of the declarations in insertion order.
func (s *Set) Entries() []Entry {
	return append([]Entry(nil), s.entries...)
}

// Len is the number of declarations.
func (s *Set) Len() int {
	return len(s.entries)
}

// ZenithCoordinate is the ZenithProxy snapshot built for an MC version.
func ZenithCoordinate(mcVersion string) Coordinate {
	return Coordinate{Group: ZenithGroup, Name: ZenithName, Version: mcVersion + "-SNAPSHOT"}
}

// Resolve builds the dependency set injected for a project. The ZenithProxy
// coordinate is added to the compile and annotation processor classpaths
// only when auto-add is enabled.
func Resolve(p *config.Project) *Set {
	s := &Set{}
	if !p.AutoAddDependency {
		return s
	}
	c := ZenithCoordinate(p.MCVersion)
	s.Add(Implementation, c)
	s.Add(AnnotationProcessor, c)
	return s
}
