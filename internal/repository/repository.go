// Package repository declares the artifact sources ZenithProxy plugins
// resolve from, with the group filters that keep each source to the
// packages it is meant to serve.
package repository

import (
	"fmt"
	"regexp"
	"strings"
)

// Kind distinguishes well-known repositories from plain Maven URLs.
type Kind int

const (
	// Maven is a remote Maven repository addressed by URL.
	Maven Kind = iota
	// MavenLocal is the user's ~/.m2 repository.
	MavenLocal
	// MavenCentral is Maven Central.
	MavenCentral
)

func (k Kind) String() string {
	switch k {
	case MavenLocal:
		return "mavenLocal"
	case MavenCentral:
		return "mavenCentral"
	default:
		return "maven"
	}
}

// Filter restricts a source to matching groups. An empty filter serves every
// group.
type Filter struct {
	Groups        []string
	GroupPatterns []string
	compiled      []*regexp.Regexp
}

// IncludeGroups builds a filter for exact group names.
func IncludeGroups(groups ...string) Filter {
	return Filter{Groups: groups}
}

// IncludeGroupsByRegex builds a filter for groups that fully match one of
// patterns. It panics on an invalid pattern.
func IncludeGroupsByRegex(patterns ...string) Filter {
	f := Filter{GroupPatterns: patterns}
	for _, p := range patterns {
		f.compiled = append(f.compiled, regexp.MustCompile(`^(?:`+p+`)$`))
	}
	return f
}

// Empty reports whether the filter accepts every group.
func (f Filter) Empty() bool {
	return len(f.Groups) == 0 && len(f.GroupPatterns) == 0
}

// Matches reports whether the filter lets group through.
func (f Filter) Matches(group string) bool {
	if f.Empty() {
		return true
	}
	for _, g := range f.Groups {
		if g == group {
			return true
		}
	}
	for _, re := range f.compiled {
		if re.MatchString(group) {
			return true
		}
	}
	return false
}

func (f Filter) String() string {
	if f.Empty() {
		return "*"
	}
	parts := append([]string{}, f.Groups...)
	for _, p := range f.GroupPatterns {
		parts = append(parts, "/"+p+"/")
	}
	return strings.Join(parts, ", ")
}

// Repository is one artifact source.
type Repository struct {
	Kind   Kind
	URL    string
	Filter Filter
}

func (r Repository) String() string {
	if r.Kind != Maven {
		return r.Kind.String()
	}
	return r.URL
}

// List is an ordered set of sources. Order matters: the host tool asks each
// eligible source in turn.
type List []Repository

// Defaults returns the fixed sources for ZenithProxy plugin development.
func Defaults() List {
	return List{
		{Kind: MavenLocal},
		{Kind: Maven, URL: "https://maven.2b2t.vc/releases"},
		{Kind: Maven, URL: "https://libraries.minecraft.net", Filter: IncludeGroups("com.mojang")},
		{Kind: Maven, URL: "https://repo.opencollab.dev/maven-releases/", Filter: IncludeGroupsByRegex(`org.cloudburstmc.*`)},
		{Kind: Maven, URL: "https://repo.papermc.io/repository/maven-public/", Filter: IncludeGroups("com.velocitypowered")},
		{Kind: Maven, URL: "https://repo.viaversion.com", Filter: IncludeGroups("com.viaversion", "net.raphimc")},
		{Kind: Maven, URL: "https://maven.lenni0451.net/releases", Filter: IncludeGroups("net.raphimc", "net.lenni0451")},
		{Kind: MavenCentral},
	}
}

// SourcesFor returns, in order, the sources allowed to serve group.
func (l List) SourcesFor(group string) List {
	var out List
	for _, r := range l {
		if r.Filter.Matches(group) {
			out = append(out, r)
		}
	}
	return out
}

// Validate checks that every plain Maven source has an https URL.
func (l List) Validate() error {
	for i, r := range l {
		if r.Kind != Maven {
			continue
		}
		if !strings.HasPrefix(r.URL, "https://") {
			return fmt.Errorf("repository %d: url %q must use https", i, r.URL)
		}
	}
	return nil
}
