package repository

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func urls(l List) []string {
	var out []string
	for _, r := range l {
		out = append(out, r.String())
	}
	return out
}

func TestDefaults(t *testing.T) {
	l := Defaults()
	require.NoError(t, l.Validate())

	want := []string{
		"mavenLocal",
		"https://maven.2b2t.vc/releases",
		"https://libraries.minecraft.net",
		"https://repo.opencollab.dev/maven-releases/",
		"https://repo.papermc.io/repository/maven-public/",
		"https://repo.viaversion.com",
		"https://maven.lenni0451.net/releases",
		"mavenCentral",
	}
	if diff := cmp.Diff(want, urls(l)); diff != "" {
		t.Errorf("Defaults() mismatch (-want +got):\n%s", diff)
	}
}

func TestSourcesFor(t *testing.T) {
	testCases := []struct {
		group string
		want  []string
	}{
		{
			group: "com.mojang",
			want:  []string{"mavenLocal", "https://maven.2b2t.vc/releases", "https://libraries.minecraft.net", "mavenCentral"},
		},
		{
			group: "org.cloudburstmc.protocol",
			want:  []string{"mavenLocal", "https://maven.2b2t.vc/releases", "https://repo.opencollab.dev/maven-releases/", "mavenCentral"},
		},
		{
			group: "net.raphimc",
			want: []string{
				"mavenLocal", "https://maven.2b2t.vc/releases",
				"https://repo.viaversion.com", "https://maven.lenni0451.net/releases", "mavenCentral",
			},
		},
		{
			group: "com.google.guava",
			want:  []string{"mavenLocal", "https://maven.2b2t.vc/releases", "mavenCentral"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.group, func(t *testing.T) {
			if diff := cmp.Diff(tc.want, urls(Defaults().SourcesFor(tc.group))); diff != "" {
				t.Errorf("SourcesFor(%q) mismatch (-want +got):\n%s", tc.group, diff)
			}
		})
	}
}

func TestFilter(t *testing.T) {
	assert.True(t, Filter{}.Matches("anything"))
	assert.Equal(t, "*", Filter{}.String())

	exact := IncludeGroups("com.viaversion", "net.raphimc")
	assert.True(t, exact.Matches("net.raphimc"))
	assert.False(t, exact.Matches("net.raphimc.extra"))
	assert.Equal(t, "com.viaversion, net.raphimc", exact.String())

	re := IncludeGroupsByRegex(`org.cloudburstmc.*`)
	assert.True(t, re.Matches("org.cloudburstmc"))
	assert.True(t, re.Matches("org.cloudburstmc.math"))
	assert.False(t, re.Matches("com.org.cloudburstmc"), "patterns must match the whole group")
	assert.Equal(t, "/org.cloudburstmc.*/", re.String())

	assert.Panics(t, func() { IncludeGroupsByRegex("(") })
}

func TestValidate(t *testing.T) {
	l := List{{Kind: Maven, URL: "http://insecure.example.com"}}
	assert.ErrorContains(t, l.Validate(), "must use https")
}
