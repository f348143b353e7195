package config

import (
	"path/filepath"
	"sort"

	"github.com/zclconf/go-cty/cty"
)

// Built-in defaults applied by Extension.ApplyDefaults.
const (
	DefaultRunDirectory = "run"
	DefaultVersion      = "1.0.0-SNAPSHOT"
	DefaultJavaRelease  = 21
	DefaultMainClass    = "com.zenith.Proxy"
	DefaultLibsDir      = "build/libs"
	DefaultTemplatesDir = "src/main/templates"
	DefaultGeneratedDir = "build/generated/sources/templates"
	DefaultJava         = "java"
)

// DefaultBuildCommand is the host build invocation used when none is configured.
func DefaultBuildCommand() []string {
	return []string{"./gradlew", "build"}
}

// Project is the finalized configuration for one invocation. All paths are
// absolute. A Project is shared by every task and must be treated as
// read-only; use the accessor methods for map and slice values.
type Project struct {
	Dir     string `yaml:"project_dir"`
	Name    string `yaml:"name"`
	Group   string `yaml:"group,omitempty"`
	Version string `yaml:"version"`

	MCVersion          string               `yaml:"mc"`
	RunDirectory       string               `yaml:"run_directory"`
	AutoAddDependency  bool                 `yaml:"auto_add_dependency"`
	GenerateTemplates  bool                 `yaml:"generate_templates"`
	JavaRelease        int                  `yaml:"java_release"`
	templateProperties map[string]cty.Value

	Build  BuildSettings  `yaml:"build"`
	Launch LaunchSettings `yaml:"launch"`
}

// BuildSettings describe how the host build tool is driven.
type BuildSettings struct {
	Command      []string `yaml:"command"`
	LibsDir      string   `yaml:"libs_dir"`
	TemplatesDir string   `yaml:"templates_dir"`
	GeneratedDir string   `yaml:"generated_dir"`
}

// LaunchSettings describe the ZenithProxy process started by the run task.
type LaunchSettings struct {
	Java      string   `yaml:"java"`
	MainClass string   `yaml:"main_class"`
	Classpath []string `yaml:"classpath,omitempty"`
}

// TemplateProperties returns a copy of the user-supplied template values.
func (p *Project) TemplateProperties() map[string]cty.Value {
	out := make(map[string]cty.Value, len(p.templateProperties))
	for k, v := range p.templateProperties {
		out[k] = v
	}
	return out
}

// TemplatePropertyNames returns the user-supplied property keys in sorted order.
func (p *Project) TemplatePropertyNames() []string {
	names := make([]string, 0, len(p.templateProperties))
	for k := range p.templateProperties {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// WorkDir is where zpdev keeps files it generates for the host build.
func (p *Project) WorkDir() string {
	return filepath.Join(p.Dir, "build", "zpdev")
}

// PluginsDir is the plugin folder inside the run directory.
func (p *Project) PluginsDir() string {
	return filepath.Join(p.RunDirectory, "plugins")
}
