package hcl

import "github.com/hashicorp/hcl/v2"

// fileRoot lists every top-level block a project file may contain. Each block
// may appear at most once.
type fileRoot struct {
	Project *projectBlock `hcl:"project,block"`
	Zenith  *zenithBlock  `hcl:"zenith_proxy,block"`
	Build   *buildBlock   `hcl:"build,block"`
	Launch  *launchBlock  `hcl:"launch,block"`
}

type projectBlock struct {
	Name    *string `hcl:"name,optional"`
	Group   *string `hcl:"group,optional"`
	Version *string `hcl:"version,optional"`
}

type zenithBlock struct {
	MC                 *string        `hcl:"mc,optional"`
	RunDirectory       *string        `hcl:"run_directory,optional"`
	AutoAddDependency  *bool          `hcl:"auto_add_dependency,optional"`
	GenerateTemplates  *bool          `hcl:"generate_templates,optional"`
	JavaRelease        *int           `hcl:"java_release,optional"`
	TemplateProperties hcl.Expression `hcl:"template_properties,optional"`
}

type buildBlock struct {
	Command      *[]string `hcl:"command,optional"`
	LibsDir      *string   `hcl:"libs_dir,optional"`
	TemplatesDir *string   `hcl:"templates_dir,optional"`
	GeneratedDir *string   `hcl:"generated_dir,optional"`
}

type launchBlock struct {
	Java      *string   `hcl:"java,optional"`
	MainClass *string   `hcl:"main_class,optional"`
	Classpath *[]string `hcl:"classpath,optional"`
}
