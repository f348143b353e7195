package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/specialistvlad/zpdev/internal/failure"
	"github.com/zclconf/go-cty/cty"
)

// State is the resolution stage of an Extension.
type State int

const (
	// StateUnset means no defaults have been applied yet.
	StateUnset State = iota
	// StateDefaulted means unset values hold their built-in defaults.
	StateDefaulted
	// StateFinalized means values are frozen and a Project is available.
	StateFinalized
)

func (s State) String() string {
	switch s {
	case StateUnset:
		return "unset"
	case StateDefaulted:
		return "defaulted"
	case StateFinalized:
		return "finalized"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Extension is the mutable builder for a Project. Values may be set in any
// order until Finalize; afterwards every setter fails with a configuration
// error. Nil pointers mean "not set".
type Extension struct {
	state  State
	getenv func(string) string

	projectDir string

	name    *string
	group   *string
	version *string

	mcVersion          *string
	runDirectory       *string
	autoAddDependency  *bool
	generateTemplates  *bool
	javaRelease        *int
	templateProperties map[string]cty.Value

	buildCommand []string
	libsDir      *string
	templatesDir *string
	generatedDir *string

	java      *string
	mainClass *string
	classpath []string

	project *Project
}

// NewExtension starts an Extension for the project rooted at projectDir.
func NewExtension(projectDir string) *Extension {
	return &Extension{
		projectDir:         projectDir,
		getenv:             os.Getenv,
		templateProperties: make(map[string]cty.Value),
	}
}

// State reports the current resolution stage.
func (e *Extension) State() State {
	return e.state
}

// ProjectDir returns the directory relative paths are resolved against.
func (e *Extension) ProjectDir() string {
	return e.projectDir
}

func (e *Extension) mutable(name string) error {
	if e.state == StateFinalized {
		return failure.Newf(failure.Configuration, "set "+name, "configuration is already finalized")
	}
	return nil
}

func setValue[T any](e *Extension, name string, dst **T, v T) error {
	if err := e.mutable(name); err != nil {
		return err
	}
	*dst = &v
	return nil
}

// SetName, SetGroup and SetVersion set the plugin's Maven identity.
func (e *Extension) SetName(v string) error    { return setValue(e, "name", &e.name, v) }
func (e *Extension) SetGroup(v string) error   { return setValue(e, "group", &e.group, v) }
func (e *Extension) SetVersion(v string) error { return setValue(e, "version", &e.version, v) }

// SetMCVersion sets the Minecraft version ZenithProxy is built against.
func (e *Extension) SetMCVersion(v string) error {
	return setValue(e, "mc", &e.mcVersion, v)
}

// SetRunDirectory sets where the plugin is staged and ZenithProxy runs.
func (e *Extension) SetRunDirectory(v string) error {
	return setValue(e, "run_directory", &e.runDirectory, v)
}

// SetAutoAddDependency controls whether the ZenithProxy dependency is injected.
func (e *Extension) SetAutoAddDependency(v bool) error {
	return setValue(e, "auto_add_dependency", &e.autoAddDependency, v)
}

// SetGenerateTemplates turns template generation on or off.
func (e *Extension) SetGenerateTemplates(v bool) error {
	return setValue(e, "generate_templates", &e.generateTemplates, v)
}

// SetJavaRelease sets the javac --release target.
func (e *Extension) SetJavaRelease(v int) error {
	return setValue(e, "java_release", &e.javaRelease, v)
}

// SetLibsDir sets where the host build writes its archives.
func (e *Extension) SetLibsDir(v string) error {
	return setValue(e, "libs_dir", &e.libsDir, v)
}

// SetTemplatesDir sets the template source directory.
func (e *Extension) SetTemplatesDir(v string) error {
	return setValue(e, "templates_dir", &e.templatesDir, v)
}

// SetGeneratedDir sets where rendered templates are written. The
// directory is replaced on every generation pass.
func (e *Extension) SetGeneratedDir(v string) error {
	return setValue(e, "generated_dir", &e.generatedDir, v)
}

// SetJava sets the java executable used to launch ZenithProxy.
func (e *Extension) SetJava(v string) error {
	return setValue(e, "java", &e.java, v)
}

// SetMainClass sets the ZenithProxy entry point.
func (e *Extension) SetMainClass(v string) error {
	return setValue(e, "main_class", &e.mainClass, v)
}

// SetBuildCommand replaces the host build command. An empty, non-nil slice
// disables invoking the host build.
func (e *Extension) SetBuildCommand(argv []string) error {
	if err := e.mutable("build.command"); err != nil {
		return err
	}
	e.buildCommand = append([]string{}, argv...)
	return nil
}

// SetClasspath replaces the extra launch classpath entries.
func (e *Extension) SetClasspath(entries []string) error {
	if err := e.mutable("launch.classpath"); err != nil {
		return err
	}
	e.classpath = append([]string(nil), entries...)
	return nil
}

// SetTemplateProperty sets one template substitution value.
func (e *Extension) SetTemplateProperty(key string, v cty.Value) error {
	if err := e.mutable("template_properties"); err != nil {
		return err
	}
	e.templateProperties[key] = v
	return nil
}

// ApplyDefaults fills every unset value with its built-in default.
func (e *Extension) ApplyDefaults() error {
	if err := e.mutable("defaults"); err != nil {
		return err
	}
	defaultString(&e.name, filepath.Base(e.projectDir))
	defaultString(&e.group, "")
	defaultString(&e.version, DefaultVersion)
	defaultString(&e.mcVersion, "")
	defaultString(&e.runDirectory, DefaultRunDirectory)
	defaultBool(&e.autoAddDependency, true)
	defaultBool(&e.generateTemplates, true)
	if e.javaRelease == nil {
		v := DefaultJavaRelease
		e.javaRelease = &v
	}
	if e.buildCommand == nil {
		e.buildCommand = DefaultBuildCommand()
	}
	defaultString(&e.libsDir, DefaultLibsDir)
	defaultString(&e.templatesDir, DefaultTemplatesDir)
	defaultString(&e.generatedDir, DefaultGeneratedDir)
	defaultString(&e.mainClass, DefaultMainClass)
	if e.java == nil {
		java := DefaultJava
		if home := e.getenv("JAVA_HOME"); home != "" {
			java = filepath.Join(home, "bin", "java")
		}
		e.java = &java
	}
	e.state = StateDefaulted
	return nil
}

func defaultString(dst **string, v string) {
	if *dst == nil {
		*dst = &v
	}
}

func defaultBool(dst **bool, v bool) {
	if *dst == nil {
		*dst = &v
	}
}

// Finalize applies defaults if needed, validates, and freezes the values.
// Calling it again returns the same Project.
func (e *Extension) Finalize() (*Project, error) {
	if e.state == StateFinalized {
		return e.project, nil
	}
	if e.state == StateUnset {
		if err := e.ApplyDefaults(); err != nil {
			return nil, err
		}
	}
	if *e.mcVersion == "" {
		return nil, failure.Newf(failure.Configuration, "finalize", "mc version is not set; set zenith_proxy.mc or pass --mc")
	}
	if *e.javaRelease < 8 {
		return nil, failure.Newf(failure.Configuration, "finalize", "invalid java_release %d", *e.javaRelease)
	}

	dir, err := filepath.Abs(e.projectDir)
	if err != nil {
		return nil, failure.New(failure.Configuration, "resolve project dir", err)
	}

	props := make(map[string]cty.Value, len(e.templateProperties))
	for k, v := range e.templateProperties {
		props[k] = v
	}

	p := &Project{
		Dir:                dir,
		Name:               *e.name,
		Group:              *e.group,
		Version:            *e.version,
		MCVersion:          *e.mcVersion,
		RunDirectory:       resolve(dir, *e.runDirectory),
		AutoAddDependency:  *e.autoAddDependency,
		GenerateTemplates:  *e.generateTemplates,
		JavaRelease:        *e.javaRelease,
		templateProperties: props,
		Build: BuildSettings{
			Command:      append([]string{}, e.buildCommand...),
			LibsDir:      resolve(dir, *e.libsDir),
			TemplatesDir: resolve(dir, *e.templatesDir),
			GeneratedDir: resolve(dir, *e.generatedDir),
		},
		Launch: LaunchSettings{
			Java:      *e.java,
			MainClass: *e.mainClass,
			Classpath: resolveAll(dir, e.classpath),
		},
	}
	if err := checkGeneratedDir(p); err != nil {
		return nil, err
	}

	e.project = p
	e.state = StateFinalized
	return e.project, nil
}

// checkGeneratedDir rejects a generated_dir whose removal would take user
// files with it.
func checkGeneratedDir(p *Project) error {
	gen := p.Build.GeneratedDir
	reject := func(what, path string) error {
		return failure.Newf(failure.Configuration, "finalize", "generated_dir %s overlaps %s %s", gen, what, path)
	}
	if within(p.Dir, gen) {
		return reject("the project directory", p.Dir)
	}
	for _, c := range []struct{ what, path string }{
		{"the source directory", filepath.Join(p.Dir, "src")},
		{"templates_dir", p.Build.TemplatesDir},
		{"libs_dir", p.Build.LibsDir},
		{"run_directory", p.RunDirectory},
	} {
		if within(gen, c.path) || within(c.path, gen) {
			return reject(c.what, c.path)
		}
	}
	return nil
}

// within reports whether path is dir or lies below it.
func within(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && !filepath.IsAbs(rel))
}

// Project returns the finalized Project. It fails loudly when called before
// Finalize so no task can observe half-resolved values.
func (e *Extension) Project() (*Project, error) {
	if e.state != StateFinalized {
		return nil, failure.Newf(failure.Configuration, "read configuration", "configuration read before finalize (state %s)", e.state)
	}
	return e.project, nil
}

func resolve(base, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(base, p)
}

func resolveAll(base string, paths []string) []string {
	if len(paths) == 0 {
		return nil
	}
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = resolve(base, p)
	}
	return out
}
