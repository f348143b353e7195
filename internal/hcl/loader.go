package hcl

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/zpdev/internal/config"
	"github.com/specialistvlad/zpdev/internal/ctxlog"
	"github.com/specialistvlad/zpdev/internal/failure"
	"github.com/zclconf/go-cty/cty"
)

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct {
	environ func() []string
}

// NewLoader creates a new HCL configuration loader.
func NewLoader() *Loader {
	return &Loader{environ: os.Environ}
}

var _ config.Loader = (*Loader)(nil)

// Load parses the project file at path and applies its values to ext.
func (l *Loader) Load(ctx context.Context, path string, ext *config.Extension) error {
	logger := ctxlog.FromContext(ctx)

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Debug("Project file not found, using defaults.", "path", path)
			return nil
		}
		return failure.New(failure.Configuration, "read project file", err)
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return failure.New(failure.Configuration, "parse "+path, diags)
	}

	evalCtx := l.evalContext()
	var root fileRoot
	if diags := gohcl.DecodeBody(file.Body, evalCtx, &root); diags.HasErrors() {
		return failure.New(failure.Configuration, "decode "+path, diags)
	}

	if err := applyProject(ext, root.Project); err != nil {
		return err
	}
	if err := applyZenith(ext, root.Zenith, evalCtx); err != nil {
		return err
	}
	if err := applyBuild(ext, root.Build); err != nil {
		return err
	}
	if err := applyLaunch(ext, root.Launch); err != nil {
		return err
	}

	logger.Debug("Project file loaded.", "path", path)
	return nil
}

// evalContext exposes the process environment to the project file as `env`.
func (l *Loader) evalContext() *hcl.EvalContext {
	vars := make(map[string]cty.Value)
	for _, kv := range l.environ() {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		vars[k] = cty.StringVal(v)
	}
	env := cty.EmptyObjectVal
	if len(vars) > 0 {
		env = cty.ObjectVal(vars)
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{"env": env},
	}
}

// step applies a single optional value; nil pointers are skipped.
func step[T any](v *T, set func(T) error) error {
	if v == nil {
		return nil
	}
	return set(*v)
}

func applyAll(steps ...error) error {
	return errors.Join(steps...)
}

func applyProject(ext *config.Extension, b *projectBlock) error {
	if b == nil {
		return nil
	}
	return applyAll(
		step(b.Name, ext.SetName),
		step(b.Group, ext.SetGroup),
		step(b.Version, ext.SetVersion),
	)
}

func applyZenith(ext *config.Extension, b *zenithBlock, evalCtx *hcl.EvalContext) error {
	if b == nil {
		return nil
	}
	if err := applyAll(
		step(b.MC, ext.SetMCVersion),
		step(b.RunDirectory, ext.SetRunDirectory),
		step(b.AutoAddDependency, ext.SetAutoAddDependency),
		step(b.GenerateTemplates, ext.SetGenerateTemplates),
		step(b.JavaRelease, ext.SetJavaRelease),
	); err != nil {
		return err
	}
	return applyTemplateProperties(ext, b.TemplateProperties, evalCtx)
}

// applyTemplateProperties accepts an object or map of primitive values.
func applyTemplateProperties(ext *config.Extension, expr hcl.Expression, evalCtx *hcl.EvalContext) error {
	if expr == nil {
		return nil
	}
	val, diags := expr.Value(evalCtx)
	if diags.HasErrors() {
		return failure.New(failure.Configuration, "template_properties", diags)
	}
	if val.IsNull() {
		return nil
	}
	ty := val.Type()
	if !ty.IsObjectType() && !ty.IsMapType() {
		return failure.Newf(failure.Configuration, "template_properties", "must be an object, got %s", ty.FriendlyName())
	}
	if !val.IsWhollyKnown() {
		return failure.Newf(failure.Configuration, "template_properties", "values must be known")
	}
	for it := val.ElementIterator(); it.Next(); {
		k, v := it.Element()
		key := k.AsString()
		if !v.Type().IsPrimitiveType() {
			return failure.Newf(failure.Configuration, "template_properties", "property %q must be a string, number or bool, got %s", key, v.Type().FriendlyName())
		}
		if err := ext.SetTemplateProperty(key, v); err != nil {
			return err
		}
	}
	return nil
}

func applyBuild(ext *config.Extension, b *buildBlock) error {
	if b == nil {
		return nil
	}
	return applyAll(
		step(b.Command, ext.SetBuildCommand),
		step(b.LibsDir, ext.SetLibsDir),
		step(b.TemplatesDir, ext.SetTemplatesDir),
		step(b.GeneratedDir, ext.SetGeneratedDir),
	)
}

func applyLaunch(ext *config.Extension, b *launchBlock) error {
	if b == nil {
		return nil
	}
	if b.Classpath != nil {
		for _, entry := range *b.Classpath {
			if entry == "" {
				return failure.Newf(failure.Configuration, "launch.classpath", "empty entry")
			}
		}
	}
	return applyAll(
		step(b.Java, ext.SetJava),
		step(b.MainClass, ext.SetMainClass),
		step(b.Classpath, ext.SetClasspath),
	)
}
