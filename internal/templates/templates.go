// Package templates renders source templates into the generated source
// directory before compilation.
//
// Templates use HCL template syntax: ${name} interpolates a property and
// $${ produces a literal "${". Every file under the templates directory is a
// template; the output tree mirrors the input tree.
package templates

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/specialistvlad/zpdev/internal/config"
	"github.com/specialistvlad/zpdev/internal/ctxlog"
	"github.com/specialistvlad/zpdev/internal/failure"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// VersionProperty is always available to templates.
const VersionProperty = "version"

// Pair maps one template to the file rendered from it.
type Pair struct {
	Source      string
	Destination string
}

// Set is one generation pass: the files to render, where to put them and
// the values available to them.
type Set struct {
	SourceDir  string
	OutputDir  string
	Pairs      []Pair
	Properties map[string]cty.Value
}

// Properties returns the values exposed to templates for p: the project
// version, overridden by any user property with the same name.
func Properties(p *config.Project) map[string]cty.Value {
	props := map[string]cty.Value{VersionProperty: cty.StringVal(p.Version)}
	for k, v := range p.TemplateProperties() {
		props[k] = v
	}
	return props
}

// Plan builds a fresh Set for p. A missing templates directory plans
// nothing.
func Plan(p *config.Project) (*Set, error) {
	set := &Set{
		SourceDir:  p.Build.TemplatesDir,
		OutputDir:  p.Build.GeneratedDir,
		Properties: Properties(p),
	}

	err := filepath.WalkDir(set.SourceDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(set.SourceDir, path)
		if err != nil {
			return err
		}
		set.Pairs = append(set.Pairs, Pair{Source: path, Destination: filepath.Join(set.OutputDir, rel)})
		return nil
	})
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return set, nil
		}
		return nil, failure.New(failure.IO, "scan templates", err)
	}

	sort.Slice(set.Pairs, func(i, j int) bool { return set.Pairs[i].Source < set.Pairs[j].Source })
	return set, nil
}

// Render expands one template. A reference to an undefined property fails
// with a configuration error naming the file and position.
func Render(name string, src []byte, props map[string]cty.Value) ([]byte, error) {
	expr, diags := hclsyntax.ParseTemplate(src, name, hcl.InitialPos)
	if diags.HasErrors() {
		return nil, failure.New(failure.Configuration, "parse template", diags)
	}

	val, diags := expr.Value(&hcl.EvalContext{Variables: props})
	if diags.HasErrors() {
		return nil, failure.New(failure.Configuration, "render template", diags)
	}

	out, err := convert.Convert(val, cty.String)
	if err != nil || out.IsNull() || !out.IsKnown() {
		return nil, failure.Newf(failure.Configuration, "render template", "%s: result is not a string", name)
	}
	return []byte(out.AsString()), nil
}

// Generate renders every pair of set and replaces the output directory with
// the result. All templates are rendered before anything is written, so a
// failing template leaves the previous output in place. It returns the
// number of files written.
func Generate(ctx context.Context, set *Set) (int, error) {
	logger := ctxlog.FromContext(ctx)

	rendered := make([][]byte, len(set.Pairs))
	for i, pair := range set.Pairs {
		src, err := os.ReadFile(pair.Source)
		if err != nil {
			return 0, failure.New(failure.IO, "read template", err)
		}
		out, err := Render(pair.Source, src, set.Properties)
		if err != nil {
			return 0, err
		}
		rendered[i] = out
	}

	if err := os.RemoveAll(set.OutputDir); err != nil {
		return 0, failure.New(failure.IO, "clean generated sources", err)
	}
	for i, pair := range set.Pairs {
		if err := os.MkdirAll(filepath.Dir(pair.Destination), 0o755); err != nil {
			return 0, failure.New(failure.IO, "write generated source", err)
		}
		if err := os.WriteFile(pair.Destination, rendered[i], 0o644); err != nil {
			return 0, failure.New(failure.IO, "write generated source", err)
		}
		logger.Debug("Template rendered.", "source", pair.Source, "destination", pair.Destination)
	}

	logger.Info("Templates generated.", "count", len(set.Pairs), "output", set.OutputDir)
	return len(set.Pairs), nil
}
