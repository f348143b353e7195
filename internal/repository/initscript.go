package repository

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/specialistvlad/zpdev/internal/config"
	"github.com/specialistvlad/zpdev/internal/ctxlog"
	"github.com/specialistvlad/zpdev/internal/dependency"
	"github.com/specialistvlad/zpdev/internal/failure"
	"github.com/specialistvlad/zpdev/internal/fsutil"
)

// InitScriptName is the file name of the generated Gradle init script.
const InitScriptName = "zpdev.init.gradle"

// ClasspathFileName is where the classpath task writes the runtime classpath.
const ClasspathFileName = "classpath.txt"

// ClasspathTask is the task the init script adds to the root project.
const ClasspathTask = "zpdevWriteClasspath"

// Script holds everything rendered into the init script.
type Script struct {
	Repositories  List
	Dependencies  []dependency.Entry
	GeneratedDir  string
	JavaRelease   int
	ClasspathFile string
}

// NewScript collects the init script inputs for a project.
func NewScript(p *config.Project) Script {
	s := Script{
		Repositories:  Defaults(),
		Dependencies:  dependency.Resolve(p).Entries(),
		JavaRelease:   p.JavaRelease,
		ClasspathFile: ClasspathPath(p),
	}
	if p.GenerateTemplates {
		s.GeneratedDir = p.Build.GeneratedDir
	}
	return s
}

// InitScriptPath is where Write places the init script for p.
func InitScriptPath(p *config.Project) string {
	return filepath.Join(p.WorkDir(), InitScriptName)
}

// ClasspathPath is where the classpath task writes for p.
func ClasspathPath(p *config.Project) string {
	return filepath.Join(p.WorkDir(), ClasspathFileName)
}

// groovyString quotes s as a single-quoted Groovy literal.
func groovyString(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`, "\n", `\n`, "\r", `\r`)
	return "'" + r.Replace(s) + "'"
}

var scriptTemplate = template.Must(template.New(InitScriptName).
	Funcs(template.FuncMap{"q": groovyString}).
	Parse(`// Generated by zpdev. Changes are overwritten on every build.

allprojects {
    repositories {
{{- range .Repositories}}
{{- if eq .Kind.String "mavenLocal"}}
        mavenLocal()
{{- else if eq .Kind.String "mavenCentral"}}
        mavenCentral()
{{- else}}
        maven {
            url = uri({{q .URL}})
{{- if not .Filter.Empty}}
            content {
{{- range .Filter.Groups}}
                includeGroup({{q .}})
{{- end}}
{{- range .Filter.GroupPatterns}}
                includeGroupByRegex({{q .}})
{{- end}}
            }
{{- end}}
        }
{{- end}}
{{- end}}
    }
}

rootProject {
    pluginManager.withPlugin('java') {
        dependencies {
{{- range .Dependencies}}
            add({{q .Configuration}}, {{q .Coordinate.String}})
{{- end}}
        }
{{- if .GeneratedDir}}

        sourceSets.main.java.srcDir({{q .GeneratedDir}})
{{- end}}

        tasks.withType(JavaCompile).configureEach {
            options.encoding = 'UTF-8'
            options.deprecation = true
            options.release = {{.JavaRelease}}
        }

        tasks.register('{{.Task}}') {
            def out = file({{q .ClasspathFile}})
            def cp = sourceSets.main.runtimeClasspath
            outputs.upToDateWhen { false }
            doLast {
                def own = layout.buildDirectory.get().asFile.toPath()
                out.parentFile.mkdirs()
                out.text = cp.files
                    .findAll { !it.toPath().startsWith(own) }
                    .collect { it.absolutePath }
                    .join('\n')
            }
        }
    }
}
`))

// Render writes the init script for s to w.
func Render(w io.Writer, s Script) error {
	data := struct {
		Script
		Task string
	}{s, ClasspathTask}
	return scriptTemplate.Execute(w, data)
}

// WriteInitScript renders the init script for p into its work directory and
// returns the script path.
func WriteInitScript(ctx context.Context, p *config.Project) (string, error) {
	path := InitScriptPath(p)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", failure.New(failure.IO, "write init script", err)
	}
	script := NewScript(p)
	if err := script.Repositories.Validate(); err != nil {
		return "", failure.New(failure.Configuration, "write init script", err)
	}
	err := fsutil.WriteFileAtomic(path, 0o644, func(w io.Writer) error {
		return Render(w, script)
	})
	if err != nil {
		return "", failure.New(failure.IO, "write init script", fmt.Errorf("%s: %w", path, err))
	}

	ctxlog.FromContext(ctx).Debug("Init script written.",
		"path", path,
		"repositories", len(script.Repositories),
		"dependencies", len(script.Dependencies),
	)
	return path, nil
}
