package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"gopkg.in/yaml.v3"

	"github.com/specialistvlad/zpdev/internal/config"
	"github.com/specialistvlad/zpdev/internal/repository"
)

func newTasksCommand(opts *options, outW, errW io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "tasks",
		Short: "List the available tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := opts.newApp(cmd, outW, errW)
			if err != nil {
				return err
			}

			graph, err := a.Registry().Graph()
			if err != nil {
				return err
			}

			group := ""
			for i, t := range a.Registry().Tasks() {
				if i == 0 || t.Group != group {
					group = t.Group
					title := "Other tasks"
					if group != "" {
						title = strings.ToUpper(group[:1]) + group[1:] + " tasks"
					}
					if i > 0 {
						fmt.Fprintln(outW)
					}
					fmt.Fprintf(outW, "%s\n%s\n", title, strings.Repeat("-", len(title)))
				}
				fmt.Fprintf(outW, "%s - %s\n", t.Name, t.Description)
				deps, err := graph.Dependencies(t.Name)
				if err != nil {
					return err
				}
				if len(deps) > 0 {
					fmt.Fprintf(outW, "    depends on: %s\n", strings.Join(deps, ", "))
				}
			}
			return nil
		},
	}
}

// propertiesView is the YAML shape of a finalized project.
type propertiesView struct {
	config.Project     `yaml:",inline"`
	TemplateProperties map[string]string `yaml:"template_properties,omitempty"`
}

func newPropertiesCommand(opts *options, outW, errW io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "properties",
		Short: "Print the resolved configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := opts.newApp(cmd, outW, errW)
			if err != nil {
				return err
			}
			p, err := a.Project(cmd.Context())
			if err != nil {
				return err
			}

			view := propertiesView{Project: *p}
			for _, name := range p.TemplatePropertyNames() {
				if view.TemplateProperties == nil {
					view.TemplateProperties = make(map[string]string)
				}
				view.TemplateProperties[name] = displayValue(p.TemplateProperties()[name])
			}

			enc := yaml.NewEncoder(outW)
			enc.SetIndent(2)
			if err := enc.Encode(view); err != nil {
				return err
			}
			return enc.Close()
		},
	}
}

func displayValue(v cty.Value) string {
	s, err := convert.Convert(v, cty.String)
	if err != nil || s.IsNull() || !s.IsKnown() {
		return v.GoString()
	}
	return s.AsString()
}

func newRepositoriesCommand(outW io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "repositories [group]",
		Short: "List the artifact repositories and the groups each serves",
		Long: `List the artifact repositories and the groups each serves.

Given a group, list only the repositories allowed to serve it, in the order
they are asked.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repos := repository.Defaults()
			if len(args) == 1 {
				repos = repos.SourcesFor(args[0])
			}
			for _, r := range repos {
				fmt.Fprintf(outW, "%-50s %s\n", r, r.Filter)
			}
			return nil
		},
	}
}
