package cli

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/specialistvlad/zpdev/internal/app"
	"github.com/specialistvlad/zpdev/internal/hcl"
	"github.com/specialistvlad/zpdev/modules/build"
	"github.com/specialistvlad/zpdev/modules/copyplugin"
	"github.com/specialistvlad/zpdev/modules/repositories"
	"github.com/specialistvlad/zpdev/modules/run"
	"github.com/specialistvlad/zpdev/modules/templates"
)

// options holds the persistent flag values.
type options struct {
	projectDir       string
	configFile       string
	runDir           string
	mcVersion        string
	noTemplates      bool
	noAutoDependency bool
	logLevel         string
	logFormat        string
}

// newApp validates the flags and builds the application.
func (o *options) newApp(cmd *cobra.Command, outW, errW io.Writer) (*app.App, error) {
	cfg := app.Config{
		ProjectDir:       o.projectDir,
		MCVersion:        o.mcVersion,
		NoTemplates:      o.noTemplates,
		NoAutoDependency: o.noAutoDependency,
		LogLevel:         o.logLevel,
		LogFormat:        o.logFormat,
	}
	// Paths given on the command line are relative to the working
	// directory, not the project.
	if cmd.Flags().Changed("config") {
		p, err := filepath.Abs(o.configFile)
		if err != nil {
			return nil, err
		}
		cfg.ConfigFile = p
	}
	if o.runDir != "" {
		p, err := filepath.Abs(o.runDir)
		if err != nil {
			return nil, err
		}
		cfg.RunDir = p
	}

	appConfig, err := app.NewConfig(cfg)
	if err != nil {
		return nil, &usageError{err}
	}
	return app.NewApp(outW, errW, appConfig, hcl.NewLoader())
}

func newRootCommand(outW, errW io.Writer) *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "zpdev [task...]",
		Short: "Build, stage and run ZenithProxy plugins during development",
		Long: `zpdev drives the development loop of a ZenithProxy plugin: it points the
Gradle build at the plugin repositories, renders source templates, builds
the plugin archive, copies it into a local run directory and launches
ZenithProxy against it.

Tasks run with everything they depend on:
  configureRepositories, generateTemplates -> build -> copyPlugin -> run`,
		Example: `  zpdev run
  zpdev build --mc 1.21.4
  zpdev copyPlugin --run-dir /srv/zenith`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       Version,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return runTasks(cmd, opts, outW, errW, args...)
		},
	}
	root.SetOut(outW)
	root.SetErr(errW)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err}
	})

	f := root.PersistentFlags()
	f.StringVarP(&opts.projectDir, "project-dir", "p", ".", "Project directory")
	f.StringVarP(&opts.configFile, "config", "c", app.DefaultConfigFile, "Project file, relative to the project directory unless given explicitly")
	f.StringVar(&opts.runDir, "run-dir", "", "Run directory (overrides zenith_proxy.run_directory)")
	f.StringVar(&opts.mcVersion, "mc", "", "Minecraft version (overrides zenith_proxy.mc)")
	f.BoolVar(&opts.noTemplates, "no-templates", false, "Skip template generation")
	f.BoolVar(&opts.noAutoDependency, "no-auto-dependency", false, "Do not add the ZenithProxy dependency")
	f.StringVar(&opts.logLevel, "log-level", "info", "Logging level: debug, info, warn or error")
	f.StringVar(&opts.logFormat, "log-format", "text", "Log output format: text or json")

	root.AddCommand(
		taskCommand("run", run.TaskName, "Build, stage and run ZenithProxy with the plugin", opts, outW, errW),
		taskCommand("build", build.TaskName, "Build the plugin archive", opts, outW, errW),
		taskCommand("copy-plugin", copyplugin.TaskName, "Build and copy the plugin into the run directory", opts, outW, errW),
		taskCommand("generate-templates", templates.TaskName, "Render source templates", opts, outW, errW),
		taskCommand("configure-repositories", repositories.TaskName, "Write the Gradle init script", opts, outW, errW),
		newTasksCommand(opts, outW, errW),
		newPropertiesCommand(opts, outW, errW),
		newRepositoriesCommand(outW),
	)
	return root
}

// taskCommand is a subcommand that runs a single task.
func taskCommand(use, task, short string, opts *options, outW, errW io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Long:  fmt.Sprintf("%s.\n\nRuns the '%s' task and everything it depends on.", short, task),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTasks(cmd, opts, outW, errW, task)
		},
	}
}

func runTasks(cmd *cobra.Command, opts *options, outW, errW io.Writer, tasks ...string) error {
	a, err := opts.newApp(cmd, outW, errW)
	if err != nil {
		return err
	}
	return a.Run(cmd.Context(), tasks...)
}
