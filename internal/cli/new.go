package cli

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/frinkifail/dreamcpp/internal/models"
	"github.com/frinkifail/dreamcpp/internal/scaffold"
	"github.com/frinkifail/dreamcpp/internal/tui/newproject"
)

// NewCommand handles the new command
type NewCommand struct {
	rt       *runtime
	standard string
	compiler string

	// prompt asks for missing options; swapped out in tests
	prompt func(name string) (*scaffold.Options, error)
}

// NewNewCommand creates a new new command
func NewNewCommand(rt *runtime) *cobra.Command {
	cmd := &NewCommand{
		rt: rt,
		prompt: func(name string) (*scaffold.Options, error) {
			return newproject.NewFlow(name).Run()
		},
	}

	cobraCmd := &cobra.Command{
		Use:   "new [name]",
		Short: "Create a new project",
		Long: `Creates <name>/ with src, build, build/includes and build/lib, a
dreamcpp.toml and a starter src/main.cpp. Without a name, asks interactively.`,
		Args: cobra.MaximumNArgs(1),
		RunE: cmd.Run,
	}

	cobraCmd.Flags().StringVar(&cmd.standard, "std", "", "Language standard (default c++20)")
	cobraCmd.Flags().StringVar(&cmd.compiler, "compiler", "", "Preferred compiler (default clang++)")

	return cobraCmd
}

// Run executes the new command
func (c *NewCommand) Run(cmd *cobra.Command, args []string) error {
	opts := &scaffold.Options{Standard: c.standard, PreferredCompiler: c.compiler}

	if len(args) == 1 {
		opts.Name = args[0]
	} else {
		prompted, err := c.prompt("")
		if err != nil {
			return eris.Wrap(err, "failed to run TUI")
		}
		if prompted == nil {
			return nil
		}
		opts = prompted
	}

	cwd, err := c.rt.fs.Getwd()
	if err != nil {
		return eris.Wrap(err, "failed to get working directory")
	}

	s := scaffold.NewScaffolder(c.rt.fs, scaffold.Layout{
		ManifestFile: c.rt.settings.ManifestFile,
		BuildDir:     c.rt.settings.BuildDir,
		IncludesDir:  c.rt.settings.IncludesDir,
		LibDir:       c.rt.settings.LibDir,
	}, c.rt.log)

	dir, err := s.Create(cwd, *opts)
	if err != nil {
		return err
	}

	created := *opts
	if created.Standard == "" {
		created.Standard = models.DefaultStandard
	}
	if created.PreferredCompiler == "" {
		created.PreferredCompiler = models.DefaultPreferredCompiler
	}

	_, _ = fmt.Fprintln(cmd.OutOrStdout(), newproject.RenderSuccess(dir, &created))
	return nil
}
