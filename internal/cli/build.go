package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/frinkifail/dreamcpp/internal/build"
	"github.com/frinkifail/dreamcpp/internal/models"
	"github.com/frinkifail/dreamcpp/internal/tui"
	"github.com/frinkifail/dreamcpp/internal/workspace"
)

// BuildCommand handles the build and run commands
type BuildCommand struct {
	rt  *runtime
	run bool
}

// NewBuildCommand creates a new build command
func NewBuildCommand(rt *runtime) *cobra.Command {
	cmd := &BuildCommand{rt: rt}

	cobraCmd := &cobra.Command{
		Use:   "build",
		Short: "Compile the project",
		Long: `Compiles every source file under src into build/<name> with the preferred
compiler, the shared include tree, the extra includes and the system libraries.`,
		Args: cobra.NoArgs,
		RunE: cmd.Run,
	}

	return cobraCmd
}

// NewRunCommand creates a new run command
func NewRunCommand(rt *runtime) *cobra.Command {
	cmd := &BuildCommand{rt: rt, run: true}

	cobraCmd := &cobra.Command{
		Use:   "run [-- args...]",
		Short: "Build the project and run it",
		RunE:  cmd.Run,
	}

	return cobraCmd
}

// Run executes the build or run command
func (c *BuildCommand) Run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	ws, cfg, err := c.load()
	if err != nil {
		return err
	}

	builder := build.NewBuilder(c.rt.fs, c.rt.exec, ws.RootPath, ws.BuildLayout(), c.rt.log)

	if c.run {
		err = builder.Run(ctx, cfg, build.Streams{
			In:  cmd.InOrStdin(),
			Out: cmd.OutOrStdout(),
			Err: cmd.ErrOrStderr(),
		}, args...)
	} else {
		_, err = builder.Build(ctx, cfg)
	}

	var compileErr *build.CompileError
	if errors.As(err, &compileErr) && strings.TrimSpace(compileErr.Output) != "" {
		_, _ = fmt.Fprintln(cmd.ErrOrStderr(), tui.OutputStyle.Render(strings.TrimRight(compileErr.Output, "\n")))
	}

	return err
}

func (c *BuildCommand) load() (*workspace.Workspace, *models.ProjectConfig, error) {
	ws, err := c.rt.workspace()
	if err != nil {
		return nil, nil, err
	}

	if !c.rt.fs.Exists(ws.ManifestPath) {
		return nil, nil, eris.Errorf("couldn't find %s; is this a dreamcpp project?", ws.ManifestPath)
	}

	cfg, err := ws.Load()
	if err != nil {
		return nil, nil, err
	}

	return ws, cfg, nil
}
