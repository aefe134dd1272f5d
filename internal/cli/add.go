package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/frinkifail/dreamcpp/internal/dependency"
	"github.com/frinkifail/dreamcpp/internal/index"
	"github.com/frinkifail/dreamcpp/internal/tui"
)

// AddCommand handles the add command
type AddCommand struct {
	rt *runtime
}

// NewAddCommand creates a new add command
func NewAddCommand(rt *runtime) *cobra.Command {
	cmd := &AddCommand{rt: rt}

	cobraCmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a dependency to the project",
		Long: `Looks the dependency up in the registry and, when found, appends it to
dreamcpp.toml with version "latest". Run 'dreamcpp sync' to fetch it.`,
		Args: cobra.ExactArgs(1),
		RunE: cmd.Run,
	}

	return cobraCmd
}

// Run executes the add command
func (c *AddCommand) Run(cmd *cobra.Command, args []string) error {
	name := args[0]
	ctx := cmd.Context()

	ws, err := c.rt.workspace()
	if err != nil {
		return err
	}

	resolver := index.NewDefaultResolver(ws.Settings(), c.rt.fs, c.rt.log, c.rt.metrics)
	adder := dependency.NewAdder(c.rt.fs, c.rt.git, resolver, ws.ManifestPath, c.rt.log)

	cfg, updated, err := adder.AddToManifest(ctx, name, filepath.Base(ws.RootPath))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if updated == cfg {
		_, _ = fmt.Fprintf(out, "%s is already a dependency of %s\n", tui.NameStyle.Render(name), cfg.Name)
		return nil
	}

	_, _ = fmt.Fprintf(out, "%s added %s\n", tui.SuccessStyle.Render("✓"), tui.NameStyle.Render(name))
	_, _ = fmt.Fprintln(out, tui.SubtleStyle.Render("run 'dreamcpp sync' to fetch it"))
	return nil
}
