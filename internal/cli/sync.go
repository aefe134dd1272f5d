package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/frinkifail/dreamcpp/internal/dependency"
	"github.com/frinkifail/dreamcpp/internal/index"
	"github.com/frinkifail/dreamcpp/internal/tui"
)

var errSyncFailed = eris.New("some dependencies failed to sync")

// SyncCommand handles the sync command
type SyncCommand struct {
	rt *runtime
}

// NewSyncCommand creates a new sync command
func NewSyncCommand(rt *runtime) *cobra.Command {
	cmd := &SyncCommand{rt: rt}

	cobraCmd := &cobra.Command{
		Use:   "sync",
		Short: "Fetch every dependency of the project",
		Long: `Clones each non-system dependency into build/deps unless it is already
there. A failing dependency does not stop the others.`,
		Args: cobra.NoArgs,
		RunE: cmd.Run,
	}

	return cobraCmd
}

// Run executes the sync command
func (c *SyncCommand) Run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	ws, err := c.rt.workspace()
	if err != nil {
		return err
	}

	if err := dependency.CheckPreconditions(ctx, c.rt.fs, c.rt.git, ws.ManifestPath); err != nil {
		return err
	}

	cfg, err := ws.Load()
	if err != nil {
		return err
	}

	resolver := index.NewDefaultResolver(ws.Settings(), c.rt.fs, c.rt.log, c.rt.metrics)
	materializer := dependency.NewMaterializer(c.rt.fs, c.rt.git, resolver, ws.DependencyLayout(), c.rt.log, c.rt.metrics)
	syncer := dependency.NewSyncer(c.rt.fs, materializer, c.rt.log).
		WithProgress(newProgressBar(cmd.ErrOrStderr()))

	report, ok := syncer.Sync(ctx, cfg)
	renderSyncReport(cmd.OutOrStdout(), report)

	if !ok {
		return eris.Wrapf(errSyncFailed, "%d of %d", len(report.Failed()), len(report.Results))
	}
	return nil
}

func renderSyncReport(out io.Writer, report dependency.Report) {
	if len(report.Results) == 0 {
		_, _ = fmt.Fprintln(out, tui.SubtleStyle.Render("no dependencies"))
		return
	}

	for _, res := range report.Results {
		name := tui.NameStyle.Render(res.Name)
		switch res.Status {
		case dependency.StatusSynced:
			_, _ = fmt.Fprintf(out, "%s %s\n", tui.SuccessStyle.Render("✓"), name)
		case dependency.StatusSkippedExisting:
			_, _ = fmt.Fprintf(out, "%s %s %s\n", tui.SuccessStyle.Render("✓"), name, tui.SubtleStyle.Render("(already present)"))
		case dependency.StatusSkippedSystem:
			_, _ = fmt.Fprintf(out, "%s %s %s\n", tui.SubtleStyle.Render("-"), name, tui.SubtleStyle.Render("(system library)"))
		case dependency.StatusFailed:
			_, _ = fmt.Fprintf(out, "%s %s: %v\n", tui.ErrorStyle.Render("✗"), name, res.Err)

			var cloneErr *dependency.CloneError
			if errors.As(res.Err, &cloneErr) && strings.TrimSpace(cloneErr.Output) != "" {
				_, _ = fmt.Fprintln(out, tui.OutputStyle.Render(strings.TrimRight(cloneErr.Output, "\n")))
			}
		}
	}

	_, _ = fmt.Fprintf(out, "\n%d synced, %d present, %d system, %d failed\n",
		report.Count(dependency.StatusSynced),
		report.Count(dependency.StatusSkippedExisting),
		report.Count(dependency.StatusSkippedSystem),
		report.Count(dependency.StatusFailed),
	)
}
