package cli

import (
	"context"
	"os"
	"os/signal"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/frinkifail/dreamcpp/internal/build"
	"github.com/frinkifail/dreamcpp/internal/filesystem"
	"github.com/frinkifail/dreamcpp/internal/git"
	"github.com/frinkifail/dreamcpp/internal/logging"
	"github.com/frinkifail/dreamcpp/internal/metrics"
	"github.com/frinkifail/dreamcpp/internal/settings"
	"github.com/frinkifail/dreamcpp/internal/workspace"
)

// runtime is the state shared by all subcommands of one invocation. It is
// filled in by the root command's persistent pre-run.
type runtime struct {
	fs       filesystem.FileSystem
	git      git.GitClient
	exec     build.Executor
	settings *settings.Settings

	log     zerolog.Logger
	metrics *metrics.Metrics

	verbose  bool
	noColor  bool
	manifest string
	registry string
}

func (r *runtime) setup(cmd *cobra.Command) error {
	if r.registry != "" {
		r.settings.RegistryURL = r.registry
	}

	level, err := logging.ParseLevel(r.settings.LogLevel)
	if err != nil {
		return err
	}
	if r.verbose {
		level = zerolog.DebugLevel
	}

	r.log = logging.New(cmd.ErrOrStderr(), level, r.noColor)
	r.metrics = metrics.New()

	r.log.Debug().Str("registry", r.settings.RegistryURL).Msg("settings loaded")
	return nil
}

func (r *runtime) teardown() error {
	return r.metrics.WriteTextfile(r.settings.MetricsFile)
}

// withTeardown makes cmd dump metrics whether or not it fails. Cobra skips
// post-run hooks after a RunE error.
func withTeardown(rt *runtime, cmd *cobra.Command) {
	run := cmd.RunE
	cmd.RunE = func(cmd *cobra.Command, args []string) (err error) {
		defer func() {
			if werr := rt.teardown(); werr != nil {
				if err != nil {
					rt.log.Warn().Err(werr).Msg("couldn't write metrics")
					return
				}
				err = werr
			}
		}()
		return run(cmd, args)
	}
}

// workspace locates the project. A missing manifest is not an error here;
// the returned workspace then points at the working directory.
func (r *runtime) workspace() (*workspace.Workspace, error) {
	var opts []workspace.Option
	if r.manifest != "" {
		opts = append(opts, workspace.WithManifest(r.manifest))
	}

	ws := workspace.New(r.fs, r.settings, opts...)
	if err := ws.Detect(); err != nil && !eris.Is(err, workspace.ErrNotFound) {
		return nil, err
	}

	return ws, nil
}

// NewRootCommand creates the root command
func NewRootCommand(fs filesystem.FileSystem, gitClient git.GitClient, executor build.Executor, s *settings.Settings) *cobra.Command {
	rt := &runtime{
		fs:       fs,
		git:      gitClient,
		exec:     executor,
		settings: s,
		log:      zerolog.Nop(),
	}

	return newRootCommand(rt)
}

func newRootCommand(rt *runtime) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "dreamcpp",
		Short: "A minimal build tool for C++ projects",
		Long: `dreamcpp manages C++ projects described by a dreamcpp.toml manifest.

Dependencies are looked up in a registry, cloned into build/deps and
header-only libraries are placed into build/includes.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return rt.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&rt.verbose, "verbose", "v", false, "Enable debug logging")
	flags.StringVarP(&rt.manifest, "config", "c", "", "Path to the project manifest (default: search for dreamcpp.toml)")
	flags.StringVar(&rt.registry, "registry", "", "Registry document URL (overrides registry_url)")
	flags.BoolVar(&rt.noColor, "no-color", false, "Disable colored log output")

	// Add subcommands
	rootCmd.AddCommand(NewNewCommand(rt))
	rootCmd.AddCommand(NewAddCommand(rt))
	rootCmd.AddCommand(NewSyncCommand(rt))
	rootCmd.AddCommand(NewBuildCommand(rt))
	rootCmd.AddCommand(NewRunCommand(rt))

	for _, sub := range rootCmd.Commands() {
		withTeardown(rt, sub)
	}

	return rootCmd
}

// Execute runs the root command
func Execute() error {
	s, err := settings.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd := NewRootCommand(filesystem.NewOSFileSystem(), git.NewOSGitClient(), build.NewOSExecutor(), s)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		return eris.Wrap(err, "command failed")
	}

	return nil
}
