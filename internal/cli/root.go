// Package cli implements the pawfinder command tree on top of internal/app.
package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/samvad-hq/pawfinder/internal/app"
	"github.com/samvad-hq/pawfinder/internal/config"
	"github.com/samvad-hq/pawfinder/internal/logger"
	"github.com/spf13/cobra"
)

type globalFlags struct {
	output       string
	apiURL       string
	sessionStore string
	sessionPath  string
	debug        bool
}

// runtime is the state shared by all commands of one invocation.
type runtime struct {
	flags   globalFlags
	cfg     *config.Config
	app     *app.App
	appOpts []app.Option
}

// Option customizes the command tree.
type Option func(*runtime)

// WithAppOptions forwards options to app.New.
func WithAppOptions(opts ...app.Option) Option {
	return func(rt *runtime) { rt.appOpts = append(rt.appOpts, opts...) }
}

// Execute runs the CLI with args and returns the process exit code. Errors
// are rendered to stderr.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer, opts ...Option) int {
	rt := &runtime{}
	for _, opt := range opts {
		opt(rt)
	}
	root := rt.rootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if cerr := rt.close(); err == nil {
		err = cerr
	}
	if err != nil {
		logger.DebugObj("command failed", "error", err.Error())
		RenderError(stderr, err)
		return 1
	}
	return 0
}

// NewRootCmd constructs the root command; exposed for unit testing.
func NewRootCmd(opts ...Option) *cobra.Command {
	rt := &runtime{}
	for _, opt := range opts {
		opt(rt)
	}
	return rt.rootCmd()
}

func (rt *runtime) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "pawfinder",
		Short:         "Command-line client for the lost-and-found pets API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return rt.setup(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&rt.flags.output, "output", "o", "", "Output format: json or yaml")
	pf.StringVar(&rt.flags.apiURL, "api-url", "", "Base URL of the pets API (overrides API_BASE_URL)")
	pf.StringVar(&rt.flags.sessionStore, "session-store", "", "Session store: bbolt, memory or none")
	pf.StringVar(&rt.flags.sessionPath, "session-path", "", "Path of the bbolt session file")
	pf.BoolVarP(&rt.flags.debug, "debug", "d", false, "Enable debug logging on stderr")

	root.AddCommand(newLoginCmd(rt))
	root.AddCommand(newLogoutCmd(rt))
	root.AddCommand(newRegisterCmd(rt))
	root.AddCommand(newUserCmd(rt))
	root.AddCommand(newPetCmd(rt))
	root.AddCommand(newSearchCmd(rt))
	root.AddCommand(newRecentCmd(rt))
	root.AddCommand(newSliderCmd(rt))
	root.AddCommand(newOrdersCmd(rt))
	root.AddCommand(newSubscribeCmd(rt))
	root.AddCommand(newImageCmd(rt))

	return root
}

// setup loads the configuration, applies flag overrides and starts the
// logger. The App itself is built on first use.
func (rt *runtime) setup(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if rt.flags.output != "" {
		cfg.OutputFormat = rt.flags.output
	}
	if rt.flags.apiURL != "" {
		cfg.APIBaseURL = rt.flags.apiURL
	}
	if rt.flags.sessionStore != "" {
		cfg.SessionStore = rt.flags.sessionStore
	}
	if rt.flags.sessionPath != "" {
		cfg.SessionPath = rt.flags.sessionPath
	}
	if rt.flags.debug {
		cfg.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if _, err := logger.InitWriter(cfg.LogLevel, cmd.ErrOrStderr()); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	rt.cfg = cfg
	return nil
}

// client returns the App, building it on first call.
func (rt *runtime) client() (*app.App, error) {
	if rt.app != nil {
		return rt.app, nil
	}
	if rt.cfg == nil {
		return nil, fmt.Errorf("configuration not loaded")
	}
	a, err := app.New(rt.cfg, logger.Obj{}, rt.appOpts...)
	if err != nil {
		return nil, err
	}
	rt.app = a
	return a, nil
}

func (rt *runtime) close() error {
	if rt.app == nil {
		return nil
	}
	err := rt.app.Close()
	rt.app = nil
	_ = logger.Close()
	return err
}

func (rt *runtime) render(cmd *cobra.Command, v any) error {
	return Render(cmd.OutOrStdout(), rt.cfg.OutputFormat, v)
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}
