package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/alexanderramin/crudforge/internal/domain"
	"github.com/alexanderramin/crudforge/internal/service"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Trees     service.TreeService
	Selection service.SelectionService
	Edit      service.EditService
	Sync      service.SyncService

	// Serve runs the HTTP API until ctx is done. An empty addr uses the
	// configured address.
	Serve func(ctx context.Context, addr string) error

	// IsInteractive reports whether stdin is a terminal. Interactive
	// commands refuse to start when it returns false.
	IsInteractive func() bool

	// RunPicker runs a bubbletea model to completion. Nil means a real
	// tea.Program on the terminal.
	RunPicker func(tea.Model) (tea.Model, error)

	// Now defaults to time.Now.
	Now func() time.Time
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) runPicker(m tea.Model) (tea.Model, error) {
	if a.RunPicker != nil {
		return a.RunPicker(m)
	}
	return tea.NewProgram(m).Run()
}

// Options are the global flags, resolved before any command runs.
type Options struct {
	ConfigPath string
	Offline    bool
	LogLevel   string
}

// Loader builds the App for the resolved global flags. The returned
// function releases what the App holds and may be nil.
type Loader func(Options) (*App, func() error, error)

// NewRootCmd creates the top-level "crudforge" command. The App is built
// lazily by load once flags are parsed.
func NewRootCmd(load Loader) *cobra.Command {
	var (
		opts    Options
		release func() error
	)
	app := &App{}

	root := &cobra.Command{
		Use:           "crudforge",
		Short:         "Browse and edit admin builder trees backed by a CRUD API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			loaded, closer, err := load(opts)
			if err != nil {
				return err
			}
			*app = *loaded
			release = closer
			return nil
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			if release == nil {
				return nil
			}
			return release()
		},
	}
	bindGlobalFlags(root.PersistentFlags(), &opts)

	root.AddCommand(
		newTreeCmd(app),
		newSearchCmd(app),
		newPackageCmd(app),
		newEditCmd(app),
		newNormalizeCmd(),
		newSyncCmd(app),
		newServeCmd(app),
	)

	return root
}

func bindGlobalFlags(fs *pflag.FlagSet, opts *Options) {
	fs.StringVar(&opts.ConfigPath, "config", "", "config file (default ~/.crudforge/config.yaml)")
	fs.BoolVar(&opts.Offline, "offline", false, "serve reads from local snapshots and queue writes")
	fs.StringVar(&opts.LogLevel, "log-level", "", "override the configured log level")
}

// parseKind resolves a tree kind argument.
func parseKind(s string) (domain.TreeKind, error) {
	kind, ok := domain.ParseTreeKind(s)
	if !ok {
		return "", fmt.Errorf("%w %q (want menu, feature or column)", service.ErrUnknownTreeKind, s)
	}
	return kind, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
