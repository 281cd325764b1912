// Package commands implements the pathsense command line.
package commands

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ayusman/pathsense/internal/app"
	"github.com/ayusman/pathsense/internal/config"
	"github.com/ayusman/pathsense/internal/logging"
	"github.com/ayusman/pathsense/internal/plugin"
	"github.com/ayusman/pathsense/internal/store"
	"github.com/ayusman/pathsense/internal/tracker"
)

// options holds the persistent flags shared by every subcommand.
type options struct {
	configPath string
	dbPath     string
	logLevel   string
	logFormat  string
	pluginDir  string
}

// NewRootCmd builds the pathsense command tree.
func NewRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "pathsense",
		Short: "Pointer trajectory tracking and shape recognition",
		Long: `pathsense replays recorded pointer input through the trajectory tracker,
reporting lifecycle events, path metrics and recognized shapes as JSON lines.

Custom shapes are trained from recorded strokes and kept in a SQLite database.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Path to a TOML config file")
	root.PersistentFlags().StringVar(&opts.dbPath, "db", "", "Template database path (overrides config)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")
	root.PersistentFlags().StringVar(&opts.logFormat, "log-format", "", "Log format: text or json (overrides config)")
	root.PersistentFlags().StringVar(&opts.pluginDir, "plugins", "", "Gesture hook plugin directory (overrides config)")

	root.AddCommand(
		newReplayCmd(opts),
		newTrainCmd(opts),
		newTemplatesCmd(opts),
		newPluginsCmd(opts),
	)
	return root
}

// env is everything a subcommand needs once flags are resolved.
type env struct {
	settings *config.Config
	logger   *slog.Logger
	store    *store.Store
	app      *app.App
	plugins  *plugin.Manager // nil when hooks are disabled
}

func (e *env) Close() error {
	return e.store.Close()
}

// listener writes events to w as JSON lines and, when plugins are
// configured, runs gesture hooks.
func (e *env) listener(w io.Writer) tracker.Listener {
	out := app.NewJSONLinesListener(w, e.logger)
	if e.plugins == nil {
		return out
	}
	hooks := plugin.NewHooks(e.plugins, plugin.NewExecutor(e.settings.Plugins.TimeoutMs), e.logger)
	return app.MultiListener{out, hooks}
}

// setup loads configuration, applies flag overrides, opens the store and
// builds the App with stored templates installed.
func (o *options) setup(cmd *cobra.Command) (*env, error) {
	settings, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	if o.dbPath != "" {
		settings.Store.Path = o.dbPath
	}
	if o.logLevel != "" {
		settings.Log.Level = o.logLevel
	}
	if o.logFormat != "" {
		settings.Log.Format = o.logFormat
	}
	if o.pluginDir != "" {
		settings.Plugins.Dir = o.pluginDir
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	lc := settings.LoggingConfig()
	lc.Output = cmd.ErrOrStderr()
	logger := logging.New(lc)

	dbPath, err := settings.StorePath()
	if err != nil {
		return nil, err
	}
	st, err := store.New(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize store: %w", err)
	}

	a := app.New(app.Config{Settings: settings, Store: st, Logger: logger})
	if _, err := a.LoadTemplates(); err != nil {
		st.Close()
		return nil, err
	}

	e := &env{settings: settings, logger: logger, store: st, app: a}

	pluginDir, err := settings.PluginDir()
	if err != nil {
		st.Close()
		return nil, err
	}
	if pluginDir != "" {
		e.plugins = plugin.NewManager(pluginDir)
		if err := e.plugins.Discover(); err != nil {
			st.Close()
			return nil, fmt.Errorf("failed to discover plugins: %w", err)
		}
		logger.Debug("plugins discovered", "dir", pluginDir, "count", len(e.plugins.List()))
	}

	return e, nil
}
