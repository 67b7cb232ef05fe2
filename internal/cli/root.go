// Package cli is the frpcpanel command tree.
package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"frpcpanel/internal/app"
	"frpcpanel/internal/config"
	"frpcpanel/internal/logging"
	"frpcpanel/internal/ui"
)

type rootOptions struct {
	settingsFile string
	logLevel     string

	settings *config.Settings
	logger   *slog.Logger
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "frpcpanel",
		Short: "Control panel for the frpc tunnel client",
		Long: `frpcpanel edits an frp server connection and its tunnels, starts and
stops frpc with a generated config, and shows frpc's status and log.
Without a subcommand it opens the desktop window.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			s, err := config.LoadSettings(opts.settingsFile)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("log-level") {
				s.LogLevel = opts.logLevel
			}
			opts.settings = s
			opts.logger = logging.Init(s.LogLevel, cmd.ErrOrStderr())
			return nil
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			return withApp(opts, func(ctl *app.App) error {
				ui.Run(ctl)
				return nil
			})
		},
	}

	cmd.PersistentFlags().StringVar(&opts.settingsFile, "settings", "", "settings file (default is settings.yaml in the config directory)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "diagnostic log level: debug, info, warn, error")

	cmd.AddCommand(newTUICmd(opts))
	cmd.AddCommand(newRenderCmd(opts))
	cmd.AddCommand(newCheckCmd(opts))
	cmd.AddCommand(newBackupCmd(opts))
	return cmd
}

// withApp builds the controller, runs fn and always shuts frpc down after.
func withApp(opts *rootOptions, fn func(*app.App) error) error {
	ctl, err := app.New(opts.settings, opts.logger)
	if err != nil {
		return err
	}
	runErr := fn(ctl)
	if err := ctl.Close(); err != nil {
		opts.logger.Warn("shutdown", "error", err)
	}
	return runErr
}

func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		// cobra has already printed the error
		os.Exit(1)
	}
}
