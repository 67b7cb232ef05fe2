package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"frpcpanel/internal/config"
	"frpcpanel/internal/frpc"
	"frpcpanel/internal/tui"
	"frpcpanel/internal/validation"
	"frpcpanel/internal/webdav"
)

var errInvalidConfig = errors.New("config has problems")

func newTUICmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Show status and logs in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return withApp(opts, tui.Run)
		},
	}
}

func loadStored(opts *rootOptions) (*config.AppConfig, error) {
	return config.NewStore(opts.settings.DataDir).Load()
}

func printProblems(cmd *cobra.Command, errs []validation.FieldError) error {
	for _, fe := range errs {
		fmt.Fprintln(cmd.ErrOrStderr(), fe.Message)
	}
	return fmt.Errorf("%w: %d found", errInvalidConfig, len(errs))
}

func newRenderCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "render",
		Short: "Print the frpc INI generated from the stored config",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadStored(opts)
			if err != nil {
				return err
			}
			if errs := validation.ValidateStart(cfg.ServerAddr, cfg.ServerPort, cfg.Proxies); len(errs) > 0 {
				return printProblems(cmd, errs)
			}
			text, err := frpc.BuildConfig(frpc.StartInput{
				ServerAddr: cfg.ServerAddr,
				ServerPort: cfg.ServerPort,
				Token:      cfg.Token,
				Proxies:    cfg.Proxies,
			})
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), text)
			return nil
		},
	}
}

func newCheckCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate the stored config the way Start does",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadStored(opts)
			if err != nil {
				return err
			}
			if errs := validation.ValidateStart(cfg.ServerAddr, cfg.ServerPort, cfg.Proxies); len(errs) > 0 {
				return printProblems(cmd, errs)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ok: %d tunnel(s)\n", len(cfg.Proxies))
			return nil
		},
	}
}

func newBackupCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Back up or restore the config document over WebDAV",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "push",
		Short: "Upload the config document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			remote, err := webdav.Push(opts.settings.WebDAV, config.NewStore(opts.settings.DataDir))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "uploaded to %s\n", remote)
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "pull",
		Short: "Replace the local config document with the uploaded one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := webdav.Pull(opts.settings.WebDAV, config.NewStore(opts.settings.DataDir))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "restored %d tunnel(s)\n", len(cfg.Proxies))
			return nil
		},
	})
	return cmd
}
