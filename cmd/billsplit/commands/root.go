package commands

import (
	"github.com/spf13/cobra"

	"github.com/mmynk/billsplit/internal/config"
	"github.com/mmynk/billsplit/pkg/logging"
)

// Execute runs the CLI.
func Execute() error {
	root, cleanup := NewRootCmd()
	defer cleanup()
	return root.Execute()
}

// NewRootCmd builds the command tree. cleanup releases whatever the last
// run opened and is safe to call when nothing ran.
func NewRootCmd() (*cobra.Command, func()) {
	var (
		configPath   string
		contactsPath string
		dumpMetrics  bool
		a            *app
	)
	getApp := func() *app { return a }

	root := &cobra.Command{
		Use:           "billsplit",
		Short:         "Split a bill and draft payment requests",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			logger := logging.Setup(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.NoColor)
			a, err = newApp(cfg, logger, cmd.OutOrStdout(), contactsPath)
			return err
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if dumpMetrics && a != nil {
				return a.writeMetrics(cmd.ErrOrStderr())
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ./billsplit.yaml when present)")
	root.PersistentFlags().StringVar(&contactsPath, "contacts", "", "JSON contact list used by --pick")
	root.PersistentFlags().BoolVar(&dumpMetrics, "metrics", false, "print collected metrics to stderr on exit")

	root.AddCommand(splitCmd(getApp), validateCmd(), currenciesCmd(), historyCmd(getApp))

	cleanup := func() {
		if a != nil {
			if err := a.Close(); err != nil {
				a.logger.Warn("failed to close", "error", err)
			}
			a = nil
		}
	}
	return root, cleanup
}
