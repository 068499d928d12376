package cmd

import (
	"github.com/bnema/rsessions/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	cfg := viper.New()
	app := &app{}
	var home string

	rootCmd := &cobra.Command{
		Use:           "rsessions",
		Short:         "Track active R sessions across users and hosts",
		Long:          "rsessions records the lifecycle of R workspace sessions so launchers and administrators can create, list, inspect and retire them, on one host or across hosts sharing a storage root.",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return app.wire(cfg, home, cmd.ErrOrStderr())
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&home, "home", "", "Home directory whose sessions are managed (default: $HOME)")
	flags.String("root", "", "Session storage root (default: ~/.local/share/rsessions/active)")
	flags.String("backend", "", "Storage backend (local|shared)")
	flags.String("node", "", "Node name recorded by the shared backend (default: hostname)")
	flags.String("log-level", "", "Log level (debug|info|warn|error)")
	_ = cfg.BindPFlag(config.KeyStorageRoot, flags.Lookup("root"))
	_ = cfg.BindPFlag(config.KeyStorageBackend, flags.Lookup("backend"))
	_ = cfg.BindPFlag(config.KeyStorageNode, flags.Lookup("node"))
	_ = cfg.BindPFlag(config.KeyLogLevel, flags.Lookup("log-level"))

	rootCmd.AddCommand(
		newVersionCmd(),
		newCreateCmd(app),
		newListCmd(app),
		newCountCmd(app),
		newGetCmd(app),
		newTouchCmd(app),
		newLabelCmd(app),
		newMarkRunningCmd(app),
		newMarkStoppedCmd(app),
		newRemoveCmd(app),
		newGlobalCmd(app),
	)

	return rootCmd
}
