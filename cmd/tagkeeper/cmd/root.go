package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/solatis/tagkeeper/internal/core/config"
	"github.com/solatis/tagkeeper/internal/logging"
)

// Version is the tagkeeper release.
const Version = "0.1.0"

var (
	configFile string

	// Populated by PersistentPreRunE for every subcommand.
	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:     "tagkeeper",
	Short:   "Targeting condition DSL engine",
	Long:    `tagkeeper parses, renders, validates, and stores customer targeting conditions written in the tag condition DSL.`,
	Version: Version,

	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.LoadConfig(configFile, cmd.Flags())
		if err != nil {
			return err
		}
		logger, err = logging.New(cfg.Log.Level, cfg.Log.Format)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")
	rootCmd.PersistentFlags().String("db-url", "", "database connection URL (sqlite://path or postgres://...)")
	rootCmd.PersistentFlags().String("catalog", "", "YAML tag catalog file (takes precedence over the database catalog)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "json", "log format (json, text)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
