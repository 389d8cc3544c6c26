package cmd

import (
	"os"
	"stampmove/internal/config"
	"stampmove/internal/db"
	"stampmove/internal/logger"

	"github.com/spf13/cobra"
)

var (
	cfg       *config.Config
	debug     bool
	historyDB string
)

var rootCmd = &cobra.Command{
	Use:          "stampmove",
	Short:        "Rename new files with today's date and move them aside",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}

		logger.Init(debug)

		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}

		if cmd.Flags().Changed("history") {
			cfg.HistoryDB = historyDB
		}

		if cfg.HistoryDB != "" {
			if err := db.Init(cfg.HistoryDB); err != nil {
				return err
			}
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = db.Close()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug mode")
	rootCmd.PersistentFlags().StringVar(&historyDB, "history", "", "sqlite file recording handled events")
}
