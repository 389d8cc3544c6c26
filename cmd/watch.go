package cmd

import (
	"context"
	"os"
	"os/signal"
	"stampmove/internal/daemon"
	"stampmove/internal/db"
	"stampmove/internal/logger"
	"stampmove/internal/repository"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	watchDest       string
	watchExt        string
	watchDateFormat string
)

var watchCmd = &cobra.Command{
	Use:   "watch [path...]",
	Short: "Watch directories and relocate newly created files",
	RunE:  runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	defer logger.Sync()

	if len(args) == 0 {
		args = []string{"."}
	}

	flags := cmd.Flags()
	if flags.Changed("dest") {
		cfg.DestinationSubfolder = watchDest
	}
	if flags.Changed("ext") {
		cfg.OutputExtension = watchExt
	}
	if flags.Changed("date-format") {
		cfg.DateFormat = watchDateFormat
	}

	var recorder daemon.Recorder
	if db.DB != nil {
		recorder = repository.NewHistoryRepository()
	}

	manager := daemon.NewJobManager(cfg, recorder)

	var states []*daemon.JobState
	for _, path := range args {
		state, err := manager.StartJob(path)
		if err != nil {
			manager.StopAll()
			logger.Log.Error("cannot watch path",
				zap.String("path", path),
				zap.Error(err))
			return err
		}
		states = append(states, state)
	}

	logger.Log.Info("watching, press Ctrl+C to stop",
		zap.Int("jobs", len(states)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	allDone := make(chan struct{})
	go func() {
		for _, state := range states {
			<-state.Done()
		}
		close(allDone)
	}()

	select {
	case <-ctx.Done():
		logger.Log.Info("shutting down")
	case <-allDone:
		logger.Log.Warn("all watches ended")
	}

	manager.StopAll()
	logger.Log.Info("monitoring stopped")
	return nil
}

func init() {
	watchCmd.Flags().StringVar(&watchDest, "dest", "", "destination subfolder name")
	watchCmd.Flags().StringVar(&watchExt, "ext", "", "output extension, empty keeps the original")
	watchCmd.Flags().StringVar(&watchDateFormat, "date-format", "", "strftime pattern appended to file names")
	rootCmd.AddCommand(watchCmd)
}
