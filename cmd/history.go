package cmd

import (
	"errors"
	"fmt"
	"stampmove/internal/db"
	"stampmove/internal/model"
	"stampmove/internal/repository"

	"github.com/spf13/cobra"
)

var (
	historyN      int
	historyFailed bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View handled events",
	RunE: func(cmd *cobra.Command, args []string) error {
		if db.DB == nil {
			return errors.New("history is disabled, set history_db or pass --history")
		}

		repo := repository.NewHistoryRepository()

		var histories []model.History
		var err error
		if historyFailed {
			histories, err = repo.GetFailed()
		} else {
			histories, err = repo.GetRecent(historyN)
		}
		if err != nil {
			return err
		}

		if len(histories) == 0 {
			fmt.Println("no history yet")
			return nil
		}

		for _, h := range histories {
			status := "✓"
			switch h.Status {
			case model.StatusFailed:
				status = "✗"
			case model.StatusLogged:
				status = "-"
			}

			line := fmt.Sprintf("%s [%s] %-7s %s",
				status,
				h.HandledAt.Format("2006-01-02 15:04:05"),
				h.FileEvent,
				h.SrcPath,
			)
			switch {
			case h.ErrMsg != "":
				line += ": " + h.ErrMsg
			case h.DstPath != "":
				line += " -> " + h.DstPath
			}
			fmt.Println(line)
		}

		stats, err := repo.GetStats()
		if err != nil {
			return err
		}
		fmt.Printf("\ntotal %d, moved %d, failed %d\n", stats.Total, stats.Success, stats.Failed)

		return nil
	},
}

func init() {
	historyCmd.Flags().IntVar(&historyN, "n", 20, "number of history entries to show")
	historyCmd.Flags().BoolVar(&historyFailed, "failed", false, "show only failed relocations")
	rootCmd.AddCommand(historyCmd)
}
