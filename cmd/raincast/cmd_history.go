package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/raincast/internal/adapter/sqlite"
	"github.com/couchcryptid/raincast/internal/report"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded predictions",
	Long:  `List the most recent predictions stored in the RAINCAST_HISTORY_DB database.`,
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "number of predictions to show")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	if !cfg.HistoryEnabled() {
		return errors.New("prediction history is disabled: set RAINCAST_HISTORY_DB")
	}

	store, err := sqlite.Open(cfg.HistoryDB)
	if err != nil {
		return err
	}
	defer store.Close()

	results, err := store.List(cmd.Context(), historyLimit)
	if err != nil {
		return err
	}
	return report.WriteHistory(cmd.OutOrStdout(), results)
}
