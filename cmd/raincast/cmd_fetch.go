package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/raincast/internal/adapter/csvsource"
	"github.com/couchcryptid/raincast/internal/adapter/meteostat"
)

var fetchOut string

var fetchCmd = &cobra.Command{
	Use:   "fetch STATION",
	Short: "Download a station's daily history from Meteostat",
	Long: `Download the historical daily observations of a Meteostat station and
write them in the CSV layout the predictor reads.`,
	Args: cobra.ExactArgs(1),
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().StringVarP(&fetchOut, "out", "o", "", "output CSV path (default: the --data path)")
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	out := fetchOut
	if out == "" {
		out = cfg.DataPath
	}

	client := meteostat.NewClient(cfg.MeteostatBaseURL, cfg.MeteostatTimeout, logger)
	records, err := client.FetchDaily(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if err := csvsource.WriteFile(out, records); err != nil {
		return err
	}

	logger.Info("station history written", "station", args[0], "rows", len(records), "path", out)
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d days for station %s to %s\n", len(records), args[0], out)
	return nil
}
