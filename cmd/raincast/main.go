// Command raincast forecasts the chance of rain for a date, a date range or a
// whole month from a station's historical observations.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var rootCmd = &cobra.Command{
	Use:   "raincast",
	Short: "raincast - rain probability from historical analogues",
	Long: `raincast predicts whether it will rain on a given day by averaging the
weather observed around the same calendar date in previous years and feeding
it to a trained classifier.

Run without a subcommand in a terminal to start the interactive menu.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return cmd.Help()
		}
		return runInteractive(cmd, args)
	},
}

var (
	dataFlag     string
	modelDirFlag string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&dataFlag, "data", "", "historical observations CSV (overrides RAINCAST_DATA)")
	rootCmd.PersistentFlags().StringVar(&modelDirFlag, "model-dir", "", "directory with the model artifacts (overrides RAINCAST_MODEL_DIR)")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
