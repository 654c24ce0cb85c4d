package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/raincast/internal/pipeline"
)

var interactiveCmd = &cobra.Command{
	Use:   "interactive",
	Short: "Start the interactive menu",
	Long:  `Prompt for the historical data file, then offer date, range and monthly queries until you exit.`,
	Args:  cobra.NoArgs,
	RunE:  runInteractive,
}

func init() {
	rootCmd.AddCommand(interactiveCmd)
}

func runInteractive(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	in := bufio.NewScanner(cmd.InOrStdin())
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, "\n=== RAINCAST ===")
	fmt.Fprintf(out, "\nPath to the historical CSV (Enter for '%s'): ", cfg.DataPath)
	if in.Scan() {
		if path := strings.TrimSpace(in.Text()); path != "" {
			cfg.DataPath = path
		}
	}

	fmt.Fprintln(out, "\nLoading model and historical data...")
	a, err := newApp(cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()
	fmt.Fprintln(out, "\nModel and data loaded.")

	s := &session{in: in, out: out, pipeline: a.pipeline}
	return s.run(cmd.Context())
}

// session drives the numbered menu over a line-oriented reader.
type session struct {
	in       *bufio.Scanner
	out      io.Writer
	pipeline *pipeline.Pipeline
}

const menu = `
=== MAIN MENU ===
1. Prediction for a specific date
2. Prediction for a date range
3. Monthly analysis
4. Exit`

// run loops until the user exits, input ends or ctx is cancelled. Query
// errors are shown and the menu is offered again.
func (s *session) run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprintln(s.out, menu)
		choice, ok := s.prompt("\nSelect an option (1-4): ")
		if !ok {
			return nil
		}

		var err error
		switch choice {
		case "1":
			err = s.single(ctx)
		case "2":
			err = s.dateRange(ctx)
		case "3":
			err = s.monthly(ctx)
		case "4":
			fmt.Fprintln(s.out, "\nThanks for using raincast!")
			return nil
		default:
			fmt.Fprintln(s.out, "\nInvalid option. Please choose 1 to 4.")
			continue
		}
		if err != nil {
			fmt.Fprintln(s.out, "Error:", err)
		}
	}
}

func (s *session) single(ctx context.Context) error {
	raw, _ := s.prompt("\nEnter the date (YYYY-MM-DD): ")
	date, err := parseDate(raw)
	if err != nil {
		return err
	}
	return printDate(ctx, s.out, s.pipeline, date)
}

func (s *session) dateRange(ctx context.Context) error {
	rawStart, _ := s.prompt("\nEnter the start date (YYYY-MM-DD): ")
	rawEnd, _ := s.prompt("Enter the end date (YYYY-MM-DD): ")
	start, err := parseDate(rawStart)
	if err != nil {
		return err
	}
	end, err := parseDate(rawEnd)
	if err != nil {
		return err
	}
	return printRange(ctx, s.out, s.pipeline, start, end)
}

func (s *session) monthly(ctx context.Context) error {
	rawYear, _ := s.prompt("\nEnter the year: ")
	rawMonth, _ := s.prompt("Enter the month (1-12): ")
	year, err1 := strconv.Atoi(rawYear)
	month, err2 := strconv.Atoi(rawMonth)
	if err1 != nil || err2 != nil {
		return fmt.Errorf("please enter valid numbers")
	}
	return printMonth(ctx, s.out, s.pipeline, year, month)
}

// prompt prints label and reads one trimmed line. ok is false at end of input.
func (s *session) prompt(label string) (string, bool) {
	fmt.Fprint(s.out, label)
	if !s.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(s.in.Text()), true
}
