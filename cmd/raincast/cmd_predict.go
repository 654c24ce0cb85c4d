package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/spf13/cobra"

	"github.com/couchcryptid/raincast/internal/domain"
	"github.com/couchcryptid/raincast/internal/pipeline"
	"github.com/couchcryptid/raincast/internal/report"
)

var dateCmd = &cobra.Command{
	Use:   "date [YYYY-MM-DD]",
	Short: "Predict rain for one date",
	Long:  `Predict rain for a single date. Defaults to today.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runDate,
}

var rangeCmd = &cobra.Command{
	Use:   "range START END",
	Short: "Predict rain for every day in a date range",
	Long:  `Predict rain for every day from START to END inclusive and print a table.`,
	Args:  cobra.ExactArgs(2),
	RunE:  runRange,
}

var monthCmd = &cobra.Command{
	Use:   "month YEAR MONTH",
	Short: "Analyse rain for a whole month",
	Long:  `Predict every day of a month and print the table with a monthly summary.`,
	Args:  cobra.ExactArgs(2),
	RunE:  runMonth,
}

func init() {
	rootCmd.AddCommand(dateCmd)
	rootCmd.AddCommand(rangeCmd)
	rootCmd.AddCommand(monthCmd)
}

func runDate(cmd *cobra.Command, args []string) error {
	date := domain.Today()
	if len(args) == 1 {
		var err error
		if date, err = parseDate(args[0]); err != nil {
			return err
		}
	}
	return withApp(cmd.Context(), func(ctx context.Context, a *app) error {
		return printDate(ctx, cmd.OutOrStdout(), a.pipeline, date)
	})
}

func runRange(cmd *cobra.Command, args []string) error {
	start, err := parseDate(args[0])
	if err != nil {
		return err
	}
	end, err := parseDate(args[1])
	if err != nil {
		return err
	}
	return withApp(cmd.Context(), func(ctx context.Context, a *app) error {
		return printRange(ctx, cmd.OutOrStdout(), a.pipeline, start, end)
	})
}

func runMonth(cmd *cobra.Command, args []string) error {
	year, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid year %q", args[0])
	}
	month, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid month %q", args[1])
	}
	if month < 1 || month > 12 {
		return pipeline.ErrInvalidMonth
	}
	return withApp(cmd.Context(), func(ctx context.Context, a *app) error {
		return printMonth(ctx, cmd.OutOrStdout(), a.pipeline, year, month)
	})
}

func printDate(ctx context.Context, w io.Writer, p *pipeline.Pipeline, date time.Time) error {
	res, err := p.PredictDate(ctx, date)
	if err != nil {
		return err
	}
	return report.WriteSingle(w, res)
}

func printRange(ctx context.Context, w io.Writer, p *pipeline.Pipeline, start, end time.Time) error {
	results, err := p.PredictRange(ctx, start, end)
	if err != nil {
		return err
	}
	return report.WriteRange(w, start, end, results)
}

func printMonth(ctx context.Context, w io.Writer, p *pipeline.Pipeline, year, month int) error {
	m, err := p.PredictMonth(ctx, year, month)
	if err != nil {
		return err
	}
	return report.WriteMonthly(w, m)
}

// parseDate accepts YYYY-MM-DD and the other unambiguous layouts dateparse
// understands, returning midnight UTC.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	t, err := dateparse.ParseStrict(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: use YYYY-MM-DD", s)
	}
	return domain.Day(t), nil
}
