package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kfenech/ferrywatch/config"
	"github.com/kfenech/ferrywatch/infra/schedule"
	"github.com/kfenech/ferrywatch/pkg/export"
)

var (
	scheduleDate   string
	scheduleFormat string
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Fetch and print a day's crossing schedule",
	RunE:  fetchSchedule,
}

func init() {
	scheduleCmd.Flags().StringVar(&scheduleDate, "date", "", "day to fetch, YYYY-MM-DD (default today)")
	scheduleCmd.Flags().StringVar(&scheduleFormat, "format", "json", "output format: json or csv")
	rootCmd.AddCommand(scheduleCmd)
}

func fetchSchedule(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	day := time.Now()
	if scheduleDate != "" {
		parsed, err := time.Parse("2006-01-02", scheduleDate)
		if err != nil {
			return fmt.Errorf("parse date: %w", err)
		}
		day = parsed
	}

	opts := []schedule.Option{}
	if cfg, err := config.Load(cfgPath); err == nil && cfg.Schedule.BaseURL != "" {
		opts = append(opts, schedule.WithBaseURL(cfg.Schedule.BaseURL))
	}
	sched, err := schedule.NewFetcher(opts...).Fetch(ctx, day)
	if err != nil {
		return fmt.Errorf("fetch schedule: %w", err)
	}
	switch scheduleFormat {
	case "json":
		return export.WriteJSON(os.Stdout, sched)
	case "csv":
		return export.WriteCSV(os.Stdout, sched)
	default:
		return fmt.Errorf("unknown format %q, expected json or csv", scheduleFormat)
	}
}
