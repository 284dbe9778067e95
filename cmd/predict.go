package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kfenech/ferrywatch/core/classify"
	"github.com/kfenech/ferrywatch/core/model"
	"github.com/kfenech/ferrywatch/core/predict"
	"github.com/kfenech/ferrywatch/infra/schedule"
)

var (
	predictTerminal  string
	predictInput     string
	predictDriveTime int
)

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Run a one-shot prediction from a snapshot file",
	Long: `Reads AIS fixes from a JSON file, classifies them and prints the
safety verdict and likely-ferry prediction for a terminal. Useful for
replaying captured feed data offline.`,
	RunE: runPredict,
}

func init() {
	predictCmd.Flags().StringVar(&predictTerminal, "terminal", "cirkewwa", "target terminal (cirkewwa or mgarr)")
	predictCmd.Flags().StringVar(&predictInput, "input", "", "JSON file with an array of AIS fixes")
	predictCmd.Flags().IntVar(&predictDriveTime, "drive-time", -1, "minutes of driving before arrival (-1 for none)")
	rootCmd.AddCommand(predictCmd)
}

func runPredict(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	terminal, err := model.ParseTerminal(predictTerminal)
	if err != nil {
		return err
	}
	if predictInput == "" {
		return fmt.Errorf("--input is required")
	}
	raw, err := os.ReadFile(predictInput)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	var snaps []model.VesselSnapshot
	if err := json.Unmarshal(raw, &snaps); err != nil {
		return fmt.Errorf("parse input: %w", err)
	}

	var vessels []model.Vessel
	var nikolaus *model.Vessel
	for _, snap := range snaps {
		v, ok := classify.Vessel(snap)
		if !ok {
			continue
		}
		vessels = append(vessels, v)
		if v.IsNikolaus {
			copied := v
			nikolaus = &copied
		}
	}

	var driveTime *int
	if predictDriveTime >= 0 {
		driveTime = &predictDriveTime
	}

	now := time.Now()
	sched, err := schedule.NewFetcher().Fetch(ctx, now)
	if err != nil {
		fmt.Fprintf(os.Stderr, "schedule unavailable, using turnaround estimates: %v\n", err)
		sched = nil
	}

	result := struct {
		Safety predict.SafetyResult    `json:"safety"`
		Ferry  predict.FerryPrediction `json:"ferry"`
	}{
		Safety: predict.TerminalSafety(nikolaus, terminal, driveTime, sched, now),
		Ferry:  predict.LikelyFerry(vessels, terminal, driveTime, sched, nil, now),
	}
	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
