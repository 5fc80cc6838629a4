package cli

import (
	"github.com/spf13/cobra"

	"gastank-alerts/internal/app"
)

var (
	tuneInput  string
	tuneColumn string
)

var tuneCmd = &cobra.Command{
	Use:   "tune",
	Short: "Suggest limits and slope delta from the series statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return getApp().Tune(cmd.Context(), app.TuneOptions{Input: tuneInput, Column: tuneColumn})
	},
}

func init() {
	tuneCmd.Flags().StringVar(&tuneInput, "input", "", "CSV file to analyse (overrides input.source)")
	tuneCmd.Flags().StringVar(&tuneColumn, "column", "", "Name of the reading column (defaults to config)")
}
