package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"gastank-alerts/internal/app"
)

var (
	detectInput    string
	detectColumn   string
	detectOutput   string
	detectLimit    int
	detectAutoTune bool
)

var detectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Run all detection rules once and report flagged samples",
	RunE: func(cmd *cobra.Command, args []string) error {
		if detectLimit < 0 {
			return fmt.Errorf("--limit cannot be negative")
		}

		opts := app.DetectOptions{
			Input:     detectInput,
			Column:    detectColumn,
			CSVPath:   detectOutput,
			ShowLimit: detectLimit,
		}
		if cmd.Flags().Changed("auto-tune") {
			opts.AutoTune = &detectAutoTune
		}

		return getApp().Detect(cmd.Context(), opts)
	},
}

func init() {
	detectCmd.Flags().StringVar(&detectInput, "input", "", "CSV file to analyse (overrides input.source)")
	detectCmd.Flags().StringVar(&detectColumn, "column", "", "Name of the reading column (defaults to config)")
	detectCmd.Flags().StringVar(&detectOutput, "output", "", "Path to write the annotated CSV")
	detectCmd.Flags().IntVar(&detectLimit, "limit", 0, "Maximum flagged rows to print (defaults to config)")
	detectCmd.Flags().BoolVar(&detectAutoTune, "auto-tune", false, "Derive limits and slope delta from the series before detecting")
}
