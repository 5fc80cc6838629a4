package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"gastank-alerts/internal/app"
)

var simulateOpts app.SimulateOptions

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "模拟一段带尖峰与冻结段的序列并执行检测",
	RunE: func(cmd *cobra.Command, args []string) error {
		if simulateOpts.Samples <= 20 {
			return errors.New("--samples 必须大于 20")
		}
		return getApp().Simulate(cmd.Context(), simulateOpts)
	},
}

func init() {
	simulateCmd.Flags().IntVar(&simulateOpts.Samples, "samples", 3000, "Number of synthetic readings")
	simulateCmd.Flags().Float64Var(&simulateOpts.Baseline, "baseline", 700, "Baseline pressure reading")
	simulateCmd.Flags().IntVar(&simulateOpts.SpikeAt, "spike-at", 500, "Index of the injected spike (-1 disables)")
	simulateCmd.Flags().Float64Var(&simulateOpts.SpikeValue, "spike-value", 5000, "Value of the injected spike")
	simulateCmd.Flags().IntVar(&simulateOpts.FreezeAt, "freeze-at", 800, "First index of the frozen stretch")
	simulateCmd.Flags().IntVar(&simulateOpts.FreezeLen, "freeze-len", 2100, "Length of the frozen stretch (0 disables)")
	simulateCmd.Flags().StringVar(&simulateOpts.CSVPath, "output", "", "Path to write the annotated CSV")
	simulateCmd.Flags().IntVar(&simulateOpts.ShowLimit, "limit", 0, "Maximum flagged rows to print (defaults to config)")
}
