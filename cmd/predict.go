package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kilianp07/co2cast/api/forecast"
	"github.com/kilianp07/co2cast/app"
	"github.com/kilianp07/co2cast/config"
	"github.com/kilianp07/co2cast/infra/logger"
)

var (
	predictYear    int
	predictExplain bool
)

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Print a one-shot forecast as JSON",
	RunE:  predict,
}

func init() {
	predictCmd.Flags().IntVar(&predictYear, "year", 0, "target year")
	predictCmd.Flags().BoolVar(&predictExplain, "explain", false, "include the feature contribution breakdown")
	_ = predictCmd.MarkFlagRequired("year")
	rootCmd.AddCommand(predictCmd)
}

func predict(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	eng, err := app.BuildEngine(cfg, logger.New("predict-command"))
	if err != nil {
		return err
	}

	var out any
	if predictExplain {
		fc, exp, err := eng.Explain(cmd.Context(), predictYear)
		if err != nil {
			return err
		}
		out = forecast.NewExplainResponse(fc, exp, cfg.Forecast.RoundDigits)
	} else {
		fc, err := eng.Forecast(cmd.Context(), predictYear)
		if err != nil {
			return err
		}
		out = forecast.NewPredictResponse(fc, cfg.Forecast.RoundDigits)
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
