package commands

import (
	"fmt"
	"time"

	"github.com/de-tools/decline-atlas/pkg/adapters"
	"github.com/de-tools/decline-atlas/pkg/models/domain"
	"github.com/de-tools/decline-atlas/pkg/runtime/terminal/export"
	"github.com/de-tools/decline-atlas/pkg/services/forecast"
	"github.com/de-tools/decline-atlas/pkg/store/duckdb"
	"github.com/de-tools/decline-atlas/pkg/store/duckdb/production"
	"github.com/spf13/cobra"
)

type ForecastCmd struct {
	t1, t2      int
	q1, q2      float64
	qf          float64
	declineType string
	startDate   string
	rates       []float64
	well        string
	dbPath      string
	asJSON      bool

	loadSettings SettingsLoader
	reporter     *export.Reporter
}

func NewForecastCmd(loadSettings SettingsLoader, reporter *export.Reporter) *cobra.Command {
	fc := &ForecastCmd{loadSettings: loadSettings, reporter: reporter}
	cmd := &cobra.Command{
		Use:   "forecast",
		Short: "Fit a decline model between two anchors and extrapolate it to the cutoff rate",
		RunE:  fc.run,
	}

	cmd.Flags().IntVar(&fc.t1, "t1", 0, "Index of the first anchor")
	cmd.Flags().IntVar(&fc.t2, "t2", 0, "Index of the second anchor")
	cmd.Flags().Float64Var(&fc.q1, "q1", 0, "Rate at the first anchor (default is the series value at t1)")
	cmd.Flags().Float64Var(&fc.q2, "q2", 0, "Rate at the second anchor (default is the series value at t2)")
	cmd.Flags().Float64Var(&fc.qf, "qf", 0, "Economic cutoff rate (default from settings)")
	cmd.Flags().StringVar(&fc.declineType, "type", string(domain.DeclineTypeExponential),
		"Decline type: exponential, hyperbolic or harmonic")
	cmd.Flags().StringVar(&fc.startDate, "start-date", "", "Date of the first sample, YYYY-MM-DD")
	cmd.Flags().Float64SliceVar(&fc.rates, "rates", nil, "Comma separated daily flow rates")
	cmd.Flags().StringVar(&fc.well, "well", "", "Read the series of this well from the production store")
	cmd.Flags().StringVar(&fc.dbPath, "db", "decline-atlas.db", "Path to the production store")
	cmd.Flags().BoolVar(&fc.asJSON, "json", false, "Print the result as JSON")

	_ = cmd.MarkFlagRequired("t1")
	_ = cmd.MarkFlagRequired("t2")
	cmd.MarkFlagsMutuallyExclusive("rates", "well")
	cmd.MarkFlagsOneRequired("rates", "well")

	return cmd
}

func (fc *ForecastCmd) run(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	settings, err := fc.loadSettings(ctx)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	engine, err := forecast.NewEngine(*settings, nil)
	if err != nil {
		return fmt.Errorf("failed to create forecast engine: %w", err)
	}

	samples, err := fc.samples(cmd)
	if err != nil {
		return err
	}

	rates, startDate := adapters.MapSamplesToSeries(samples)
	req := domain.ForecastRequest{
		First:       domain.AnchorPoint{T: fc.t1, Q: fc.anchorRate(cmd, "q1", fc.q1, rates, fc.t1)},
		Second:      domain.AnchorPoint{T: fc.t2, Q: fc.anchorRate(cmd, "q2", fc.q2, rates, fc.t2)},
		OriginalQ:   rates,
		StartDate:   startDate,
		DeclineType: domain.DeclineType(fc.declineType),
		Cutoff:      settings.DefaultCutoff,
	}
	if cmd.Flags().Changed("qf") {
		req.Cutoff = fc.qf
	}

	result, err := engine.Forecast(ctx, req)
	if err != nil {
		return fmt.Errorf("forecast failed: %w", err)
	}

	if fc.asJSON {
		return fc.reporter.JSON(result)
	}
	return fc.reporter.Handle(result)
}

func (fc *ForecastCmd) samples(cmd *cobra.Command) ([]domain.ProductionSample, error) {
	if fc.well == "" {
		start, err := time.Parse(time.DateOnly, fc.startDate)
		if err != nil {
			return nil, fmt.Errorf("--start-date is required with --rates (YYYY-MM-DD): %w", err)
		}
		samples := make([]domain.ProductionSample, len(fc.rates))
		for i, q := range fc.rates {
			samples[i] = domain.ProductionSample{Date: start.AddDate(0, 0, i), FlowRate: q}
		}
		return samples, nil
	}

	db, err := duckdb.NewDB(duckdb.Settings{DbPath: fc.dbPath})
	if err != nil {
		return nil, fmt.Errorf("failed to open production store: %w", err)
	}
	defer db.Close()

	series, err := production.NewStore(db)
	if err != nil {
		return nil, err
	}
	records, err := series.GetSeries(cmd.Context(), fc.well)
	if err != nil {
		return nil, fmt.Errorf("failed to read series of well %s: %w", fc.well, err)
	}
	return adapters.MapStoreProductionRecordsToDomain(records), nil
}

func (fc *ForecastCmd) anchorRate(cmd *cobra.Command, flag string, value float64, rates []float64, t int) float64 {
	if cmd.Flags().Changed(flag) || t < 0 || t >= len(rates) {
		return value
	}
	return rates[t]
}
