package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/de-tools/decline-atlas/pkg/adapters"
	"github.com/de-tools/decline-atlas/pkg/models/domain"
	"github.com/de-tools/decline-atlas/pkg/store/duckdb"
	"github.com/de-tools/decline-atlas/pkg/store/duckdb/production"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type ImportCmd struct {
	well   string
	file   string
	dbPath string
}

// sampleFile is one entry of the import file: {"date": "2024-01-01", "flow_rate": 950.5}
type sampleFile struct {
	Date     string  `json:"date"`
	FlowRate float64 `json:"flow_rate"`
}

func NewImportCmd() *cobra.Command {
	ic := &ImportCmd{}
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Load daily production samples of a well into the production store",
		RunE:  ic.run,
	}

	cmd.Flags().StringVar(&ic.well, "well", "", "Well name")
	cmd.Flags().StringVar(&ic.file, "file", "", "JSON file with an array of {date, flow_rate}")
	cmd.Flags().StringVar(&ic.dbPath, "db", "decline-atlas.db", "Path to the production store")

	_ = cmd.MarkFlagRequired("well")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func (ic *ImportCmd) run(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	logger := zerolog.Ctx(ctx)

	samples, err := readSamples(ic.file)
	if err != nil {
		return err
	}

	db, err := duckdb.NewDB(duckdb.Settings{DbPath: ic.dbPath})
	if err != nil {
		return fmt.Errorf("failed to open production store: %w", err)
	}
	defer db.Close()

	series, err := production.NewStore(db)
	if err != nil {
		return err
	}

	records := adapters.MapDomainProductionSamplesToStore(ic.well, samples)
	err = duckdb.InTransaction(ctx, db, func(ctx context.Context) error {
		return series.Add(ctx, ic.well, records)
	})
	if err != nil {
		return fmt.Errorf("failed to import samples: %w", err)
	}

	logger.Info().Str("well", ic.well).Int("samples", len(records)).Msg("samples imported")
	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d samples for well %s\n", len(records), ic.well)
	return nil
}

func readSamples(path string) ([]domain.ProductionSample, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var entries []sampleFile
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	samples := make([]domain.ProductionSample, 0, len(entries))
	for i, e := range entries {
		date, err := time.Parse(time.DateOnly, e.Date)
		if err != nil {
			return nil, fmt.Errorf("entry %d: invalid date %q", i, e.Date)
		}
		samples = append(samples, domain.ProductionSample{Date: date, FlowRate: e.FlowRate})
	}
	return samples, nil
}
