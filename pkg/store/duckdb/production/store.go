package production

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/de-tools/decline-atlas/pkg/models/store"
	"github.com/de-tools/decline-atlas/pkg/store/duckdb"
	"github.com/rs/zerolog"
)

var ErrWellNotFound = errors.New("well not found")

// Store keeps daily production samples per well.
type Store interface {
	Add(ctx context.Context, well string, records []store.ProductionRecord) error
	GetSeries(ctx context.Context, well string) ([]store.ProductionRecord, error)
	ListWells(ctx context.Context) ([]string, error)
}

type defaultStore struct {
	db *sql.DB
}

func NewStore(db *sql.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &defaultStore{db: db}, nil
}

// Add inserts samples for a well, inside the context transaction when one
// is attached. Dates already stored for the well are rejected.
func (s *defaultStore) Add(ctx context.Context, well string, records []store.ProductionRecord) error {
	if well == "" {
		return fmt.Errorf("well is required")
	}
	if len(records) == 0 {
		return nil
	}

	query := `INSERT INTO production_samples (well, sample_date, flow_rate) VALUES (?, ?, ?)`

	var stmt *sql.Stmt
	var err error
	if tx := duckdb.GetTransaction(ctx); tx != nil {
		stmt, err = tx.PrepareContext(ctx, query)
	} else {
		stmt, err = s.db.PrepareContext(ctx, query)
	}
	if err != nil {
		return fmt.Errorf("prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, record := range records {
		if record.FlowRate < 0 {
			return fmt.Errorf("negative flow rate %v on %s", record.FlowRate, record.SampleDate.Format(time.DateOnly))
		}
		date := record.SampleDate.Format(time.DateOnly)
		if _, err := stmt.ExecContext(ctx, well, date, record.FlowRate); err != nil {
			return fmt.Errorf("insert sample %s: %w", date, err)
		}
	}

	return nil
}

func (s *defaultStore) GetSeries(ctx context.Context, well string) ([]store.ProductionRecord, error) {
	logger := zerolog.Ctx(ctx)

	rows, err := s.query(ctx, `
		SELECT sample_date, flow_rate
		FROM production_samples
		WHERE well = ?
		ORDER BY sample_date ASC
	`, well)
	if err != nil {
		return nil, fmt.Errorf("query production series: %w", err)
	}
	defer closeRows(logger, rows, "production series")

	records := make([]store.ProductionRecord, 0)
	for rows.Next() {
		var (
			date time.Time
			rate float64
		)
		if err := rows.Scan(&date, &rate); err != nil {
			return nil, fmt.Errorf("scan production sample: %w", err)
		}
		records = append(records, store.ProductionRecord{Well: well, SampleDate: date, FlowRate: rate})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate production series: %w", err)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrWellNotFound, well)
	}
	return records, nil
}

func (s *defaultStore) ListWells(ctx context.Context) ([]string, error) {
	rows, err := s.query(ctx, `SELECT DISTINCT well FROM production_samples ORDER BY well`)
	if err != nil {
		return nil, fmt.Errorf("query wells: %w", err)
	}
	defer closeRows(zerolog.Ctx(ctx), rows, "wells")

	wells := make([]string, 0)
	for rows.Next() {
		var well string
		if err := rows.Scan(&well); err != nil {
			return nil, fmt.Errorf("scan well: %w", err)
		}
		wells = append(wells, well)
	}
	return wells, rows.Err()
}

// query runs inside the context transaction when one is attached.
func (s *defaultStore) query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	if tx := duckdb.GetTransaction(ctx); tx != nil {
		return tx.QueryContext(ctx, query, args...)
	}
	return s.db.QueryContext(ctx, query, args...)
}

func closeRows(logger *zerolog.Logger, rows *sql.Rows, what string) {
	if err := rows.Close(); err != nil {
		logger.Warn().Err(err).Msgf("failed to close %s rows", what)
	}
}
