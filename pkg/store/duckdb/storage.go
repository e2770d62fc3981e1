package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"

	"github.com/marcboeker/go-duckdb/v2"
)

const ProductionSamplesSchema = `
	CREATE TABLE IF NOT EXISTS production_samples (
		well VARCHAR NOT NULL,
		sample_date DATE NOT NULL,
		flow_rate DOUBLE NOT NULL CHECK (flow_rate >= 0),
		PRIMARY KEY (well, sample_date)
	);
`

var bootQueries = []string{
	ProductionSamplesSchema,
}

type Settings struct {
	DbPath string
}

func NewDB(settings Settings) (*sql.DB, error) {
	c, err := duckdb.NewConnector(fmt.Sprintf("%s?threads=4", settings.DbPath), func(exec driver.ExecerContext) error {
		for _, query := range bootQueries {
			if _, err := exec.ExecContext(context.Background(), query, nil); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return sql.OpenDB(c), nil
}
