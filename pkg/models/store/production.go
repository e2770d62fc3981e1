package store

import "time"

type ProductionRecord struct {
	Well       string
	SampleDate time.Time
	FlowRate   float64
}
