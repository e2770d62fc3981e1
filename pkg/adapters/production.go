package adapters

import (
	"github.com/de-tools/decline-atlas/pkg/models/domain"
	"github.com/de-tools/decline-atlas/pkg/models/store"
)

func MapStoreProductionRecordsToDomain(records []store.ProductionRecord) []domain.ProductionSample {
	samples := make([]domain.ProductionSample, 0, len(records))
	for _, r := range records {
		samples = append(samples, domain.ProductionSample{
			Date:     r.SampleDate,
			FlowRate: r.FlowRate,
		})
	}
	return samples
}

func MapDomainProductionSamplesToStore(well string, samples []domain.ProductionSample) []store.ProductionRecord {
	records := make([]store.ProductionRecord, 0, len(samples))
	for _, s := range samples {
		records = append(records, store.ProductionRecord{
			Well:       well,
			SampleDate: s.Date,
			FlowRate:   s.FlowRate,
		})
	}
	return records
}
