package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"
	"time"

	"github.com/de-tools/decline-atlas/pkg/adapters"
	"github.com/de-tools/decline-atlas/pkg/models/domain"
	"github.com/shopspring/decimal"
)

type TableConfig struct {
	NameWidth        int
	ValueWidth       int
	UnitWidth        int
	DescriptionWidth int
}

func DefaultTableConfig() TableConfig {
	return TableConfig{
		NameWidth:        16,
		ValueWidth:       18,
		UnitWidth:        8,
		DescriptionWidth: 44,
	}
}

type Reporter struct {
	writer io.Writer
	config TableConfig
}

func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{
		writer: writer,
		config: DefaultTableConfig(),
	}
}

const reportTemplate = `
Decline Forecast ({{.Parameters.Type}})

Parameters: qi={{fixed .Parameters.Qi 2}} D={{fixed .Parameters.D 6}} b={{fixed .Parameters.B 2}}
Curve: {{len .Curve}} periods{{with .Curve}} from t={{(index . 0).T}}{{end}}
{{if .TFinal}}Abandonment: t={{deref .TFinal}}{{with .DateFinal}} on {{date .}}{{end}}{{with .TauAbandon}} (tau={{fixed (derefFloat .) 2}}){{end}}{{else}}Abandonment: cutoff not reached within horizon{{end}}

{{separator}}
{{formatRow "Name" "Value" "Unit" "Description"}}
{{separator}}
{{formatRow "Np observed" (fixed .NpObserved 6) .VolumeUnit "cumulative up to and including t1"}}
{{formatRow "Np extrapolated" (fixed .NpExtrapolated 6) .VolumeUnit "forecast volume from t1 to abandonment"}}
{{formatRow "Np total" (fixed .NpTotal 6) .VolumeUnit "observed + extrapolated"}}
{{separator}}
`

// Handle writes a text summary of the forecast.
func (c *Reporter) Handle(result *domain.DeclineResult) error {
	funcMap := template.FuncMap{
		"fixed": func(v float64, places int32) string {
			return decimal.NewFromFloat(v).StringFixed(places)
		},
		"deref":      func(v *int) int { return *v },
		"derefFloat": func(v *float64) float64 { return *v },
		"date":       func(t *time.Time) string { return t.Format(time.DateOnly) },
		"formatRow": func(name, value, unit, desc string) string {
			return fmt.Sprintf("| %-*s | %*s | %-*s | %-*s |",
				c.config.NameWidth, name,
				c.config.ValueWidth, value,
				c.config.UnitWidth, unit,
				c.config.DescriptionWidth, desc)
		},
		"separator": func() string {
			return fmt.Sprintf("+%s+%s+%s+%s+",
				strings.Repeat("-", c.config.NameWidth+2),
				strings.Repeat("-", c.config.ValueWidth+2),
				strings.Repeat("-", c.config.UnitWidth+2),
				strings.Repeat("-", c.config.DescriptionWidth+2))
		},
	}

	t, err := template.New("report").Funcs(funcMap).Parse(reportTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	return t.Execute(c.writer, result)
}

// JSON writes the forecast in the HTTP response format.
func (c *Reporter) JSON(result *domain.DeclineResult) error {
	enc := json.NewEncoder(c.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(adapters.MapDeclineResultDomainToApi(result))
}
