package api

const DateLayout = "2006-01-02"

type ForecastRequest struct {
	T1          int       `json:"t1"`
	Q1          float64   `json:"q1"`
	T2          int       `json:"t2"`
	Q2          float64   `json:"q2"`
	OriginalQ   []float64 `json:"original_q"`
	DeclineType string    `json:"decline_type"`
	StartDate   string    `json:"start_date"`
	Qf          *float64  `json:"qf,omitempty"` // defaults to the configured cutoff
}

// WellForecastRequest takes the series from the production store.
type WellForecastRequest struct {
	T1          int      `json:"t1"`
	Q1          *float64 `json:"q1,omitempty"` // defaults to the stored rate at t1
	T2          int      `json:"t2"`
	Q2          *float64 `json:"q2,omitempty"` // defaults to the stored rate at t2
	DeclineType string   `json:"decline_type"`
	Qf          *float64 `json:"qf,omitempty"`
}

type CurvePoint struct {
	T  int     `json:"t"`
	Qt float64 `json:"qt"`
}

type DeclineParameters struct {
	Type string  `json:"type"`
	Qi   float64 `json:"qi"`
	D    float64 `json:"d"`
	B    float64 `json:"b"`
}

type ForecastResponse struct {
	Parameters           DeclineParameters `json:"parameters"`
	D                    float64           `json:"D"`
	Curve                []CurvePoint      `json:"curve"`
	NpObserved           float64           `json:"Np_observed"`
	NpExtrapolated       float64           `json:"Np_extrapolated"`
	NpTotal              float64           `json:"Np_total"`
	TFinal               *int              `json:"t_final"`
	DateFinal            *string           `json:"date_final"`
	TauAbandon           *float64          `json:"tau_abandon"`
	HorizonExceeded      bool              `json:"horizon_exceeded"`
	VolumeUnit           string            `json:"volume_unit"`
	NpObservedSeries     []float64         `json:"np_observed_series"`
	NpExtrapolatedSeries []float64         `json:"np_extrapolated_series"`
}

type Well struct {
	Name string `json:"name"`
}

type DeclineModel struct {
	Type string `json:"type"`
}

type Error struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}
