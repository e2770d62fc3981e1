package forecast

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/de-tools/decline-atlas/pkg/adapters"
	"github.com/de-tools/decline-atlas/pkg/models/api"
	"github.com/de-tools/decline-atlas/pkg/models/domain"
	"github.com/de-tools/decline-atlas/pkg/services/decline"
	"github.com/de-tools/decline-atlas/pkg/services/forecast"
	"github.com/de-tools/decline-atlas/pkg/store/duckdb/production"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

const maxBodyBytes = 16 << 20

type Handler struct {
	forecaster forecast.Forecaster
	series     production.Store
}

// NewHandler wires the handlers. series may be nil, in which case the well
// endpoints answer 503.
func NewHandler(forecaster forecast.Forecaster, series production.Store) *Handler {
	return &Handler{
		forecaster: forecaster,
		series:     series,
	}
}

func (h *Handler) Forecast(w http.ResponseWriter, r *http.Request) {
	var req api.ForecastRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeJSON(w, r, http.StatusBadRequest, api.Error{Error: "invalid json body"})
		return
	}

	domainReq, err := adapters.MapForecastRequestApiToDomain(req, h.forecaster.DefaultCutoff())
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.respond(w, r, domainReq)
}

func (h *Handler) ForecastWell(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	well := chi.URLParam(r, "well")

	if h.series == nil {
		writeJSON(w, r, http.StatusServiceUnavailable, api.Error{Error: "production store is not configured"})
		return
	}

	var req api.WellForecastRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeJSON(w, r, http.StatusBadRequest, api.Error{Error: "invalid json body"})
		return
	}

	records, err := h.series.GetSeries(ctx, well)
	if err != nil {
		writeError(w, r, err)
		return
	}

	samples := adapters.MapStoreProductionRecordsToDomain(records)
	domainReq := adapters.MapWellForecastRequestApiToDomain(req, samples, h.forecaster.DefaultCutoff())

	h.respond(w, r, domainReq)
}

func (h *Handler) ListWells(w http.ResponseWriter, r *http.Request) {
	if h.series == nil {
		writeJSON(w, r, http.StatusServiceUnavailable, api.Error{Error: "production store is not configured"})
		return
	}

	wells, err := h.series.ListWells(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	response := make([]api.Well, 0, len(wells))
	for _, well := range wells {
		response = append(response, api.Well{Name: well})
	}
	writeJSON(w, r, http.StatusOK, response)
}

func (h *Handler) ListModels(w http.ResponseWriter, r *http.Request) {
	types := h.forecaster.SupportedTypes()
	response := make([]api.DeclineModel, 0, len(types))
	for _, t := range types {
		response = append(response, api.DeclineModel{Type: string(t)})
	}
	writeJSON(w, r, http.StatusOK, response)
}

func (h *Handler) respond(w http.ResponseWriter, r *http.Request, req domain.ForecastRequest) {
	result, err := h.forecaster.Forecast(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, adapters.MapDeclineResultDomainToApi(result))
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	logger := zerolog.Ctx(r.Context())

	var (
		invalidAnchor *decline.InvalidAnchorError
		unsupported   *decline.UnsupportedModelError
		degenerate    *decline.DegenerateFitError
	)
	switch {
	case errors.As(err, &invalidAnchor):
		writeJSON(w, r, http.StatusBadRequest, api.Error{Error: err.Error(), Field: invalidAnchor.Field})
	case errors.As(err, &unsupported):
		writeJSON(w, r, http.StatusBadRequest, api.Error{Error: err.Error(), Field: "decline_type"})
	case errors.As(err, &degenerate):
		writeJSON(w, r, http.StatusUnprocessableEntity, api.Error{Error: err.Error()})
	case errors.Is(err, production.ErrWellNotFound):
		writeJSON(w, r, http.StatusNotFound, api.Error{Error: err.Error()})
	default:
		logger.Error().Err(err).Msg("forecast request failed")
		writeJSON(w, r, http.StatusInternalServerError, api.Error{Error: "internal error"})
	}
}

// writeJSON encodes the body before writing the status. A body that cannot be
// encoded is answered with 500.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		zerolog.Ctx(r.Context()).Error().
			Err(err).
			Int("status", status).
			Msg("failed to encode response")

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal error"}` + "\n"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		zerolog.Ctx(r.Context()).Warn().Err(err).Msg("failed to write response")
	}
}
