/*
handlers.go - HTTP API handlers for the reporting engine

PURPOSE:
  Exposes the KPI aggregation engine via REST API. Handles HTTP
  request/response, JSON/CSV decoding, and delegates to the reporting
  layer.

REQUEST FLOW:
  1. Parse HTTP request
  2. Validate input
  3. Call domain logic (reporter, config, store)
  4. Serialize response
  5. Handle errors

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input, rejected config import
  - 404: Unknown dataset category
  - 500: Storage errors

  Data-quality problems never error: bad cells coerce to zero, bad
  dates are excluded, per the engine contract.

SEE ALSO:
  - dto.go: Response data structures
  - csv.go: CSV upload decoding
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/solarcalor/reporting-engine/config"
	"github.com/solarcalor/reporting-engine/engine"
	"github.com/solarcalor/reporting-engine/obs"
	"github.com/solarcalor/reporting-engine/report"
)

// maxUploadBytes caps a single dataset upload.
const maxUploadBytes = 16 << 20

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store    engine.Store
	Reporter *report.Reporter
	Log      *slog.Logger
}

// NewHandler creates a new handler over the given store.
func NewHandler(store engine.Store, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{
		Store:    store,
		Reporter: report.New(store, log),
		Log:      log,
	}
}

func (h *Handler) snapshot(w http.ResponseWriter, r *http.Request) *report.Snapshot {
	var snap *report.Snapshot
	var err error
	obs.TimeRecompute(func() {
		snap, err = h.Reporter.Snapshot(r.Context())
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to compute snapshot", err)
		return nil
	}
	return snap
}

// =============================================================================
// DATASET HANDLERS
// =============================================================================

// ListDatasets reports row counts per upload category.
func (h *Handler) ListDatasets(w http.ResponseWriter, r *http.Request) {
	out := make([]DatasetInfoDTO, 0, len(engine.Categories))
	for _, c := range engine.Categories {
		rows, err := h.Store.LoadDataset(r.Context(), c)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to list datasets", err)
			return
		}
		out = append(out, DatasetInfoDTO{
			Category: string(c),
			Uploaded: rows != nil,
			Rows:     len(rows),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// UploadDataset replaces a category's rows wholesale. The body is a
// JSON array of records, or CSV when the Content-Type says so (or
// ?format=csv is passed).
func (h *Handler) UploadDataset(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")
	if !engine.ValidCategory(category) {
		writeError(w, http.StatusNotFound, "Unknown dataset category", nil)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxUploadBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read upload", err)
		return
	}

	var rows []engine.Record
	if isCSVUpload(r) {
		rows, err = ParseCSV(strings.NewReader(string(body)))
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid CSV upload", err)
			return
		}
	} else {
		if err := json.Unmarshal(body, &rows); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid JSON upload (expected an array of records)", err)
			return
		}
	}
	if rows == nil {
		rows = []engine.Record{}
	}

	if err := h.Store.SaveDataset(r.Context(), engine.Category(category), rows); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save dataset", err)
		return
	}

	obs.UploadsTotal.WithLabelValues(category).Inc()
	obs.UploadRows.WithLabelValues(category).Set(float64(len(rows)))
	h.Log.Info("dataset uploaded",
		slog.String("category", category),
		slog.Int("rows", len(rows)))

	writeJSON(w, http.StatusCreated, UploadResponseDTO{
		ID:       uuid.NewString(),
		Category: category,
		Rows:     len(rows),
		Headers:  headerSet(rows),
	})
}

// GetDataset returns the stored rows for a category.
func (h *Handler) GetDataset(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")
	if !engine.ValidCategory(category) {
		writeError(w, http.StatusNotFound, "Unknown dataset category", nil)
		return
	}
	rows, err := h.Store.LoadDataset(r.Context(), engine.Category(category))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load dataset", err)
		return
	}
	if rows == nil {
		rows = []engine.Record{}
	}
	writeJSON(w, http.StatusOK, rows)
}

func isCSVUpload(r *http.Request) bool {
	if r.URL.Query().Get("format") == "csv" {
		return true
	}
	return strings.Contains(r.Header.Get("Content-Type"), "text/csv")
}

// headerSet returns the column names of the first row; the admin
// mapping form offers them as source-column choices.
func headerSet(rows []engine.Record) []string {
	if len(rows) == 0 {
		return nil
	}
	headers := make([]string, 0, len(rows[0]))
	for k := range rows[0] {
		headers = append(headers, k)
	}
	return headers
}

// =============================================================================
// OVERVIEW HANDLERS
// =============================================================================

// GetMarketingOverview returns the resolved marketing funnel headline.
func (h *Handler) GetMarketingOverview(w http.ResponseWriter, r *http.Request) {
	snap := h.snapshot(w, r)
	if snap == nil {
		return
	}
	writeJSON(w, http.StatusOK, OverviewDTO{
		Product:   snap.Product,
		PeriodKey: snap.PeriodKey,
		Kpis: []KPIDTO{
			toKPIDTO(snap.Marketing.Leads, 0),
			toKPIDTO(snap.Marketing.MQL, 0),
			toKPIDTO(snap.Marketing.SQL3, 0),
			toKPIDTO(snap.Marketing.Customers, 0),
		},
	})
}

// GetBusinessOverview returns the resolved business headline.
func (h *Handler) GetBusinessOverview(w http.ResponseWriter, r *http.Request) {
	snap := h.snapshot(w, r)
	if snap == nil {
		return
	}
	writeJSON(w, http.StatusOK, OverviewDTO{
		Product:   snap.Product,
		PeriodKey: snap.PeriodKey,
		Kpis: []KPIDTO{
			toKPIDTO(snap.Business.Revenue, 2),
			toKPIDTO(snap.Business.Spend, 2),
			toKPIDTO(snap.Business.Profit, 2),
			toKPIDTO(snap.Business.ROAS, 3),
			toKPIDTO(snap.Business.Margin, 3),
			toKPIDTO(snap.Business.Customers, 0),
		},
	})
}

// =============================================================================
// CALCULATOR HANDLERS
// =============================================================================

// GetPaidMetrics returns the paid ads metrics object.
func (h *Handler) GetPaidMetrics(w http.ResponseWriter, r *http.Request) {
	snap := h.snapshot(w, r)
	if snap == nil {
		return
	}
	writeJSON(w, http.StatusOK, toPaidDTO(snap.Paid))
}

// GetLandingMetrics returns the per-page engagement ranking.
func (h *Handler) GetLandingMetrics(w http.ResponseWriter, r *http.Request) {
	snap := h.snapshot(w, r)
	if snap == nil {
		return
	}
	pages := make([]PageDTO, len(snap.Pages))
	for i, p := range snap.Pages {
		pages[i] = toPageDTO(p)
	}
	writeJSON(w, http.StatusOK, pages)
}

// GetWebMetrics returns the website metrics object.
func (h *Handler) GetWebMetrics(w http.ResponseWriter, r *http.Request) {
	snap := h.snapshot(w, r)
	if snap == nil {
		return
	}
	writeJSON(w, http.StatusOK, toWebDTO(snap.Web))
}

// GetCRMMetrics returns the CRM funnel metrics object.
func (h *Handler) GetCRMMetrics(w http.ResponseWriter, r *http.Request) {
	snap := h.snapshot(w, r)
	if snap == nil {
		return
	}
	writeJSON(w, http.StatusOK, toCRMDTO(snap.CRM))
}

// =============================================================================
// TABULAR VIEW HANDLERS
// =============================================================================

// GetFunnel returns the bucketed funnel table, or the uploaded detail
// table verbatim when one is present.
func (h *Handler) GetFunnel(w http.ResponseWriter, r *http.Request) {
	snap := h.snapshot(w, r)
	if snap == nil {
		return
	}
	dto := FunnelTableDTO{Source: string(snap.Funnel.Source)}
	if snap.Funnel.Source == "overridden" {
		dto.Rows = snap.Funnel.Rows
	} else {
		dto.Buckets = make([]BucketDTO, len(snap.Funnel.Buckets))
		for i, b := range snap.Funnel.Buckets {
			dto.Buckets[i] = toBucketDTO(b)
		}
	}
	writeJSON(w, http.StatusOK, dto)
}

// GetPaidTrend returns the daily paid trend series.
func (h *Handler) GetPaidTrend(w http.ResponseWriter, r *http.Request) {
	snap := h.snapshot(w, r)
	if snap == nil {
		return
	}
	points := make([]TrendPointDTO, len(snap.Trend))
	for i, p := range snap.Trend {
		points[i] = toTrendPointDTO(p)
	}
	writeJSON(w, http.StatusOK, points)
}

// GetSources returns per-channel lead volume and CVR plus the channel
// list for the filter dropdown.
func (h *Handler) GetSources(w http.ResponseWriter, r *http.Request) {
	snap := h.snapshot(w, r)
	if snap == nil {
		return
	}
	sources := make([]ChannelSourceDTO, len(snap.Sources))
	for i, s := range snap.Sources {
		sources[i] = toChannelSourceDTO(s)
	}
	writeJSON(w, http.StatusOK, SourcesDTO{Channels: snap.Channels, Sources: sources})
}

// =============================================================================
// CONFIGURATION HANDLERS
// =============================================================================

// GetConfig returns the current configuration document.
func (h *Handler) GetConfig(w http.ResponseWriter, r *http.Request) {
	doc, err := h.Reporter.LoadConfig(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load configuration", err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// PutConfig replaces the configuration document. A malformed document
// is rejected as a unit and the previous configuration is retained.
func (h *Handler) PutConfig(w http.ResponseWriter, r *http.Request) {
	h.applyConfig(w, r, "configuration updated")
}

// ImportConfig restores a configuration backup. Same unit-rejection
// semantics as PutConfig.
func (h *Handler) ImportConfig(w http.ResponseWriter, r *http.Request) {
	h.applyConfig(w, r, "configuration imported")
}

func (h *Handler) applyConfig(w http.ResponseWriter, r *http.Request, action string) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxUploadBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read configuration", err)
		return
	}
	doc, err := config.ParseDocument(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid configuration document (previous configuration retained)", err)
		return
	}
	saved, err := doc.Export()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to encode configuration", err)
		return
	}
	if err := h.Store.SaveDocument(r.Context(), engine.DocConfig, saved); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save configuration", err)
		return
	}
	h.Log.Info(action)
	writeJSON(w, http.StatusOK, doc)
}

// ExportConfig serves the configuration document as a download.
func (h *Handler) ExportConfig(w http.ResponseWriter, r *http.Request) {
	doc, err := h.Reporter.LoadConfig(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load configuration", err)
		return
	}
	body, err := doc.Export()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to encode configuration", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="dashboard_config.json"`)
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

// =============================================================================
// STATE HANDLERS
// =============================================================================

// GetState returns the current selector/preference state.
func (h *Handler) GetState(w http.ResponseWriter, r *http.Request) {
	state, err := h.Reporter.LoadState(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load state", err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// PutState replaces the selector/preference state. Out-of-range values
// are normalized against the defaults; the inactive period values are
// kept so granularity toggles round-trip.
func (h *Handler) PutState(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxUploadBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read state", err)
		return
	}
	state, err := config.ParseState(body, h.Reporter.Now())
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid state document", err)
		return
	}
	saved, err := state.Export()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to encode state", err)
		return
	}
	if err := h.Store.SaveDocument(r.Context(), engine.DocState, saved); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save state", err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// Healthz is the liveness probe.
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string, err error) {
	body := map[string]any{"error": msg}
	if err != nil {
		body["detail"] = fmt.Sprintf("%v", err)
	}
	writeJSON(w, status, body)
}
