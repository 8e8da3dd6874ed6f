package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solarcalor/reporting-engine/api"
	"github.com/solarcalor/reporting-engine/config"
	"github.com/solarcalor/reporting-engine/engine"
	"github.com/solarcalor/reporting-engine/engine/store"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func newTestServer(t *testing.T) (*httptest.Server, engine.Store) {
	t.Helper()
	mem := store.NewMemory()
	h := api.NewHandler(mem, nil)
	h.Reporter.Now = func() time.Time {
		return time.Date(2025, time.July, 20, 10, 0, 0, 0, time.UTC)
	}
	srv := httptest.NewServer(api.NewRouter(h))
	t.Cleanup(srv.Close)
	return srv, mem
}

func doJSON(t *testing.T, method, url string, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

// =============================================================================
// DATASET ENDPOINTS
// =============================================================================

func TestUploadDataset_JSON(t *testing.T) {
	srv, mem := newTestServer(t)

	body := `[{"date":"2025-07-01","product":"Riscaldamento a pavimento","channel":"Google","spend":420,"leads":30}]`
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/datasets/paid", body)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var out struct {
		ID       string   `json:"id"`
		Category string   `json:"category"`
		Rows     int      `json:"rows"`
		Headers  []string `json:"headers"`
	}
	decode(t, resp, &out)
	assert.NotEmpty(t, out.ID)
	assert.Equal(t, "paid", out.Category)
	assert.Equal(t, 1, out.Rows)
	assert.Contains(t, out.Headers, "spend")

	rows, err := mem.LoadDataset(context.Background(), engine.CategoryPaid)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 420.0, rows[0].Num("spend"))
}

func TestUploadDataset_CSV(t *testing.T) {
	srv, mem := newTestServer(t)

	csvBody := "date,channel,spend,leads\n2025-07-01,Google,420,30\n2025-07-08,Meta,260,\n"
	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/datasets/paid", bytes.NewBufferString(csvBody))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "text/csv")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	rows, err := mem.LoadDataset(context.Background(), engine.CategoryPaid)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 420.0, rows[0].Num("spend"), "numeric cells decode as numbers")
	assert.Equal(t, "Google", rows[0].Field("channel"))
	assert.Equal(t, 0.0, rows[1].Num("leads"), "empty cell counts as zero")
}

func TestUploadDataset_UnknownCategory(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/datasets/warehouse", `[]`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUploadDataset_MalformedJSON(t *testing.T) {
	srv, mem := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/datasets/paid", `{"not":"an array"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	rows, err := mem.LoadDataset(context.Background(), engine.CategoryPaid)
	require.NoError(t, err)
	assert.Nil(t, rows, "a rejected upload must not touch the store")
}

func TestListDatasets(t *testing.T) {
	srv, mem := newTestServer(t)
	require.NoError(t, mem.SaveDataset(context.Background(), engine.CategoryCRM, []engine.Record{{"lead_id": "L-1"}}))

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/datasets", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var out []struct {
		Category string `json:"category"`
		Uploaded bool   `json:"uploaded"`
		Rows     int    `json:"rows"`
	}
	decode(t, resp, &out)

	require.Len(t, out, len(engine.Categories))
	byCat := map[string]bool{}
	for _, d := range out {
		byCat[d.Category] = d.Uploaded
	}
	assert.True(t, byCat["crm"])
	assert.False(t, byCat["paid"])
}

// =============================================================================
// OVERVIEW AND METRIC ENDPOINTS
// =============================================================================

func TestGetMarketingOverview(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/overview/marketing", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		Product   string `json:"product"`
		PeriodKey string `json:"periodKey"`
		Kpis      []struct {
			Key    string  `json:"key"`
			Label  string  `json:"label"`
			Value  float64 `json:"value"`
			Source string  `json:"source"`
		} `json:"kpis"`
	}
	decode(t, resp, &out)

	assert.Equal(t, "M-2025-07", out.PeriodKey)
	require.Len(t, out.Kpis, 4)
	assert.Equal(t, "leads", out.Kpis[0].Key)
	assert.Equal(t, 2.0, out.Kpis[0].Value, "sample CRM leads")
	assert.Equal(t, "computed", out.Kpis[0].Source)
}

func TestGetPaidMetrics_RoundedAtBoundary(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/metrics/paid", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		Spend float64 `json:"spend"`
		CPL   float64 `json:"cpl"`
		ROAS  float64 `json:"roas"`
	}
	decode(t, resp, &out)

	assert.Equal(t, 1470.0, out.Spend)
	assert.Equal(t, 15.31, out.CPL, "money figures rounded to 2 places")
	assert.Equal(t, 12.585, out.ROAS, "ratios rounded to 3 places")
}

func TestGetFunnel_ComputedBySample(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/funnel", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		Source  string `json:"source"`
		Buckets []struct {
			Bucket string `json:"bucket"`
			Leads  int    `json:"leads"`
		} `json:"buckets"`
	}
	decode(t, resp, &out)

	assert.Equal(t, "computed", out.Source)
	assert.NotEmpty(t, out.Buckets)
}

// =============================================================================
// CONFIGURATION ENDPOINTS
// =============================================================================

func TestPutConfig_RoundTrip(t *testing.T) {
	srv, _ := newTestServer(t)

	body := `{"kpiLabels":{"marketing":{"leads":"Contatti"}}}`
	resp := doJSON(t, http.MethodPut, srv.URL+"/api/config", body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/config", "")
	var doc config.Document
	decode(t, resp, &doc)
	assert.Equal(t, "Contatti", doc.KpiLabels.Marketing["leads"])
	assert.NotNil(t, doc.KpiLabels.Business, "missing sections normalized to defaults")
}

func TestImportConfig_InvalidRejectedAsUnit(t *testing.T) {
	// GIVEN: A stored configuration
	// WHEN: Importing a malformed backup
	// THEN: 400, and the previous configuration is untouched

	srv, _ := newTestServer(t)
	doJSON(t, http.MethodPut, srv.URL+"/api/config", `{"kpiLabels":{"marketing":{"leads":"Contatti"}}}`)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/config/import", `{"kpiLabels": BROKEN`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/config", "")
	var doc config.Document
	decode(t, resp, &doc)
	assert.Equal(t, "Contatti", doc.KpiLabels.Marketing["leads"])
}

func TestExportConfig_ServesDownload(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/config/export", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "attachment")

	var doc config.Document
	decode(t, resp, &doc)
	assert.NotNil(t, doc.Layout)
}

// =============================================================================
// STATE ENDPOINTS
// =============================================================================

func TestPutState_NormalizesAndPersists(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPut, srv.URL+"/api/state", `{
		"mode": "business",
		"period": {"granularity": "quarter", "quarter": "2025-Q3"},
		"clvMultiplier": 0
	}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/state", "")
	var state config.State
	decode(t, resp, &state)

	assert.Equal(t, config.ModeBusiness, state.Mode)
	assert.Equal(t, engine.GranularityQuarter, state.Period.Granularity)
	assert.Equal(t, "2025-07", state.Period.Month, "inactive month pre-filled for toggling back")
	assert.Equal(t, 1.0, state.CLVMultiplier, "zero multiplier resets to 1")
}

func TestHealthz(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodGet, srv.URL+"/healthz", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
