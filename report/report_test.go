package report_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solarcalor/reporting-engine/config"
	"github.com/solarcalor/reporting-engine/engine"
	"github.com/solarcalor/reporting-engine/engine/store"
	"github.com/solarcalor/reporting-engine/metrics"
	"github.com/solarcalor/reporting-engine/report"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

// julyNow pins the clock inside the sample datasets' month.
var julyNow = time.Date(2025, time.July, 20, 10, 0, 0, 0, time.UTC)

func newTestReporter(t *testing.T) (*report.Reporter, engine.Store) {
	t.Helper()
	mem := store.NewMemory()
	r := report.New(mem, nil)
	r.Now = func() time.Time { return julyNow }
	return r, mem
}

func saveState(t *testing.T, s engine.Store, state config.State) {
	t.Helper()
	body, err := state.Export()
	require.NoError(t, err)
	require.NoError(t, s.SaveDocument(context.Background(), engine.DocState, body))
}

func saveConfig(t *testing.T, s engine.Store, doc config.Document) {
	t.Helper()
	body, err := doc.Export()
	require.NoError(t, err)
	require.NoError(t, s.SaveDocument(context.Background(), engine.DocConfig, body))
}

// =============================================================================
// SNAPSHOT OVER SAMPLE DATA
// =============================================================================

func TestSnapshot_EmptyStoreRendersSamples(t *testing.T) {
	// GIVEN: A store with no uploads and no configuration
	// WHEN: Snapshotting in July 2025
	// THEN: The sample datasets render for the first product

	r, _ := newTestReporter(t)

	snap, err := r.Snapshot(context.Background())
	require.NoError(t, err)

	assert.Equal(t, config.Products[0], snap.Product)
	assert.Equal(t, "M-2025-07", snap.PeriodKey)

	// Paid: spend 1470 over 96 leads.
	assert.Equal(t, 1470.0, snap.Paid.Spend)
	assert.Equal(t, 15.3125, snap.Paid.CPL)

	// CRM: two sample leads, one passing the 3-minute predicate.
	assert.Equal(t, 2, snap.CRM.TotalLeads)
	assert.Equal(t, 1.0, snap.Marketing.SQL3.Value)
	assert.Equal(t, engine.SourceComputed, snap.Marketing.SQL3.Source)

	assert.Equal(t, []string{"Google"}, snap.Channels)
	assert.Len(t, snap.Trend, 3)
	assert.Equal(t, metrics.TableComputed, snap.Funnel.Source)
}

func TestSnapshot_UploadReplacesSamplesForGood(t *testing.T) {
	// GIVEN: An explicitly uploaded empty paid dataset
	// WHEN: Snapshotting
	// THEN: The samples are gone; uploaded-empty is not the same as
	//       never-uploaded

	r, mem := newTestReporter(t)
	require.NoError(t, mem.SaveDataset(context.Background(), engine.CategoryPaid, []engine.Record{}))

	snap, err := r.Snapshot(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0.0, snap.Paid.Spend)
	assert.Empty(t, snap.Trend)
}

// =============================================================================
// PRODUCT, PERIOD AND CHANNEL FILTERS
// =============================================================================

func TestSnapshot_FiltersByProductAndPeriod(t *testing.T) {
	r, mem := newTestReporter(t)

	rows := []engine.Record{
		{"date": "2025-07-01", "product": config.Products[0], "channel": "Google", "spend": 100.0, "leads": 10.0},
		{"date": "2025-07-01", "product": config.Products[1], "channel": "Google", "spend": 999.0, "leads": 99.0},
		{"date": "2025-06-30", "product": config.Products[0], "channel": "Google", "spend": 888.0, "leads": 88.0},
	}
	require.NoError(t, mem.SaveDataset(context.Background(), engine.CategoryPaid, rows))

	snap, err := r.Snapshot(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 100.0, snap.Paid.Spend, "other product and other month excluded")
	assert.Equal(t, 10.0, snap.Paid.Leads)
}

func TestSnapshot_ChannelFilterOnlyInMarketingMode(t *testing.T) {
	// GIVEN: Paid rows on two channels and a Google-only channel filter
	// WHEN: Snapshotting in marketing mode, then in business mode
	// THEN: The filter narrows paid rows in marketing mode only

	mkRows := []engine.Record{
		{"date": "2025-07-01", "product": config.Products[0], "channel": "Google", "spend": 100.0, "leads": 10.0},
		{"date": "2025-07-01", "product": config.Products[0], "channel": "Meta", "spend": 50.0, "leads": 5.0},
	}

	r, mem := newTestReporter(t)
	require.NoError(t, mem.SaveDataset(context.Background(), engine.CategoryPaid, mkRows))

	state := config.DefaultState(julyNow)
	state.Channel = "Google"
	saveState(t, mem, state)

	snap, err := r.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 100.0, snap.Paid.Spend)
	assert.Equal(t, []string{"Google", "Meta"}, snap.Channels,
		"the channel list is built before the filter so the dropdown stays complete")

	state.Mode = config.ModeBusiness
	saveState(t, mem, state)

	snap, err = r.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 150.0, snap.Paid.Spend, "business mode ignores the channel filter")
}

func TestSnapshot_AppliesFieldMappings(t *testing.T) {
	// GIVEN: Paid rows with an Italian export's column names and a
	//        mapping table translating them
	// WHEN: Snapshotting
	// THEN: The calculators see canonical fields

	r, mem := newTestReporter(t)

	rows := []engine.Record{
		{"data": "2025-07-01", "product": config.Products[0], "channel": "Google", "costo": 200.0, "contatti": 8.0},
	}
	require.NoError(t, mem.SaveDataset(context.Background(), engine.CategoryPaid, rows))

	doc := config.DefaultDocument()
	doc.Mappings["paid"] = engine.FieldMapping{"date": "data", "spend": "costo", "leads": "contatti"}
	saveConfig(t, mem, doc)

	snap, err := r.Snapshot(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 200.0, snap.Paid.Spend)
	assert.Equal(t, 25.0, snap.Paid.CPL)
}

// =============================================================================
// OVERVIEW RESOLUTION
// =============================================================================

func TestSnapshot_UploadedTotalsBeatComputed(t *testing.T) {
	// GIVEN: An uploaded marketing totals row matching July 2025
	// WHEN: Snapshotting
	// THEN: The totals row feeds the overview with "uploaded" provenance

	r, mem := newTestReporter(t)

	totals := []engine.Record{
		{"product": config.Products[0], "period_type": "month", "period_value": "2025-07",
			"leads": 150.0, "mql": 60.0, "sql_3min": 25.0, "customers": 12.0},
	}
	require.NoError(t, mem.SaveDataset(context.Background(), engine.CategoryMktTotals, totals))

	snap, err := r.Snapshot(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 150.0, snap.Marketing.Leads.Value)
	assert.Equal(t, engine.SourceUploaded, snap.Marketing.Leads.Source)
	assert.Equal(t, 25.0, snap.Marketing.SQL3.Value)
}

func TestSnapshot_ManualOverrideBeatsEverything(t *testing.T) {
	r, mem := newTestReporter(t)

	doc := config.DefaultDocument()
	v := 77.0
	doc.KpiOverrides.Marketing["leads"] = &v
	saveConfig(t, mem, doc)

	snap, err := r.Snapshot(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 77.0, snap.Marketing.Leads.Value)
	assert.Equal(t, engine.SourceManual, snap.Marketing.Leads.Source)
}

func TestSnapshot_ZeroOverrideFallsThrough(t *testing.T) {
	// The documented sharp edge, end to end: a manual zero renders the
	// computed value with computed provenance.
	r, mem := newTestReporter(t)

	doc := config.DefaultDocument()
	v := 0.0
	doc.KpiOverrides.Marketing["leads"] = &v
	saveConfig(t, mem, doc)

	snap, err := r.Snapshot(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2.0, snap.Marketing.Leads.Value, "the two sample CRM leads")
	assert.Equal(t, engine.SourceComputed, snap.Marketing.Leads.Source)
}

func TestSnapshot_BusinessRevenuePrefersSiteWhenItSold(t *testing.T) {
	// Sample web rows for the first product total 75900 in revenue, so
	// the business revenue ignores the CRM closed-won total.
	r, _ := newTestReporter(t)

	snap, err := r.Snapshot(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 75900.0, snap.Business.Revenue.Value)
	assert.Equal(t, 1470.0, snap.Business.Spend.Value)
	assert.Equal(t, 74430.0, snap.Business.Profit.Value)
	assert.Equal(t, 68.0, snap.Business.Customers.Value, "e-commerce orders, not CRM customers")
}

func TestSnapshot_BusinessRevenueFallsBackToCRM(t *testing.T) {
	// GIVEN: A web dataset with zero revenue
	// WHEN: Snapshotting
	// THEN: The closed-won CRM revenue carries the business headline

	r, mem := newTestReporter(t)
	web := []engine.Record{
		{"date": "2025-07-01", "product": config.Products[0], "sessions": 500.0, "orders": 0.0, "revenue": 0.0},
	}
	require.NoError(t, mem.SaveDataset(context.Background(), engine.CategoryWeb, web))

	snap, err := r.Snapshot(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2400.0, snap.Business.Revenue.Value, "sample CRM closed-won total")
	assert.Equal(t, 2.0, snap.Business.Customers.Value, "CRM customers when no orders")
}

func TestSnapshot_DerivedBusinessKPIsFollowResolvedValues(t *testing.T) {
	// GIVEN: An uploaded business totals row fixing revenue at 50000
	// WHEN: Snapshotting
	// THEN: Profit, ROAS and margin derive from the resolved revenue,
	//       not from the computed one it replaced

	r, mem := newTestReporter(t)
	totals := []engine.Record{
		{"product": config.Products[0], "period_type": "month", "period_value": "2025-07", "revenue": 50000.0},
	}
	require.NoError(t, mem.SaveDataset(context.Background(), engine.CategoryBusiness, totals))

	snap, err := r.Snapshot(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 50000.0, snap.Business.Revenue.Value)
	assert.Equal(t, engine.SourceUploaded, snap.Business.Revenue.Source)
	assert.Equal(t, 50000.0-1470.0, snap.Business.Profit.Value)
	assert.InDelta(t, 50000.0/1470.0, snap.Business.ROAS.Value, 1e-9)
}

func TestSnapshot_FunnelOverrideSubstitution(t *testing.T) {
	r, mem := newTestReporter(t)
	detail := []engine.Record{{"week": "W27", "leads": 50.0}}
	require.NoError(t, mem.SaveDataset(context.Background(), engine.CategoryMktDetail, detail))

	snap, err := r.Snapshot(context.Background())
	require.NoError(t, err)

	assert.Equal(t, metrics.TableOverridden, snap.Funnel.Source)
	assert.Equal(t, detail, snap.Funnel.Rows)
}

// =============================================================================
// CONFIG AND STATE FALLBACKS
// =============================================================================

func TestLoadConfig_UnreadableBlobFallsBackToDefaults(t *testing.T) {
	r, mem := newTestReporter(t)
	require.NoError(t, mem.SaveDocument(context.Background(), engine.DocConfig, []byte("{broken")))

	doc, err := r.LoadConfig(context.Background())
	require.NoError(t, err)

	assert.Equal(t, config.DefaultDocument(), doc)
}

func TestLoadState_AbsentReturnsDefaults(t *testing.T) {
	r, _ := newTestReporter(t)

	state, err := r.LoadState(context.Background())
	require.NoError(t, err)

	assert.Equal(t, config.DefaultState(julyNow), state)
}
