package metrics_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/solarcalor/reporting-engine/engine"
	"github.com/solarcalor/reporting-engine/metrics"
)

// =============================================================================
// PAID ADS AGGREGATION
// =============================================================================

func TestComputePaid_TotalsAndRatios(t *testing.T) {
	// GIVEN: Three weekly paid rows for one product
	//   spend 420 + 500 + 550 = 1470
	//   leads  30 +  32 +  34 =   96
	// WHEN: Reducing
	// THEN: CPL = 1470 / 96 = 15.3125 and the other ratios follow

	rows := []engine.Record{
		{"spend": 420.0, "impressions": 12000.0, "clicks": 820.0, "leads": 30.0, "customers": 6.0, "revenue": 5400.0},
		{"spend": 500.0, "impressions": 13000.0, "clicks": 870.0, "leads": 32.0, "customers": 7.0, "revenue": 6200.0},
		{"spend": 550.0, "impressions": 15000.0, "clicks": 950.0, "leads": 34.0, "customers": 8.0, "revenue": 6900.0},
	}

	m := metrics.ComputePaid(rows)

	assert.Equal(t, 1470.0, m.Spend)
	assert.Equal(t, 2640.0, m.Clicks)
	assert.Equal(t, 40000.0, m.Impressions)
	assert.Equal(t, 96.0, m.Leads)
	assert.Equal(t, 21.0, m.Customers)
	assert.Equal(t, 18500.0, m.Revenue)

	assert.Equal(t, 15.3125, m.CPL)
	assert.Equal(t, 70.0, m.CPA)
	assert.InDelta(t, 12.585, m.ROAS, 0.001)
	assert.Equal(t, 0.066, m.CTR)
	assert.InDelta(t, 0.0364, m.ClickToLead, 0.0001)
	assert.InDelta(t, 0.2188, m.LeadToCust, 0.0001)
}

func TestComputePaid_EmptyInputIsAllZeros(t *testing.T) {
	// Every ratio is zero-guarded: no rows, no NaN, no panic.
	m := metrics.ComputePaid(nil)

	assert.Equal(t, metrics.PaidMetrics{}, m)
}

func TestComputePaid_MalformedCellsCountAsZero(t *testing.T) {
	rows := []engine.Record{
		{"spend": "n/a", "clicks": nil, "leads": "20"},
	}

	m := metrics.ComputePaid(rows)

	assert.Equal(t, 0.0, m.Spend)
	assert.Equal(t, 20.0, m.Leads)
	assert.Equal(t, 0.0, m.CPL, "zero spend over 20 leads")
}

func TestRatio_ZeroDenominator(t *testing.T) {
	assert.Equal(t, 0.0, metrics.Ratio(5, 0))
	assert.Equal(t, 2.5, metrics.Ratio(5, 2))
}
