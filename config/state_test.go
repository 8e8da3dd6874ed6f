package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solarcalor/reporting-engine/config"
	"github.com/solarcalor/reporting-engine/engine"
	"github.com/solarcalor/reporting-engine/metrics"
)

var testNow = time.Date(2025, time.July, 20, 10, 0, 0, 0, time.UTC)

// =============================================================================
// STATE DEFAULTS AND NORMALIZATION
// =============================================================================

func TestDefaultState(t *testing.T) {
	s := config.DefaultState(testNow)

	assert.Equal(t, config.Products[0], s.Product)
	assert.Equal(t, config.ModeMarketing, s.Mode)
	assert.Equal(t, config.CategoryOverview, s.Category)
	assert.Equal(t, config.AllChannels, s.Channel)
	assert.Equal(t, "2025-07", s.Period.Month)
	assert.Equal(t, "2025-Q3", s.Period.Quarter)
	assert.Equal(t, metrics.DefaultWeights, s.Weights)
	assert.Equal(t, 1.0, s.CLVMultiplier)
}

func TestParseState_RepairsOutOfRangeValues(t *testing.T) {
	// GIVEN: A state with an unknown mode, category and granularity
	// WHEN: Parsing
	// THEN: Each bad field is repaired individually, good fields survive

	s, err := config.ParseState([]byte(`{
		"product": "Anticalcare",
		"mode": "finance",
		"category": "warehouse",
		"period": {"granularity": "week", "month": "2025-03"}
	}`), testNow)
	require.NoError(t, err)

	assert.Equal(t, "Anticalcare", s.Product)
	assert.Equal(t, config.ModeMarketing, s.Mode)
	assert.Equal(t, config.CategoryOverview, s.Category)
	assert.Equal(t, engine.GranularityMonth, s.Period.Granularity)
	assert.Equal(t, "2025-03", s.Period.Month, "a valid month value is kept")
	assert.Equal(t, "2025-Q3", s.Period.Quarter, "missing quarter pre-filled from now")
}

func TestParseState_ZeroWeightsFallBackToStockTriple(t *testing.T) {
	s, err := config.ParseState([]byte(`{
		"weights": {"time": 0, "cta": 0, "scroll": 0}
	}`), testNow)
	require.NoError(t, err)

	assert.Equal(t, metrics.DefaultWeights, s.Weights)
}

func TestParseState_SingleZeroWeightIsKept(t *testing.T) {
	// Zeroing one signal is a deliberate emphasis choice, only the
	// all-zero triple resets.
	s, err := config.ParseState([]byte(`{
		"weights": {"time": 0, "cta": 0.5, "scroll": 0.5}
	}`), testNow)
	require.NoError(t, err)

	assert.Equal(t, metrics.Weights{Time: 0, CTA: 0.5, Scroll: 0.5}, s.Weights)
}

func TestParseState_ZeroCLVMultiplierResetsToOne(t *testing.T) {
	s, err := config.ParseState([]byte(`{"clvMultiplier": 0}`), testNow)
	require.NoError(t, err)

	assert.Equal(t, 1.0, s.CLVMultiplier)
}

func TestParseState_InvalidJSONRejected(t *testing.T) {
	_, err := config.ParseState([]byte(`{`), testNow)
	assert.Error(t, err)
}

func TestState_ExportRoundTrip(t *testing.T) {
	s := config.DefaultState(testNow)
	s.Mode = config.ModeBusiness
	s.Channel = "Google"
	s.Notes = "seasonal dip expected"

	body, err := s.Export()
	require.NoError(t, err)

	restored, err := config.ParseState(body, testNow)
	require.NoError(t, err)

	assert.Equal(t, s, restored)
}
