package config

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/solarcalor/reporting-engine/engine"
	"github.com/solarcalor/reporting-engine/metrics"
)

// =============================================================================
// DASHBOARD STATE - Selector and preferences, persisted across sessions
// =============================================================================

// Products is the fixed product list the dashboard reports on.
var Products = []string{"Riscaldamento a pavimento", "Anticalcare"}

// Sentinel values for the view selectors.
const (
	ModeMarketing = "marketing"
	ModeBusiness  = "business"

	CategoryOverview = "__overview__"
	AllChannels      = "__ALL__"
)

// viewCategories are the marketing sub-views a dashboard can show.
var viewCategories = []string{CategoryOverview, "paid", "lp", "web", "crm"}

// State is the per-dashboard selector and preference document: active
// product, view mode, period selector, engagement weights, CLV
// multiplier and free-form notes. It persists across sessions in the
// same store as the configuration; metric objects never do.
type State struct {
	Product  string `json:"product"`
	Mode     string `json:"mode"`
	Category string `json:"category"`
	Channel  string `json:"channel"`

	Period engine.Selector `json:"period"`

	Weights       metrics.Weights `json:"weights"`
	CLVMultiplier float64         `json:"clvMultiplier"`
	Notes         string          `json:"notes,omitempty"`
}

// DefaultState returns the state a fresh dashboard starts with, with
// the period selector pointing at the month containing now.
func DefaultState(now time.Time) State {
	return State{
		Product:       Products[0],
		Mode:          ModeMarketing,
		Category:      CategoryOverview,
		Channel:       AllChannels,
		Period:        engine.DefaultSelector(now),
		Weights:       metrics.DefaultWeights,
		CLVMultiplier: metrics.DefaultCLVMultiplier,
	}
}

// Normalize repairs a partial or out-of-range state against the
// defaults for now. Unset weights fall back to the stock triple and a
// zero CLV multiplier to 1; individual zero weights are kept, since
// zeroing one signal is a legitimate emphasis choice.
func (s *State) Normalize(now time.Time) {
	def := DefaultState(now)
	if s.Product == "" {
		s.Product = def.Product
	}
	if s.Mode != ModeMarketing && s.Mode != ModeBusiness {
		s.Mode = def.Mode
	}
	if !validViewCategory(s.Category) {
		s.Category = def.Category
	}
	if s.Channel == "" {
		s.Channel = def.Channel
	}
	if !engine.ValidGranularity(string(s.Period.Granularity)) {
		s.Period.Granularity = def.Period.Granularity
	}
	if s.Period.Month == "" {
		s.Period.Month = def.Period.Month
	}
	if s.Period.Quarter == "" {
		s.Period.Quarter = def.Period.Quarter
	}
	if s.Period.Year == "" {
		s.Period.Year = def.Period.Year
	}
	if s.Weights.IsZero() {
		s.Weights = def.Weights
	}
	if s.CLVMultiplier == 0 {
		s.CLVMultiplier = def.CLVMultiplier
	}
}

func validViewCategory(c string) bool {
	for _, v := range viewCategories {
		if v == c {
			return true
		}
	}
	return false
}

// ParseState decodes a persisted state document, normalizing whatever
// is missing. Invalid JSON is rejected whole.
func ParseState(body []byte, now time.Time) (State, error) {
	var s State
	if err := json.Unmarshal(body, &s); err != nil {
		return State{}, fmt.Errorf("invalid state document: %w", err)
	}
	s.Normalize(now)
	return s, nil
}

// Export serializes the state for persistence.
func (s State) Export() ([]byte, error) {
	return json.Marshal(s)
}
