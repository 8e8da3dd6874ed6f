/*
Package config holds the versioned dashboard configuration document.

PURPOSE:
  The configuration document carries everything the admin panel edits:
  KPI label overrides, manual numeric KPI overrides, per-dataset field
  mappings and the widget layout defaults. It is stored as a single
  JSON blob so it can be exported and re-imported as a backup.

WHY JSON?
  - Non-developers edit it through the admin UI
  - Easy backup/restore of a whole dashboard setup
  - Database storage as one opaque, last-writer-wins document

IMPORT SEMANTICS:
  A malformed document is rejected as a unit: the previous configuration
  is retained and nothing is partially applied. Partial but well-formed
  documents are tolerated; missing sections fall back to defaults.

SEE ALSO:
  - state.go: Selector and preference state, stored separately
  - engine/resolve.go: How manual overrides combine with uploads
*/
package config

import (
	"encoding/json"
	"fmt"

	"github.com/solarcalor/reporting-engine/engine"
)

// =============================================================================
// DOCUMENT TYPES
// =============================================================================

// Labels maps a KPI key to its display label.
type Labels map[string]string

// Overrides maps a KPI key to a manual numeric override. A nil entry or
// a missing key means "no manual override"; malformed admin input
// coerces to nil rather than failing the document.
type Overrides map[string]*float64

// UnmarshalJSON accepts whatever the admin UI stored and coerces each
// value through the same rule the resolver expects: non-numeric input
// means no override.
func (o *Overrides) UnmarshalJSON(b []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	out := make(Overrides, len(raw))
	for k, v := range raw {
		out[k] = engine.CoerceOverride(v)
	}
	*o = out
	return nil
}

// ScopedLabels holds the label tables per KPI scope.
type ScopedLabels struct {
	Business  Labels `json:"business"`
	Marketing Labels `json:"marketing"`
}

// ScopedOverrides holds the manual override tables per KPI scope.
type ScopedOverrides struct {
	Business  Overrides `json:"business"`
	Marketing Overrides `json:"marketing"`
}

// Document is the full configuration document.
type Document struct {
	KpiLabels    ScopedLabels                   `json:"kpiLabels"`
	KpiOverrides ScopedOverrides                `json:"kpiOverrides"`
	Mappings     map[string]engine.FieldMapping `json:"mappings"`
	Layout       map[string][]string            `json:"layout"`
}

// =============================================================================
// KPI KEYS AND DEFAULTS
// =============================================================================

// KPI keys per scope, in display order.
var (
	BusinessKPIKeys  = []string{"revenue", "spend", "profit", "roas", "margin", "customers"}
	MarketingKPIKeys = []string{"leads", "mql", "sql3", "customers"}
)

func defaultBusinessLabels() Labels {
	return Labels{
		"revenue":   "Revenue",
		"spend":     "Spend",
		"profit":    "Profit",
		"roas":      "ROAS",
		"margin":    "Margin",
		"customers": "Customers",
	}
}

func defaultMarketingLabels() Labels {
	return Labels{
		"leads":     "Leads",
		"mql":       "MQL",
		"sql3":      "SQL ≥3m",
		"customers": "Total Customers",
	}
}

func defaultLayout() map[string][]string {
	return map[string][]string{
		"paid": {"kpis", "paidChart", "sources", "notes", "change"},
		"lp":   {"kpis", "lpTable", "notes", "change"},
		"web":  {"kpis", "webCard", "notes", "change"},
		"crm":  {"kpis", "crmFunnel", "notes", "change"},
	}
}

// DefaultDocument returns the configuration a fresh dashboard starts
// with: default labels, no overrides, identity mappings for every
// dataset category and the stock widget layout.
func DefaultDocument() Document {
	mappings := make(map[string]engine.FieldMapping, len(engine.Categories))
	for _, c := range engine.Categories {
		mappings[string(c)] = engine.FieldMapping{}
	}
	return Document{
		KpiLabels: ScopedLabels{
			Business:  defaultBusinessLabels(),
			Marketing: defaultMarketingLabels(),
		},
		KpiOverrides: ScopedOverrides{
			Business:  Overrides{},
			Marketing: Overrides{},
		},
		Mappings: mappings,
		Layout:   defaultLayout(),
	}
}

// DefaultLabel returns the stock label for a KPI key in a scope.
func DefaultLabel(scope, key string) string {
	switch scope {
	case "business":
		return defaultBusinessLabels()[key]
	case "marketing":
		return defaultMarketingLabels()[key]
	}
	return key
}

// LabelOr returns the configured label for key, falling back to the
// scope's stock label.
func (l Labels) LabelOr(scope, key string) string {
	if v, ok := l[key]; ok && v != "" {
		return v
	}
	return DefaultLabel(scope, key)
}

// =============================================================================
// NORMALIZATION, IMPORT AND EXPORT
// =============================================================================

// Normalize fills missing sections of a partial document with defaults
// so downstream code never sees a nil table.
func (d *Document) Normalize() {
	if d.KpiLabels.Business == nil {
		d.KpiLabels.Business = defaultBusinessLabels()
	}
	if d.KpiLabels.Marketing == nil {
		d.KpiLabels.Marketing = defaultMarketingLabels()
	}
	if d.KpiOverrides.Business == nil {
		d.KpiOverrides.Business = Overrides{}
	}
	if d.KpiOverrides.Marketing == nil {
		d.KpiOverrides.Marketing = Overrides{}
	}
	if d.Mappings == nil {
		d.Mappings = make(map[string]engine.FieldMapping, len(engine.Categories))
	}
	for _, c := range engine.Categories {
		if d.Mappings[string(c)] == nil {
			d.Mappings[string(c)] = engine.FieldMapping{}
		}
	}
	if d.Layout == nil {
		d.Layout = defaultLayout()
	}
}

// ParseDocument decodes a configuration document. Invalid JSON rejects
// the import as a unit; callers keep the previous configuration.
func ParseDocument(body []byte) (Document, error) {
	var d Document
	if err := json.Unmarshal(body, &d); err != nil {
		return Document{}, fmt.Errorf("invalid configuration document: %w", err)
	}
	d.Normalize()
	return d, nil
}

// Export serializes the document for backup. A full document
// round-trips through Export and ParseDocument without loss.
func (d Document) Export() ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

// Mapping returns the field mapping for a dataset category, never nil
// after Normalize.
func (d Document) Mapping(c engine.Category) engine.FieldMapping {
	return d.Mappings[string(c)]
}
