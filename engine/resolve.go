package engine

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// =============================================================================
// OVERRIDE RESOLVER - manual override > uploaded total > computed value
// =============================================================================

// Source identifies which precedence tier produced a displayed KPI value.
type Source string

const (
	SourceManual   Source = "manual"
	SourceUploaded Source = "uploaded"
	SourceComputed Source = "computed"
)

// Resolve combines a manually entered override, an uploaded
// pre-aggregated total and a locally computed value into the displayed
// KPI value.
//
// Two stages, preserved exactly for compatibility with existing
// dashboards:
//
//	step1  = manual ?? uploaded   nil manual defers to the uploaded
//	                              total; an explicit zero is honored
//	                              at this step
//	result = step1 || computed    any falsy step1, including a manual
//	                              override of exactly zero, defers to
//	                              the computed value
//
// The sharp edge is intentional: a manual override of 0 is
// indistinguishable from "no override" and silently falls through.
func Resolve(manual *float64, uploaded, computed float64) float64 {
	v, _ := ResolveTrace(manual, uploaded, computed)
	return v
}

// ResolveTrace is Resolve plus the tier that produced the value, for
// "overridden" provenance badges.
func ResolveTrace(manual *float64, uploaded, computed float64) (float64, Source) {
	step1, src := uploaded, SourceUploaded
	if manual != nil {
		step1, src = *manual, SourceManual
	}
	if step1 == 0 || math.IsNaN(step1) {
		return computed, SourceComputed
	}
	return step1, src
}

// CoerceOverride turns admin-entered override input into an override
// pointer. Anything that does not carry a number means "no override"
// and becomes nil before it ever reaches the resolver.
func CoerceOverride(v any) *float64 {
	switch n := v.(type) {
	case nil:
		return nil
	case float64:
		f := n
		return &f
	case float32:
		f := float64(n)
		return &f
	case int:
		f := float64(n)
		return &f
	case int64:
		f := float64(n)
		return &f
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return nil
		}
		return &f
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) {
			return nil
		}
		return &f
	default:
		return nil
	}
}

// =============================================================================
// UPLOADED TOTALS MATCH
// =============================================================================

// MatchTotalsRow returns the first row from a pre-aggregated upload
// whose product, period_type and period_value fields match the current
// product and period selector, or nil when none does. At most one match
// is used per render; when several rows match, the first in upload
// order wins.
func MatchTotalsRow(rows []Record, product string, sel Selector) Record {
	want := sel.Value()
	for _, r := range rows {
		if r.Field("product") != product {
			continue
		}
		if !strings.EqualFold(strings.TrimSpace(r.Field("period_type")), string(sel.Granularity)) {
			continue
		}
		if r.Field("period_value") != want {
			continue
		}
		return r
	}
	return nil
}
