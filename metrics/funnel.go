package metrics

import (
	"sort"

	"github.com/solarcalor/reporting-engine/engine"
)

// =============================================================================
// FUNNEL DETAIL TABLE - Time-bucketed CRM rows
// =============================================================================

// TableSource tags whether a funnel table was computed from CRM rows or
// substituted wholesale by an uploaded detail table.
type TableSource string

const (
	TableComputed   TableSource = "computed"
	TableOverridden TableSource = "overridden"
)

// Bucket is one time-grouped aggregate row of the funnel detail table.
// The key is a day (YYYY-MM-DD) under month granularity, otherwise a
// month (YYYY-MM); lexical order equals chronological order for both.
type Bucket struct {
	Bucket    string
	Leads     int
	MQL       int
	SQL3      int
	Customers int

	L2M float64 // mql / leads
	M2S float64 // sql3 / mql
	S2C float64 // customers / sql3
}

// FunnelTable is either a computed bucket series or the uploaded detail
// table rendered verbatim. The substitution is all-or-nothing, chosen
// once per render, never a per-row merge.
type FunnelTable struct {
	Source  TableSource
	Buckets []Bucket        // set when Source == TableComputed
	Rows    []engine.Record // set when Source == TableOverridden
}

// BuildFunnelTable buckets period-filtered CRM rows by their first
// contact date and derives stage-to-stage conversion rates per bucket.
// A non-empty override table bypasses the computation entirely. Rows
// whose first contact date does not parse are skipped; the period
// filter upstream already excluded them for computed views.
func BuildFunnelTable(crmRows []engine.Record, g engine.Granularity, override []engine.Record) FunnelTable {
	if len(override) > 0 {
		return FunnelTable{Source: TableOverridden, Rows: override}
	}

	byKey := make(map[string]*Bucket)
	for _, r := range crmRows {
		d, ok := engine.ParseDate(r.Field("first_contact_date"))
		if !ok {
			continue
		}
		key := d.Format("2006-01")
		if g == engine.GranularityMonth {
			key = d.Format("2006-01-02")
		}
		b := byKey[key]
		if b == nil {
			b = &Bucket{Bucket: key}
			byKey[key] = b
		}
		b.Leads++
		if r.Field("mql_date") != "" {
			b.MQL++
		}
		if IsQualifiedSQL(r) {
			b.SQL3++
		}
		if r.Field("closed_won_date") != "" {
			b.Customers++
		}
	}

	keys := make([]string, 0, len(byKey))
	for k := range byKey {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	buckets := make([]Bucket, 0, len(keys))
	for _, k := range keys {
		b := *byKey[k]
		b.L2M = Ratio(float64(b.MQL), float64(b.Leads))
		b.M2S = Ratio(float64(b.SQL3), float64(b.MQL))
		b.S2C = Ratio(float64(b.Customers), float64(b.SQL3))
		buckets = append(buckets, b)
	}
	return FunnelTable{Source: TableComputed, Buckets: buckets}
}
