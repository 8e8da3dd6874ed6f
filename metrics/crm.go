package metrics

import "github.com/solarcalor/reporting-engine/engine"

// =============================================================================
// CRM & FUNNEL
// =============================================================================

// CRMMetrics aggregates CRM lead rows for one product and period.
//
// The stage counts come from independent date fields, so the funnel is
// NOT guaranteed monotonic: nothing stops an upload where a lead has a
// closed_won_date but no sql_date. The engine reports what the data
// says rather than enforcing stage ordering.
type CRMMetrics struct {
	TotalLeads int
	MQLs       int
	SQLs       int
	Customers  int

	LeadToMQL      float64 // mqls / totalLeads
	MQLToSQL       float64 // sqls / mqls
	SQLToCust      float64 // customers / sqls
	RevenueTotal   float64 // revenue summed over closed-won rows only
	AOV            float64 // revenueTotal / customers
	CLV            float64 // aov * clvMultiplier
	SalesCycleDays float64 // mean days first_contact_date -> closed_won_date
}

// ComputeCRM reduces CRM rows into funnel counts, conversion ratios,
// revenue and sales-cycle length. The sales cycle averages only
// closed-won rows that also carry a parseable first-contact date; with
// no such rows it is 0.
func ComputeCRM(rows []engine.Record, clvMultiplier float64) CRMMetrics {
	m := CRMMetrics{TotalLeads: len(rows)}
	var cycleDays float64
	var cycleCount int
	for _, r := range rows {
		if r.Field("mql_date") != "" {
			m.MQLs++
		}
		if r.Field("sql_date") != "" {
			m.SQLs++
		}
		if r.Field("closed_won_date") == "" {
			continue
		}
		m.Customers++
		m.RevenueTotal += r.Num("revenue")

		won, okWon := engine.ParseDate(r.Field("closed_won_date"))
		first, okFirst := engine.ParseDate(r.Field("first_contact_date"))
		if okWon && okFirst {
			cycleDays += won.Sub(first).Hours() / 24
			cycleCount++
		}
	}

	m.LeadToMQL = Ratio(float64(m.MQLs), float64(m.TotalLeads))
	m.MQLToSQL = Ratio(float64(m.SQLs), float64(m.MQLs))
	m.SQLToCust = Ratio(float64(m.Customers), float64(m.SQLs))
	m.AOV = Ratio(m.RevenueTotal, float64(m.Customers))
	m.CLV = m.AOV * clvMultiplier
	m.SalesCycleDays = Ratio(cycleDays, float64(cycleCount))
	return m
}

// =============================================================================
// QUALIFIED-SQL PREDICATE
// =============================================================================

// CallDurationFields lists the aliased column names a call duration may
// arrive under. They are consulted in order and the first field present
// with a non-empty value wins; the order is part of the contract.
var CallDurationFields = []string{
	"call_duration_min",
	"talk_time_min",
	"duration_min",
	"call_minutes",
}

// CallMinutes reads the call duration from the first non-empty alias.
func CallMinutes(r engine.Record) float64 {
	for _, f := range CallDurationFields {
		if v, ok := r[f]; ok && engine.Str(v) != "" {
			return engine.Num(v)
		}
	}
	return 0
}

// IsQualifiedSQL reports whether a CRM record counts as a 3-minute
// qualified SQL: a non-empty sql_date and a call duration of at least
// three minutes. This single definition is shared by the funnel stage
// count and the bucketed table so the two views cannot diverge.
func IsQualifiedSQL(r engine.Record) bool {
	return r.Field("sql_date") != "" && CallMinutes(r) >= 3
}

// QualifiedSQLs counts the rows passing IsQualifiedSQL.
func QualifiedSQLs(rows []engine.Record) int {
	n := 0
	for _, r := range rows {
		if IsQualifiedSQL(r) {
			n++
		}
	}
	return n
}
