package report

import (
	"math"

	"github.com/solarcalor/reporting-engine/config"
	"github.com/solarcalor/reporting-engine/engine"
	"github.com/solarcalor/reporting-engine/metrics"
)

// =============================================================================
// OVERVIEW KPIs - Resolved through the override precedence
// =============================================================================

// KPI is one displayed overview value plus the precedence tier that
// produced it, so the UI can show an "overridden" badge.
type KPI struct {
	Key    string        `json:"key"`
	Label  string        `json:"label"`
	Value  float64       `json:"value"`
	Source engine.Source `json:"source"`
}

// MarketingOverview is the resolved marketing funnel headline.
type MarketingOverview struct {
	Leads     KPI `json:"leads"`
	MQL       KPI `json:"mql"`
	SQL3      KPI `json:"sql3"`
	Customers KPI `json:"customers"`
}

// BusinessOverview is the resolved business headline.
type BusinessOverview struct {
	Revenue   KPI `json:"revenue"`
	Spend     KPI `json:"spend"`
	Profit    KPI `json:"profit"`
	ROAS      KPI `json:"roas"`
	Margin    KPI `json:"margin"`
	Customers KPI `json:"customers"`
}

// totalsField reads a numeric field off an uploaded totals match,
// treating "no match" as zero so it falls through the resolver.
func totalsField(match engine.Record, name string) float64 {
	if match == nil {
		return 0
	}
	return match.Num(name)
}

func resolveKPI(scope, key string, labels config.Labels, manual *float64, uploaded, computed float64) KPI {
	value, src := engine.ResolveTrace(manual, uploaded, computed)
	return KPI{
		Key:    key,
		Label:  labels.LabelOr(scope, key),
		Value:  value,
		Source: src,
	}
}

// marketingOverview resolves the four marketing KPIs. The qualified-SQL
// count falls back to the plain SQL count when no row passes the
// 3-minute predicate, matching the dashboard's funnel headline.
func marketingOverview(in *Inputs, crm metrics.CRMMetrics) MarketingOverview {
	match := engine.MatchTotalsRow(in.MktTotals, in.State.Product, in.State.Period)
	overrides := in.Config.KpiOverrides.Marketing
	labels := in.Config.KpiLabels.Marketing

	sql3 := float64(metrics.QualifiedSQLs(in.CRM))
	if sql3 == 0 {
		sql3 = float64(crm.SQLs)
	}

	return MarketingOverview{
		Leads:     resolveKPI("marketing", "leads", labels, overrides["leads"], totalsField(match, "leads"), float64(crm.TotalLeads)),
		MQL:       resolveKPI("marketing", "mql", labels, overrides["mql"], totalsField(match, "mql"), float64(crm.MQLs)),
		SQL3:      resolveKPI("marketing", "sql3", labels, overrides["sql3"], totalsField(match, "sql_3min"), sql3),
		Customers: resolveKPI("marketing", "customers", labels, overrides["customers"], totalsField(match, "customers"), float64(crm.Customers)),
	}
}

// businessOverview resolves the six business KPIs. Computed fallbacks
// mirror the dashboard: site revenue when the site sold anything, else
// closed-won CRM revenue; e-commerce orders else CRM customers. Profit,
// ROAS and margin derive from the already-resolved revenue and spend so
// an uploaded revenue total flows into the derived values.
func businessOverview(in *Inputs, paid metrics.PaidMetrics, web metrics.WebMetrics, crm metrics.CRMMetrics) BusinessOverview {
	match := engine.MatchTotalsRow(in.BizTotals, in.State.Product, in.State.Period)
	overrides := in.Config.KpiOverrides.Business
	labels := in.Config.KpiLabels.Business

	revComputed := crm.RevenueTotal
	if web.Revenue > 0 {
		revComputed = web.Revenue
	}
	custComputed := float64(crm.Customers)
	if web.Orders > 0 {
		custComputed = web.Orders
	}

	revenue := resolveKPI("business", "revenue", labels, overrides["revenue"], totalsField(match, "revenue"), revComputed)
	spend := resolveKPI("business", "spend", labels, overrides["spend"], totalsField(match, "spend"), paid.Spend)
	profit := resolveKPI("business", "profit", labels, overrides["profit"], totalsField(match, "profit"),
		math.Max(0, revenue.Value-spend.Value))
	roas := resolveKPI("business", "roas", labels, overrides["roas"], totalsField(match, "roas"),
		metrics.Ratio(revenue.Value, spend.Value))
	margin := resolveKPI("business", "margin", labels, overrides["margin"], totalsField(match, "margin_pct"),
		metrics.Ratio(profit.Value, revenue.Value))
	customers := resolveKPI("business", "customers", labels, overrides["customers"], totalsField(match, "customers"), custComputed)

	return BusinessOverview{
		Revenue:   revenue,
		Spend:     spend,
		Profit:    profit,
		ROAS:      roas,
		Margin:    margin,
		Customers: customers,
	}
}
