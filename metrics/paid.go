package metrics

import "github.com/solarcalor/reporting-engine/engine"

// =============================================================================
// PAID ADS
// =============================================================================

// PaidMetrics aggregates paid ads rows for one product and period.
type PaidMetrics struct {
	Spend       float64
	Clicks      float64
	Impressions float64
	Leads       float64
	Customers   float64
	Revenue     float64

	CPL         float64 // spend / leads
	CPA         float64 // spend / customers
	ROAS        float64 // revenue / spend
	CTR         float64 // clicks / impressions
	ClickToLead float64 // leads / clicks
	LeadToCust  float64 // customers / leads
}

// ComputePaid reduces paid ads rows into totals and derived ratios.
func ComputePaid(rows []engine.Record) PaidMetrics {
	var m PaidMetrics
	for _, r := range rows {
		m.Spend += r.Num("spend")
		m.Clicks += r.Num("clicks")
		m.Impressions += r.Num("impressions")
		m.Leads += r.Num("leads")
		m.Customers += r.Num("customers")
		m.Revenue += r.Num("revenue")
	}
	m.CPL = Ratio(m.Spend, m.Leads)
	m.CPA = Ratio(m.Spend, m.Customers)
	m.ROAS = Ratio(m.Revenue, m.Spend)
	m.CTR = Ratio(m.Clicks, m.Impressions)
	m.ClickToLead = Ratio(m.Leads, m.Clicks)
	m.LeadToCust = Ratio(m.Customers, m.Leads)
	return m
}
