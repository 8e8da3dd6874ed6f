package metrics

import "github.com/solarcalor/reporting-engine/engine"

// =============================================================================
// WEBSITE & E-COMMERCE
// =============================================================================

// WebMetrics aggregates website rows for one product and period.
type WebMetrics struct {
	Sessions float64
	Orders   float64
	Revenue  float64

	SiteCR float64 // orders / sessions
	AOV    float64 // revenue / orders
}

// ComputeWeb reduces website rows into totals and derived ratios.
func ComputeWeb(rows []engine.Record) WebMetrics {
	var m WebMetrics
	for _, r := range rows {
		m.Sessions += r.Num("sessions")
		m.Orders += r.Num("orders")
		m.Revenue += r.Num("revenue")
	}
	m.SiteCR = Ratio(m.Orders, m.Sessions)
	m.AOV = Ratio(m.Revenue, m.Orders)
	return m
}
