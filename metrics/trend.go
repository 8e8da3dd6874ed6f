package metrics

import (
	"sort"

	"github.com/solarcalor/reporting-engine/engine"
)

// =============================================================================
// PAID TREND SERIES - Daily CPL/CPA/ROAS for trend charts
// =============================================================================

// TrendPoint is one day of the paid trend series.
type TrendPoint struct {
	Date      string // YYYY-MM-DD
	Spend     float64
	Leads     float64
	Customers float64
	Revenue   float64
	Clicks    float64

	CPL  float64
	CPA  float64
	ROAS float64
}

// PaidTrend groups period-filtered paid rows by day and derives the
// per-day CPL, CPA and ROAS used by the trend chart. Rows without a
// parseable date are skipped. Points come back ascending by date.
func PaidTrend(rows []engine.Record) []TrendPoint {
	byDate := make(map[string]*TrendPoint)
	for _, r := range rows {
		d, ok := engine.ParseDate(r.Field("date"))
		if !ok {
			continue
		}
		key := d.Format("2006-01-02")
		p := byDate[key]
		if p == nil {
			p = &TrendPoint{Date: key}
			byDate[key] = p
		}
		p.Spend += r.Num("spend")
		p.Leads += r.Num("leads")
		p.Customers += r.Num("customers")
		p.Revenue += r.Num("revenue")
		p.Clicks += r.Num("clicks")
	}

	dates := make([]string, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	series := make([]TrendPoint, 0, len(dates))
	for _, d := range dates {
		p := *byDate[d]
		p.CPL = Ratio(p.Spend, p.Leads)
		p.CPA = Ratio(p.Spend, p.Customers)
		p.ROAS = Ratio(p.Revenue, p.Spend)
		series = append(series, p)
	}
	return series
}
