package metrics

import (
	"sort"

	"github.com/solarcalor/reporting-engine/engine"
)

// =============================================================================
// LANDING PAGES
// =============================================================================

// PageMetrics aggregates landing-page rows for one page.
type PageMetrics struct {
	Page      string
	Sessions  float64
	Bounces   float64
	CTAClicks float64
	Scroll50  float64
	Leads     float64

	BounceRate float64 // bounces / sessions
	TimeAvg    float64 // sessions-weighted average time on page, seconds
	CTACtr     float64 // cta_clicks / sessions
	ScrollRate float64 // scroll_50 / sessions
	Engagement float64 // (1-bounceRate)*Wtime + ctaCtr*Wcta + scrollRate*Wscroll
	LPCvr      float64 // leads / sessions
}

// ComputeLanding groups landing-page rows by page, accumulating raw
// counters and a sessions-weighted time accumulator, then derives the
// per-page ratios and the composite engagement score. Pages come back
// sorted descending by engagement; pages with equal scores keep their
// first-appearance order.
func ComputeLanding(rows []engine.Record, w Weights) []PageMetrics {
	type pageAcc struct {
		PageMetrics
		timeWeighted float64
	}

	index := make(map[string]*pageAcc)
	var order []*pageAcc
	for _, r := range rows {
		key := r.Field("page")
		acc := index[key]
		if acc == nil {
			acc = &pageAcc{PageMetrics: PageMetrics{Page: key}}
			index[key] = acc
			order = append(order, acc)
		}
		sessions := r.Num("sessions")
		acc.Sessions += sessions
		acc.Bounces += r.Num("bounces")
		acc.timeWeighted += r.Num("avg_time_sec") * sessions
		acc.CTAClicks += r.Num("cta_clicks")
		acc.Scroll50 += r.Num("scroll_50")
		acc.Leads += r.Num("leads")
	}

	pages := make([]PageMetrics, len(order))
	for i, acc := range order {
		p := acc.PageMetrics
		p.BounceRate = Ratio(p.Bounces, p.Sessions)
		p.TimeAvg = Ratio(acc.timeWeighted, p.Sessions)
		p.CTACtr = Ratio(p.CTAClicks, p.Sessions)
		p.ScrollRate = Ratio(p.Scroll50, p.Sessions)
		p.Engagement = (1-p.BounceRate)*w.Time + p.CTACtr*w.CTA + p.ScrollRate*w.Scroll
		p.LPCvr = Ratio(p.Leads, p.Sessions)
		pages[i] = p
	}

	sort.SliceStable(pages, func(i, j int) bool {
		return pages[i].Engagement > pages[j].Engagement
	})
	return pages
}
