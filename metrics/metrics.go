/*
Package metrics contains the metric calculators.

PURPOSE:
  Each calculator is a pure reduction over a row set that has already
  been mapped, product-filtered and period-filtered by the caller. The
  calculators never filter, never persist, and never error: given any
  input they produce a complete, well-typed (if zero-filled) metrics
  object.

CALCULATORS:
  ComputePaid      Paid ads totals and CPL/CPA/ROAS/CTR ratios
  ComputeLanding   Per-page engagement scores, ranked
  ComputeWeb       Website & e-commerce totals
  ComputeCRM       Funnel counts, revenue, CLV, sales cycle
  BuildFunnelTable Time-bucketed funnel detail rows
  PaidTrend        Daily paid trend series
  ChannelSources   Per-channel lead volume and CVR

ZERO GUARDS:
  Every derived ratio guards its denominator: a zero denominator makes
  the ratio exactly 0, never NaN, never Inf, never an error.
*/
package metrics

// Ratio divides num by den, defining x/0 as 0.
func Ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

// Weights is the engagement-score weight triple. The weights are not
// required to sum to 1 and are not normalized, so a client can
// deliberately over- or under-weight a signal.
type Weights struct {
	Time   float64 `json:"time"`
	CTA    float64 `json:"cta"`
	Scroll float64 `json:"scroll"`
}

// DefaultWeights matches the dashboard defaults.
var DefaultWeights = Weights{Time: 0.4, CTA: 0.3, Scroll: 0.3}

// DefaultCLVMultiplier makes CLV equal AOV until configured otherwise.
const DefaultCLVMultiplier = 1.0

// IsZero reports whether no weight is set at all, which callers treat
// as "use defaults".
func (w Weights) IsZero() bool { return w.Time == 0 && w.CTA == 0 && w.Scroll == 0 }
