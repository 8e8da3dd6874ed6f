package metrics

import "github.com/solarcalor/reporting-engine/engine"

// =============================================================================
// TRAFFIC SOURCES - Per-channel lead volume and conversion
// =============================================================================

// ChannelSource aggregates paid rows for one channel.
type ChannelSource struct {
	Channel string
	Leads   float64
	Clicks  float64
	CVR     float64 // leads / clicks (click-to-lead)
}

// ChannelSources groups period-filtered paid rows by channel, keeping
// first-appearance order, and derives the click-to-lead CVR per
// channel.
func ChannelSources(rows []engine.Record) []ChannelSource {
	index := make(map[string]*ChannelSource)
	var order []*ChannelSource
	for _, r := range rows {
		key := r.Field("channel")
		s := index[key]
		if s == nil {
			s = &ChannelSource{Channel: key}
			index[key] = s
			order = append(order, s)
		}
		s.Leads += r.Num("leads")
		s.Clicks += r.Num("clicks")
	}

	out := make([]ChannelSource, len(order))
	for i, s := range order {
		s.CVR = Ratio(s.Leads, s.Clicks)
		out[i] = *s
	}
	return out
}
