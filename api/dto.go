/*
dto.go - API response shapes and boundary rounding

PURPOSE:
  Defines the JSON shapes the API serves and the rounding applied at
  the response boundary. Internal metric objects carry full float64
  precision; rounding happens exactly once, here.

ROUNDING POLICY:
  - Money and volume figures: 2 decimal places
  - Rates and ratios: 3 decimal places
  Rounding uses shopspring/decimal half-up so figures survive a
  round-trip through spreadsheet tooling.

SEE ALSO:
  - handlers.go: Where these DTOs are populated
  - metrics/: The unrounded metric objects
*/
package api

import (
	"github.com/shopspring/decimal"

	"github.com/solarcalor/reporting-engine/engine"
	"github.com/solarcalor/reporting-engine/metrics"
	"github.com/solarcalor/reporting-engine/report"
)

// round2 rounds money and volume figures to 2 decimal places.
func round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

// round3 rounds rates and ratios to 3 decimal places.
func round3(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(3).Float64()
	return f
}

func roundN(v float64, places int32) float64 {
	f, _ := decimal.NewFromFloat(v).Round(places).Float64()
	return f
}

// =============================================================================
// DATASET DTOS
// =============================================================================

type DatasetInfoDTO struct {
	Category string `json:"category"`
	Uploaded bool   `json:"uploaded"`
	Rows     int    `json:"rows"`
}

type UploadResponseDTO struct {
	ID       string   `json:"id"`
	Category string   `json:"category"`
	Rows     int      `json:"rows"`
	Headers  []string `json:"headers,omitempty"`
}

// =============================================================================
// OVERVIEW DTOS
// =============================================================================

type KPIDTO struct {
	Key    string  `json:"key"`
	Label  string  `json:"label"`
	Value  float64 `json:"value"`
	Source string  `json:"source"`
}

type OverviewDTO struct {
	Product   string   `json:"product"`
	PeriodKey string   `json:"periodKey"`
	Kpis      []KPIDTO `json:"kpis"`
}

func toKPIDTO(k report.KPI, places int32) KPIDTO {
	return KPIDTO{
		Key:    k.Key,
		Label:  k.Label,
		Value:  roundN(k.Value, places),
		Source: string(k.Source),
	}
}

// =============================================================================
// CALCULATOR DTOS
// =============================================================================

type PaidDTO struct {
	Spend       float64 `json:"spend"`
	Clicks      float64 `json:"clicks"`
	Impressions float64 `json:"impressions"`
	Leads       float64 `json:"leads"`
	Customers   float64 `json:"customers"`
	Revenue     float64 `json:"revenue"`
	CPL         float64 `json:"cpl"`
	CPA         float64 `json:"cpa"`
	ROAS        float64 `json:"roas"`
	CTR         float64 `json:"ctr"`
	ClickToLead float64 `json:"clickToLead"`
	LeadToCust  float64 `json:"leadToCust"`
}

func toPaidDTO(m metrics.PaidMetrics) PaidDTO {
	return PaidDTO{
		Spend:       round2(m.Spend),
		Clicks:      m.Clicks,
		Impressions: m.Impressions,
		Leads:       m.Leads,
		Customers:   m.Customers,
		Revenue:     round2(m.Revenue),
		CPL:         round2(m.CPL),
		CPA:         round2(m.CPA),
		ROAS:        round3(m.ROAS),
		CTR:         round3(m.CTR),
		ClickToLead: round3(m.ClickToLead),
		LeadToCust:  round3(m.LeadToCust),
	}
}

type PageDTO struct {
	Page       string  `json:"page"`
	Sessions   float64 `json:"sessions"`
	Leads      float64 `json:"leads"`
	BounceRate float64 `json:"bounceRate"`
	TimeAvg    float64 `json:"timeAvg"`
	CTACtr     float64 `json:"ctaCtr"`
	ScrollRate float64 `json:"scrollRate"`
	Engagement float64 `json:"engagement"`
	LPCvr      float64 `json:"lpCvr"`
}

func toPageDTO(m metrics.PageMetrics) PageDTO {
	return PageDTO{
		Page:       m.Page,
		Sessions:   m.Sessions,
		Leads:      m.Leads,
		BounceRate: round3(m.BounceRate),
		TimeAvg:    round2(m.TimeAvg),
		CTACtr:     round3(m.CTACtr),
		ScrollRate: round3(m.ScrollRate),
		Engagement: round3(m.Engagement),
		LPCvr:      round3(m.LPCvr),
	}
}

type WebDTO struct {
	Sessions float64 `json:"sessions"`
	Orders   float64 `json:"orders"`
	Revenue  float64 `json:"revenue"`
	SiteCR   float64 `json:"siteCr"`
	AOV      float64 `json:"aov"`
}

func toWebDTO(m metrics.WebMetrics) WebDTO {
	return WebDTO{
		Sessions: m.Sessions,
		Orders:   m.Orders,
		Revenue:  round2(m.Revenue),
		SiteCR:   round3(m.SiteCR),
		AOV:      round2(m.AOV),
	}
}

type CRMDTO struct {
	TotalLeads     int     `json:"totalLeads"`
	MQLs           int     `json:"mqls"`
	SQLs           int     `json:"sqls"`
	Customers      int     `json:"customers"`
	LeadToMQL      float64 `json:"leadToMql"`
	MQLToSQL       float64 `json:"mqlToSql"`
	SQLToCust      float64 `json:"sqlToCust"`
	RevenueTotal   float64 `json:"revenueTotal"`
	AOV            float64 `json:"aov"`
	CLV            float64 `json:"clv"`
	SalesCycleDays float64 `json:"salesCycleDays"`
}

func toCRMDTO(m metrics.CRMMetrics) CRMDTO {
	return CRMDTO{
		TotalLeads:     m.TotalLeads,
		MQLs:           m.MQLs,
		SQLs:           m.SQLs,
		Customers:      m.Customers,
		LeadToMQL:      round3(m.LeadToMQL),
		MQLToSQL:       round3(m.MQLToSQL),
		SQLToCust:      round3(m.SQLToCust),
		RevenueTotal:   round2(m.RevenueTotal),
		AOV:            round2(m.AOV),
		CLV:            round2(m.CLV),
		SalesCycleDays: round2(m.SalesCycleDays),
	}
}

// =============================================================================
// TABULAR VIEW DTOS
// =============================================================================

type BucketDTO struct {
	Bucket    string  `json:"bucket"`
	Leads     int     `json:"leads"`
	MQL       int     `json:"mql"`
	SQL3      int     `json:"sql3"`
	Customers int     `json:"customers"`
	L2M       float64 `json:"l2m"`
	M2S       float64 `json:"m2s"`
	S2C       float64 `json:"s2c"`
}

func toBucketDTO(b metrics.Bucket) BucketDTO {
	return BucketDTO{
		Bucket:    b.Bucket,
		Leads:     b.Leads,
		MQL:       b.MQL,
		SQL3:      b.SQL3,
		Customers: b.Customers,
		L2M:       round3(b.L2M),
		M2S:       round3(b.M2S),
		S2C:       round3(b.S2C),
	}
}

type FunnelTableDTO struct {
	Source  string          `json:"source"`
	Buckets []BucketDTO     `json:"buckets,omitempty"`
	Rows    []engine.Record `json:"rows,omitempty"`
}

type TrendPointDTO struct {
	Date      string  `json:"date"`
	Spend     float64 `json:"spend"`
	Leads     float64 `json:"leads"`
	Customers float64 `json:"customers"`
	Revenue   float64 `json:"revenue"`
	Clicks    float64 `json:"clicks"`
	CPL       float64 `json:"cpl"`
	CPA       float64 `json:"cpa"`
	ROAS      float64 `json:"roas"`
}

func toTrendPointDTO(p metrics.TrendPoint) TrendPointDTO {
	return TrendPointDTO{
		Date:      p.Date,
		Spend:     round2(p.Spend),
		Leads:     p.Leads,
		Customers: p.Customers,
		Revenue:   round2(p.Revenue),
		Clicks:    p.Clicks,
		CPL:       round2(p.CPL),
		CPA:       round2(p.CPA),
		ROAS:      round3(p.ROAS),
	}
}

type ChannelSourceDTO struct {
	Channel string  `json:"channel"`
	Leads   float64 `json:"leads"`
	Clicks  float64 `json:"clicks"`
	CVR     float64 `json:"cvr"`
}

func toChannelSourceDTO(s metrics.ChannelSource) ChannelSourceDTO {
	return ChannelSourceDTO{
		Channel: s.Channel,
		Leads:   s.Leads,
		Clicks:  s.Clicks,
		CVR:     round3(s.CVR),
	}
}

type SourcesDTO struct {
	Channels []string           `json:"channels"`
	Sources  []ChannelSourceDTO `json:"sources"`
}
