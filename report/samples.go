package report

import (
	"github.com/solarcalor/reporting-engine/config"
	"github.com/solarcalor/reporting-engine/engine"
)

// =============================================================================
// SAMPLE DATASETS - Shown until the first real upload
// =============================================================================
// A dashboard with no uploads renders these instead of an empty page.
// They are never persisted; the first upload of a category replaces
// them for good.

// SamplePaid returns demo paid ads rows.
func SamplePaid() []engine.Record {
	return []engine.Record{
		{"date": "2025-07-01", "product": config.Products[0], "channel": "Google", "campaign": "Heat_BOFU_Italy", "spend": 420.0, "impressions": 12000.0, "clicks": 820.0, "leads": 30.0, "customers": 6.0, "revenue": 5400.0},
		{"date": "2025-07-01", "product": config.Products[1], "channel": "Meta", "campaign": "Anti_BOFU_IT", "spend": 260.0, "impressions": 18000.0, "clicks": 900.0, "leads": 40.0, "customers": 5.0, "revenue": 3500.0},
		{"date": "2025-07-08", "product": config.Products[0], "channel": "Google", "campaign": "Heat_BOFU_Italy", "spend": 500.0, "impressions": 13000.0, "clicks": 870.0, "leads": 32.0, "customers": 7.0, "revenue": 6200.0},
		{"date": "2025-07-08", "product": config.Products[1], "channel": "Meta", "campaign": "Anti_BOFU_IT", "spend": 300.0, "impressions": 17000.0, "clicks": 860.0, "leads": 37.0, "customers": 4.0, "revenue": 3000.0},
		{"date": "2025-07-15", "product": config.Products[0], "channel": "Google", "campaign": "Heat_BOFU_Italy", "spend": 550.0, "impressions": 15000.0, "clicks": 950.0, "leads": 34.0, "customers": 8.0, "revenue": 6900.0},
		{"date": "2025-07-15", "product": config.Products[1], "channel": "Google", "campaign": "Anti_Search_IT", "spend": 280.0, "impressions": 9000.0, "clicks": 420.0, "leads": 18.0, "customers": 3.0, "revenue": 2100.0},
	}
}

// SampleLanding returns demo landing-page rows.
func SampleLanding() []engine.Record {
	return []engine.Record{
		{"date": "2025-07-01", "product": config.Products[0], "page": "/riscaldamento-consulenza", "sessions": 1200.0, "bounces": 420.0, "avg_time_sec": 94.0, "cta_clicks": 260.0, "scroll_50": 760.0, "leads": 30.0},
		{"date": "2025-07-01", "product": config.Products[1], "page": "/anticalcare-prezzo", "sessions": 950.0, "bounces": 500.0, "avg_time_sec": 60.0, "cta_clicks": 210.0, "scroll_50": 540.0, "leads": 40.0},
		{"date": "2025-07-08", "product": config.Products[0], "page": "/riscaldamento-consulenza", "sessions": 1300.0, "bounces": 380.0, "avg_time_sec": 102.0, "cta_clicks": 290.0, "scroll_50": 820.0, "leads": 32.0},
		{"date": "2025-07-08", "product": config.Products[1], "page": "/anticalcare-prezzo", "sessions": 910.0, "bounces": 480.0, "avg_time_sec": 63.0, "cta_clicks": 200.0, "scroll_50": 520.0, "leads": 37.0},
	}
}

// SampleWeb returns demo website rows.
func SampleWeb() []engine.Record {
	return []engine.Record{
		{"date": "2025-07-01", "product": config.Products[0], "sessions": 4800.0, "orders": 32.0, "revenue": 35800.0},
		{"date": "2025-07-01", "product": config.Products[1], "sessions": 2100.0, "orders": 18.0, "revenue": 12200.0},
		{"date": "2025-07-08", "product": config.Products[0], "sessions": 5200.0, "orders": 36.0, "revenue": 40100.0},
		{"date": "2025-07-08", "product": config.Products[1], "sessions": 2000.0, "orders": 15.0, "revenue": 9900.0},
	}
}

// SampleCRM returns demo CRM lead rows.
func SampleCRM() []engine.Record {
	return []engine.Record{
		{"lead_id": "L-1001", "product": config.Products[0], "first_contact_date": "2025-07-02", "mql_date": "2025-07-03", "sql_date": "2025-07-05", "call_duration_min": 4.0, "closed_won_date": "2025-07-20", "revenue": 1100.0},
		{"lead_id": "L-1002", "product": config.Products[0], "first_contact_date": "2025-07-03", "mql_date": "2025-07-06", "sql_date": "2025-07-10", "call_duration_min": 2.0, "closed_won_date": "2025-07-28", "revenue": 1300.0},
		{"lead_id": "L-2001", "product": config.Products[1], "first_contact_date": "2025-07-02", "mql_date": "2025-07-04", "sql_date": "2025-07-06", "call_duration_min": 6.0, "closed_won_date": "2025-07-22", "revenue": 700.0},
	}
}
