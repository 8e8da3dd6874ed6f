/*
Package report composes the engine into renderable dashboard data.

PURPOSE:
  The reporting layer loads raw datasets and configuration from the
  store, pushes rows through the field mapper and period filter, runs
  every metric calculator, and resolves the overview KPIs through the
  override precedence. The output is plain data with no UI concerns,
  handed to the rendering collaborator as-is.

DATA FLOW:
  raw rows -> MapRows -> period/product filter -> calculators
           -> override resolver (overview KPIs)
           -> funnel/bucket builder (tabular views)

RECOMPUTATION MODEL:
  Single-threaded and synchronous: every Snapshot recomputes everything
  from current inputs. There is no caching and no incremental state, so
  staleness cannot occur.
*/
package report

import (
	"context"
	"log/slog"
	"time"

	"github.com/solarcalor/reporting-engine/config"
	"github.com/solarcalor/reporting-engine/engine"
	"github.com/solarcalor/reporting-engine/metrics"
)

// Reporter builds dashboard snapshots from a store.
type Reporter struct {
	store engine.Store
	log   *slog.Logger

	// Now is the clock used for default selector state; tests pin it.
	Now func() time.Time
}

// New creates a Reporter over the given store.
func New(store engine.Store, log *slog.Logger) *Reporter {
	if log == nil {
		log = slog.Default()
	}
	return &Reporter{store: store, log: log, Now: time.Now}
}

// =============================================================================
// INPUT LOADING
// =============================================================================

// Inputs carries everything one render needs, loaded and filtered once.
type Inputs struct {
	Config config.Document
	State  config.State

	// Mapped and product/period-filtered row sets.
	Paid    []engine.Record
	Landing []engine.Record
	Web     []engine.Record
	CRM     []engine.Record

	// Mapped but unfiltered: these are matched by their own period
	// columns, not by row dates.
	BizTotals []engine.Record
	MktTotals []engine.Record
	MktDetail []engine.Record

	// Channels seen across all mapped paid rows, first-appearance order.
	Channels []string
}

// LoadConfig returns the stored configuration document, falling back to
// defaults when nothing is stored or the stored blob is unreadable.
func (r *Reporter) LoadConfig(ctx context.Context) (config.Document, error) {
	body, err := r.store.LoadDocument(ctx, engine.DocConfig)
	if err != nil {
		return config.Document{}, err
	}
	if body == nil {
		return config.DefaultDocument(), nil
	}
	doc, err := config.ParseDocument(body)
	if err != nil {
		r.log.Warn("stored configuration unreadable, using defaults", slog.String("err", err.Error()))
		return config.DefaultDocument(), nil
	}
	return doc, nil
}

// LoadState returns the stored selector/preference state, falling back
// to defaults when nothing is stored or the stored blob is unreadable.
func (r *Reporter) LoadState(ctx context.Context) (config.State, error) {
	body, err := r.store.LoadDocument(ctx, engine.DocState)
	if err != nil {
		return config.State{}, err
	}
	if body == nil {
		return config.DefaultState(r.Now()), nil
	}
	state, err := config.ParseState(body, r.Now())
	if err != nil {
		r.log.Warn("stored state unreadable, using defaults", slog.String("err", err.Error()))
		return config.DefaultState(r.Now()), nil
	}
	return state, nil
}

func (r *Reporter) loadMapped(ctx context.Context, c engine.Category, doc config.Document, fallback []engine.Record) ([]engine.Record, error) {
	rows, err := r.store.LoadDataset(ctx, c)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = fallback
	}
	return engine.MapRows(rows, doc.Mapping(c)), nil
}

// LoadInputs loads configuration, state and all seven datasets, applies
// the field mappings, and filters the four raw categories down to the
// active product and period. Categories that have never been uploaded
// fall back to the sample datasets.
func (r *Reporter) LoadInputs(ctx context.Context) (*Inputs, error) {
	doc, err := r.LoadConfig(ctx)
	if err != nil {
		return nil, err
	}
	state, err := r.LoadState(ctx)
	if err != nil {
		return nil, err
	}

	paid, err := r.loadMapped(ctx, engine.CategoryPaid, doc, SamplePaid())
	if err != nil {
		return nil, err
	}
	landing, err := r.loadMapped(ctx, engine.CategoryLanding, doc, SampleLanding())
	if err != nil {
		return nil, err
	}
	web, err := r.loadMapped(ctx, engine.CategoryWeb, doc, SampleWeb())
	if err != nil {
		return nil, err
	}
	crm, err := r.loadMapped(ctx, engine.CategoryCRM, doc, SampleCRM())
	if err != nil {
		return nil, err
	}
	biz, err := r.loadMapped(ctx, engine.CategoryBusiness, doc, nil)
	if err != nil {
		return nil, err
	}
	mktTotals, err := r.loadMapped(ctx, engine.CategoryMktTotals, doc, nil)
	if err != nil {
		return nil, err
	}
	mktDetail, err := r.loadMapped(ctx, engine.CategoryMktDetail, doc, nil)
	if err != nil {
		return nil, err
	}

	in := &Inputs{
		Config:    doc,
		State:     state,
		BizTotals: biz,
		MktTotals: mktTotals,
		MktDetail: mktDetail,
		Channels:  channelList(paid),
	}

	sel := state.Period
	for _, row := range paid {
		if row.Field("product") != state.Product || !engine.InPeriod(row.Field("date"), sel) {
			continue
		}
		// The channel filter only applies to the marketing view.
		if state.Mode == config.ModeMarketing && state.Channel != config.AllChannels && row.Field("channel") != state.Channel {
			continue
		}
		in.Paid = append(in.Paid, row)
	}
	for _, row := range landing {
		if row.Field("product") == state.Product && engine.InPeriod(row.Field("date"), sel) {
			in.Landing = append(in.Landing, row)
		}
	}
	for _, row := range web {
		if row.Field("product") == state.Product && engine.InPeriod(row.Field("date"), sel) {
			in.Web = append(in.Web, row)
		}
	}
	for _, row := range crm {
		if row.Field("product") == state.Product && engine.InPeriod(row.Field("first_contact_date"), sel) {
			in.CRM = append(in.CRM, row)
		}
	}
	return in, nil
}

func channelList(paid []engine.Record) []string {
	seen := make(map[string]bool)
	var channels []string
	for _, r := range paid {
		c := r.Field("channel")
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		channels = append(channels, c)
	}
	return channels
}

// =============================================================================
// SNAPSHOT - One full recomputation
// =============================================================================

// Snapshot is the complete derived output for the current selection.
// It is ephemeral: recomputed on every dependency change, never stored.
type Snapshot struct {
	Product   string
	Period    engine.Selector
	PeriodKey string

	Paid  metrics.PaidMetrics
	Pages []metrics.PageMetrics
	Web   metrics.WebMetrics
	CRM   metrics.CRMMetrics

	Marketing MarketingOverview
	Business  BusinessOverview

	Funnel  metrics.FunnelTable
	Trend   []metrics.TrendPoint
	Sources []metrics.ChannelSource

	Channels []string
}

// Snapshot recomputes everything from the current store contents.
func (r *Reporter) Snapshot(ctx context.Context) (*Snapshot, error) {
	in, err := r.LoadInputs(ctx)
	if err != nil {
		return nil, err
	}
	return BuildSnapshot(in), nil
}

// BuildSnapshot derives all metric objects and displayed KPI values
// from already-loaded inputs. Pure: same inputs, same snapshot.
func BuildSnapshot(in *Inputs) *Snapshot {
	paid := metrics.ComputePaid(in.Paid)
	pages := metrics.ComputeLanding(in.Landing, in.State.Weights)
	web := metrics.ComputeWeb(in.Web)
	crm := metrics.ComputeCRM(in.CRM, in.State.CLVMultiplier)

	return &Snapshot{
		Product:   in.State.Product,
		Period:    in.State.Period,
		PeriodKey: in.State.Period.Key(),
		Paid:      paid,
		Pages:     pages,
		Web:       web,
		CRM:       crm,
		Marketing: marketingOverview(in, crm),
		Business:  businessOverview(in, paid, web, crm),
		Funnel:    metrics.BuildFunnelTable(in.CRM, in.State.Period.Granularity, in.MktDetail),
		Trend:     metrics.PaidTrend(in.Paid),
		Sources:   metrics.ChannelSources(in.Paid),
		Channels:  in.Channels,
	}
}
