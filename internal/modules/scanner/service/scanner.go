package service

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
	"github.com/pkg/errors"

	"signal_bot/internal/metrics"
	"signal_bot/internal/models"
	"signal_bot/internal/modules/config"
	strategy "signal_bot/internal/modules/strategy/service"
	"signal_bot/pkg/logger"
)

// Deps are the collaborators of the scan loop.
type Deps struct {
	Universe    UniverseSource
	Tradability TradabilitySource
	Indicators  IndicatorSource
	Prices      PriceSource
	Sink        SignalSink
	Registry    *strategy.Registry
	Recorder    CycleRecorder // optional
}

// Scanner runs fetch, filter, tradability check and evaluation as strictly
// sequential cycles separated by a fixed pause.
type Scanner struct {
	universe    UniverseSource
	tradability TradabilitySource
	indicators  IndicatorSource
	prices      PriceSource
	sink        SignalSink
	registry    *strategy.Registry
	recorder    CycleRecorder

	filter   Filter
	interval time.Duration
	now      func() time.Time
}

func NewScanner(cfg *config.Config, d Deps) *Scanner {
	return &Scanner{
		universe:    d.Universe,
		tradability: d.Tradability,
		indicators:  d.Indicators,
		prices:      d.Prices,
		sink:        d.Sink,
		registry:    d.Registry,
		recorder:    d.Recorder,
		filter: Filter{
			ClassCode:      cfg.Filter.ClassCode,
			InstrumentType: cfg.Filter.InstrumentType,
		},
		interval: cfg.ScanInterval,
		now:      time.Now,
	}
}

// CycleReport summarises one cycle.
type CycleReport struct {
	ID        string
	StartedAt time.Time
	Duration  time.Duration

	Universe  int
	Filtered  int
	Tradable  int
	Evaluated int

	Skipped []*models.InstrumentEvalError
	Signals []models.SignalEvent

	// Err is set when the cycle was aborted before evaluation.
	Err       *models.UniverseFetchError
	Cancelled bool
}

// Run loops until ctx is cancelled. Cancellation is observed after each
// external call and during the pause; it never interrupts a call in flight.
func (s *Scanner) Run(ctx context.Context) error {
	logger.Info("[SCAN] loop started, interval=%s", s.interval)
	for {
		if ctx.Err() != nil {
			break
		}

		report := s.RunCycle(ctx)
		if report.Cancelled {
			break
		}

		t := time.NewTimer(s.interval)
		select {
		case <-ctx.Done():
			t.Stop()
		case <-t.C:
		}
	}
	logger.Info("[SCAN] loop stopped")
	return ctx.Err()
}

// RunCycle performs a single cycle. A universe or tradability failure ends
// the cycle early and is reported in Err; per-instrument failures only skip
// that instrument.
func (s *Scanner) RunCycle(ctx context.Context) (report CycleReport) {
	report = CycleReport{ID: uuid.NewString(), StartedAt: s.now()}

	span, ctx := opentracing.StartSpanFromContext(ctx, "scan.cycle")
	span.SetTag("cycle_id", report.ID)
	defer span.Finish()

	defer func() {
		report.Duration = s.now().Sub(report.StartedAt)
		s.finish(span, &report)
	}()

	call := context.WithoutCancel(ctx)

	universe, err := s.universe.GetAssets(call)
	if ctx.Err() != nil {
		report.Cancelled = true
		return report
	}
	if err != nil {
		report.Err = &models.UniverseFetchError{Stage: "universe", Err: err}
		return report
	}
	report.Universe = len(universe)

	filtered := s.filter.Apply(universe)
	report.Filtered = len(filtered)
	if len(filtered) == 0 {
		return report
	}

	tradable, err := s.tradability.CheckTradable(call, models.InstrumentIDs(filtered))
	if ctx.Err() != nil {
		report.Cancelled = true
		return report
	}
	if err != nil {
		report.Err = &models.UniverseFetchError{Stage: "tradability", Err: err}
		return report
	}

	candidates := make([]models.Instrument, 0, len(filtered))
	for _, in := range filtered {
		if tradable[in.ID] {
			candidates = append(candidates, in)
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].ID < candidates[j].ID })
	report.Tradable = len(candidates)

	for _, in := range candidates {
		err := s.evaluate(ctx, call, in, &report)
		if errors.Is(err, errCancelled) {
			report.Cancelled = true
			return report
		}
		var evalErr *models.InstrumentEvalError
		if errors.As(err, &evalErr) {
			logger.Warn("[SCAN] %s (%s) skipped: %v", in.Ticker, in.ID, evalErr)
			metrics.InstrumentErrorsTotal.Inc()
			report.Skipped = append(report.Skipped, evalErr)
		}
	}
	return report
}

func (s *Scanner) evaluate(ctx, call context.Context, in models.Instrument, report *CycleReport) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "scan.evaluate")
	span.SetTag("instrument_id", in.ID)
	span.SetTag("ticker", in.Ticker)
	defer span.Finish()
	call = opentracing.ContextWithSpan(call, span)

	entry := s.registry.GetOrCreate(in.ID, in.Ticker)

	smp, err := s.sample(ctx, call, in.ID, entry.Params)
	if err != nil {
		if !errors.Is(err, errCancelled) {
			ext.Error.Set(span, true)
		}
		return err
	}

	sig := entry.Detector.Update(smp)
	entry.LastSample = smp
	entry.HasSample = true
	report.Evaluated++

	st := entry.Detector.State()
	logger.Debug("[SCAN] %s short=%.4f long=%.4f price=%.4f zone=%s t=%d -> %s",
		in.Ticker, smp.ShortEMA, smp.LongEMA, smp.LastPrice, st.Zone, st.TimeInZone, sig)

	if !sig.Actionable() {
		return nil
	}

	ev := models.SignalEvent{
		InstrumentID: in.ID,
		Ticker:       entry.Ticker,
		Signal:       sig,
		Sample:       smp,
		ShortLength:  entry.Params.ShortLength,
		LongLength:   entry.Params.LongLength,
		Interval:     entry.Params.Interval,
		CreatedAt:    s.now(),
	}
	report.Signals = append(report.Signals, ev)
	metrics.SignalsTotal.WithLabelValues(string(sig)).Inc()
	span.SetTag("signal", string(sig))

	res := s.sink.Notify(call, ev)
	logger.Info("[SCAN] %s %s: delivered=%d failed=%d", sig, in.Ticker, res.Delivered, len(res.Failed))

	if ctx.Err() != nil {
		return errCancelled
	}
	return nil
}

func (s *Scanner) finish(span opentracing.Span, r *CycleReport) {
	// Only a completed cycle refreshes LastSeen, so only it may evict.
	if r.Err == nil && !r.Cancelled {
		if evicted := s.registry.Prune(); len(evicted) > 0 {
			logger.Info("[SCAN] evicted %d stale instruments", len(evicted))
		}
	}
	tracked := s.registry.Len()
	metrics.TrackedInstruments.Set(float64(tracked))

	result := metrics.ResultOK
	switch {
	case r.Cancelled:
		result = metrics.ResultCancelled
		logger.Info("[SCAN] cycle %s cancelled", r.ID)
	case r.Err != nil:
		result = metrics.ResultFailed
		ext.Error.Set(span, true)
		logger.Error("[SCAN] cycle %s aborted: %v", r.ID, r.Err)
	default:
		logger.Info("[SCAN] cycle %s: universe=%d filtered=%d tradable=%d evaluated=%d skipped=%d signals=%d in %s",
			r.ID, r.Universe, r.Filtered, r.Tradable, r.Evaluated, len(r.Skipped), len(r.Signals), r.Duration)
	}
	metrics.CyclesTotal.WithLabelValues(result).Inc()

	if s.recorder != nil && !r.Cancelled {
		s.recorder.RecordCycle(r.ID, r.StartedAt, r.Err == nil, tracked)
	}
}
