// Package runner fans independent (instrument, strategy) work units across a
// fixed worker pool and merges their simulation output.
package runner

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"intraday-signal-lab/internal/align"
	"intraday-signal-lab/internal/domain"
	"intraday-signal-lab/internal/observability"
	"intraday-signal-lab/internal/pricing"
	"intraday-signal-lab/internal/simulate"
	"intraday-signal-lab/internal/stats"
	"intraday-signal-lab/internal/storage"
)

// Unit is one independent simulation work unit.
type Unit struct {
	Instrument  string
	Strategy    string
	Predictions []domain.Prediction
}

// Key identifies the unit in the mark-to-market mapping.
func (u Unit) Key() string {
	return u.Instrument + ":" + u.Strategy
}

// Results is the merged output of one run.
type Results struct {
	Trades []*domain.Trade                // sorted by date, then instrument
	Stats  []*domain.StatsRecord          // one per unit, in submission order
	MTM    map[string][]*domain.MtmRecord // keyed by "instrument:strategy"
}

// Options configures a Runner.
type Options struct {
	Bars     storage.BarStore
	UpdateSL simulate.StopLossFunc // defaults to pricing.TrailingStopLoss
	Workers  int                   // defaults to GOMAXPROCS
	Location *time.Location        // trading-day timezone, defaults to UTC
	TickSize float64               // defaults to pricing.DefaultTickSize
	Logger   *logrus.Logger        // defaults to the standard logger

	// DefaultSLPct derives initial stops for signals without a stop price.
	DefaultSLPct float64
}

// Runner executes batches of simulation units.
type Runner struct {
	bars         storage.BarStore
	updateSL     simulate.StopLossFunc
	workers      int
	loc          *time.Location
	tick         float64
	defaultSLPct float64
	logger       *logrus.Logger
}

// New creates a Runner.
func New(opts Options) *Runner {
	r := &Runner{
		bars:         opts.Bars,
		updateSL:     opts.UpdateSL,
		workers:      opts.Workers,
		loc:          opts.Location,
		tick:         opts.TickSize,
		defaultSLPct: opts.DefaultSLPct,
		logger:       opts.Logger,
	}
	if r.workers <= 0 {
		r.workers = runtime.GOMAXPROCS(0)
	}
	if r.loc == nil {
		r.loc = time.UTC
	}
	if r.logger == nil {
		r.logger = logrus.StandardLogger()
	}
	return r
}

// RunBacktest simulates each unit's full prediction series against historical
// bars, using prior-day closes as the reference.
func (r *Runner) RunBacktest(ctx context.Context, units []Unit) *Results {
	return r.run(ctx, units, align.ModeBacktest)
}

// RunCloseOfBusiness re-simulates already-executed live entries for the day
// they were taken. Only entries whose entry order actually filled are
// considered; each becomes a single-decision unit pinned to the session open
// of its log date, evaluated in same-day mode.
func (r *Runner) RunCloseOfBusiness(ctx context.Context, entries []domain.LiveEntry) *Results {
	var units []Unit
	for _, e := range entries {
		if e.EntryOrderStatus != domain.EntryOrderEntered {
			continue
		}

		decisionTime, err := pricing.SessionOpenEpoch(e.LogDate, r.loc)
		if err != nil {
			r.logger.WithError(err).WithFields(logrus.Fields{
				"instrument": e.Instrument,
				"model":      e.Model,
			}).Warn("skipping entry with unresolvable log date")
			continue
		}

		units = append(units, Unit{
			Instrument: e.Instrument,
			Strategy:   e.Model,
			Predictions: []domain.Prediction{{
				Time:      decisionTime,
				Direction: e.Direction,
				Target:    e.Target,
				StopLoss:  e.StopLoss,
				TrailSL:   e.TrailSL,
			}},
		})
	}

	return r.run(ctx, units, align.ModeSameDay)
}

type unitResult struct {
	key    string
	trades []*domain.Trade
	stats  *domain.StatsRecord
	mtm    []*domain.MtmRecord
	err    error
}

func (r *Runner) run(ctx context.Context, units []Unit, mode align.Mode) *Results {
	results := &Results{MTM: make(map[string][]*domain.MtmRecord)}
	if len(units) == 0 {
		r.logger.Error("no work units supplied")
		return results
	}

	aligner := align.New(r.bars, mode, r.loc)
	sim := simulate.New(simulate.Options{UpdateSL: r.updateSL, TickSize: r.tick, DefaultSLPct: r.defaultSLPct})

	type job struct {
		unit Unit
		out  chan<- unitResult
	}

	// Each unit gets a buffered slot so workers never block on delivery; the
	// consumer pulls slots in submission order, preserving output order
	// regardless of completion order.
	outs := make([]chan unitResult, len(units))
	for i := range outs {
		outs[i] = make(chan unitResult, 1)
	}

	jobs := make(chan job)
	for w := 0; w < r.workers; w++ {
		go func() {
			for j := range jobs {
				j.out <- r.process(ctx, aligner, sim, j.unit)
			}
		}()
	}

	go func() {
		for i, u := range units {
			jobs <- job{unit: u, out: outs[i]}
		}
		close(jobs)
	}()

	for _, out := range outs {
		res := <-out
		if res.err != nil {
			// Keep whatever was collected so far; remaining units are lost.
			r.logger.WithError(res.err).Error("simulation pool failure, keeping partial results")
			observability.RecordUnitError()
			break
		}

		observability.RecordUnitProcessed()
		for _, t := range res.trades {
			observability.RecordTradeSimulated(string(t.Status))
		}
		results.Trades = append(results.Trades, res.trades...)
		results.Stats = append(results.Stats, res.stats)
		if len(res.mtm) > 0 {
			results.MTM[res.key] = res.mtm
		}
	}

	sort.SliceStable(results.Trades, func(i, j int) bool {
		a, b := results.Trades[i], results.Trades[j]
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		return a.Instrument < b.Instrument
	})

	return results
}

func (r *Runner) process(ctx context.Context, aligner *align.Aligner, sim *simulate.Simulator, u Unit) unitResult {
	recs, err := aligner.Align(ctx, u.Instrument, u.Predictions)
	if err != nil {
		return unitResult{err: fmt.Errorf("unit %s: %w", u.Key(), err)}
	}

	simRes := sim.Run(u.Instrument, u.Strategy, recs)
	return unitResult{
		key:    u.Key(),
		trades: simRes.Trades,
		stats:  stats.Compute(u.Instrument, u.Strategy, simRes.Trades),
		mtm:    simRes.MTM,
	}
}
