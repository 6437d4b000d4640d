package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/salt-sweep/internal/domain"
	"github.com/couchcryptid/salt-sweep/internal/observability"
)

// Runner orchestrates the sweep: validate, aggregate, melt, summarize, rank.
// One Runner executes one batch at a time.
type Runner struct {
	logger   *slog.Logger
	metrics  *observability.Metrics
	strict   bool
	progress func(watershed string)

	done  atomic.Int64
	total atomic.Int64
	ready atomic.Bool
}

// New creates a Runner. strict aborts the run on the first invalid watershed;
// otherwise invalid watersheds are skipped and reported. progress may be nil.
func New(logger *slog.Logger, metrics *observability.Metrics, strict bool, progress func(watershed string)) *Runner {
	return &Runner{
		logger:   logger,
		metrics:  metrics,
		strict:   strict,
		progress: progress,
	}
}

// Report is the pipeline's complete output for one run.
type Report struct {
	Table     *ResultTable
	Long      []LongRow
	Summaries []CategorySummary
	Rankings  []RankedSummary

	// Skipped lists watersheds dropped for invalid input (non-strict runs).
	// Unranked lists watersheds whose ranking was undefined.
	Skipped  []string
	Unranked []string

	GeneratedAt time.Time
}

// CheckReadiness returns nil once the run has produced its result table, or
// an error describing why results are not available yet.
func (r *Runner) CheckReadiness(_ context.Context) error {
	if !r.ready.Load() {
		return errors.New("sweep has not produced results yet")
	}
	return nil
}

// Progress reports completed and total watershed counts for the current run.
func (r *Runner) Progress() (done, total int) {
	return int(r.done.Load()), int(r.total.Load())
}

// Run executes the full sweep over the given watersheds and grid.
//
// Validation runs before the combinatorial expansion: grid schema errors are
// fatal, and watershed input errors either abort (strict) or skip that
// watershed. Ranking failures never abort; the affected watersheds are
// reported in the Report and the run succeeds.
func (r *Runner) Run(watersheds []domain.WatershedLandUse, grid domain.RateGrid) (*Report, error) {
	r.metrics.SweepRunning.Set(1)
	defer r.metrics.SweepRunning.Set(0)

	if err := grid.Validate(); err != nil {
		return nil, err
	}

	r.done.Store(0)
	r.total.Store(int64(len(watersheds)))

	valid, skipped, err := r.validateWatersheds(watersheds)
	if err != nil {
		return nil, err
	}
	if len(valid) == 0 {
		return nil, errors.New("no valid watersheds to evaluate")
	}

	r.logger.Info("sweep started",
		"watersheds", len(valid),
		"skipped", len(skipped),
		"combinations", grid.Size(),
		"strict", r.strict,
	)

	comboCount := grid.Size()
	start := time.Now()
	table, err := Aggregate(valid, grid, func(name string) {
		r.done.Add(1)
		r.metrics.WatershedsProcessed.Inc()
		r.metrics.ScenariosEvaluated.Add(float64(comboCount))
		if r.progress != nil {
			r.progress(name)
		}
	})
	if err != nil {
		return nil, err
	}
	r.metrics.StageDuration.WithLabelValues("aggregate").Observe(time.Since(start).Seconds())
	r.ready.Store(true)

	start = time.Now()
	summaries := Summarize(table)
	r.metrics.StageDuration.WithLabelValues("summarize").Observe(time.Since(start).Seconds())

	start = time.Now()
	rankings, failures := RankByMedian(summaries)
	r.metrics.StageDuration.WithLabelValues("rank").Observe(time.Since(start).Seconds())

	unranked := make([]string, 0, len(failures))
	for _, f := range failures {
		r.logger.Warn("ranking undefined, omitting watershed", "watershed", f.Watershed, "error", f.Err)
		r.metrics.RankingFailures.Inc()
		unranked = append(unranked, f.Watershed)
	}

	r.logger.Info("sweep finished",
		"rows", len(table.Rows),
		"summaries", len(summaries),
		"ranked", len(rankings),
		"unranked", len(unranked),
	)

	return &Report{
		Table:       table,
		Long:        table.Melt(),
		Summaries:   summaries,
		Rankings:    rankings,
		Skipped:     skipped,
		Unranked:    unranked,
		GeneratedAt: domain.Now(),
	}, nil
}

// validateWatersheds partitions the input into evaluable records and skipped
// identifiers. In strict mode the first invalid record aborts instead.
func (r *Runner) validateWatersheds(watersheds []domain.WatershedLandUse) ([]domain.WatershedLandUse, []string, error) {
	valid := make([]domain.WatershedLandUse, 0, len(watersheds))
	var skipped []string

	for _, w := range watersheds {
		err := w.Validate()
		if err == nil {
			valid = append(valid, w)
			continue
		}
		if r.strict || errors.Is(err, domain.ErrSchemaMismatch) {
			return nil, nil, err
		}
		r.logger.Warn("skipping watershed with invalid land use", "watershed", w.Watershed, "error", err)
		r.metrics.WatershedsSkipped.Inc()
		skipped = append(skipped, w.Watershed)
	}
	return valid, skipped, nil
}
