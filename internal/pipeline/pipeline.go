// Package pipeline runs the submission normalization and scoring phases over
// a table.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/resure-ai/resure/internal/config"
	"github.com/resure-ai/resure/internal/currency"
	"github.com/resure-ai/resure/internal/features"
	"github.com/resure-ai/resure/internal/impute"
	"github.com/resure-ai/resure/internal/model"
	"github.com/resure-ai/resure/internal/quality"
	"github.com/resure-ai/resure/internal/ratetable"
	"github.com/resure-ai/resure/internal/risk"
	"github.com/resure-ai/resure/internal/standardize"
)

// ErrMalformedTable is returned when the input is not a well-formed table.
var ErrMalformedTable = eris.New("pipeline: malformed table")

// Phase names.
const (
	PhaseNormalize = "1_normalize"
	PhaseImpute    = "2_impute"
	PhaseScore     = "3_score"
	PhaseBatch     = "4_batch"
	PhaseValidate  = "5_validate"
)

// DefaultCurrencyKeywords mark a column as monetary when its lower-cased
// name contains one of them.
var DefaultCurrencyKeywords = []string{"sum", "premium", "amount", "value", "limit"}

// Result is the output of one pipeline run.
type Result struct {
	Original *model.Table        `json:"-"`
	Table    *model.Table        `json:"table"`
	Report   *quality.Report     `json:"report"`
	Phases   []model.PhaseResult `json:"phases"`
	Degraded map[string]int      `json:"degraded"`
	Failures map[string]int      `json:"failures,omitempty"`
	Results  quality.Results     `json:"validation_results"`
}

// Pipeline normalizes, scores, and validates submission tables. It holds
// only read-only state and may be shared across goroutines.
type Pipeline struct {
	tables   *ratetable.Tables
	currency *currency.Normalizer
	std      *standardize.Standardizer
	scorer   *risk.Scorer
	workers  int
	keywords []string
	obs      Observer
	now      func() time.Time
}

// New creates a Pipeline. A nil observer discards progress.
func New(cfg config.EngineConfig, tables *ratetable.Tables, obs Observer) *Pipeline {
	if obs == nil {
		obs = nopObserver{}
	}
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	keywords := cfg.CurrencyKeywords
	if len(keywords) == 0 {
		keywords = DefaultCurrencyKeywords
	}
	lowered := make([]string, len(keywords))
	for i, k := range keywords {
		lowered[i] = strings.ToLower(k)
	}
	return &Pipeline{
		tables:   tables,
		currency: currency.New(tables),
		std:      standardize.New(tables),
		scorer:   risk.New(tables),
		workers:  workers,
		keywords: lowered,
		obs:      obs,
		now:      time.Now,
	}
}

// MonetaryColumns returns the table columns parsed as money: the standard
// monetary fields plus any column whose name contains a currency keyword.
func (p *Pipeline) MonetaryColumns(t *model.Table) []string {
	var out []string
	seen := make(map[string]bool)
	for _, c := range model.MonetaryColumns {
		if t.Has(c) {
			out = append(out, c)
			seen[c] = true
		}
	}
	for _, c := range t.Columns {
		if seen[c] {
			continue
		}
		lower := strings.ToLower(c)
		for _, k := range p.keywords {
			if strings.Contains(lower, k) {
				out = append(out, c)
				seen[c] = true
				break
			}
		}
	}
	return out
}

// Validate checks the structure of a table: non-empty unique column names
// and rows whose fields are all declared columns.
func Validate(t *model.Table) error {
	if t == nil {
		return eris.Wrap(ErrMalformedTable, "pipeline: nil table")
	}
	if _, err := model.NewTable(t.Columns, nil); err != nil {
		return eris.Wrapf(ErrMalformedTable, "pipeline: %v", err)
	}
	declared := make(map[string]bool, len(t.Columns))
	for _, c := range t.Columns {
		declared[c] = true
	}
	for i, r := range t.Rows {
		if r == nil {
			return eris.Wrapf(ErrMalformedTable, "pipeline: row %d is nil", i)
		}
		for k := range r {
			if !declared[k] {
				return eris.Wrapf(ErrMalformedTable, "pipeline: row %d has undeclared column %q", i, k)
			}
		}
	}
	return nil
}

// Run pushes a table through every phase and returns the scored copy with
// its cleaning report. The input table is not modified. Field-level problems
// are degraded and counted; only a malformed table or a cancelled context
// returns an error.
func (p *Pipeline) Run(ctx context.Context, in *model.Table) (*Result, error) {
	if err := Validate(in); err != nil {
		return nil, err
	}

	log := zap.L().With(zap.Int("rows", in.Len()))
	log.Info("pipeline: starting run")

	t := in.Clone()
	stats := newStats()
	res := &Result{Original: in, Table: t}

	trackPhase := func(name string, fn func() error) error {
		if err := ctx.Err(); err != nil {
			return eris.Wrapf(err, "pipeline: %s", name)
		}
		before := stats.Degraded()
		start := time.Now()
		fnErr := fn()
		elapsed := time.Since(start)

		pr := model.PhaseResult{
			Name:     name,
			Status:   model.PhaseStatusComplete,
			Duration: elapsed.Milliseconds(),
			Degraded: diff(before, stats.Degraded()),
		}
		if fnErr != nil {
			pr.Status = model.PhaseStatusFailed
			pr.Error = fnErr.Error()
			log.Error("pipeline: phase failed", zap.String("phase", name), zap.Error(fnErr))
		} else {
			log.Info("pipeline: phase complete",
				zap.String("phase", name),
				zap.Int64("duration_ms", pr.Duration),
			)
		}
		res.Phases = append(res.Phases, pr)
		p.obs.PhaseDone(name, t.Len(), elapsed, fnErr)
		return fnErr
	}

	// ===== Phase 1: currency, ratios, categories, fills (row-local) =====
	monetary := p.MonetaryColumns(t)
	has := t.Has
	if err := trackPhase(PhaseNormalize, func() error {
		return p.eachRow(ctx, t, func(rec model.Record) {
			p.normalizeRow(rec, monetary, has, stats)
		})
	}); err != nil {
		return nil, err
	}

	// ===== Phase 2: median imputation (barrier) =====
	if err := trackPhase(PhaseImpute, func() error {
		for c, n := range impute.ImputeMedians(t) {
			stats.add(c, n)
			log.Debug("pipeline: imputed medians", zap.String("column", c), zap.Int("cells", n))
		}
		return nil
	}); err != nil {
		return nil, err
	}

	// ===== Phase 3: features and composite risk (row-local) =====
	for _, c := range features.Columns {
		t.EnsureColumn(c)
	}
	for _, c := range []string{
		model.FieldGeographicRiskScore, model.FieldBusinessTypeRiskScore,
		model.FieldPerilRiskScore, model.FieldCombinedRiskScore,
	} {
		t.EnsureColumn(c)
	}
	combined := make([]float64, t.Len())
	if err := trackPhase(PhaseScore, func() error {
		return p.eachRowIndex(ctx, t, func(i int, rec model.Record) {
			combined[i] = p.scoreRow(rec, stats)
		})
	}); err != nil {
		return nil, err
	}

	// ===== Phase 4: normalization, negatives, duplicates (barrier) =====
	t.EnsureColumn(model.FieldNormalizedRiskScore)
	t.EnsureColumn(model.FieldRiskCategory)
	t.EnsureColumn(model.FieldIsDuplicate)
	if err := trackPhase(PhaseBatch, func() error {
		for i, n := range risk.Normalize(combined) {
			t.Rows[i][model.FieldNormalizedRiskScore] = model.Number(n)
			t.Rows[i][model.FieldRiskCategory] = model.String(risk.Category(n))
		}
		for _, r := range t.Rows {
			res.Results.NegativeValuesFixed += quality.ClampNegatives(r)
		}
		res.Results.DuplicatesFound = quality.MarkDuplicates(t)
		return nil
	}); err != nil {
		return nil, err
	}

	// ===== Phase 5: flags and summaries (row-local) =====
	t.EnsureColumn(model.FieldQualityFlags)
	t.EnsureColumn(model.FieldValidationSummary)
	if err := trackPhase(PhaseValidate, func() error {
		return p.eachRow(ctx, t, func(rec model.Record) {
			p.isolate(rec, model.FieldQualityFlags, model.String(quality.Clean), stats, func() {
				quality.Annotate(rec)
			})
		})
	}); err != nil {
		return nil, err
	}

	tally := quality.Tally(t)
	tally.NegativeValuesFixed = res.Results.NegativeValuesFixed
	tally.DuplicatesFound = res.Results.DuplicatesFound
	res.Results = tally

	res.Degraded = stats.Degraded()
	res.Failures = stats.Failures()
	for c, n := range res.Degraded {
		p.obs.Degraded(c, n)
		log.Warn("pipeline: degraded column", zap.String("column", c), zap.Int("cells", n))
	}

	res.Report = quality.BuildReport(in, t, res.Results, p.now().UTC())
	res.Report.Degraded = res.Degraded
	res.Report.Phases = res.Phases

	log.Info("pipeline: run complete",
		zap.Int("degraded", stats.Total()),
		zap.Int("duplicates", res.Results.DuplicatesFound),
	)
	return res, nil
}

// normalizeRow parses money, coerces ratios, standardizes categories, and
// fills sentinels for one record.
func (p *Pipeline) normalizeRow(rec model.Record, monetary []string, has func(string) bool, stats *Stats) {
	for _, c := range monetary {
		p.isolate(rec, c, model.Number(0), stats, func() {
			usd, outcome := p.currency.Parse(rec.Get(c))
			if outcome.Defaulted {
				stats.degrade(c)
			}
			rec[c] = model.Number(usd)
		})
	}

	p.standardizeColumns(rec, model.GeographyColumns, has, standardize.Unknown, p.std.Geography, stats)
	p.standardizeColumns(rec, model.PerilColumns, has, standardize.Unknown, p.std.Peril, stats)
	p.standardizeColumns(rec, model.BusinessColumns, has, standardize.Other, p.std.Business, stats)

	for _, c := range impute.FillRow(rec, has) {
		stats.degrade(c)
	}

	for _, c := range model.RatioColumns {
		if !has(c) {
			continue
		}
		p.isolate(rec, c, model.Null(), stats, func() {
			v, outcome := impute.CoerceRatio(rec.Get(c))
			if outcome.Defaulted && outcome.Reason != model.ReasonNullInput {
				stats.degrade(c)
			}
			rec[c] = v
		})
	}
}

func (p *Pipeline) standardizeColumns(rec model.Record, columns []string, has func(string) bool, fallback string, fn func(model.Value) model.Resolution, stats *Stats) {
	for _, c := range columns {
		if !has(c) {
			continue
		}
		p.isolate(rec, c, model.String(fallback), stats, func() {
			r := fn(rec.Get(c))
			if r.Outcome().Defaulted {
				stats.degrade(c)
			}
			rec[c] = model.String(r.Label)
		})
	}
}

// scoreRow derives features and the composite risk score for one record.
func (p *Pipeline) scoreRow(rec model.Record, stats *Stats) float64 {
	features.ClampUnit(rec)

	var combined float64
	p.isolate(rec, model.FieldLossHistory, model.String(impute.EmptyHistory), stats, func() {
		f := features.Derive(rec)
		if f.History.Defaulted && f.History.Reason != model.ReasonNullInput {
			stats.degrade(model.FieldLossHistory)
		}
		f.Apply(rec)
	})
	p.isolate(rec, model.FieldCombinedRiskScore, model.Number(0), stats, func() {
		combined = p.scorer.Score(rec)
	})
	return combined
}

// isolate runs fn for one column of one record. A panic is logged, counted,
// and replaced by the column's fallback value.
func (p *Pipeline) isolate(rec model.Record, column string, fallback model.Value, stats *Stats, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			stats.fail(column)
			stats.degrade(column)
			rec[column] = fallback
			zap.L().Error("pipeline: column failed",
				zap.String("column", column),
				zap.String("panic", fmt.Sprint(r)),
			)
		}
	}()
	fn()
}

func (p *Pipeline) eachRow(ctx context.Context, t *model.Table, fn func(model.Record)) error {
	return p.eachRowIndex(ctx, t, func(_ int, rec model.Record) { fn(rec) })
}

// eachRowIndex runs fn over every row with at most p.workers goroutines.
// Rows are disjoint so fn needs no locking for its own record.
func (p *Pipeline) eachRowIndex(ctx context.Context, t *model.Table, fn func(int, model.Record)) error {
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for i, rec := range t.Rows {
		i, rec := i, rec
		if gCtx.Err() != nil {
			break
		}
		g.Go(func() error {
			fn(i, rec)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}
