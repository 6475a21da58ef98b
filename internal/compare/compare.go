// Package compare runs one estate through several madhabs side by side and
// tabulates where the schools disagree.
package compare

import (
	"context"
	"fmt"
	"strings"
	"time"

	"faraid/internal/logging"
	"faraid/internal/madhab"
	"faraid/internal/rational"
	"faraid/internal/types"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Calculator is the engine surface the comparison needs.
type Calculator interface {
	Calculate(req types.Request) (*types.Result, error)
}

// Outcome is one madhab's calculation. Exactly one of Result and Err is set.
type Outcome struct {
	Madhab madhab.ID
	Result *types.Result
	Err    error
}

// Row is one heir kind across madhabs. A madhab missing from Fractions gave
// the kind nothing.
type Row struct {
	Kind      types.Kind
	Fractions map[madhab.ID]rational.Rational
	Amounts   map[madhab.ID]decimal.Decimal
	Differs   bool
}

// Comparison is the side-by-side view.
type Comparison struct {
	ID          string
	Madhabs     []madhab.ID
	Outcomes    []Outcome
	Rows        []Row
	Differences []string
	Duration    time.Duration
}

// Run calculates the same estate and heirs under each id (every madhab when
// none are given). A failing madhab is recorded on its Outcome; Run itself
// only fails when ctx is done.
func Run(ctx context.Context, calc Calculator, estate types.Estate, heirs types.Counts, ids ...madhab.ID) (*Comparison, error) {
	if len(ids) == 0 {
		ids = madhab.All
	}
	cmp := &Comparison{
		ID:       uuid.NewString(),
		Madhabs:  append([]madhab.ID(nil), ids...),
		Outcomes: make([]Outcome, len(ids)),
	}
	log := logging.Get(logging.CategoryCompare).With(zap.String("comparison_id", cmp.ID))
	start := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	for i, id := range ids {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := calc.Calculate(types.Request{Madhab: string(id), Estate: estate, Heirs: heirs})
			cmp.Outcomes[i] = Outcome{Madhab: id, Result: res, Err: err}
			if err != nil {
				log.Debug("madhab failed", zap.String("madhab", string(id)), zap.Error(err))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("comparison %s: %w", cmp.ID, err)
	}

	cmp.Rows = tabulate(cmp.Outcomes)
	cmp.Differences = differences(cmp.Outcomes, cmp.Rows)
	cmp.Duration = time.Since(start)
	log.Debug("comparison complete",
		zap.Int("madhabs", len(ids)),
		zap.Int("rows", len(cmp.Rows)),
		zap.Int("differences", len(cmp.Differences)),
		zap.Duration("duration", cmp.Duration))
	return cmp, nil
}

// Outcome returns the outcome for id.
func (c *Comparison) Outcome(id madhab.ID) (Outcome, bool) {
	for _, o := range c.Outcomes {
		if o.Madhab == id {
			return o, true
		}
	}
	return Outcome{}, false
}

// Agree reports whether every successful madhab produced the same shares.
func (c *Comparison) Agree() bool { return len(c.Differences) == 0 }

func tabulate(outcomes []Outcome) []Row {
	seen := make(map[types.Kind]bool)
	var kinds []types.Kind
	for _, o := range outcomes {
		if o.Result == nil {
			continue
		}
		for _, s := range o.Result.Shares {
			if !seen[s.Kind] {
				seen[s.Kind] = true
				kinds = append(kinds, s.Kind)
			}
		}
	}
	types.SortKinds(kinds)

	rows := make([]Row, 0, len(kinds))
	for _, k := range kinds {
		row := Row{
			Kind:      k,
			Fractions: make(map[madhab.ID]rational.Rational),
			Amounts:   make(map[madhab.ID]decimal.Decimal),
		}
		var first rational.Rational
		started := false
		for _, o := range outcomes {
			if o.Result == nil {
				continue
			}
			f := rational.Zero
			if s, ok := o.Result.Share(k); ok {
				f = s.Fraction
				row.Fractions[o.Madhab] = s.Fraction
				row.Amounts[o.Madhab] = s.Amount
			}
			if !started {
				first, started = f, true
			} else if !first.Equal(f) {
				row.Differs = true
			}
		}
		rows = append(rows, row)
	}
	return rows
}

func differences(outcomes []Outcome, rows []Row) []string {
	var out []string
	for _, row := range rows {
		if !row.Differs {
			continue
		}
		parts := make([]string, 0, len(outcomes))
		for _, o := range outcomes {
			if o.Result == nil {
				continue
			}
			f, ok := row.Fractions[o.Madhab]
			if !ok {
				f = rational.Zero
			}
			parts = append(parts, fmt.Sprintf("%s %s", o.Madhab, f))
		}
		out = append(out, fmt.Sprintf("%s: %s", row.Kind.Name(), strings.Join(parts, ", ")))
	}

	flags := []struct {
		name string
		get  func(*types.Result) bool
	}{
		{"awl", func(r *types.Result) bool { return r.AwlApplied }},
		{"radd", func(r *types.Result) bool { return r.RaddApplied }},
		{"blood relatives", func(r *types.Result) bool { return r.BloodRelativesApplied }},
	}
	for _, fl := range flags {
		var on []string
		total := 0
		for _, o := range outcomes {
			if o.Result == nil {
				continue
			}
			total++
			if fl.get(o.Result) {
				on = append(on, string(o.Madhab))
			}
		}
		if len(on) > 0 && len(on) < total {
			out = append(out, fmt.Sprintf("%s applied only under %s", fl.name, strings.Join(on, ", ")))
		}
	}
	return out
}
