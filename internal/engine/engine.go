// Package engine computes the distribution of an estate among the heirs
// under one school's rules. A calculation runs the stages in a fixed order:
// normalize, exclude, fixed shares (or a closed-form case), increase,
// residue, return, blood relatives and treasury, then amounts.
//
// Every stage works on values and returns new ones, so an Engine is safe for
// concurrent use.
package engine

import (
	"fmt"
	"strings"

	"faraid/internal/madhab"
	"faraid/internal/rational"
	"faraid/internal/types"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DefaultCurrencyPlaces is the number of minor-unit decimal places.
const DefaultCurrencyPlaces int32 = 2

// Engine runs calculations against a madhab catalog.
type Engine struct {
	catalog madhab.Catalog
	places  int32
	log     *zap.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger for per-stage debug entries.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithCurrencyPlaces sets the minor-unit precision of amounts.
func WithCurrencyPlaces(places int32) Option {
	return func(e *Engine) {
		if places >= 0 {
			e.places = places
		}
	}
}

// WithCatalog replaces the default madhab rules.
func WithCatalog(c madhab.Catalog) Option {
	return func(e *Engine) { e.catalog = c }
}

// New creates an engine with the classical rules, two decimal places and a
// no-op logger.
func New(opts ...Option) *Engine {
	e := &Engine{
		catalog: madhab.Default(),
		places:  DefaultCurrencyPlaces,
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var defaultEngine = New()

// Calculate runs req through an engine with default options.
func Calculate(req types.Request) (*types.Result, error) {
	return defaultEngine.Calculate(req)
}

// Catalog returns the madhab catalog the engine uses.
func (e *Engine) Catalog() madhab.Catalog { return e.catalog }

// Calculate distributes the net estate of req. Failures are returned as
// *types.CalculationError wrapping types.ErrInvalidMadhab or
// types.ErrNonPositiveNetEstate.
func (e *Engine) Calculate(req types.Request) (*types.Result, error) {
	md, ok := e.catalog.Lookup(req.Madhab)
	if !ok {
		return nil, &types.CalculationError{
			Kind:     types.ErrInvalidMadhab,
			Madhab:   req.Madhab,
			Messages: []string{invalidMadhabMessage(req.Madhab)},
		}
	}
	log := e.log.With(zap.String("madhab", string(md.ID)))

	var l ledger
	in, l, msgs := normalize(req, e.places, l)
	if len(msgs) > 0 {
		log.Debug("calculation rejected", zap.Strings("messages", msgs))
		return nil, &types.CalculationError{
			Kind:       types.ErrNonPositiveNetEstate,
			Madhab:     string(md.ID),
			MadhabName: md.Name,
			Messages:   msgs,
		}
	}
	log.Debug("estate normalized",
		zap.String("net", in.net.String()),
		zap.Int("heads", in.heirs.Total()),
		zap.Int("warnings", len(l.warnings)))

	live, l := resolveBlocking(in.heirs, md.Rules, l)
	log.Debug("exclusions resolved", zap.Int("blocked", len(l.blocked)))

	f := facts{orig: in.heirs, live: live, rules: md.Rules}
	f.shape = detectSpecial(f)

	res := &types.Result{
		Madhab:     string(md.ID),
		MadhabName: md.Name,
		Estate:     in.estate,
		NetEstate:  in.net,
	}

	var shares []types.HeirShare
	if f.shape == types.CaseAkdariyya {
		shares, l = akdariyyaShares(l)
		if md.Rules.GrandfatherWithSiblings == madhab.GrandfatherBlocks {
			l = l.note("the grandfather does not exclude the sister in the Akdariyya")
		}
		res.Asl = akdariyyaAsl
		res.FinalBase = akdariyyaFinalBase
		res.AwlApplied = true
		res.AwlRatio = rational.MustNew(akdariyyaAsl, akdariyyaAwlBase)
		log.Debug("closed form resolved", zap.String("case", string(f.shape)))
	} else {
		shares, l = fixedShares(f, l)
		var b base
		shares, b, l = applyAwl(shares, l)
		res.Asl, res.FinalBase, res.AwlApplied = b.asl, b.finalBase, b.applied
		if b.applied {
			res.AwlRatio = b.ratio
		}
		log.Debug("fixed shares computed",
			zap.String("case", string(f.shape)),
			zap.Int("shares", len(shares)),
			zap.Int64("asl", b.asl),
			zap.Int64("final_base", b.finalBase))

		var matched bool
		shares, matched, l = distributeResidue(shares, f, l)
		log.Debug("residue distributed",
			zap.Bool("matched", matched),
			zap.String("remainder", remainderOf(shares).String()))

		if !matched {
			shares, res.RaddApplied, l = applyRadd(shares, md.Rules, l)
			if !res.RaddApplied {
				shares, res.BloodRelativesApplied, l = allocateDistantKin(shares, live, md.Rules, l)
			}
			shares, l = toTreasury(shares, md.Rules, l)
			log.Debug("surplus settled",
				zap.Bool("radd", res.RaddApplied),
				zap.Bool("blood_relatives", res.BloodRelativesApplied))
		}
	}

	shares = withoutEmpty(shares)
	for i := range shares {
		shares[i].DisplayName = shares[i].Kind.DisplayName(shares[i].Count)
		if u := shares[i].Fraction.MulInt(res.FinalBase); u.Den() == 1 {
			shares[i].Units = u.Num()
		} else {
			shares[i].Units = 0
		}
	}
	res.Shares = reconcile(shares, in.net, e.places)

	res.Confidence, l = confidence(res, l)
	l = l.step("Distribution", "%d shares over base %d totalling %s of %s", len(res.Shares), res.FinalBase, res.TotalFraction(), in.net)

	res.Blocked = l.blocked
	res.SpecialCases = l.cases
	res.Notes = l.notes
	res.Warnings = l.warnings
	res.Trace = l.trace

	log.Debug("calculation complete",
		zap.Int("shares", len(res.Shares)),
		zap.String("total", res.TotalAmount().String()),
		zap.Float64("confidence", res.Confidence))
	return res, nil
}

func withoutEmpty(shares []types.HeirShare) []types.HeirShare {
	out := make([]types.HeirShare, 0, len(shares))
	for _, s := range shares {
		if s.Fraction.IsPositive() {
			out = append(out, s)
		}
	}
	return out
}

func invalidMadhabMessage(raw string) string {
	ids := make([]string, 0, len(madhab.All))
	for _, id := range madhab.All {
		ids = append(ids, string(id))
	}
	return fmt.Sprintf("unknown madhab %q (valid: %s)", raw, strings.Join(ids, ", "))
}

// Amount is net times f truncated to places. Exposed for callers that
// preview a single fraction.
func Amount(net decimal.Decimal, f rational.Rational, places int32) decimal.Decimal {
	q, _ := net.Mul(decimal.NewFromInt(f.Num())).QuoRem(decimal.NewFromInt(f.Den()), places)
	return q
}
