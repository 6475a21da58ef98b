package engine

import (
	"faraid/internal/types"

	"github.com/shopspring/decimal"
)

var three = decimal.NewFromInt(3)

// input is a request after clamping. It is what every later stage reads.
type input struct {
	estate types.Estate
	net    decimal.Decimal
	heirs  types.Counts
}

// normalize clamps the estate and the heir counts. Problems that can be
// corrected become warnings; a non-positive net estate is the only failure and
// is returned as messages.
func normalize(req types.Request, places int32, l ledger) (input, ledger, []string) {
	e := req.Estate
	total := nonNegative(e.Total.Round(places), "total", &l)
	funeral := nonNegative(e.Funeral.Round(places), "funeral costs", &l)
	debts := nonNegative(e.Debts.Round(places), "debts", &l)
	will := nonNegative(e.Will.Round(places), "bequest", &l)

	if funeral.GreaterThan(total) {
		l = l.warn("funeral costs %s exceed the estate %s and were reduced", funeral, total)
		funeral = total
	}
	afterFuneral := total.Sub(funeral)
	if debts.GreaterThan(afterFuneral) {
		l = l.warn("debts %s exceed what remains after funeral costs (%s) and were reduced", debts, afterFuneral)
		debts = afterFuneral
	}
	afterDebts := afterFuneral.Sub(debts)
	maxWill, _ := afterDebts.QuoRem(three, places)
	if will.GreaterThan(maxWill) {
		l = l.warn("bequest %s exceeds one third of %s and was reduced to %s", will, afterDebts, maxWill)
		will = maxWill
	}

	in := input{
		estate: types.Estate{Total: total, Funeral: funeral, Debts: debts, Will: will},
	}
	in.net = in.estate.Net()
	l = l.step("Net estate", "%s - %s (funeral) - %s (debts) - %s (bequest) = %s", total, funeral, debts, will, in.net)

	if !in.net.IsPositive() {
		return in, l, []string{"net estate is zero or negative after funeral costs, debts and bequest (" + in.net.String() + ")"}
	}

	in.heirs, l = clampHeirs(req.Heirs, l)
	return in, l, nil
}

func nonNegative(d decimal.Decimal, field string, l *ledger) decimal.Decimal {
	if d.IsNegative() {
		*l = l.warn("%s %s is negative and was treated as zero", field, d)
		return decimal.Zero
	}
	return d
}

// clampHeirs bounds every count to [0, max] and resolves the husband/wife
// conflict in favor of the husband.
func clampHeirs(c types.Counts, l ledger) (types.Counts, ledger) {
	for _, k := range types.InputKinds() {
		n := c.Get(k)
		switch {
		case n < 0:
			l = l.warn("%s count %d is negative and was treated as zero", k, n)
			c = c.With(k, 0)
		case k.Max() > 0 && n > k.Max():
			l = l.warn("%s count %d exceeds the maximum of %d", k, n, k.Max())
			c = c.With(k, k.Max())
		}
	}
	if c.Has(types.Husband) && c.Has(types.Wife) {
		l = l.warn("a husband and a wife cannot both survive the deceased; wife count was set to zero")
		c = c.With(types.Wife, 0)
	}
	return c, l
}
