package engine

import (
	"sort"

	"faraid/internal/types"

	"github.com/shopspring/decimal"
)

// reconcile converts fractions into amounts of net truncated to places, then
// hands out the residual one minor unit at a time to the largest amounts
// first, ties by kind order, so that the amounts add up to net exactly.
func reconcile(shares []types.HeirShare, net decimal.Decimal, places int32) []types.HeirShare {
	out := append([]types.HeirShare(nil), shares...)
	if len(out) == 0 {
		return out
	}

	sum := decimal.Zero
	for i := range out {
		out[i].Amount = Amount(net, out[i].Fraction, places)
		sum = sum.Add(out[i].Amount)
	}

	unit := decimal.New(1, -places)
	residual := net.Sub(sum)
	if residual.IsPositive() {
		order := make([]int, len(out))
		for i := range order {
			order[i] = i
		}
		sort.SliceStable(order, func(a, b int) bool {
			x, y := out[order[a]], out[order[b]]
			if !x.Amount.Equal(y.Amount) {
				return x.Amount.GreaterThan(y.Amount)
			}
			return x.Kind < y.Kind
		})
		steps := residual.Div(unit).IntPart()
		for n := int64(0); n < steps; n++ {
			i := order[n%int64(len(order))]
			out[i].Amount = out[i].Amount.Add(unit)
		}
	}

	for i := range out {
		if out[i].Count > 0 {
			out[i].AmountPerHead = out[i].Amount.DivRound(decimal.NewFromInt(int64(out[i].Count)), places)
		}
	}
	return out
}
