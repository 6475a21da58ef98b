package engine

import (
	"faraid/internal/madhab"
	"faraid/internal/rational"
	"faraid/internal/types"
)

// distantKinClasses are the blood-relative tiers in order; the first tier
// with a member takes the remainder.
var distantKinClasses = [][]types.Kind{
	{types.DaughterSon, types.DaughterDaughter},
	{types.SisterChildren},
	{types.MaternalUncle, types.MaternalAunt},
	{types.PaternalAunt},
}

// allocateDistantKin gives a positive remainder to the nearest tier of blood
// relatives, split by plain head count.
func allocateDistantKin(shares []types.HeirShare, c types.Counts, r madhab.Rules, l ledger) ([]types.HeirShare, bool, ledger) {
	remainder := remainderOf(shares)
	if !remainder.IsPositive() || !r.BloodRelativesEnabled {
		return shares, false, l
	}
	for tier, kinds := range distantKinClasses {
		heads := c.Sum(kinds...)
		if heads == 0 {
			continue
		}
		for _, k := range kinds {
			n := c.Get(k)
			if n == 0 {
				continue
			}
			part := remainder.Mul(rational.MustNew(int64(n), int64(heads)))
			shares = append(shares, types.NewShare(k, types.CategoryDistantKin, n, part, "blood relative: remainder split by head"))
		}
		l = l.special(types.CaseBloodRelatives, "remainder %s passes to blood relatives of tier %d", remainder, tier+1)
		l = l.step("Blood relatives", "%s split among %d heads of tier %d", remainder, heads, tier+1)
		return shares, true, l
	}
	return shares, false, l
}

// toTreasury records whatever is still unclaimed against the public treasury
// so the distribution always covers the whole estate.
func toTreasury(shares []types.HeirShare, r madhab.Rules, l ledger) ([]types.HeirShare, ledger) {
	remainder := remainderOf(shares)
	if !remainder.IsPositive() {
		return shares, l
	}
	shares = append(shares, types.NewShare(types.Treasury, types.CategoryTreasury, 1, remainder, "unclaimed remainder"))
	if !r.BloodRelativesEnabled {
		l = l.note("in this school blood relatives do not inherit; the remainder goes to the public treasury")
	} else {
		l = l.note("no heir or blood relative can take the remainder; it goes to the public treasury")
	}
	l = l.special(types.CaseTreasury, "remainder %s goes to the public treasury", remainder)
	l = l.step("Treasury", "%s unclaimed", remainder)
	return shares, l
}
