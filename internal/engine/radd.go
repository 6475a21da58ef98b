package engine

import (
	"faraid/internal/madhab"
	"faraid/internal/rational"
	"faraid/internal/types"
)

// applyRadd returns a positive remainder to the fixed-share holders in
// proportion to their fractions. Spouses are excluded unless the school
// returns to a spouse and no other holder exists. It reports whether anyone
// received the return.
func applyRadd(shares []types.HeirShare, r madhab.Rules, l ledger) ([]types.HeirShare, bool, ledger) {
	remainder := remainderOf(shares)
	if !remainder.IsPositive() {
		return shares, false, l
	}

	var recipients []int
	for i, s := range shares {
		if !s.Kind.IsSpouse() {
			recipients = append(recipients, i)
		}
	}
	if len(recipients) == 0 && r.RaddToSpouse {
		for i, s := range shares {
			if s.Kind.IsSpouse() {
				recipients = append(recipients, i)
				l = l.note("in this school the return reaches the spouse when no other heir exists")
			}
		}
	}
	if len(recipients) == 0 {
		return shares, false, l
	}

	held := rational.Zero
	for _, i := range recipients {
		held = held.Add(shares[i].Fraction)
	}

	out := append([]types.HeirShare(nil), shares...)
	for _, i := range recipients {
		s := out[i]
		portion := remainder.Mul(s.Fraction)
		portion, _ = portion.Div(held)
		s.Fraction = s.Fraction.Add(portion)
		s.Category = types.CategoryReturned
		s.Justification += "; plus a proportional return of the surplus"
		out[i] = s
	}

	l = l.special(types.CaseRadd, "surplus %s returned to %d fixed-share holders in proportion to their shares", remainder, len(recipients))
	l = l.step("Return", "%s returned in proportion to fixed shares totalling %s", remainder, held)
	return out, true, l
}
