package engine

import (
	"faraid/internal/rational"
	"faraid/internal/types"
)

// base is the outcome of the base normalizer.
type base struct {
	asl       int64
	finalBase int64
	applied   bool
	ratio     rational.Rational // factor applied to every fixed share; zero when not applied
}

// applyAwl computes the common base over the fixed shares and, when their
// units exceed it, raises the base to the unit sum and rescales every share.
func applyAwl(shares []types.HeirShare, l ledger) ([]types.HeirShare, base, ledger) {
	dens := make([]int64, 0, len(shares))
	for _, s := range shares {
		if s.Fraction.IsPositive() {
			dens = append(dens, s.Fraction.Den())
		}
	}
	asl := rational.LCMAll(dens)

	var units int64
	out := make([]types.HeirShare, len(shares))
	for i, s := range shares {
		s.Units = s.Fraction.Num() * (asl / s.Fraction.Den())
		units += s.Units
		out[i] = s
	}

	b := base{asl: asl, finalBase: asl}
	if units <= asl {
		l = l.step("Base", "common base %d, %d units allotted", asl, units)
		return out, b, l
	}

	b.finalBase = units
	b.applied = true
	b.ratio = rational.MustNew(asl, units)
	for i := range out {
		out[i].Fraction = rational.MustNew(out[i].Units, units)
	}
	l = l.special(types.CaseAwl, "base increased from %d to %d", asl, units)
	l = l.step("Increase", "units (%d) exceed the base (%d); the base becomes %d", units, asl, units)
	return out, b, l
}
