package engine

import (
	"faraid/internal/madhab"
	"faraid/internal/rational"
	"faraid/internal/types"
)

// facts are the counts the share stages decide on.
type facts struct {
	orig  types.Counts // normalized, before exclusion
	live  types.Counts // after exclusion
	rules madhab.Rules
	shape types.SpecialCaseKind // closed-form case, "" for none
}

// isAkdariyya matches husband, mother, grandfather and a single full sister
// with no descendant, father or full brother. Paternal siblings do not break
// the case; the grandfather excludes them.
func isAkdariyya(c types.Counts, r madhab.Rules) bool {
	return r.AkdariyyaEnabled &&
		c.Has(types.Husband) &&
		c.Has(types.Mother) &&
		c.Has(types.Grandfather) &&
		c.Get(types.FullSister) == 1 &&
		!c.HasDescendants() &&
		!c.Has(types.Father) &&
		!c.Has(types.FullBrother)
}

// isUmariyyah matches a spouse with both parents and nobody else who
// inherits. Two or more siblings, even excluded ones, already reduce the
// mother to one sixth, so they rule the case out.
func isUmariyyah(f facts) bool {
	c := f.live
	return c.HasSpouse() &&
		c.Has(types.Father) &&
		c.Has(types.Mother) &&
		!c.HasDescendants() &&
		c.AllSiblings() == 0 &&
		!c.Has(types.Grandfather) &&
		f.orig.AllSiblings() < 2
}

// isMusharraka matches the husband, the mother or maternal grandmother, two
// or more maternal siblings and at least one full sibling with no descendant
// or male ascendant. A paternal grandmother alone does not qualify.
func isMusharraka(f facts) bool {
	c := f.live
	return f.rules.MusharrakaEnabled &&
		c.Has(types.Husband) &&
		c.Any(types.Mother, types.GrandmotherMother) &&
		c.MaternalSiblings() >= 2 &&
		c.FullSiblings() >= 1 &&
		!c.HasDescendants() &&
		!c.HasMaleAscendant()
}

// detectSpecial returns the closed-form case that applies, or "".
func detectSpecial(f facts) types.SpecialCaseKind {
	switch {
	case isUmariyyah(f):
		return types.CaseUmariyyah
	case isMusharraka(f):
		return types.CaseMusharraka
	case isAkdariyya(f.live, f.rules):
		return types.CaseAkdariyya
	}
	return ""
}

// Akdariyya: the sister's half and the grandfather's sixth are pooled after
// the increase from 6 to 9 and split 2:1, so the base becomes 27.
const (
	akdariyyaAsl       = 6
	akdariyyaAwlBase   = 9
	akdariyyaFinalBase = 27
)

func akdariyyaShares(l ledger) ([]types.HeirShare, ledger) {
	shares := []types.HeirShare{
		types.NewShare(types.Husband, types.CategoryFixed, 1, rational.MustNew(9, 27), "one half (3/6), increased to 9/27"),
		types.NewShare(types.Mother, types.CategoryFixed, 1, rational.MustNew(6, 27), "one third (2/6), increased to 6/27"),
		types.NewShare(types.Grandfather, types.CategoryFixed, 1, rational.MustNew(8, 27), "one sixth pooled with the sister and split 2:1"),
		types.NewShare(types.FullSister, types.CategoryFixed, 1, rational.MustNew(4, 27), "one half pooled with the grandfather and split 2:1"),
	}
	shares[0].Original = rational.Half
	shares[1].Original = rational.Third
	shares[2].Original = rational.Sixth
	shares[3].Original = rational.Half

	l = l.special(types.CaseAkdariyya, "husband, mother, grandfather and one full sister: base 6 increases to 9, the grandfather and sister pool 4/9 and split it 2:1 over 27")
	l = l.step("Akdariyya", "husband 9/27, mother 6/27, grandfather 8/27, full sister 4/27")
	return shares, l
}

func musharrakaShares(f facts, l ledger) ([]types.HeirShare, ledger) {
	c := f.live
	shares := []types.HeirShare{
		types.NewShare(types.Husband, types.CategoryFixed, 1, rational.Half, "one half: no descendant"),
	}
	if c.Has(types.Mother) {
		shares = append(shares, types.NewShare(types.Mother, types.CategoryFixed, 1, rational.Sixth, "one sixth: several siblings"))
	} else {
		shares = append(shares, grandmothersShare(c))
	}
	n := c.MaternalSiblings() + c.FullSiblings()
	shares = append(shares, types.NewShare(types.SharedSiblings, types.CategoryFixed, n, rational.Third,
		"one third shared equally by maternal and full siblings"))

	l = l.special(types.CaseMusharraka, "full siblings share the maternal siblings' third equally (%d heads)", n)
	l = l.step("Musharraka", "husband 1/2, %s 1/6, %d siblings share 1/3", shares[1].DisplayName, n)
	return shares, l
}
