package engine

import (
	"faraid/internal/rational"
	"faraid/internal/types"
)

// fardRow is one line of the decision table: the first row whose condition
// holds gives the fraction.
type fardRow struct {
	when     func(f facts) bool
	fraction rational.Rational
	why      string
}

// fardEntry describes one fixed-share heir. group resolves which kind carries
// the share and how many heads it has; zero heads means the heir is absent.
type fardEntry struct {
	group func(c types.Counts) (types.Kind, int)
	rows  []fardRow
}

func single(k types.Kind) func(types.Counts) (types.Kind, int) {
	return func(c types.Counts) (types.Kind, int) { return k, c.Get(k) }
}

// pooled returns the group kind when more than one of ks is present, else the
// one that is.
func pooled(group types.Kind, ks ...types.Kind) func(types.Counts) (types.Kind, int) {
	return func(c types.Counts) (types.Kind, int) {
		var only types.Kind
		kinds := 0
		for _, k := range ks {
			if c.Has(k) {
				only = k
				kinds++
			}
		}
		switch kinds {
		case 0:
			return group, 0
		case 1:
			return only, c.Get(only)
		}
		return group, c.Sum(ks...)
	}
}

func always(facts) bool { return true }

func hasDescendants(f facts) bool { return f.live.HasDescendants() }

func one(k types.Kind) func(facts) bool {
	return func(f facts) bool { return f.live.Get(k) == 1 }
}

var fardTable = []fardEntry{
	{
		group: single(types.Husband),
		rows: []fardRow{
			{hasDescendants, rational.Quarter, "one quarter: a descendant inherits"},
			{always, rational.Half, "one half: no descendant"},
		},
	},
	{
		group: single(types.Wife),
		rows: []fardRow{
			{hasDescendants, rational.Eighth, "one eighth, shared by the wives: a descendant inherits"},
			{always, rational.Quarter, "one quarter, shared by the wives: no descendant"},
		},
	},
	{
		group: single(types.Mother),
		rows: []fardRow{
			{func(f facts) bool { return f.shape == types.CaseUmariyyah && f.live.Has(types.Husband) }, rational.Sixth,
				"one third of what remains after the husband (Umariyyah)"},
			{func(f facts) bool { return f.shape == types.CaseUmariyyah }, rational.Quarter,
				"one third of what remains after the wife (Umariyyah)"},
			{hasDescendants, rational.Sixth, "one sixth: a descendant inherits"},
			{func(f facts) bool { return f.orig.AllSiblings() >= 2 }, rational.Sixth, "one sixth: two or more siblings"},
			{always, rational.Third, "one third: no descendant and fewer than two siblings"},
		},
	},
	{
		group: single(types.Father),
		rows: []fardRow{
			{func(f facts) bool { return f.live.HasMaleDescendants() }, rational.Sixth, "one sixth: a male descendant inherits"},
			{func(f facts) bool { return f.live.HasFemaleDescendants() }, rational.Sixth, "one sixth with the residue: only female descendants"},
		},
	},
	{
		group: single(types.Grandfather),
		rows: []fardRow{
			{func(f facts) bool { return f.live.HasMaleDescendants() }, rational.Sixth, "one sixth: a male descendant inherits"},
			{func(f facts) bool { return f.live.HasFemaleDescendants() }, rational.Sixth, "one sixth with the residue: only female descendants"},
		},
	},
	{
		group: pooled(types.Grandmothers, types.GrandmotherMother, types.GrandmotherFather),
		rows: []fardRow{
			{always, rational.Sixth, "one sixth, shared when both survive"},
		},
	},
	{
		group: single(types.Daughter),
		rows: []fardRow{
			{func(f facts) bool { return f.live.Has(types.Son) }, rational.Zero, ""},
			{one(types.Daughter), rational.Half, "one half: a single daughter"},
			{always, rational.TwoThirds, "two thirds: two or more daughters"},
		},
	},
	{
		group: single(types.Granddaughter),
		rows: []fardRow{
			{func(f facts) bool { return f.live.Any(types.Son, types.Grandson) }, rational.Zero, ""},
			{func(f facts) bool { return f.live.Get(types.Daughter) == 1 }, rational.Sixth, "one sixth completing two thirds with one daughter"},
			{func(f facts) bool { return f.live.Has(types.Daughter) }, rational.Zero, ""},
			{one(types.Granddaughter), rational.Half, "one half: a single son's daughter"},
			{always, rational.TwoThirds, "two thirds: two or more son's daughters"},
		},
	},
	{
		group: single(types.FullSister),
		rows: []fardRow{
			{func(f facts) bool {
				return f.live.Has(types.FullBrother) || f.live.HasDescendants() || f.live.HasMaleAscendant()
			}, rational.Zero, ""},
			{one(types.FullSister), rational.Half, "one half: a single full sister"},
			{always, rational.TwoThirds, "two thirds: two or more full sisters"},
		},
	},
	{
		group: single(types.PaternalSister),
		rows: []fardRow{
			{func(f facts) bool {
				return f.live.Any(types.PaternalBrother, types.FullBrother) || f.live.HasDescendants() || f.live.HasMaleAscendant()
			}, rational.Zero, ""},
			{func(f facts) bool { return f.live.Get(types.FullSister) == 1 }, rational.Sixth, "one sixth completing two thirds with one full sister"},
			{func(f facts) bool { return f.live.Has(types.FullSister) }, rational.Zero, ""},
			{one(types.PaternalSister), rational.Half, "one half: a single paternal sister"},
			{always, rational.TwoThirds, "two thirds: two or more paternal sisters"},
		},
	},
	{
		group: pooled(types.MaternalSiblings, types.MaternalBrother, types.MaternalSister),
		rows: []fardRow{
			{func(f facts) bool { return f.live.HasDescendants() || f.live.HasMaleAscendant() }, rational.Zero, ""},
			{func(f facts) bool { return f.live.MaternalSiblings() == 1 }, rational.Sixth, "one sixth: a single maternal sibling"},
			{always, rational.Third, "one third shared equally: two or more maternal siblings"},
		},
	},
}

// grandmothersShare is the sixth held by whichever grandmothers survive.
func grandmothersShare(c types.Counts) types.HeirShare {
	k, n := pooled(types.Grandmothers, types.GrandmotherMother, types.GrandmotherFather)(c)
	return types.NewShare(k, types.CategoryFixed, n, rational.Sixth, "one sixth")
}

// fixedShares evaluates the decision table, or the Musharraka closed form.
func fixedShares(f facts, l ledger) ([]types.HeirShare, ledger) {
	if f.shape == types.CaseMusharraka {
		return musharrakaShares(f, l)
	}
	if f.shape == types.CaseUmariyyah {
		l = l.special(types.CaseUmariyyah, "the mother takes one third of what remains after the spouse; the father takes the rest")
	}

	var shares []types.HeirShare
	for _, e := range fardTable {
		k, n := e.group(f.live)
		if n <= 0 {
			continue
		}
		for _, row := range e.rows {
			if !row.when(f) {
				continue
			}
			if row.fraction.IsPositive() {
				shares = append(shares, types.NewShare(k, types.CategoryFixed, n, row.fraction, row.why))
				l = l.step("Fixed share", "%s: %s (%s)", k.DisplayName(n), row.fraction, row.why)
			}
			break
		}
	}
	return shares, l
}
