package engine

import (
	"fmt"

	"faraid/internal/madhab"
	"faraid/internal/rational"
	"faraid/internal/types"
)

// member is one kind inside a residuary class with its per-head weight.
type member struct {
	kind   types.Kind
	weight int64
}

// residuaryClass is one rung of the precedence list. The first class whose
// match holds takes the whole remainder.
type residuaryClass struct {
	title   string
	match   func(f facts) bool
	members []member
	// promoted marks sisters who become residuary alongside daughters; any
	// fixed entry they hold is dropped first.
	promoted types.SpecialCaseKind
}

// Residuary weights: a male takes twice a female.
const (
	male   int64 = 2
	female int64 = 1
)

func withFemaleDescendants(k types.Kind) func(facts) bool {
	return func(f facts) bool { return f.live.Has(k) && f.live.HasFemaleDescendants() }
}

var residuaryClasses = buildResiduaryClasses()

func buildResiduaryClasses() []residuaryClass {
	classes := []residuaryClass{
		{
			title:   "sons",
			match:   func(f facts) bool { return f.live.Has(types.Son) },
			members: []member{{types.Son, male}, {types.Daughter, female}},
		},
		{
			title:   "son's sons",
			match:   func(f facts) bool { return f.live.Has(types.Grandson) },
			members: []member{{types.Grandson, male}, {types.Granddaughter, female}},
		},
		{
			title:   "father",
			match:   func(f facts) bool { return f.live.Has(types.Father) },
			members: []member{{types.Father, 1}},
		},
		{
			title:   "grandfather",
			match:   func(f facts) bool { return f.live.Has(types.Grandfather) },
			members: []member{{types.Grandfather, 1}},
		},
		{
			title:   "full brothers",
			match:   func(f facts) bool { return f.live.Has(types.FullBrother) },
			members: []member{{types.FullBrother, male}, {types.FullSister, female}},
		},
		{
			title:    "full sisters with daughters",
			match:    withFemaleDescendants(types.FullSister),
			members:  []member{{types.FullSister, 1}},
			promoted: types.CaseSisterResiduary,
		},
		{
			title:   "paternal brothers",
			match:   func(f facts) bool { return f.live.Has(types.PaternalBrother) },
			members: []member{{types.PaternalBrother, male}, {types.PaternalSister, female}},
		},
		{
			title:    "paternal sisters with daughters",
			match:    withFemaleDescendants(types.PaternalSister),
			members:  []member{{types.PaternalSister, 1}},
			promoted: types.CasePaternalSisterResiduary,
		},
	}
	for _, k := range distantResiduaries {
		classes = append(classes, residuaryClass{
			title:   k.DisplayName(2),
			match:   func(f facts) bool { return f.live.Has(k) },
			members: []member{{k, 1}},
		})
	}
	return classes
}

// remainderOf is what the shares leave of the whole estate.
func remainderOf(shares []types.HeirShare) rational.Rational {
	return rational.One.Sub(types.SumFractions(shares))
}

// distributeResidue gives a positive remainder to the nearest residuary class.
// It reports whether any class matched.
func distributeResidue(shares []types.HeirShare, f facts, l ledger) ([]types.HeirShare, bool, ledger) {
	remainder := remainderOf(shares)
	if !remainder.IsPositive() {
		l = l.step("Residue", "nothing remains for residuary heirs")
		return shares, false, l
	}

	for _, class := range residuaryClasses {
		if !class.match(f) {
			continue
		}
		if class.members[0].kind == types.Grandfather && siblingsShareWithGrandfather(f) {
			shares, l = grandfatherWithSiblings(shares, f, remainder, l)
			return shares, true, l
		}
		if class.promoted != "" {
			k := class.members[0].kind
			if i := types.FindShare(shares, k); i >= 0 {
				shares = append(shares[:i:i], shares[i+1:]...)
			}
			l = l.special(class.promoted, "%s inherit the residue alongside daughters or son's daughters", k.DisplayName(2))
		}
		shares = splitResidue(shares, f.live, class.members, remainder)
		l = l.step("Residue", "%s remains and goes to the %s", remainder, class.title)
		return shares, true, l
	}

	l = l.step("Residue", "%s remains with no residuary heir", remainder)
	return shares, false, l
}

// splitResidue divides amount among members by weighted head count. Members
// already holding a fixed share receive a top-up on the same entry.
func splitResidue(shares []types.HeirShare, c types.Counts, members []member, amount rational.Rational) []types.HeirShare {
	var total int64
	for _, m := range members {
		total += int64(c.Get(m.kind)) * m.weight
	}
	if total == 0 {
		return shares
	}
	for _, m := range members {
		n := c.Get(m.kind)
		if n == 0 {
			continue
		}
		part := amount.Mul(rational.MustNew(int64(n)*m.weight, total))
		shares = addResidue(shares, m.kind, n, part, fmt.Sprintf("residue by weight %d/%d", int64(n)*m.weight, total))
	}
	return shares
}

// addResidue appends a residuary entry, or tops up an existing fixed one.
func addResidue(shares []types.HeirShare, k types.Kind, n int, part rational.Rational, why string) []types.HeirShare {
	if !part.IsPositive() {
		return shares
	}
	if i := types.FindShare(shares, k); i >= 0 {
		s := shares[i]
		s.Fraction = s.Fraction.Add(part)
		s.Justification += "; plus the " + why
		out := append([]types.HeirShare(nil), shares...)
		out[i] = s
		return out
	}
	return append(shares, types.NewShare(k, types.CategoryResiduary, n, part, why))
}

func siblingsShareWithGrandfather(f facts) bool {
	return f.rules.GrandfatherWithSiblings == madhab.GrandfatherShares &&
		f.live.FullSiblings()+f.live.PaternalSiblings() > 0
}

var siblingMembers = []member{
	{types.FullBrother, male},
	{types.FullSister, female},
	{types.PaternalBrother, male},
	{types.PaternalSister, female},
}

// grandfatherWithSiblings lets the grandfather take the best of an equal
// division with the siblings, one third of the pool, or one sixth of the
// estate. The pool is the remainder plus any sixth he already holds.
func grandfatherWithSiblings(shares []types.HeirShare, f facts, remainder rational.Rational, l ledger) ([]types.HeirShare, ledger) {
	fixed := rational.Zero
	gi := types.FindShare(shares, types.Grandfather)
	if gi >= 0 {
		fixed = shares[gi].Fraction
	}
	pool := remainder.Add(fixed)

	weights := male
	for _, m := range siblingMembers {
		weights += int64(f.live.Get(m.kind)) * m.weight
	}

	type option struct {
		method string
		value  rational.Rational
	}
	options := []option{{"muqasama", pool.Mul(rational.MustNew(male, weights))}}
	if !f.live.HasDescendants() {
		options = append(options, option{"one third of the residue", pool.Mul(rational.Third)})
	}
	options = append(options, option{"one sixth of the estate", rational.Sixth})

	values := make([]rational.Rational, len(options))
	for i, o := range options {
		values[i] = o.value
	}
	best := rational.Max(values...)
	method := options[0].method
	for _, o := range options {
		if o.value.Equal(best) {
			method = o.method
			break
		}
	}
	take := rational.Min(best, pool)
	rest := pool.Sub(take)

	why := "best of division with the siblings, one third and one sixth: " + method
	if gi >= 0 {
		s := shares[gi]
		s.Fraction = take
		s.Justification += "; raised to the " + why
		shares = append([]types.HeirShare(nil), shares...)
		shares[gi] = s
	} else {
		shares = addResidue(shares, types.Grandfather, 1, take, why)
	}

	shares = splitResidue(shares, f.live, siblingMembers, rest)
	if !rest.IsPositive() {
		l = l.note("nothing remains for the siblings after the grandfather's share")
	}
	l = l.special(types.CaseGrandfatherWithSiblings, "grandfather takes %s by %s; siblings share %s", take, method, rest)
	l = l.note("in this school the grandfather shares with full and paternal siblings")
	l = l.step("Grandfather with siblings", "pool %s: grandfather %s (%s), siblings %s", pool, take, method, rest)
	return shares, l
}
