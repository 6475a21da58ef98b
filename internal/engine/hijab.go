package engine

import (
	"faraid/internal/madhab"
	"faraid/internal/types"
)

// Reason codes recorded on blocked heirs.
const (
	ReasonFatherExcludesGrandfather        types.ReasonCode = "father_excludes_grandfather"
	ReasonMotherExcludesGrandmothers       types.ReasonCode = "mother_excludes_grandmothers"
	ReasonFatherExcludesPaternalGrandma    types.ReasonCode = "father_excludes_paternal_grandmother"
	ReasonSonExcludesGrandchildren         types.ReasonCode = "son_excludes_grandchildren"
	ReasonDaughtersCompleteTwoThirds       types.ReasonCode = "daughters_complete_two_thirds"
	ReasonMaleLineExcludesSiblings         types.ReasonCode = "male_descendant_or_father_excludes_siblings"
	ReasonGrandfatherExcludesSiblings      types.ReasonCode = "grandfather_excludes_siblings"
	ReasonExcludesMaternalSiblings         types.ReasonCode = "descendant_or_male_ascendant_excludes_maternal_siblings"
	ReasonFullBrotherExcludesPaternal      types.ReasonCode = "full_brother_excludes_paternal_siblings"
	ReasonFullSistersCompleteTwoThirds     types.ReasonCode = "full_sisters_complete_two_thirds"
	ReasonResiduarySisterExcludesPaternal  types.ReasonCode = "sister_residuary_with_daughters_excludes_paternal_siblings"
	ReasonCloserResiduaryExcludesDistant   types.ReasonCode = "closer_residuary_excludes_distant"
	ReasonFullNephewExcludesDistant        types.ReasonCode = "full_nephew_excludes_distant"
	ReasonPaternalNephewExcludesDistant    types.ReasonCode = "paternal_nephew_excludes_distant"
	ReasonFullUncleExcludesDistant         types.ReasonCode = "full_uncle_excludes_distant"
	ReasonPaternalUncleExcludesDistant     types.ReasonCode = "paternal_uncle_excludes_distant"
	ReasonFullCousinExcludesPaternalCousin types.ReasonCode = "full_cousin_excludes_paternal_cousin"
)

var (
	fullAndPaternalSiblings = []types.Kind{types.FullBrother, types.FullSister, types.PaternalBrother, types.PaternalSister}
	maternalSiblings        = []types.Kind{types.MaternalBrother, types.MaternalSister}
	paternalSiblings        = []types.Kind{types.PaternalBrother, types.PaternalSister}

	// distantResiduaries is the residuary tail in order of precedence.
	distantResiduaries = []types.Kind{
		types.FullNephew, types.PaternalNephew,
		types.FullUncle, types.PaternalUncle,
		types.FullCousin, types.PaternalCousin,
	}
)

// blockRule zeroes targets when applies holds. Rules run in order and each
// sees the counts left by the ones before it. When narrow is set it picks the
// targets for the counts at hand instead.
type blockRule struct {
	code    types.ReasonCode
	applies func(c types.Counts, r madhab.Rules) bool
	blocker func(c types.Counts) types.Kind
	targets []types.Kind
	narrow  func(c types.Counts, r madhab.Rules) []types.Kind
}

func (b blockRule) targetsFor(c types.Counts, r madhab.Rules) []types.Kind {
	if b.narrow != nil {
		return b.narrow(c, r)
	}
	return b.targets
}

func present(k types.Kind) func(types.Counts, madhab.Rules) bool {
	return func(c types.Counts, _ madhab.Rules) bool { return c.Has(k) }
}

func is(k types.Kind) func(types.Counts) types.Kind {
	return func(types.Counts) types.Kind { return k }
}

// firstOf returns the first present kind of ks.
func firstOf(ks ...types.Kind) func(types.Counts) types.Kind {
	return func(c types.Counts) types.Kind {
		for _, k := range ks {
			if c.Has(k) {
				return k
			}
		}
		return ks[0]
	}
}

// residuaryWithAnother reports a sister who inherits the residue alongside
// daughters or son's daughters.
func residuaryWithAnother(c types.Counts) bool {
	return c.HasFemaleDescendants() && c.Any(types.FullSister, types.PaternalSister)
}

var blockRules = buildBlockRules()

func buildBlockRules() []blockRule {
	rules := []blockRule{
		{
			code:    ReasonFatherExcludesGrandfather,
			applies: present(types.Father),
			blocker: is(types.Father),
			targets: []types.Kind{types.Grandfather},
		},
		{
			code:    ReasonMotherExcludesGrandmothers,
			applies: present(types.Mother),
			blocker: is(types.Mother),
			targets: []types.Kind{types.GrandmotherMother, types.GrandmotherFather},
		},
		{
			code:    ReasonFatherExcludesPaternalGrandma,
			applies: present(types.Father),
			blocker: is(types.Father),
			targets: []types.Kind{types.GrandmotherFather},
		},
		{
			code:    ReasonSonExcludesGrandchildren,
			applies: present(types.Son),
			blocker: is(types.Son),
			targets: []types.Kind{types.Grandson, types.Granddaughter},
		},
		{
			code: ReasonDaughtersCompleteTwoThirds,
			applies: func(c types.Counts, _ madhab.Rules) bool {
				return c.Get(types.Daughter) >= 2 && !c.Has(types.Grandson)
			},
			blocker: is(types.Daughter),
			targets: []types.Kind{types.Granddaughter},
		},
		{
			code: ReasonMaleLineExcludesSiblings,
			applies: func(c types.Counts, _ madhab.Rules) bool {
				return c.Any(types.Son, types.Grandson, types.Father)
			},
			blocker: firstOf(types.Son, types.Grandson, types.Father),
			targets: fullAndPaternalSiblings,
		},
		{
			// In the Akdariyya the grandfather keeps the full sister in under
			// every school but still excludes paternal siblings.
			code: ReasonGrandfatherExcludesSiblings,
			applies: func(c types.Counts, r madhab.Rules) bool {
				return c.Has(types.Grandfather) &&
					(r.GrandfatherWithSiblings == madhab.GrandfatherBlocks || isAkdariyya(c, r))
			},
			blocker: is(types.Grandfather),
			targets: fullAndPaternalSiblings,
			narrow: func(c types.Counts, r madhab.Rules) []types.Kind {
				if isAkdariyya(c, r) {
					return paternalSiblings
				}
				return fullAndPaternalSiblings
			},
		},
		{
			code: ReasonExcludesMaternalSiblings,
			applies: func(c types.Counts, _ madhab.Rules) bool {
				return c.HasDescendants() || c.HasMaleAscendant()
			},
			blocker: firstOf(types.Son, types.Daughter, types.Grandson, types.Granddaughter, types.Father, types.Grandfather),
			targets: maternalSiblings,
		},
		{
			code:    ReasonFullBrotherExcludesPaternal,
			applies: present(types.FullBrother),
			blocker: is(types.FullBrother),
			targets: paternalSiblings,
		},
		{
			code: ReasonFullSistersCompleteTwoThirds,
			applies: func(c types.Counts, _ madhab.Rules) bool {
				return c.Get(types.FullSister) >= 2 && !c.Has(types.PaternalBrother) && !c.HasFemaleDescendants()
			},
			blocker: is(types.FullSister),
			targets: []types.Kind{types.PaternalSister},
		},
		{
			code: ReasonResiduarySisterExcludesPaternal,
			applies: func(c types.Counts, _ madhab.Rules) bool {
				return c.Has(types.FullSister) && c.HasFemaleDescendants()
			},
			blocker: is(types.FullSister),
			targets: paternalSiblings,
		},
		{
			code: ReasonCloserResiduaryExcludesDistant,
			applies: func(c types.Counts, _ madhab.Rules) bool {
				return c.Any(types.Son, types.Grandson, types.Father, types.Grandfather, types.FullBrother, types.PaternalBrother) ||
					residuaryWithAnother(c)
			},
			blocker: firstOf(types.Son, types.Grandson, types.Father, types.Grandfather,
				types.FullBrother, types.PaternalBrother, types.FullSister, types.PaternalSister),
			targets: distantResiduaries,
		},
	}

	chain := []types.ReasonCode{
		ReasonFullNephewExcludesDistant,
		ReasonPaternalNephewExcludesDistant,
		ReasonFullUncleExcludesDistant,
		ReasonPaternalUncleExcludesDistant,
		ReasonFullCousinExcludesPaternalCousin,
	}
	for i, code := range chain {
		k := distantResiduaries[i]
		rules = append(rules, blockRule{
			code:    code,
			applies: present(k),
			blocker: is(k),
			targets: distantResiduaries[i+1:],
		})
	}
	return rules
}

// resolveBlocking applies every rule in order and returns the surviving
// counts. It depends only on its arguments.
func resolveBlocking(c types.Counts, r madhab.Rules, l ledger) (types.Counts, ledger) {
	for _, rule := range blockRules {
		if !rule.applies(c, r) {
			continue
		}
		by := rule.blocker(c)
		zeroed := false
		for _, t := range rule.targetsFor(c, r) {
			if !c.Has(t) {
				continue
			}
			c = c.With(t, 0)
			zeroed = true
			l = l.block(t, by, rule.code)
			l = l.step("Exclusion", "%s excluded by %s (%s)", t.Name(), by.Name(), rule.code)
		}
		if zeroed && rule.code == ReasonGrandfatherExcludesSiblings &&
			r.GrandfatherWithSiblings == madhab.GrandfatherBlocks && !isAkdariyya(c, r) {
			l = l.note("in this school the grandfather excludes full and paternal siblings as the father does")
		}
	}
	return c, l
}
