// Package madhab defines the four schools and the rule toggles that are the
// only place their inheritance rules differ.
package madhab

import (
	"fmt"
	"sort"
	"strings"
)

// ID identifies a school.
type ID string

const (
	Shafii  ID = "shafii"
	Hanafi  ID = "hanafi"
	Maliki  ID = "maliki"
	Hanbali ID = "hanbali"
)

// All lists the schools in display order.
var All = []ID{Shafii, Hanafi, Maliki, Hanbali}

// GrandfatherRule is how a grandfather meets full and paternal siblings.
type GrandfatherRule string

const (
	// GrandfatherBlocks: the grandfather excludes them like the father.
	GrandfatherBlocks GrandfatherRule = "blocks"
	// GrandfatherShares: he divides the residue with them (muqasama).
	GrandfatherShares GrandfatherRule = "shares"
)

// Valid reports a known toggle value.
func (g GrandfatherRule) Valid() bool {
	return g == GrandfatherBlocks || g == GrandfatherShares
}

// Rules are the per-school toggles.
type Rules struct {
	GrandfatherWithSiblings GrandfatherRule `yaml:"grandfather_with_siblings" json:"grandfather_with_siblings"`
	RaddToSpouse            bool            `yaml:"radd_to_spouse" json:"radd_to_spouse"`
	BloodRelativesEnabled   bool            `yaml:"blood_relatives_enabled" json:"blood_relatives_enabled"`
	MusharrakaEnabled       bool            `yaml:"musharraka_enabled" json:"musharraka_enabled"`
	AkdariyyaEnabled        bool            `yaml:"akdariyya_enabled" json:"akdariyya_enabled"`
}

// Madhab is a school with its display metadata.
type Madhab struct {
	ID          ID     `yaml:"id" json:"id"`
	Name        string `yaml:"name" json:"name"`
	ArabicName  string `yaml:"arabic_name" json:"arabic_name"`
	Description string `yaml:"description" json:"description"`
	Rules       Rules  `yaml:"rules" json:"rules"`
}

// Override replaces individual toggles; nil fields keep the default.
type Override struct {
	GrandfatherWithSiblings *GrandfatherRule `yaml:"grandfather_with_siblings,omitempty"`
	RaddToSpouse            *bool            `yaml:"radd_to_spouse,omitempty"`
	BloodRelativesEnabled   *bool            `yaml:"blood_relatives_enabled,omitempty"`
	MusharrakaEnabled       *bool            `yaml:"musharraka_enabled,omitempty"`
	AkdariyyaEnabled        *bool            `yaml:"akdariyya_enabled,omitempty"`
}

// Apply returns r with the override's non-nil fields substituted.
func (o Override) Apply(r Rules) Rules {
	if o.GrandfatherWithSiblings != nil {
		r.GrandfatherWithSiblings = *o.GrandfatherWithSiblings
	}
	if o.RaddToSpouse != nil {
		r.RaddToSpouse = *o.RaddToSpouse
	}
	if o.BloodRelativesEnabled != nil {
		r.BloodRelativesEnabled = *o.BloodRelativesEnabled
	}
	if o.MusharrakaEnabled != nil {
		r.MusharrakaEnabled = *o.MusharrakaEnabled
	}
	if o.AkdariyyaEnabled != nil {
		r.AkdariyyaEnabled = *o.AkdariyyaEnabled
	}
	return r
}

var defaults = map[ID]Madhab{
	Shafii: {
		ID:          Shafii,
		Name:        "Shafi'i",
		ArabicName:  "الشافعي",
		Description: "Return excludes spouses. The grandfather excludes siblings. Musharraka applies.",
		Rules: Rules{
			GrandfatherWithSiblings: GrandfatherBlocks,
			RaddToSpouse:            false,
			BloodRelativesEnabled:   true,
			MusharrakaEnabled:       true,
			AkdariyyaEnabled:        true,
		},
	},
	Hanafi: {
		ID:          Hanafi,
		Name:        "Hanafi",
		ArabicName:  "الحنفي",
		Description: "Return reaches a lone spouse. The grandfather excludes siblings. No Musharraka.",
		Rules: Rules{
			GrandfatherWithSiblings: GrandfatherBlocks,
			RaddToSpouse:            true,
			BloodRelativesEnabled:   true,
			MusharrakaEnabled:       false,
			AkdariyyaEnabled:        true,
		},
	},
	Maliki: {
		ID:          Maliki,
		Name:        "Maliki",
		ArabicName:  "المالكي",
		Description: "The grandfather shares with siblings. No return to spouses. Unclaimed remainder goes to the treasury. Musharraka applies.",
		Rules: Rules{
			GrandfatherWithSiblings: GrandfatherShares,
			RaddToSpouse:            false,
			BloodRelativesEnabled:   false,
			MusharrakaEnabled:       true,
			AkdariyyaEnabled:        true,
		},
	},
	Hanbali: {
		ID:          Hanbali,
		Name:        "Hanbali",
		ArabicName:  "الحنبلي",
		Description: "The grandfather shares with siblings. Return reaches a lone spouse. No Musharraka.",
		Rules: Rules{
			GrandfatherWithSiblings: GrandfatherShares,
			RaddToSpouse:            true,
			BloodRelativesEnabled:   true,
			MusharrakaEnabled:       false,
			AkdariyyaEnabled:        true,
		},
	},
}

// Catalog is a read-only set of schools. Safe for concurrent use.
type Catalog struct {
	byID map[ID]Madhab
}

// Default returns the catalog with the classical toggles.
func Default() Catalog {
	m := make(map[ID]Madhab, len(defaults))
	for id, md := range defaults {
		m[id] = md
	}
	return Catalog{byID: m}
}

// WithOverrides returns a copy of c with overrides applied. Unknown ids and
// invalid grandfather toggles are rejected.
func (c Catalog) WithOverrides(overrides map[string]Override) (Catalog, error) {
	m := make(map[ID]Madhab, len(c.byID))
	for id, md := range c.byID {
		m[id] = md
	}
	for raw, o := range overrides {
		id, err := ParseID(raw)
		if err != nil {
			return Catalog{}, err
		}
		if o.GrandfatherWithSiblings != nil && !o.GrandfatherWithSiblings.Valid() {
			return Catalog{}, fmt.Errorf("madhab %s: invalid grandfather_with_siblings %q (valid: blocks, shares)", id, *o.GrandfatherWithSiblings)
		}
		md := m[id]
		md.Rules = o.Apply(md.Rules)
		m[id] = md
	}
	return Catalog{byID: m}, nil
}

// Lookup resolves an identifier, case-insensitively.
func (c Catalog) Lookup(raw string) (Madhab, bool) {
	if c.byID == nil {
		c = Default()
	}
	md, ok := c.byID[ID(strings.ToLower(strings.TrimSpace(raw)))]
	return md, ok
}

// List returns every school in display order.
func (c Catalog) List() []Madhab {
	if c.byID == nil {
		c = Default()
	}
	out := make([]Madhab, 0, len(c.byID))
	for _, id := range All {
		if md, ok := c.byID[id]; ok {
			out = append(out, md)
		}
	}
	return out
}

// ParseID validates an identifier against the four schools.
func ParseID(raw string) (ID, error) {
	id := ID(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := defaults[id]; !ok {
		valid := make([]string, 0, len(All))
		for _, v := range All {
			valid = append(valid, string(v))
		}
		sort.Strings(valid)
		return "", fmt.Errorf("unknown madhab %q (valid: %s)", raw, strings.Join(valid, ", "))
	}
	return id, nil
}
