package types

import (
	"encoding/json"
	"fmt"
)

// Counts maps each input kind to a head count. It is an array, so assignment
// copies it and no stage can mutate a caller's counts.
type Counts [NumHeirKinds]int

// CountsFromMap builds Counts from identifier keys. Unknown keys and group
// kinds are rejected; negative values are kept for the normalizer to clamp.
func CountsFromMap(m map[string]int) (Counts, error) {
	var c Counts
	for id, n := range m {
		k, err := ParseKind(id)
		if err != nil {
			return Counts{}, err
		}
		if !k.IsInput() {
			return Counts{}, fmt.Errorf("heir kind %q cannot be supplied as input", id)
		}
		c[k] = n
	}
	return c, nil
}

// Get returns the count for k, zero for group kinds.
func (c Counts) Get(k Kind) int {
	if !k.IsInput() {
		return 0
	}
	return c[k]
}

// Has reports a positive count for k.
func (c Counts) Has(k Kind) bool { return c.Get(k) > 0 }

// With returns a copy with k set to n.
func (c Counts) With(k Kind, n int) Counts {
	if k.IsInput() {
		c[k] = n
	}
	return c
}

// Sum adds the counts of ks.
func (c Counts) Sum(ks ...Kind) int {
	total := 0
	for _, k := range ks {
		total += c.Get(k)
	}
	return total
}

// Any reports whether any of ks is present.
func (c Counts) Any(ks ...Kind) bool { return c.Sum(ks...) > 0 }

// Total is the number of living heads across every kind.
func (c Counts) Total() int {
	total := 0
	for _, n := range c {
		total += n
	}
	return total
}

// Present lists kinds with a positive count in enumeration order.
func (c Counts) Present() []Kind {
	var out []Kind
	for i, n := range c {
		if n > 0 {
			out = append(out, Kind(i))
		}
	}
	return out
}

// Map converts to identifier keys, omitting zero counts.
func (c Counts) Map() map[string]int {
	m := make(map[string]int)
	for i, n := range c {
		if n != 0 {
			m[Kind(i).String()] = n
		}
	}
	return m
}

// MarshalJSON renders the non-zero counts as an object.
func (c Counts) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Map())
}

// UnmarshalJSON reads an object of identifier keys.
func (c *Counts) UnmarshalJSON(b []byte) error {
	var m map[string]int
	if err := json.Unmarshal(b, &m); err != nil {
		return err
	}
	v, err := CountsFromMap(m)
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// MarshalYAML renders the non-zero counts as a mapping.
func (c Counts) MarshalYAML() (interface{}, error) {
	return c.Map(), nil
}

// UnmarshalYAML reads a mapping of identifier keys.
func (c *Counts) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var m map[string]int
	if err := unmarshal(&m); err != nil {
		return err
	}
	v, err := CountsFromMap(m)
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// Kin predicates used by the rule tables.

func (c Counts) HasDescendants() bool {
	return c.Any(Son, Daughter, Grandson, Granddaughter)
}

func (c Counts) HasMaleDescendants() bool {
	return c.Any(Son, Grandson)
}

func (c Counts) HasFemaleDescendants() bool {
	return c.Any(Daughter, Granddaughter)
}

func (c Counts) HasMaleAscendant() bool {
	return c.Any(Father, Grandfather)
}

func (c Counts) HasSpouse() bool {
	return c.Any(Husband, Wife)
}

func (c Counts) FullSiblings() int {
	return c.Sum(FullBrother, FullSister)
}

func (c Counts) PaternalSiblings() int {
	return c.Sum(PaternalBrother, PaternalSister)
}

func (c Counts) MaternalSiblings() int {
	return c.Sum(MaternalBrother, MaternalSister)
}

// AllSiblings counts siblings of every line.
func (c Counts) AllSiblings() int {
	return c.FullSiblings() + c.PaternalSiblings() + c.MaternalSiblings()
}
