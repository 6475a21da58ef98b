// Package types holds the closed heir enumeration and the value types shared by
// the engine, the comparison driver, the scenario battery and the renderers.
// It has no dependency on any of them.
package types

import (
	"fmt"
	"sort"
	"strings"
)

// Kind identifies one heir kind. Input kinds come first; the group kinds after
// PaternalAunt only ever appear on computed shares.
type Kind int

const (
	Husband Kind = iota
	Wife
	Father
	Mother
	Grandfather
	GrandmotherMother // mother's mother
	GrandmotherFather // father's mother
	Son
	Daughter
	Grandson      // son's son
	Granddaughter // son's daughter
	FullBrother
	FullSister
	PaternalBrother
	PaternalSister
	MaternalBrother
	MaternalSister
	FullNephew     // full brother's son
	PaternalNephew // paternal brother's son
	FullUncle      // father's full brother
	PaternalUncle  // father's paternal brother
	FullCousin     // full uncle's son
	PaternalCousin // paternal uncle's son
	DaughterSon
	DaughterDaughter
	SisterChildren
	MaternalUncle
	MaternalAunt
	PaternalAunt

	// Group kinds.
	Grandmothers     // both grandmothers sharing one sixth
	MaternalSiblings // maternal brothers and sisters sharing one fixed share
	SharedSiblings   // Musharraka pool of maternal and full siblings
	Treasury         // terminal recipient of an unclaimed remainder

	kindSentinel
)

// NumHeirKinds is the number of kinds a caller may supply counts for.
const NumHeirKinds = int(Grandmothers)

// Sex drives the 2:1 residuary weighting.
type Sex int

const (
	SexNone Sex = iota
	Male
	Female
)

type kindInfo struct {
	id     string
	name   string
	plural string
	arabic string
	sex    Sex
	max    int // 0 = uncapped
}

var kindTable = [kindSentinel]kindInfo{
	Husband:           {"husband", "Husband", "Husband", "الزوج", Male, 1},
	Wife:              {"wife", "Wife", "Wives", "الزوجة", Female, 4},
	Father:            {"father", "Father", "Father", "الأب", Male, 1},
	Mother:            {"mother", "Mother", "Mother", "الأم", Female, 1},
	Grandfather:       {"grandfather", "Paternal grandfather", "Paternal grandfather", "الجد", Male, 1},
	GrandmotherMother: {"grandmother_mother", "Maternal grandmother", "Maternal grandmother", "الجدة لأم", Female, 1},
	GrandmotherFather: {"grandmother_father", "Paternal grandmother", "Paternal grandmother", "الجدة لأب", Female, 1},
	Son:               {"son", "Son", "Sons", "الابن", Male, 0},
	Daughter:          {"daughter", "Daughter", "Daughters", "البنت", Female, 0},
	Grandson:          {"grandson", "Son's son", "Son's sons", "ابن الابن", Male, 0},
	Granddaughter:     {"granddaughter", "Son's daughter", "Son's daughters", "بنت الابن", Female, 0},
	FullBrother:       {"full_brother", "Full brother", "Full brothers", "الأخ الشقيق", Male, 0},
	FullSister:        {"full_sister", "Full sister", "Full sisters", "الأخت الشقيقة", Female, 0},
	PaternalBrother:   {"paternal_brother", "Paternal half-brother", "Paternal half-brothers", "الأخ لأب", Male, 0},
	PaternalSister:    {"paternal_sister", "Paternal half-sister", "Paternal half-sisters", "الأخت لأب", Female, 0},
	MaternalBrother:   {"maternal_brother", "Maternal half-brother", "Maternal half-brothers", "الأخ لأم", Male, 0},
	MaternalSister:    {"maternal_sister", "Maternal half-sister", "Maternal half-sisters", "الأخت لأم", Female, 0},
	FullNephew:        {"full_nephew", "Full brother's son", "Full brother's sons", "ابن الأخ الشقيق", Male, 0},
	PaternalNephew:    {"paternal_nephew", "Paternal brother's son", "Paternal brother's sons", "ابن الأخ لأب", Male, 0},
	FullUncle:         {"full_uncle", "Full paternal uncle", "Full paternal uncles", "العم الشقيق", Male, 0},
	PaternalUncle:     {"paternal_uncle", "Half paternal uncle", "Half paternal uncles", "العم لأب", Male, 0},
	FullCousin:        {"full_cousin", "Full uncle's son", "Full uncle's sons", "ابن العم الشقيق", Male, 0},
	PaternalCousin:    {"paternal_cousin", "Half uncle's son", "Half uncle's sons", "ابن العم لأب", Male, 0},
	DaughterSon:       {"daughter_son", "Daughter's son", "Daughter's sons", "ابن البنت", Male, 0},
	DaughterDaughter:  {"daughter_daughter", "Daughter's daughter", "Daughter's daughters", "بنت البنت", Female, 0},
	SisterChildren:    {"sister_children", "Sister's child", "Sister's children", "أولاد الأخت", SexNone, 0},
	MaternalUncle:     {"maternal_uncle", "Maternal uncle", "Maternal uncles", "الخال", Male, 0},
	MaternalAunt:      {"maternal_aunt", "Maternal aunt", "Maternal aunts", "الخالة", Female, 0},
	PaternalAunt:      {"paternal_aunt", "Paternal aunt", "Paternal aunts", "العمة", Female, 0},
	Grandmothers:      {"grandmothers", "Grandmother", "Grandmothers", "الجدات", Female, 0},
	MaternalSiblings:  {"maternal_siblings", "Maternal sibling", "Maternal siblings", "الإخوة لأم", SexNone, 0},
	SharedSiblings:    {"shared_siblings", "Shared sibling", "Maternal and full siblings (shared)", "الإخوة لأم والأشقاء", SexNone, 0},
	Treasury:          {"treasury", "Public treasury", "Public treasury", "بيت المال", SexNone, 0},
}

var kindByID = func() map[string]Kind {
	m := make(map[string]Kind, len(kindTable))
	for k := Kind(0); k < kindSentinel; k++ {
		m[kindTable[k].id] = k
	}
	return m
}()

// InputKinds lists the kinds a caller may supply, in enumeration order.
func InputKinds() []Kind {
	out := make([]Kind, NumHeirKinds)
	for i := range out {
		out[i] = Kind(i)
	}
	return out
}

// ParseKind resolves an identifier such as "full_sister".
func ParseKind(id string) (Kind, error) {
	k, ok := kindByID[strings.ToLower(strings.TrimSpace(id))]
	if !ok {
		return 0, fmt.Errorf("unknown heir kind %q", id)
	}
	return k, nil
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool { return k >= 0 && k < kindSentinel }

// IsInput reports whether callers may supply a count for k.
func (k Kind) IsInput() bool { return k >= 0 && int(k) < NumHeirKinds }

// String returns the stable identifier.
func (k Kind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindTable[k].id
}

// Name returns the English singular name.
func (k Kind) Name() string {
	if !k.Valid() {
		return k.String()
	}
	return kindTable[k].name
}

// DisplayName picks the singular or plural English name for count heads.
func (k Kind) DisplayName(count int) string {
	if !k.Valid() {
		return k.String()
	}
	if count > 1 {
		return kindTable[k].plural
	}
	return kindTable[k].name
}

// ArabicName returns the classical Arabic term.
func (k Kind) ArabicName() string {
	if !k.Valid() {
		return k.String()
	}
	return kindTable[k].arabic
}

// Sex returns the sex used for residuary weighting.
func (k Kind) Sex() Sex {
	if !k.Valid() {
		return SexNone
	}
	return kindTable[k].sex
}

// Max returns the per-kind cap, 0 when uncapped.
func (k Kind) Max() int {
	if !k.Valid() {
		return 0
	}
	return kindTable[k].max
}

// IsSpouse reports husband or wife.
func (k Kind) IsSpouse() bool { return k == Husband || k == Wife }

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("invalid heir kind %d", int(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(b []byte) error {
	v, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// SortKinds orders kinds by enumeration order.
func SortKinds(ks []Kind) {
	sort.Slice(ks, func(i, j int) bool { return ks[i] < ks[j] })
}
