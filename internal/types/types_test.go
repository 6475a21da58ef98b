package types

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"faraid/internal/rational"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestKindTableIsComplete(t *testing.T) {
	seen := map[string]bool{}
	for k := Kind(0); k < kindSentinel; k++ {
		id := k.String()
		require.NotEmpty(t, id, "kind %d has no identifier", int(k))
		require.False(t, seen[id], "duplicate identifier %q", id)
		seen[id] = true
		assert.NotEmpty(t, k.Name())
		assert.NotEmpty(t, k.ArabicName())

		back, err := ParseKind(id)
		require.NoError(t, err)
		assert.Equal(t, k, back)
	}
	assert.Equal(t, 29, NumHeirKinds)
	assert.Len(t, InputKinds(), NumHeirKinds)
}

func TestKindProperties(t *testing.T) {
	assert.Equal(t, 1, Husband.Max())
	assert.Equal(t, 4, Wife.Max())
	assert.Equal(t, 0, Son.Max())
	assert.Equal(t, Male, Son.Sex())
	assert.Equal(t, Female, Daughter.Sex())
	assert.True(t, Wife.IsSpouse())
	assert.False(t, Mother.IsSpouse())
	assert.True(t, PaternalAunt.IsInput())
	assert.False(t, Treasury.IsInput())
	assert.Equal(t, "Wives", Wife.DisplayName(2))
	assert.Equal(t, "Wife", Wife.DisplayName(1))

	_, err := ParseKind("cousin_twice_removed")
	assert.Error(t, err)
}

func TestCountsFromMap(t *testing.T) {
	c, err := CountsFromMap(map[string]int{"husband": 1, "full_sister": 2})
	require.NoError(t, err)
	assert.Equal(t, 1, c.Get(Husband))
	assert.Equal(t, 2, c.Get(FullSister))
	assert.Equal(t, 3, c.Total())
	assert.Equal(t, []Kind{Husband, FullSister}, c.Present())
	assert.Equal(t, map[string]int{"husband": 1, "full_sister": 2}, c.Map())

	_, err = CountsFromMap(map[string]int{"treasury": 1})
	assert.Error(t, err)
	_, err = CountsFromMap(map[string]int{"nobody": 1})
	assert.Error(t, err)
}

func TestCountsAreValues(t *testing.T) {
	var c Counts
	c2 := c.With(Son, 2)
	assert.Equal(t, 0, c.Get(Son))
	assert.Equal(t, 2, c2.Get(Son))
	assert.Equal(t, 0, c2.Get(Grandmothers))
}

func TestCountsPredicates(t *testing.T) {
	var c Counts
	c = c.With(Granddaughter, 1).With(Grandfather, 1).With(MaternalSister, 2).With(PaternalBrother, 1)
	assert.True(t, c.HasDescendants())
	assert.False(t, c.HasMaleDescendants())
	assert.True(t, c.HasFemaleDescendants())
	assert.True(t, c.HasMaleAscendant())
	assert.False(t, c.HasSpouse())
	assert.Equal(t, 2, c.MaternalSiblings())
	assert.Equal(t, 1, c.PaternalSiblings())
	assert.Equal(t, 3, c.AllSiblings())
}

func TestCountsEncoding(t *testing.T) {
	var c Counts
	c = c.With(Wife, 2).With(Son, 1)

	data, err := json.Marshal(c)
	require.NoError(t, err)
	assert.JSONEq(t, `{"wife":2,"son":1}`, string(data))

	var back Counts
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, c, back)

	var fromYAML struct {
		Heirs Counts `yaml:"heirs"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("heirs:\n  wife: 2\n  son: 1\n"), &fromYAML))
	assert.Equal(t, c, fromYAML.Heirs)
}

func TestEstateNet(t *testing.T) {
	e := NewEstate(100000, 5000, 10000, 20000)
	assert.Equal(t, "65000", e.Net().String())
}

func TestSharePerHead(t *testing.T) {
	s := NewShare(Daughter, CategoryFixed, 2, rational.TwoThirds, "two thirds")
	assert.True(t, s.PerHead().Equal(rational.Third))
	assert.True(t, s.Original.Equal(rational.TwoThirds))
	assert.Equal(t, "Daughters", s.DisplayName)

	empty := HeirShare{}
	assert.True(t, empty.PerHead().IsZero())
}

func TestResultHelpers(t *testing.T) {
	r := &Result{
		Shares: []HeirShare{
			NewShare(Husband, CategoryFixed, 1, rational.Quarter, ""),
			NewShare(Son, CategoryResiduary, 1, rational.MustNew(3, 4), ""),
		},
		Blocked:      []BlockedRecord{{Blocked: Grandson, BlockedBy: Son, Reason: "son_excludes_grandchildren"}},
		SpecialCases: []SpecialCase{{Kind: CaseAwl}},
	}
	assert.True(t, r.TotalFraction().Equal(rational.One))
	s, ok := r.Share(Son)
	require.True(t, ok)
	assert.Equal(t, CategoryResiduary, s.Category)
	_, ok = r.Share(Wife)
	assert.False(t, ok)
	assert.True(t, r.IsBlocked(Grandson))
	assert.True(t, r.HasSpecialCase(CaseAwl))
	assert.False(t, r.HasSpecialCase(CaseRadd))
}

func TestCalculationErrorUnwraps(t *testing.T) {
	var err error = &CalculationError{
		Kind:     ErrNonPositiveNetEstate,
		Madhab:   "shafii",
		Messages: []string{"net estate is zero"},
	}
	assert.True(t, errors.Is(err, ErrNonPositiveNetEstate))
	assert.False(t, errors.Is(err, ErrInvalidMadhab))

	var ce *CalculationError
	require.True(t, errors.As(fmt.Errorf("wrapped: %w", err), &ce))
	assert.Equal(t, "shafii", ce.Madhab)
	assert.Contains(t, err.Error(), "net estate is zero")
}
