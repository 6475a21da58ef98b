package engine

import (
	"errors"
	"math/rand"
	"testing"

	"faraid/internal/madhab"
	"faraid/internal/rational"
	"faraid/internal/types"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// row is the part of a share the scenario tables compare.
type row struct {
	Kind     types.Kind
	Fraction string
	Category types.Category
}

func table(r *types.Result) []row {
	out := make([]row, 0, len(r.Shares))
	for _, s := range r.Shares {
		out = append(out, row{s.Kind, s.Fraction.String(), s.Category})
	}
	return out
}

func heirs(t *testing.T, m map[string]int) types.Counts {
	t.Helper()
	c, err := types.CountsFromMap(m)
	require.NoError(t, err)
	return c
}

func calc(t *testing.T, md string, net int64, m map[string]int) *types.Result {
	t.Helper()
	res, err := New().Calculate(types.Request{
		Madhab: md,
		Estate: types.NewEstate(net, 0, 0, 0),
		Heirs:  heirs(t, m),
	})
	require.NoError(t, err)
	return res
}

func amountOf(t *testing.T, r *types.Result, k types.Kind) decimal.Decimal {
	t.Helper()
	s, ok := r.Share(k)
	require.True(t, ok, "no share for %s", k)
	return s.Amount
}

func TestHusbandAndSon(t *testing.T) {
	res := calc(t, "shafii", 100000, map[string]int{"husband": 1, "son": 1})

	want := []row{
		{types.Husband, "1/4", types.CategoryFixed},
		{types.Son, "3/4", types.CategoryResiduary},
	}
	if diff := cmp.Diff(want, table(res)); diff != "" {
		t.Errorf("shares mismatch (-want +got):\n%s", diff)
	}
	assert.True(t, amountOf(t, res, types.Husband).Equal(decimal.NewFromInt(25000)))
	assert.True(t, amountOf(t, res, types.Son).Equal(decimal.NewFromInt(75000)))
	assert.False(t, res.AwlApplied)
	assert.Equal(t, int64(4), res.Asl)
	assert.Equal(t, int64(4), res.FinalBase)
	assert.Equal(t, 1.0, res.Confidence)
}

func TestUmariyyah(t *testing.T) {
	t.Run("with husband", func(t *testing.T) {
		res := calc(t, "shafii", 60000, map[string]int{"husband": 1, "father": 1, "mother": 1})
		want := []row{
			{types.Husband, "1/2", types.CategoryFixed},
			{types.Mother, "1/6", types.CategoryFixed},
			{types.Father, "1/3", types.CategoryResiduary},
		}
		if diff := cmp.Diff(want, table(res)); diff != "" {
			t.Errorf("shares mismatch (-want +got):\n%s", diff)
		}
		assert.True(t, res.HasSpecialCase(types.CaseUmariyyah))
	})

	t.Run("with wife", func(t *testing.T) {
		res := calc(t, "hanafi", 60000, map[string]int{"wife": 1, "father": 1, "mother": 1})
		want := []row{
			{types.Wife, "1/4", types.CategoryFixed},
			{types.Mother, "1/4", types.CategoryFixed},
			{types.Father, "1/2", types.CategoryResiduary},
		}
		if diff := cmp.Diff(want, table(res)); diff != "" {
			t.Errorf("shares mismatch (-want +got):\n%s", diff)
		}
		assert.True(t, res.HasSpecialCase(types.CaseUmariyyah))
	})

	t.Run("two excluded brothers still reduce the mother", func(t *testing.T) {
		res := calc(t, "shafii", 60000, map[string]int{"husband": 1, "father": 1, "mother": 1, "full_brother": 2})
		assert.False(t, res.HasSpecialCase(types.CaseUmariyyah))
		s, _ := res.Share(types.Mother)
		assert.Equal(t, "1/6", s.Fraction.String())
		assert.True(t, res.IsBlocked(types.FullBrother))
	})
}

func TestAwl(t *testing.T) {
	res := calc(t, "shafii", 80000, map[string]int{"husband": 1, "full_sister": 2, "mother": 1})

	want := []row{
		{types.Husband, "3/8", types.CategoryFixed},
		{types.Mother, "1/8", types.CategoryFixed},
		{types.FullSister, "1/2", types.CategoryFixed},
	}
	if diff := cmp.Diff(want, table(res)); diff != "" {
		t.Errorf("shares mismatch (-want +got):\n%s", diff)
	}
	assert.True(t, res.AwlApplied)
	assert.Equal(t, int64(6), res.Asl)
	assert.Equal(t, int64(8), res.FinalBase)
	assert.Equal(t, "3/4", res.AwlRatio.String())
	assert.True(t, res.HasSpecialCase(types.CaseAwl))

	husband, _ := res.Share(types.Husband)
	assert.Equal(t, int64(3), husband.Units)
	assert.Equal(t, "1/2", husband.Original.String())
	assert.InDelta(t, 0.98, res.Confidence, 1e-9)
}

func TestAkdariyyaUnderEveryMadhab(t *testing.T) {
	for _, id := range madhab.All {
		t.Run(string(id), func(t *testing.T) {
			res := calc(t, string(id), 27000, map[string]int{"husband": 1, "mother": 1, "grandfather": 1, "full_sister": 1})

			want := []row{
				{types.Husband, "1/3", types.CategoryFixed},
				{types.Mother, "2/9", types.CategoryFixed},
				{types.Grandfather, "8/27", types.CategoryFixed},
				{types.FullSister, "4/27", types.CategoryFixed},
			}
			if diff := cmp.Diff(want, table(res)); diff != "" {
				t.Errorf("shares mismatch (-want +got):\n%s", diff)
			}
			assert.True(t, res.TotalFraction().Equal(rational.One))
			assert.Equal(t, int64(6), res.Asl)
			assert.Equal(t, int64(27), res.FinalBase)
			assert.True(t, res.AwlApplied)
			assert.True(t, res.HasSpecialCase(types.CaseAkdariyya))
			assert.Empty(t, res.Blocked)

			var units []int64
			for _, s := range res.Shares {
				units = append(units, s.Units)
			}
			assert.Equal(t, []int64{9, 6, 8, 4}, units)
			assert.True(t, amountOf(t, res, types.Grandfather).Equal(decimal.NewFromInt(8000)))
		})
	}
}

func TestAkdariyyaWithPaternalSister(t *testing.T) {
	for _, id := range madhab.All {
		t.Run(string(id), func(t *testing.T) {
			res := calc(t, string(id), 27000, map[string]int{"husband": 1, "mother": 1, "grandfather": 1, "full_sister": 1, "paternal_sister": 1})

			want := []row{
				{types.Husband, "1/3", types.CategoryFixed},
				{types.Mother, "2/9", types.CategoryFixed},
				{types.Grandfather, "8/27", types.CategoryFixed},
				{types.FullSister, "4/27", types.CategoryFixed},
			}
			if diff := cmp.Diff(want, table(res)); diff != "" {
				t.Errorf("shares mismatch (-want +got):\n%s", diff)
			}
			assert.Equal(t, int64(6), res.Asl)
			assert.Equal(t, int64(27), res.FinalBase)
			assert.True(t, res.HasSpecialCase(types.CaseAkdariyya))
			assert.True(t, res.IsBlocked(types.PaternalSister))
		})
	}
}

func TestMusharrakaGrandmothers(t *testing.T) {
	t.Run("maternal grandmother stands in for the mother", func(t *testing.T) {
		res := calc(t, "shafii", 60000, map[string]int{"husband": 1, "grandmother_mother": 1, "maternal_brother": 2, "full_brother": 1})
		want := []row{
			{types.Husband, "1/2", types.CategoryFixed},
			{types.GrandmotherMother, "1/6", types.CategoryFixed},
			{types.SharedSiblings, "1/3", types.CategoryFixed},
		}
		if diff := cmp.Diff(want, table(res)); diff != "" {
			t.Errorf("shares mismatch (-want +got):\n%s", diff)
		}
		assert.True(t, res.HasSpecialCase(types.CaseMusharraka))
	})

	t.Run("paternal grandmother alone leaves the full brother out", func(t *testing.T) {
		res := calc(t, "shafii", 60000, map[string]int{"husband": 1, "grandmother_father": 1, "maternal_brother": 2, "full_brother": 1})
		want := []row{
			{types.Husband, "1/2", types.CategoryFixed},
			{types.GrandmotherFather, "1/6", types.CategoryFixed},
			{types.MaternalBrother, "1/3", types.CategoryFixed},
		}
		if diff := cmp.Diff(want, table(res)); diff != "" {
			t.Errorf("shares mismatch (-want +got):\n%s", diff)
		}
		assert.False(t, res.HasSpecialCase(types.CaseMusharraka))
		_, ok := res.Share(types.FullBrother)
		assert.False(t, ok)
		assert.True(t, res.TotalFraction().Equal(rational.One))
	})
}

func TestMusharraka(t *testing.T) {
	in := map[string]int{"husband": 1, "mother": 1, "maternal_brother": 2, "full_brother": 1}

	t.Run("shafii shares the third", func(t *testing.T) {
		res := calc(t, "shafii", 60000, in)
		want := []row{
			{types.Husband, "1/2", types.CategoryFixed},
			{types.Mother, "1/6", types.CategoryFixed},
			{types.SharedSiblings, "1/3", types.CategoryFixed},
		}
		if diff := cmp.Diff(want, table(res)); diff != "" {
			t.Errorf("shares mismatch (-want +got):\n%s", diff)
		}
		s, _ := res.Share(types.SharedSiblings)
		assert.Equal(t, 3, s.Count)
		assert.True(t, s.AmountPerHead.Equal(decimal.NewFromInt(6666).Add(decimal.New(67, -2))))
		assert.True(t, res.HasSpecialCase(types.CaseMusharraka))
	})

	t.Run("hanafi leaves the full brother out", func(t *testing.T) {
		res := calc(t, "hanafi", 60000, in)
		want := []row{
			{types.Husband, "1/2", types.CategoryFixed},
			{types.Mother, "1/6", types.CategoryFixed},
			{types.MaternalBrother, "1/3", types.CategoryFixed},
		}
		if diff := cmp.Diff(want, table(res)); diff != "" {
			t.Errorf("shares mismatch (-want +got):\n%s", diff)
		}
		assert.False(t, res.HasSpecialCase(types.CaseMusharraka))
		_, ok := res.Share(types.FullBrother)
		assert.False(t, ok)
	})
}

func TestRadd(t *testing.T) {
	res := calc(t, "shafii", 120000, map[string]int{"mother": 1, "daughter": 1})
	want := []row{
		{types.Mother, "1/4", types.CategoryReturned},
		{types.Daughter, "3/4", types.CategoryReturned},
	}
	if diff := cmp.Diff(want, table(res)); diff != "" {
		t.Errorf("shares mismatch (-want +got):\n%s", diff)
	}
	assert.True(t, res.RaddApplied)
	assert.True(t, res.HasSpecialCase(types.CaseRadd))
	assert.Equal(t, res.Asl, res.FinalBase)

	mother, _ := res.Share(types.Mother)
	assert.Equal(t, "1/6", mother.Original.String())
	assert.InDelta(t, 0.97, res.Confidence, 1e-9)
}

func TestLoneWife(t *testing.T) {
	t.Run("hanafi returns to the spouse", func(t *testing.T) {
		res := calc(t, "hanafi", 40000, map[string]int{"wife": 1})
		want := []row{{types.Wife, "1", types.CategoryReturned}}
		assert.Equal(t, want, table(res))
		assert.True(t, res.RaddApplied)
		assert.NotEmpty(t, res.Notes)
	})

	t.Run("shafii sends the rest to the treasury", func(t *testing.T) {
		res := calc(t, "shafii", 40000, map[string]int{"wife": 1})
		want := []row{
			{types.Wife, "1/4", types.CategoryFixed},
			{types.Treasury, "3/4", types.CategoryTreasury},
		}
		assert.Equal(t, want, table(res))
		assert.False(t, res.RaddApplied)
		assert.True(t, res.HasSpecialCase(types.CaseTreasury))
		assert.True(t, amountOf(t, res, types.Treasury).Equal(decimal.NewFromInt(30000)))
	})
}

func TestBloodRelatives(t *testing.T) {
	in := map[string]int{"husband": 1, "daughter_son": 1, "daughter_daughter": 1, "paternal_aunt": 3}

	res := calc(t, "shafii", 100000, in)
	want := []row{
		{types.Husband, "1/2", types.CategoryFixed},
		{types.DaughterSon, "1/4", types.CategoryDistantKin},
		{types.DaughterDaughter, "1/4", types.CategoryDistantKin},
	}
	if diff := cmp.Diff(want, table(res)); diff != "" {
		t.Errorf("shares mismatch (-want +got):\n%s", diff)
	}
	assert.True(t, res.BloodRelativesApplied)
	assert.InDelta(t, 0.95, res.Confidence, 1e-9)

	maliki := calc(t, "maliki", 100000, in)
	assert.Equal(t, []row{
		{types.Husband, "1/2", types.CategoryFixed},
		{types.Treasury, "1/2", types.CategoryTreasury},
	}, table(maliki))
	assert.False(t, maliki.BloodRelativesApplied)

	hanbali := calc(t, "hanbali", 100000, in)
	assert.Equal(t, []row{{types.Husband, "1", types.CategoryReturned}}, table(hanbali))
}

func TestNoHeirs(t *testing.T) {
	res := calc(t, "hanafi", 5000, nil)
	assert.Equal(t, []row{{types.Treasury, "1", types.CategoryTreasury}}, table(res))
	assert.Equal(t, int64(1), res.Asl)
	assert.Equal(t, int64(1), res.FinalBase)
}

func TestGrandfatherWithSiblings(t *testing.T) {
	t.Run("shafii grandfather excludes the brother", func(t *testing.T) {
		res := calc(t, "shafii", 10000, map[string]int{"grandfather": 1, "full_brother": 1})
		assert.Equal(t, []row{{types.Grandfather, "1", types.CategoryResiduary}}, table(res))
		require.Len(t, res.Blocked, 1)
		assert.Equal(t, ReasonGrandfatherExcludesSiblings, res.Blocked[0].Reason)
		assert.NotEmpty(t, res.Notes)
	})

	t.Run("hanbali divides equally with one brother", func(t *testing.T) {
		res := calc(t, "hanbali", 10000, map[string]int{"grandfather": 1, "full_brother": 1})
		want := []row{
			{types.Grandfather, "1/2", types.CategoryResiduary},
			{types.FullBrother, "1/2", types.CategoryResiduary},
		}
		if diff := cmp.Diff(want, table(res)); diff != "" {
			t.Errorf("shares mismatch (-want +got):\n%s", diff)
		}
		assert.True(t, res.HasSpecialCase(types.CaseGrandfatherWithSiblings))
	})

	t.Run("one third beats division with many brothers", func(t *testing.T) {
		res := calc(t, "maliki", 9000, map[string]int{"grandfather": 1, "full_brother": 5})
		want := []row{
			{types.Grandfather, "1/3", types.CategoryResiduary},
			{types.FullBrother, "2/3", types.CategoryResiduary},
		}
		if diff := cmp.Diff(want, table(res)); diff != "" {
			t.Errorf("shares mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("with a daughter the grandfather tops up his sixth", func(t *testing.T) {
		res := calc(t, "hanbali", 12000, map[string]int{"daughter": 1, "grandfather": 1, "full_brother": 1})
		want := []row{
			{types.Grandfather, "1/4", types.CategoryFixed},
			{types.Daughter, "1/2", types.CategoryFixed},
			{types.FullBrother, "1/4", types.CategoryResiduary},
		}
		if diff := cmp.Diff(want, table(res)); diff != "" {
			t.Errorf("shares mismatch (-want +got):\n%s", diff)
		}
		gf, _ := res.Share(types.Grandfather)
		assert.Equal(t, "1/6", gf.Original.String())
	})
}

func TestSistersWithDaughters(t *testing.T) {
	res := calc(t, "shafii", 10000, map[string]int{"daughter": 1, "full_sister": 1, "paternal_brother": 1})
	want := []row{
		{types.Daughter, "1/2", types.CategoryFixed},
		{types.FullSister, "1/2", types.CategoryResiduary},
	}
	if diff := cmp.Diff(want, table(res)); diff != "" {
		t.Errorf("shares mismatch (-want +got):\n%s", diff)
	}
	assert.True(t, res.HasSpecialCase(types.CaseSisterResiduary))
	assert.True(t, res.IsBlocked(types.PaternalBrother))

	res = calc(t, "shafii", 10000, map[string]int{"granddaughter": 2, "paternal_sister": 1})
	want = []row{
		{types.Granddaughter, "2/3", types.CategoryFixed},
		{types.PaternalSister, "1/3", types.CategoryResiduary},
	}
	if diff := cmp.Diff(want, table(res)); diff != "" {
		t.Errorf("shares mismatch (-want +got):\n%s", diff)
	}
	assert.True(t, res.HasSpecialCase(types.CasePaternalSisterResiduary))
}

func TestSonsWithDaughters(t *testing.T) {
	res := calc(t, "shafii", 48000, map[string]int{"wife": 1, "son": 1, "daughter": 2, "grandson": 1, "full_brother": 1})
	want := []row{
		{types.Wife, "1/8", types.CategoryFixed},
		{types.Son, "7/16", types.CategoryResiduary},
		{types.Daughter, "7/16", types.CategoryResiduary},
	}
	if diff := cmp.Diff(want, table(res)); diff != "" {
		t.Errorf("shares mismatch (-want +got):\n%s", diff)
	}
	d, _ := res.Share(types.Daughter)
	assert.True(t, d.AmountPerHead.Equal(decimal.NewFromInt(10500)))
	assert.True(t, res.IsBlocked(types.Grandson))
	assert.True(t, res.IsBlocked(types.FullBrother))
}

func TestInvalidMadhab(t *testing.T) {
	_, err := New().Calculate(types.Request{Madhab: "zahiri", Estate: types.NewEstate(100, 0, 0, 0)})
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrInvalidMadhab))

	var ce *types.CalculationError
	require.True(t, errors.As(err, &ce))
	assert.NotEmpty(t, ce.Messages)
	assert.Contains(t, ce.Messages[0], "zahiri")
}

func TestNonPositiveNetEstate(t *testing.T) {
	_, err := Calculate(types.Request{
		Madhab: "shafii",
		Estate: types.NewEstate(1000, 400, 600, 0),
		Heirs:  heirs(t, map[string]int{"son": 1}),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrNonPositiveNetEstate))
	assert.False(t, errors.Is(err, types.ErrInvalidMadhab))

	var ce *types.CalculationError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "Shafi'i", ce.MadhabName)
	assert.NotEmpty(t, ce.Messages)
}

func TestCurrencyPlaces(t *testing.T) {
	e := New(WithCurrencyPlaces(0))
	res, err := e.Calculate(types.Request{
		Madhab: "shafii",
		Estate: types.NewEstate(100, 0, 0, 0),
		Heirs:  heirs(t, map[string]int{"full_uncle": 3}),
	})
	require.NoError(t, err)
	s, _ := res.Share(types.FullUncle)
	assert.True(t, s.Amount.Equal(decimal.NewFromInt(100)))
	assert.True(t, s.AmountPerHead.Equal(decimal.NewFromInt(33)))
}

func TestCatalogOverride(t *testing.T) {
	shares := madhab.GrandfatherShares
	cat, err := madhab.Default().WithOverrides(map[string]madhab.Override{"shafii": {GrandfatherWithSiblings: &shares}})
	require.NoError(t, err)

	res, err := New(WithCatalog(cat)).Calculate(types.Request{
		Madhab: "shafii",
		Estate: types.NewEstate(10000, 0, 0, 0),
		Heirs:  heirs(t, map[string]int{"grandfather": 1, "full_brother": 1}),
	})
	require.NoError(t, err)
	assert.True(t, res.HasSpecialCase(types.CaseGrandfatherWithSiblings))
	assert.Empty(t, res.Blocked)
}

func TestRequestIsNotMutated(t *testing.T) {
	req := types.Request{
		Madhab: "shafii",
		Estate: types.NewEstate(1000, 0, 0, 900),
		Heirs:  heirs(t, map[string]int{"husband": 1, "wife": 2, "son": 1}),
	}
	before := req.Heirs
	_, err := Calculate(req)
	require.NoError(t, err)
	assert.Equal(t, before, req.Heirs)
	assert.True(t, req.Estate.Will.Equal(decimal.NewFromInt(900)))
}

var propertyKinds = []types.Kind{
	types.Husband, types.Wife, types.Father, types.Mother, types.Grandfather,
	types.GrandmotherMother, types.GrandmotherFather, types.Son, types.Daughter,
	types.Grandson, types.Granddaughter, types.FullBrother, types.FullSister,
	types.PaternalBrother, types.PaternalSister, types.MaternalBrother, types.MaternalSister,
	types.FullNephew, types.FullUncle, types.PaternalCousin,
	types.DaughterSon, types.SisterChildren, types.MaternalAunt, types.PaternalAunt,
}

func randomHeirs(rng *rand.Rand) types.Counts {
	var c types.Counts
	for _, k := range propertyKinds {
		// Most kinds absent so that the rarer branches get exercised.
		if rng.Intn(4) == 0 {
			c = c.With(k, 1+rng.Intn(3))
		}
	}
	return c
}

var resultOptions = cmp.Options{
	cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) }),
	cmp.Comparer(func(a, b rational.Rational) bool { return a.Equal(b) }),
}

func TestDistributionInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	e := New()

	for i := 0; i < 400; i++ {
		c := randomHeirs(rng)
		net := int64(1 + rng.Intn(1_000_000))
		for _, id := range madhab.All {
			req := types.Request{
				Madhab: string(id),
				Estate: types.Estate{Total: decimal.New(net, -2)},
				Heirs:  c,
			}
			res, err := e.Calculate(req)
			require.NoError(t, err)

			if !res.TotalFraction().Equal(rational.One) {
				t.Fatalf("%s %v: fractions sum to %s", id, c.Map(), res.TotalFraction())
			}
			if !res.TotalAmount().Equal(res.NetEstate) {
				t.Fatalf("%s %v: amounts sum to %s, net %s", id, c.Map(), res.TotalAmount(), res.NetEstate)
			}
			if res.FinalBase < res.Asl {
				t.Fatalf("%s %v: final base %d below asl %d", id, c.Map(), res.FinalBase, res.Asl)
			}
			if res.FinalBase != res.Asl && !res.AwlApplied {
				t.Fatalf("%s %v: base changed without increase", id, c.Map())
			}
			if res.Confidence < 0.80 || res.Confidence > 1.0 {
				t.Fatalf("%s %v: confidence %f out of range", id, c.Map(), res.Confidence)
			}

			seen := map[types.Kind]bool{}
			for _, s := range res.Shares {
				if seen[s.Kind] {
					t.Fatalf("%s %v: %s appears twice", id, c.Map(), s.Kind)
				}
				seen[s.Kind] = true
				if !s.Fraction.IsPositive() {
					t.Fatalf("%s %v: %s has fraction %s", id, c.Map(), s.Kind, s.Fraction)
				}
				if res.IsBlocked(s.Kind) {
					t.Fatalf("%s %v: blocked %s holds a share", id, c.Map(), s.Kind)
				}
			}

			again, err := e.Calculate(req)
			require.NoError(t, err)
			if diff := cmp.Diff(res, again, resultOptions); diff != "" {
				t.Fatalf("%s %v: repeated calculation differs:\n%s", id, c.Map(), diff)
			}
		}
	}
}
