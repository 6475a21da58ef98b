package types

import (
	"faraid/internal/rational"

	"github.com/shopspring/decimal"
)

// Category classifies how a share was earned.
type Category string

const (
	CategoryFixed      Category = "fixed"
	CategoryResiduary  Category = "residuary"
	CategoryReturned   Category = "returned"
	CategoryDistantKin Category = "distant_kin"
	CategoryTreasury   Category = "treasury"
)

// HeirShare is one row of the distribution. A kind appears at most once.
type HeirShare struct {
	Kind          Kind              `json:"kind" yaml:"kind"`
	DisplayName   string            `json:"display_name" yaml:"display_name"`
	Category      Category          `json:"category" yaml:"category"`
	Count         int               `json:"count" yaml:"count"`
	Fraction      rational.Rational `json:"fraction" yaml:"fraction"`
	Original      rational.Rational `json:"original_fraction" yaml:"original_fraction"`
	Units         int64             `json:"units,omitempty" yaml:"units,omitempty"`
	Amount        decimal.Decimal   `json:"amount" yaml:"amount"`
	AmountPerHead decimal.Decimal   `json:"amount_per_head" yaml:"amount_per_head"`
	Justification string            `json:"justification" yaml:"justification"`
}

// NewShare builds a share whose original fraction equals its fraction.
func NewShare(k Kind, cat Category, count int, f rational.Rational, why string) HeirShare {
	return HeirShare{
		Kind:          k,
		DisplayName:   k.DisplayName(count),
		Category:      cat,
		Count:         count,
		Fraction:      f,
		Original:      f,
		Justification: why,
	}
}

// PerHead is the exact fraction owed to each individual of the group.
func (s HeirShare) PerHead() rational.Rational {
	if s.Count <= 0 {
		return rational.Zero
	}
	return s.Fraction.DivInt(int64(s.Count))
}

// SumFractions adds the fractions of all shares.
func SumFractions(shares []HeirShare) rational.Rational {
	total := rational.Zero
	for _, s := range shares {
		total = total.Add(s.Fraction)
	}
	return total
}

// FindShare returns the index of k in shares, or -1.
func FindShare(shares []HeirShare, k Kind) int {
	for i, s := range shares {
		if s.Kind == k {
			return i
		}
	}
	return -1
}
