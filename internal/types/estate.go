package types

import "github.com/shopspring/decimal"

// Estate holds the gross estate and the deductions taken before division.
type Estate struct {
	Total   decimal.Decimal `json:"total" yaml:"total"`
	Funeral decimal.Decimal `json:"funeral" yaml:"funeral"`
	Debts   decimal.Decimal `json:"debts" yaml:"debts"`
	Will    decimal.Decimal `json:"will" yaml:"will"`
}

// NewEstate builds an estate from whole currency amounts.
func NewEstate(total, funeral, debts, will int64) Estate {
	return Estate{
		Total:   decimal.NewFromInt(total),
		Funeral: decimal.NewFromInt(funeral),
		Debts:   decimal.NewFromInt(debts),
		Will:    decimal.NewFromInt(will),
	}
}

// Net is total - funeral - debts - will.
func (e Estate) Net() decimal.Decimal {
	return e.Total.Sub(e.Funeral).Sub(e.Debts).Sub(e.Will)
}

// Request is one calculation input. It is never mutated by the engine.
type Request struct {
	Madhab string `json:"madhab" yaml:"madhab"`
	Estate Estate `json:"estate" yaml:"estate"`
	Heirs  Counts `json:"heirs" yaml:"heirs"`
}
