package types

import (
	"faraid/internal/rational"

	"github.com/shopspring/decimal"
)

// ReasonCode names the blocking rule that excluded an heir.
type ReasonCode string

// BlockedRecord is one exclusion in the audit trail.
type BlockedRecord struct {
	Blocked   Kind       `json:"blocked" yaml:"blocked"`
	BlockedBy Kind       `json:"blocked_by" yaml:"blocked_by"`
	Reason    ReasonCode `json:"reason" yaml:"reason"`
}

// SpecialCaseKind names a law scenario that fired.
type SpecialCaseKind string

const (
	CaseUmariyyah               SpecialCaseKind = "umariyyah"
	CaseMusharraka              SpecialCaseKind = "musharraka"
	CaseAkdariyya               SpecialCaseKind = "akdariyya"
	CaseAwl                     SpecialCaseKind = "awl"
	CaseRadd                    SpecialCaseKind = "radd"
	CaseBloodRelatives          SpecialCaseKind = "blood_relatives"
	CaseSisterResiduary         SpecialCaseKind = "sister_as_residuary"
	CasePaternalSisterResiduary SpecialCaseKind = "paternal_sister_as_residuary"
	CaseGrandfatherWithSiblings SpecialCaseKind = "grandfather_with_siblings"
	CaseTreasury                SpecialCaseKind = "treasury"
)

// SpecialCase records a triggered scenario.
type SpecialCase struct {
	Kind        SpecialCaseKind `json:"kind" yaml:"kind"`
	Description string          `json:"description" yaml:"description"`
}

// Step is one entry of the explanatory trace. Nothing downstream reads it.
type Step struct {
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
}

// Result is a successful calculation.
type Result struct {
	Madhab     string          `json:"madhab" yaml:"madhab"`
	MadhabName string          `json:"madhab_name" yaml:"madhab_name"`
	Estate     Estate          `json:"estate" yaml:"estate"`
	NetEstate  decimal.Decimal `json:"net_estate" yaml:"net_estate"`

	Asl       int64             `json:"asl" yaml:"asl"`
	FinalBase int64             `json:"final_base" yaml:"final_base"`
	AwlRatio  rational.Rational `json:"awl_ratio" yaml:"awl_ratio,omitempty"`

	AwlApplied            bool `json:"awl_applied" yaml:"awl_applied"`
	RaddApplied           bool `json:"radd_applied" yaml:"radd_applied"`
	BloodRelativesApplied bool `json:"blood_relatives_applied" yaml:"blood_relatives_applied"`

	Shares       []HeirShare     `json:"shares" yaml:"shares"`
	Blocked      []BlockedRecord `json:"blocked" yaml:"blocked"`
	SpecialCases []SpecialCase   `json:"special_cases" yaml:"special_cases"`
	Notes        []string        `json:"notes,omitempty" yaml:"notes,omitempty"`
	Warnings     []string        `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	Trace        []Step          `json:"trace" yaml:"trace"`
	Confidence   float64         `json:"confidence" yaml:"confidence"`
}

// Share returns the share for k and whether it exists.
func (r *Result) Share(k Kind) (HeirShare, bool) {
	if i := FindShare(r.Shares, k); i >= 0 {
		return r.Shares[i], true
	}
	return HeirShare{}, false
}

// HasSpecialCase reports whether kind fired.
func (r *Result) HasSpecialCase(kind SpecialCaseKind) bool {
	for _, sc := range r.SpecialCases {
		if sc.Kind == kind {
			return true
		}
	}
	return false
}

// IsBlocked reports whether k was excluded.
func (r *Result) IsBlocked(k Kind) bool {
	for _, b := range r.Blocked {
		if b.Blocked == k {
			return true
		}
	}
	return false
}

// TotalFraction is the exact sum of all share fractions.
func (r *Result) TotalFraction() rational.Rational {
	return SumFractions(r.Shares)
}

// TotalAmount is the sum of all share amounts.
func (r *Result) TotalAmount() decimal.Decimal {
	total := decimal.Zero
	for _, s := range r.Shares {
		total = total.Add(s.Amount)
	}
	return total
}
