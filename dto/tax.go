package dto

import (
	"fmt"
	"strings"
	"time"
)

// Regime is one of the two mutually exclusive slab-rate elections.
type Regime string

const (
	RegimeOld Regime = "OLD"
	RegimeNew Regime = "NEW"
)

// ParseRegime validates a regime string (case-insensitive).
func ParseRegime(s string) (Regime, error) {
	switch Regime(strings.ToUpper(strings.TrimSpace(s))) {
	case RegimeOld:
		return RegimeOld, nil
	case RegimeNew:
		return RegimeNew, nil
	}
	return "", fmt.Errorf("invalid regime %q", s)
}

// TaxSlab is one marginal slab of a regime's rate table. Max nil means
// the slab is unbounded.
type TaxSlab struct {
	Min         float64  `yaml:"min" json:"min"`
	Max         *float64 `yaml:"max" json:"max"`
	Rate        float64  `yaml:"rate" json:"rate"`
	Description string   `yaml:"description" json:"description"`
}

// RebateRule configures the section-87A style rebate. When
// MarginalRelief is set, incremental tax just above the limit is capped
// at the income excess over the limit.
type RebateRule struct {
	IncomeLimit    float64 `yaml:"income_limit" json:"income_limit"`
	MaxRebate      float64 `yaml:"max_rebate" json:"max_rebate"`
	MarginalRelief bool    `yaml:"marginal_relief" json:"marginal_relief"`
}

// SurchargeTier is one income-tiered surcharge band.
type SurchargeTier struct {
	Min  float64  `yaml:"min" json:"min"`
	Max  *float64 `yaml:"max" json:"max"`
	Rate float64  `yaml:"rate" json:"rate"`
}

// Installment is one advance-tax due date with the cumulative share of
// assessed tax payable by that date.
type Installment struct {
	Label         string  `yaml:"label" json:"label"`
	Month         int     `yaml:"month" json:"month"`
	Day           int     `yaml:"day" json:"day"`
	CumulativePct float64 `yaml:"cumulative_pct" json:"cumulative_pct"`
}

// InterestRules configures shortfall/deferral interest for an
// assessment year.
type InterestRules struct {
	MonthlyRate          float64       `yaml:"monthly_rate" json:"monthly_rate"`
	MinimumLiability     float64       `yaml:"minimum_liability" json:"minimum_liability"`
	AdvanceObligationPct float64       `yaml:"advance_obligation_pct" json:"advance_obligation_pct"`
	Installments         []Installment `yaml:"installments" json:"installments"`
}

// RegimeRates carries one regime's slab table, rebate rule, surcharge
// tiers and standard deduction.
type RegimeRates struct {
	StandardDeduction float64         `yaml:"standard_deduction" json:"standard_deduction"`
	Slabs             []TaxSlab       `yaml:"slabs" json:"slabs"`
	Rebate            RebateRule      `yaml:"rebate" json:"rebate"`
	Surcharge         []SurchargeTier `yaml:"surcharge" json:"surcharge"`
}

// RateSchedule is the full external rate configuration for one
// assessment year.
type RateSchedule struct {
	AssessmentYear string        `yaml:"assessment_year" json:"assessment_year"`
	CessRate       float64       `yaml:"cess_rate" json:"cess_rate"`
	Old            RegimeRates   `yaml:"old" json:"old"`
	New            RegimeRates   `yaml:"new" json:"new"`
	Interest       InterestRules `yaml:"interest" json:"interest"`
}

// ForRegime returns the rate block for the given regime.
func (s *RateSchedule) ForRegime(r Regime) (RegimeRates, error) {
	switch r {
	case RegimeOld:
		return s.Old, nil
	case RegimeNew:
		return s.New, nil
	}
	return RegimeRates{}, fmt.Errorf("invalid regime %q", r)
}

// FiscalYearStart returns April 1 of the financial year preceding the
// assessment year ("2025-26" -> 2024-04-01).
func (s *RateSchedule) FiscalYearStart() (time.Time, error) {
	parts := strings.SplitN(s.AssessmentYear, "-", 2)
	var ayStart int
	if _, err := fmt.Sscanf(parts[0], "%d", &ayStart); err != nil || ayStart < 1962 {
		return time.Time{}, fmt.Errorf("invalid assessment year %q", s.AssessmentYear)
	}
	return time.Date(ayStart-1, time.April, 1, 0, 0, 0, 0, time.UTC), nil
}

// SlabTax is one line of the slab-wise breakdown.
type SlabTax struct {
	Description    string  `json:"description"`
	AmountInSlab   float64 `json:"amount_in_slab"`
	Rate           float64 `json:"rate"`
	TaxContributed float64 `json:"tax_contributed"`
}

// InterestCharge is one interest line (shortfall or deferral).
type InterestCharge struct {
	Label     string  `json:"label"`
	Principal float64 `json:"principal"`
	Rate      float64 `json:"rate"`
	Months    int     `json:"months"`
	Amount    float64 `json:"amount"`
}

// TaxComputationResult is the full liability computation for one
// income/regime pair. TotalTaxLiability is always TaxAfterRebate +
// Surcharge + Cess; a negative TotalPayable means a refund is due.
type TaxComputationResult struct {
	TotalIncome       float64          `json:"total_income"`
	TaxableIncome     float64          `json:"taxable_income"`
	Regime            Regime           `json:"regime"`
	AssessmentYear    string           `json:"assessment_year"`
	TaxBeforeRebate   float64          `json:"tax_before_rebate"`
	Rebate87A         float64          `json:"rebate_87a"`
	TaxAfterRebate    float64          `json:"tax_after_rebate"`
	Surcharge         float64          `json:"surcharge"`
	Cess              float64          `json:"cess"`
	TotalTaxLiability float64          `json:"total_tax_liability"`
	TotalInterest     float64          `json:"total_interest"`
	TotalPayable      float64          `json:"total_payable"`
	SlabBreakdown     []SlabTax        `json:"slab_breakdown"`
	InterestDetails   []InterestCharge `json:"interest_details"`
	EffectiveRate     float64          `json:"effective_rate"`
	MarginalRate      float64          `json:"marginal_rate"`
}

// IncomeHeads is the fixed-shape upstream income mapping supplied to
// the calculator. Deductions are chapter-style deductions already
// scrubbed for regime eligibility by the upstream layer.
type IncomeHeads struct {
	Salary        float64 `json:"salary"`
	HouseProperty float64 `json:"house_property"`
	CapitalGains  float64 `json:"capital_gains"`
	OtherSources  float64 `json:"other_sources"`
	Deductions    float64 `json:"deductions"`
}

// ComputationResult packages the calculator's totals with the full
// liability detail.
type ComputationResult struct {
	GrossTotalIncome  float64               `json:"gross_total_income"`
	StandardDeduction float64               `json:"standard_deduction"`
	TotalDeductions   float64               `json:"total_deductions"`
	TaxableIncome     float64               `json:"taxable_income"`
	Liability         *TaxComputationResult `json:"liability"`
	TotalTaxesPaid    float64               `json:"total_taxes_paid"`
	RefundOrPayable   float64               `json:"refund_or_payable"`
	Warnings          []string              `json:"warnings"`
}
