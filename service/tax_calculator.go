package service

import (
	"fmt"
	"time"

	"itr-prep/dto"
)

// TaxCalculator orchestrates the return-level computation: income heads
// in, reconciled credits applied, full liability out.
type TaxCalculator struct {
	engine *TaxEngine
	rates  *dto.RateSchedule
}

func NewTaxCalculator(engine *TaxEngine, rates *dto.RateSchedule) *TaxCalculator {
	return &TaxCalculator{engine: engine, rates: rates}
}

// ComputeTotals aggregates the income heads, applies the regime's
// standard deduction (capped at salary) and upstream deductions, runs
// the engine, and nets the reconciled credits. A negative
// RefundOrPayable is a refund.
func (c *TaxCalculator) ComputeTotals(heads dto.IncomeHeads, recon *dto.ReconciliationResult, regime dto.Regime, asOf time.Time) (*dto.ComputationResult, error) {
	if recon == nil {
		return nil, fmt.Errorf("reconciliation result is required")
	}
	rates, err := c.rates.ForRegime(regime)
	if err != nil {
		return nil, err
	}

	gross := heads.Salary + heads.HouseProperty + heads.CapitalGains + heads.OtherSources
	if gross < 0 {
		return nil, fmt.Errorf("gross total income must be non-negative, got %v", gross)
	}

	stdDeduction := rates.StandardDeduction
	if heads.Salary < stdDeduction {
		stdDeduction = heads.Salary
	}
	taxable := gross - stdDeduction - heads.Deductions
	if taxable < 0 {
		taxable = 0
	}

	advance := float64(recon.TotalAdvanceTax)
	withheld := float64(recon.TotalTDS + recon.TotalTCS)
	liability, err := c.engine.ComputeTax(taxable, regime, advance, withheld, asOf)
	if err != nil {
		return nil, err
	}

	result := &dto.ComputationResult{
		GrossTotalIncome:  gross,
		StandardDeduction: stdDeduction,
		TotalDeductions:   heads.Deductions,
		TaxableIncome:     taxable,
		Liability:         liability,
		TotalTaxesPaid:    advance + withheld + float64(recon.TotalSelfAssessment),
		RefundOrPayable:   liability.TotalPayable - float64(recon.TotalSelfAssessment),
		Warnings:          append([]string{}, recon.Warnings...),
	}

	for _, credit := range recon.Credits {
		if credit.NeedsConfirm {
			result.Warnings = append(result.Warnings, fmt.Sprintf(
				"credit %s (₹%d from %s) needs confirmation before filing", credit.Category, credit.Amount, credit.Source))
		}
	}
	return result, nil
}
