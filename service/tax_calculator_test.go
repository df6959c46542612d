package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"itr-prep/config"
	"itr-prep/dto"
)

func testCalculator(t *testing.T) *TaxCalculator {
	t.Helper()
	rates, err := config.DefaultRates()
	require.NoError(t, err)
	return NewTaxCalculator(NewTaxEngine(rates), rates)
}

func TestComputeTotals(t *testing.T) {
	calc := testCalculator(t)
	asOf := time.Date(2025, time.July, 31, 0, 0, 0, 0, time.UTC)

	heads := dto.IncomeHeads{Salary: 860000, OtherSources: 15000}
	recon := &dto.ReconciliationResult{
		TotalTDS:        45000,
		TotalAdvanceTax: 25000,
		Credits: []dto.Credit{
			{Category: dto.CreditTDSSalary, Amount: 45000, Source: dto.SourceDeterministic},
			{Category: dto.CreditAdvanceTax, Amount: 25000, Source: dto.SourceDeterministic},
		},
	}

	result, err := calc.ComputeTotals(heads, recon, dto.RegimeNew, asOf)
	require.NoError(t, err)

	assert.InDelta(t, 875000, result.GrossTotalIncome, 1e-9)
	assert.InDelta(t, 75000, result.StandardDeduction, 1e-9)
	assert.InDelta(t, 800000, result.TaxableIncome, 1e-9)
	assert.InDelta(t, 31200, result.Liability.TotalTaxLiability, 1e-9)
	assert.InDelta(t, 70000, result.TotalTaxesPaid, 1e-9)
	assert.InDelta(t, -38800, result.RefundOrPayable, 1e-9, "negative means refund")
	assert.Empty(t, result.Warnings)
}

func TestComputeTotalsSelfAssessmentReducesPayable(t *testing.T) {
	calc := testCalculator(t)
	asOf := time.Date(2026, time.July, 31, 0, 0, 0, 0, time.UTC)

	heads := dto.IncomeHeads{Salary: 2075000}
	recon := &dto.ReconciliationResult{
		TotalTDS:            250000,
		TotalSelfAssessment: 10000,
	}

	result, err := calc.ComputeTotals(heads, recon, dto.RegimeNew, asOf)
	require.NoError(t, err)

	assert.InDelta(t, 2000000, result.TaxableIncome, 1e-9)
	assert.InDelta(t, result.Liability.TotalPayable-10000, result.RefundOrPayable, 1e-9)
	assert.InDelta(t, 260000, result.TotalTaxesPaid, 1e-9)
}

func TestComputeTotalsStandardDeductionCappedAtSalary(t *testing.T) {
	calc := testCalculator(t)
	asOf := time.Date(2025, time.July, 31, 0, 0, 0, 0, time.UTC)

	heads := dto.IncomeHeads{Salary: 40000, OtherSources: 600000}
	recon := &dto.ReconciliationResult{}

	result, err := calc.ComputeTotals(heads, recon, dto.RegimeNew, asOf)
	require.NoError(t, err)

	assert.InDelta(t, 40000, result.StandardDeduction, 1e-9)
	assert.InDelta(t, 600000, result.TaxableIncome, 1e-9)
}

func TestComputeTotalsDeductionsNeverGoNegative(t *testing.T) {
	calc := testCalculator(t)
	asOf := time.Date(2025, time.July, 31, 0, 0, 0, 0, time.UTC)

	heads := dto.IncomeHeads{Salary: 100000, Deductions: 500000}
	recon := &dto.ReconciliationResult{}

	result, err := calc.ComputeTotals(heads, recon, dto.RegimeNew, asOf)
	require.NoError(t, err)

	assert.InDelta(t, 0, result.TaxableIncome, 1e-9)
	assert.InDelta(t, 0, result.Liability.TotalTaxLiability, 1e-9)
}

func TestComputeTotalsPropagatesConfirmations(t *testing.T) {
	calc := testCalculator(t)
	asOf := time.Date(2025, time.July, 31, 0, 0, 0, 0, time.UTC)

	heads := dto.IncomeHeads{Salary: 875000}
	recon := &dto.ReconciliationResult{
		TotalTDS: 45000,
		Credits: []dto.Credit{
			{Category: dto.CreditTDSSalary, Amount: 45000, Source: dto.SourceInfoStatement, NeedsConfirm: true},
		},
		Warnings: []string{"tax-credit statement absent, relying on secondary sources"},
	}

	result, err := calc.ComputeTotals(heads, recon, dto.RegimeNew, asOf)
	require.NoError(t, err)

	require.Len(t, result.Warnings, 2)
	assert.Contains(t, result.Warnings[1], "needs confirmation")
}

func TestComputeTotalsRequiresReconciliation(t *testing.T) {
	calc := testCalculator(t)

	_, err := calc.ComputeTotals(dto.IncomeHeads{Salary: 100000}, nil, dto.RegimeNew, time.Now())
	assert.Error(t, err)
}

func TestComputeTotalsRejectsNegativeGross(t *testing.T) {
	calc := testCalculator(t)

	heads := dto.IncomeHeads{Salary: 100000, CapitalGains: -400000}
	_, err := calc.ComputeTotals(heads, &dto.ReconciliationResult{}, dto.RegimeNew, time.Now())
	assert.Error(t, err)
}
