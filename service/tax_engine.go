package service

import (
	"fmt"
	"time"

	"itr-prep/dto"
)

// TaxEngine computes liability for one assessment year from an external
// rate schedule. It holds no per-computation state.
type TaxEngine struct {
	rates *dto.RateSchedule
}

func NewTaxEngine(rates *dto.RateSchedule) *TaxEngine {
	return &TaxEngine{rates: rates}
}

// ComputeTax runs the full liability pipeline for one income/regime
// pair: slab tax, rebate, surcharge, cess, then shortfall interest
// against the taxes already paid. asOf anchors the interest clock.
func (e *TaxEngine) ComputeTax(taxableIncome float64, regime dto.Regime, advanceTaxPaid, tdsDeducted float64, asOf time.Time) (*dto.TaxComputationResult, error) {
	if taxableIncome < 0 {
		return nil, fmt.Errorf("taxable income must be non-negative, got %v", taxableIncome)
	}
	rates, err := e.rates.ForRegime(regime)
	if err != nil {
		return nil, err
	}

	taxBeforeRebate, breakdown := slabTax(taxableIncome, rates.Slabs)
	rebate := rebateAmount(taxableIncome, taxBeforeRebate, rates.Rebate)
	taxAfterRebate := taxBeforeRebate - rebate
	surcharge := e.surchargeAmount(taxableIncome, taxAfterRebate, rates)
	cess := (taxAfterRebate + surcharge) * e.rates.CessRate
	liability := taxAfterRebate + surcharge + cess

	charges, err := e.interestCharges(liability, advanceTaxPaid, tdsDeducted, asOf)
	if err != nil {
		return nil, err
	}
	var totalInterest float64
	for _, c := range charges {
		totalInterest += c.Amount
	}

	result := &dto.TaxComputationResult{
		TotalIncome:       taxableIncome,
		TaxableIncome:     taxableIncome,
		Regime:            regime,
		AssessmentYear:    e.rates.AssessmentYear,
		TaxBeforeRebate:   taxBeforeRebate,
		Rebate87A:         rebate,
		TaxAfterRebate:    taxAfterRebate,
		Surcharge:         surcharge,
		Cess:              cess,
		TotalTaxLiability: liability,
		TotalInterest:     totalInterest,
		TotalPayable:      liability + totalInterest - advanceTaxPaid - tdsDeducted,
		SlabBreakdown:     breakdown,
		InterestDetails:   charges,
		MarginalRate:      marginalRate(taxableIncome, rates.Slabs),
	}
	if taxableIncome > 0 {
		result.EffectiveRate = liability / taxableIncome
	}
	return result, nil
}

// slabTax applies the marginal slab table and returns the tax together
// with a per-slab breakdown (zero-amount slabs are omitted).
func slabTax(income float64, slabs []dto.TaxSlab) (float64, []dto.SlabTax) {
	var total float64
	var breakdown []dto.SlabTax
	for _, slab := range slabs {
		if income <= slab.Min {
			continue
		}
		upper := income
		if slab.Max != nil && *slab.Max < upper {
			upper = *slab.Max
		}
		inSlab := upper - slab.Min
		tax := inSlab * slab.Rate
		total += tax
		breakdown = append(breakdown, dto.SlabTax{
			Description:    slab.Description,
			AmountInSlab:   inSlab,
			Rate:           slab.Rate,
			TaxContributed: tax,
		})
	}
	return total, breakdown
}

// rebateAmount applies the section-87A style rebate. With marginal
// relief, tax for income just above the limit is capped at the income
// excess over the limit.
func rebateAmount(income, taxBeforeRebate float64, rule dto.RebateRule) float64 {
	if rule.IncomeLimit <= 0 {
		return 0
	}
	if income <= rule.IncomeLimit {
		rebate := taxBeforeRebate
		if rebate > rule.MaxRebate {
			rebate = rule.MaxRebate
		}
		return rebate
	}
	if rule.MarginalRelief {
		excess := income - rule.IncomeLimit
		if taxBeforeRebate > excess {
			return taxBeforeRebate - excess
		}
	}
	return 0
}

// surchargeAmount applies the income-tiered surcharge with marginal
// relief: total tax plus surcharge never exceeds what is payable at the
// tier threshold plus the income above it.
func (e *TaxEngine) surchargeAmount(income, taxAfterRebate float64, rates dto.RegimeRates) float64 {
	var tier *dto.SurchargeTier
	var prevRate float64
	for i := range rates.Surcharge {
		t := rates.Surcharge[i]
		if income > t.Min && (t.Max == nil || income <= *t.Max) {
			tier = &t
			break
		}
		prevRate = t.Rate
	}
	if tier == nil {
		return 0
	}

	surcharge := taxAfterRebate * tier.Rate

	taxAtThreshold, _ := slabTax(tier.Min, rates.Slabs)
	maxTotal := taxAtThreshold*(1+prevRate) + (income - tier.Min)
	if taxAfterRebate+surcharge > maxTotal {
		surcharge = maxTotal - taxAfterRebate
		if surcharge < 0 {
			surcharge = 0
		}
	}
	return surcharge
}

// interestCharges computes per-installment deferral interest on the
// advance-tax shortfall. TDS reduces the assessed tax first; below the
// minimum-liability floor or with the obligation substantially met no
// interest accrues.
func (e *TaxEngine) interestCharges(liability, advancePaid, tdsDeducted float64, asOf time.Time) ([]dto.InterestCharge, error) {
	rules := e.rates.Interest
	if liability < rules.MinimumLiability {
		return nil, nil
	}
	assessed := liability - tdsDeducted
	if assessed <= 0 {
		return nil, nil
	}
	if advancePaid >= rules.AdvanceObligationPct*assessed {
		return nil, nil
	}

	fyStart, err := e.rates.FiscalYearStart()
	if err != nil {
		return nil, err
	}

	var charges []dto.InterestCharge
	for _, inst := range rules.Installments {
		short := assessed*inst.CumulativePct - advancePaid
		if short <= 0 {
			continue
		}
		year := fyStart.Year()
		if inst.Month < int(time.April) {
			year++
		}
		due := time.Date(year, time.Month(inst.Month), inst.Day, 0, 0, 0, 0, time.UTC)
		months := monthsBetween(due, asOf)
		if months == 0 {
			continue
		}
		charges = append(charges, dto.InterestCharge{
			Label:     inst.Label,
			Principal: short,
			Rate:      rules.MonthlyRate,
			Months:    months,
			Amount:    short * rules.MonthlyRate * float64(months),
		})
	}
	return charges, nil
}

// monthsBetween counts calendar months from due to asOf, with any
// started month counting in full. Never negative.
func monthsBetween(due, asOf time.Time) int {
	months := (asOf.Year()-due.Year())*12 + int(asOf.Month()) - int(due.Month())
	if asOf.Day() > due.Day() {
		months++
	}
	if months < 0 {
		return 0
	}
	return months
}

// marginalRate is the slab rate applying to the next rupee of income.
func marginalRate(income float64, slabs []dto.TaxSlab) float64 {
	for _, slab := range slabs {
		if income >= slab.Min && (slab.Max == nil || income < *slab.Max) {
			return slab.Rate
		}
	}
	return 0
}
