package dto

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRegime(t *testing.T) {
	regime, err := ParseRegime(" new ")
	require.NoError(t, err)
	assert.Equal(t, RegimeNew, regime)

	_, err = ParseRegime("hybrid")
	assert.Error(t, err)
}

func TestFiscalYearStart(t *testing.T) {
	s := &RateSchedule{AssessmentYear: "2025-26"}
	start, err := s.FiscalYearStart()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC), start)

	s.AssessmentYear = "garbage"
	_, err = s.FiscalYearStart()
	assert.Error(t, err)
}

func TestCreditSum(t *testing.T) {
	r := &ReconciliationResult{Credits: []Credit{
		{Category: CreditTDSSalary, Amount: 120000},
		{Category: CreditAdvanceTax, Amount: 15000},
	}}
	assert.Equal(t, int64(135000), r.CreditSum())
}
