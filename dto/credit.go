package dto

// CreditCategory classifies a reconciled tax credit.
type CreditCategory string

const (
	CreditTDSSalary      CreditCategory = "TDS_SALARY"
	CreditTDSOther       CreditCategory = "TDS_OTHER"
	CreditTCS            CreditCategory = "TCS"
	CreditAdvanceTax     CreditCategory = "ADVANCE_TAX"
	CreditSelfAssessment CreditCategory = "SELF_ASSESSMENT"
)

// Credit is one reconciled tax credit with its provenance. NeedsConfirm
// is set when sources disagreed beyond tolerance or the category rests
// on a single lower-trust source.
type Credit struct {
	Category     CreditCategory `json:"category"`
	Amount       int64          `json:"amount"`
	Source       string         `json:"source"`
	NeedsConfirm bool           `json:"needs_confirm"`
}

// ReconciliationResult is the unified credit ledger built from all
// available sources. The per-category totals always sum exactly to the
// sum of Credits.
type ReconciliationResult struct {
	TotalTDS            int64    `json:"total_tds"`
	TotalTCS            int64    `json:"total_tcs"`
	TotalAdvanceTax     int64    `json:"total_advance_tax"`
	TotalSelfAssessment int64    `json:"total_self_assessment"`
	Credits             []Credit `json:"credits"`
	Warnings            []string `json:"warnings"`
	ConfidenceScore     float64  `json:"confidence_score"`
}

// CreditSum returns the sum of all credit amounts, used to verify the
// totals invariant.
func (r *ReconciliationResult) CreditSum() int64 {
	var sum int64
	for _, c := range r.Credits {
		sum += c.Amount
	}
	return sum
}

// ReconciliationError is fatal: every source was absent or empty, so no
// ledger can be built.
type ReconciliationError struct {
	Reason string
}

func (e *ReconciliationError) Error() string {
	return "reconciliation failed: " + e.Reason
}
