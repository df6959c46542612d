package dto

import "time"

// Default source tags for the corroborating inputs.
const (
	SourceInfoStatement = "AIS"
	SourceCertificate   = "FORM16"
)

// SalaryEntry is one employer's salary reporting from the info
// statement.
type SalaryEntry struct {
	EmployerTAN  string `json:"employer_tan,omitempty"`
	EmployerName string `json:"employer_name,omitempty"`
	GrossSalary  int64  `json:"gross_salary"`
	TDSDeducted  int64  `json:"tds_deducted"`
}

// InterestEntry is one payer's interest reporting from the info
// statement; its TDS corroborates the non-salary TDS category.
type InterestEntry struct {
	PayerName      string `json:"payer_name,omitempty"`
	InterestAmount int64  `json:"interest_amount"`
	TDSDeducted    int64  `json:"tds_deducted"`
}

// TCSEntry is one collector's TCS reporting from the info statement.
type TCSEntry struct {
	CollectorTAN  string `json:"collector_tan,omitempty"`
	CollectorName string `json:"collector_name,omitempty"`
	Amount        int64  `json:"amount"`
}

// TaxPayment is a challan-style payment reported by the info statement.
type TaxPayment struct {
	Kind      ChallanKind `json:"kind"`
	BSRCode   string      `json:"bsr_code,omitempty"`
	ChallanNo string      `json:"challan_no,omitempty"`
	PaidOn    *time.Time  `json:"paid_on,omitempty"`
	Amount    int64       `json:"amount"`
}

// InfoStatementData is the shape-normalized content of an annual
// information statement used to corroborate the credit statement.
type InfoStatementData struct {
	SalaryEntries   []SalaryEntry   `json:"salary_entries"`
	InterestEntries []InterestEntry `json:"interest_entries"`
	TCSEntries      []TCSEntry      `json:"tcs_entries"`
	TaxPayments     []TaxPayment    `json:"tax_payments"`
	Source          string          `json:"source"`
	Confidence      float64         `json:"confidence"`
}

// Empty reports whether the info statement carries no usable data.
func (d *InfoStatementData) Empty() bool {
	if d == nil {
		return true
	}
	return len(d.SalaryEntries) == 0 && len(d.InterestEntries) == 0 &&
		len(d.TCSEntries) == 0 && len(d.TaxPayments) == 0
}

// SalaryTDS sums the salary TDS reported by the info statement.
func (d *InfoStatementData) SalaryTDS() int64 {
	var sum int64
	for _, e := range d.SalaryEntries {
		sum += e.TDSDeducted
	}
	return sum
}

// InterestTDS sums the non-salary TDS reported by the info statement.
func (d *InfoStatementData) InterestTDS() int64 {
	var sum int64
	for _, e := range d.InterestEntries {
		sum += e.TDSDeducted
	}
	return sum
}

// TCSTotal sums the TCS reported by the info statement.
func (d *InfoStatementData) TCSTotal() int64 {
	var sum int64
	for _, e := range d.TCSEntries {
		sum += e.Amount
	}
	return sum
}

// CertificateData is the shape-normalized content of a withholding
// certificate (employer-issued), a third independent view of salary TDS.
type CertificateData struct {
	EmployerTAN  string  `json:"employer_tan,omitempty"`
	EmployerName string  `json:"employer_name,omitempty"`
	GrossSalary  int64   `json:"gross_salary"`
	TDSDeducted  int64   `json:"tds_deducted"`
	Source       string  `json:"source"`
	Confidence   float64 `json:"confidence"`
}

// Empty reports whether the certificate carries no usable data.
func (d *CertificateData) Empty() bool {
	return d == nil || (d.TDSDeducted == 0 && d.GrossSalary == 0)
}
