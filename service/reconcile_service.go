package service

import (
	"fmt"
	"log"

	"itr-prep/dto"
)

// Rupee tolerances for cross-source agreement. Salary TDS is reported
// tightly by all sources; the other categories accumulate rounding
// across many small entries.
const (
	defaultSalaryTolerance = 100
	defaultOthersTolerance = 500
)

// ReconcileService merges the tax-credit statement with the
// corroborating sources into one credit ledger. The statement is
// authoritative; the other sources corroborate or fill gaps.
type ReconcileService struct {
	salaryTolerance int64
	othersTolerance int64
}

func NewReconcileService() *ReconcileService {
	return &ReconcileService{
		salaryTolerance: defaultSalaryTolerance,
		othersTolerance: defaultOthersTolerance,
	}
}

// sourceValue is one source's claim for a credit category.
type sourceValue struct {
	source     string
	amount     int64
	confidence float64
}

// Reconcile builds the unified ledger. Absent sources degrade the
// confidence score through warnings; all sources absent is fatal.
func (s *ReconcileService) Reconcile(stmt *dto.StatementExtract, info *dto.InfoStatementData, cert *dto.CertificateData) (*dto.ReconciliationResult, error) {
	if stmt.Empty() && info.Empty() && cert.Empty() {
		return nil, &dto.ReconciliationError{Reason: "no source carries any tax-credit data"}
	}

	result := &dto.ReconciliationResult{Warnings: []string{}}

	if stmt.Empty() {
		result.Warnings = append(result.Warnings, "tax-credit statement absent, relying on secondary sources")
	}
	if info.Empty() {
		result.Warnings = append(result.Warnings, "annual information statement absent")
	}
	if cert.Empty() {
		result.Warnings = append(result.Warnings, "withholding certificate absent")
	}

	corroborated := 0
	minConf := 1.0

	addCredit := func(category dto.CreditCategory, values []sourceValue, tolerance int64) {
		credit, wasCorroborated, warnings := mergeCategory(category, values, tolerance)
		result.Warnings = append(result.Warnings, warnings...)
		if credit == nil {
			return
		}
		result.Credits = append(result.Credits, *credit)
		if wasCorroborated {
			corroborated++
		}
		for _, v := range values {
			if v.source == credit.Source && v.confidence < minConf {
				minConf = v.confidence
			}
		}
	}

	addCredit(dto.CreditTDSSalary, salaryValues(stmt, info, cert), s.salaryTolerance)
	addCredit(dto.CreditTDSOther, otherTDSValues(stmt, info), s.othersTolerance)
	addCredit(dto.CreditTCS, tcsValues(stmt, info), s.othersTolerance)

	advValues, advWarnings := s.challanValues(stmt, info, dto.ChallanAdvance)
	result.Warnings = append(result.Warnings, advWarnings...)
	addCredit(dto.CreditAdvanceTax, advValues, s.othersTolerance)

	saValues, saWarnings := s.challanValues(stmt, info, dto.ChallanSelfAssessment)
	result.Warnings = append(result.Warnings, saWarnings...)
	addCredit(dto.CreditSelfAssessment, saValues, s.othersTolerance)

	if len(result.Credits) == 0 {
		return nil, &dto.ReconciliationError{Reason: "no category yielded a credit"}
	}

	for _, c := range result.Credits {
		switch c.Category {
		case dto.CreditTDSSalary, dto.CreditTDSOther:
			result.TotalTDS += c.Amount
		case dto.CreditTCS:
			result.TotalTCS += c.Amount
		case dto.CreditAdvanceTax:
			result.TotalAdvanceTax += c.Amount
		case dto.CreditSelfAssessment:
			result.TotalSelfAssessment += c.Amount
		}
	}

	result.ConfidenceScore = CombineConfidence(
		float64(corroborated)/float64(len(result.Credits)),
		len(result.Warnings),
		minConf,
	)
	return result, nil
}

// mergeCategory turns one category's per-source claims into at most one
// credit. The first claiming source contributes the amount; later
// sources corroborate it or flag it for confirmation.
func mergeCategory(category dto.CreditCategory, values []sourceValue, tolerance int64) (*dto.Credit, bool, []string) {
	var claims []sourceValue
	for _, v := range values {
		if v.amount > 0 {
			claims = append(claims, v)
		}
	}
	if len(claims) == 0 {
		return nil, false, nil
	}

	primary := claims[0]
	credit := &dto.Credit{
		Category: category,
		Amount:   primary.amount,
		Source:   primary.source,
	}

	var warnings []string
	wasCorroborated := false
	for _, other := range claims[1:] {
		diff := other.amount - primary.amount
		if diff < 0 {
			diff = -diff
		}
		if diff <= tolerance {
			wasCorroborated = true
			continue
		}
		credit.NeedsConfirm = true
		warnings = append(warnings, fmt.Sprintf(
			"%s: %s reports %d but %s reports %d (beyond ₹%d tolerance)",
			category, primary.source, primary.amount, other.source, other.amount, tolerance))
	}

	if len(claims) == 1 && primary.confidence < 1.0 {
		credit.NeedsConfirm = true
	}
	return credit, wasCorroborated, warnings
}

func salaryValues(stmt *dto.StatementExtract, info *dto.InfoStatementData, cert *dto.CertificateData) []sourceValue {
	var values []sourceValue
	if !stmt.Empty() {
		values = append(values, sourceValue{stmt.Source, sumRows(stmt.TDSSalary), stmt.Confidence})
	}
	if !info.Empty() {
		values = append(values, sourceValue{info.Source, info.SalaryTDS(), info.Confidence})
	}
	if !cert.Empty() {
		values = append(values, sourceValue{cert.Source, cert.TDSDeducted, cert.Confidence})
	}
	return values
}

func otherTDSValues(stmt *dto.StatementExtract, info *dto.InfoStatementData) []sourceValue {
	var values []sourceValue
	if !stmt.Empty() {
		values = append(values, sourceValue{stmt.Source, sumRows(stmt.TDSOthers), stmt.Confidence})
	}
	if !info.Empty() {
		values = append(values, sourceValue{info.Source, info.InterestTDS(), info.Confidence})
	}
	return values
}

func tcsValues(stmt *dto.StatementExtract, info *dto.InfoStatementData) []sourceValue {
	var values []sourceValue
	if !stmt.Empty() {
		values = append(values, sourceValue{stmt.Source, sumRows(stmt.TCS), stmt.Confidence})
	}
	if !info.Empty() {
		values = append(values, sourceValue{info.Source, info.TCSTotal(), info.Confidence})
	}
	return values
}

// challanValues reconciles payment challans of one kind. Statement
// challans are deduplicated by (BSR code, challan number); payments the
// info statement alone reports are warned about but never counted while
// the statement carries any challan of the kind.
func (s *ReconcileService) challanValues(stmt *dto.StatementExtract, info *dto.InfoStatementData, kind dto.ChallanKind) ([]sourceValue, []string) {
	var warnings []string

	stmtKeys := make(map[string]bool)
	var stmtTotal int64
	stmtCount := 0
	if !stmt.Empty() {
		for _, c := range stmt.Challans {
			if c.Kind != kind {
				continue
			}
			key := challanKey(c.BSRCode, c.ChallanNo)
			if key != "" && stmtKeys[key] {
				warnings = append(warnings, fmt.Sprintf(
					"%s challan %s/%s appears more than once in the statement, counted once",
					kind, c.BSRCode, c.ChallanNo))
				continue
			}
			if key != "" {
				stmtKeys[key] = true
			}
			stmtTotal += c.Amount
			stmtCount++
		}
	}

	var infoTotal int64
	infoCount := 0
	infoKeys := make(map[string]bool)
	if !info.Empty() {
		for _, p := range info.TaxPayments {
			if p.Kind != kind {
				continue
			}
			key := challanKey(p.BSRCode, p.ChallanNo)
			if key != "" && infoKeys[key] {
				warnings = append(warnings, fmt.Sprintf(
					"%s payment %s/%s appears more than once in %s, counted once",
					kind, p.BSRCode, p.ChallanNo, info.Source))
				continue
			}
			if key != "" {
				infoKeys[key] = true
			}
			infoTotal += p.Amount
			infoCount++
			if stmtCount > 0 && key != "" && !stmtKeys[key] {
				warnings = append(warnings, fmt.Sprintf(
					"%s payment %s/%s reported only by %s, not counted",
					kind, p.BSRCode, p.ChallanNo, info.Source))
				log.Printf("uncounted %s payment %s/%s from %s", kind, p.BSRCode, p.ChallanNo, info.Source)
			}
		}
	}

	var values []sourceValue
	if stmtCount > 0 {
		values = append(values, sourceValue{stmt.Source, stmtTotal, stmt.Confidence})
		if infoCount > 0 {
			values = append(values, sourceValue{info.Source, infoTotal, info.Confidence})
		}
	} else if infoCount > 0 {
		// Statement has no challans of this kind, fall back to the info
		// statement's payments.
		values = append(values, sourceValue{info.Source, infoTotal, info.Confidence})
	}
	return values, warnings
}

func challanKey(bsr, challanNo string) string {
	if bsr == "" || challanNo == "" {
		return ""
	}
	return bsr + "/" + challanNo
}

func sumRows(rows []dto.TDSRow) int64 {
	var sum int64
	for _, r := range rows {
		sum += r.Amount
	}
	return sum
}

// CombineConfidence folds corroboration coverage, warning count and the
// weakest contributing source into a single score in [0,1].
func CombineConfidence(corroboratedFraction float64, warningCount int, minSourceConfidence float64) float64 {
	warningFactor := 1.0 - 0.1*float64(warningCount)
	if warningFactor < 0 {
		warningFactor = 0
	}
	score := 0.35*corroboratedFraction + 0.25*warningFactor + 0.40*minSourceConfidence
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
