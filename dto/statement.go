package dto

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// SourceDeterministic tags extracts produced by the deterministic
// statement parser. Fallback extractors use their own tag and a
// confidence below 1.
const SourceDeterministic = "DETERMINISTIC"

// ErrNegativeAmount is returned when a row is constructed with a
// negative monetary amount.
var ErrNegativeAmount = errors.New("amount must be non-negative")

// TDSRow is one deduction (or collection) entry from a tax-credit
// statement. Period dates are optional; statements frequently omit them.
type TDSRow struct {
	TAN        string     `json:"tan,omitempty"`
	Deductor   string     `json:"deductor,omitempty"`
	Section    string     `json:"section,omitempty"`
	PeriodFrom *time.Time `json:"period_from,omitempty"`
	PeriodTo   *time.Time `json:"period_to,omitempty"`
	Amount     int64      `json:"amount"`
}

// NewTDSRow builds a validated TDS row.
func NewTDSRow(tan, deductor, section string, from, to *time.Time, amount int64) (TDSRow, error) {
	if amount < 0 {
		return TDSRow{}, fmt.Errorf("tds row for %q: %w", deductor, ErrNegativeAmount)
	}
	return TDSRow{
		TAN:        tan,
		Deductor:   deductor,
		Section:    section,
		PeriodFrom: from,
		PeriodTo:   to,
		Amount:     amount,
	}, nil
}

// ChallanKind is the closed set of payment kinds a challan can carry.
type ChallanKind string

const (
	ChallanAdvance        ChallanKind = "ADVANCE"
	ChallanSelfAssessment ChallanKind = "SELF_ASSESSMENT"
)

// ParseChallanKind validates a challan kind string.
func ParseChallanKind(s string) (ChallanKind, error) {
	switch ChallanKind(s) {
	case ChallanAdvance, ChallanSelfAssessment:
		return ChallanKind(s), nil
	}
	return "", fmt.Errorf("invalid challan kind %q", s)
}

// ChallanRow is one tax payment entry (advance or self-assessment)
// evidenced by a treasury challan.
type ChallanRow struct {
	Kind      ChallanKind `json:"kind"`
	BSRCode   string      `json:"bsr_code,omitempty"`
	ChallanNo string      `json:"challan_no,omitempty"`
	PaidOn    *time.Time  `json:"paid_on,omitempty"`
	Amount    int64       `json:"amount"`
}

// NewChallanRow builds a validated challan row.
func NewChallanRow(kind ChallanKind, bsrCode, challanNo string, paidOn *time.Time, amount int64) (ChallanRow, error) {
	if _, err := ParseChallanKind(string(kind)); err != nil {
		return ChallanRow{}, err
	}
	if amount < 0 {
		return ChallanRow{}, fmt.Errorf("challan %s/%s: %w", bsrCode, challanNo, ErrNegativeAmount)
	}
	return ChallanRow{
		Kind:      kind,
		BSRCode:   bsrCode,
		ChallanNo: challanNo,
		PaidOn:    paidOn,
		Amount:    amount,
	}, nil
}

// StatementExtract is the typed result of parsing one tax-credit
// statement. It is created per parse call and never mutated afterwards.
type StatementExtract struct {
	TDSSalary  []TDSRow         `json:"tds_salary"`
	TDSOthers  []TDSRow         `json:"tds_others"`
	TCS        []TDSRow         `json:"tcs"`
	Challans   []ChallanRow     `json:"challans"`
	Totals     map[string]int64 `json:"totals"`
	Source     string           `json:"source"`
	Confidence float64          `json:"confidence"`
}

// NewStatementExtract validates and assembles an extract. Confidence
// outside [0,1] and negative row amounts are rejected.
func NewStatementExtract(salary, others, tcs []TDSRow, challans []ChallanRow, totals map[string]int64, source string, confidence float64) (*StatementExtract, error) {
	if confidence < 0 || confidence > 1 {
		return nil, fmt.Errorf("confidence %v outside [0,1]", confidence)
	}
	for _, rows := range [][]TDSRow{salary, others, tcs} {
		for _, r := range rows {
			if r.Amount < 0 {
				return nil, fmt.Errorf("tds row for %q: %w", r.Deductor, ErrNegativeAmount)
			}
		}
	}
	for _, c := range challans {
		if _, err := ParseChallanKind(string(c.Kind)); err != nil {
			return nil, err
		}
		if c.Amount < 0 {
			return nil, fmt.Errorf("challan %s/%s: %w", c.BSRCode, c.ChallanNo, ErrNegativeAmount)
		}
	}
	if totals == nil {
		totals = map[string]int64{}
	}
	return &StatementExtract{
		TDSSalary:  salary,
		TDSOthers:  others,
		TCS:        tcs,
		Challans:   challans,
		Totals:     totals,
		Source:     source,
		Confidence: confidence,
	}, nil
}

// Empty reports whether the extract carries no usable data.
func (e *StatementExtract) Empty() bool {
	if e == nil {
		return true
	}
	return len(e.TDSSalary) == 0 && len(e.TDSOthers) == 0 &&
		len(e.TCS) == 0 && len(e.Challans) == 0 && len(e.Totals) == 0
}

// Flatten renders the extract as the plain mapping the surrounding API
// layer would serialize. The mapping round-trips losslessly through
// StatementExtractFromMap.
func (e *StatementExtract) Flatten() (map[string]interface{}, error) {
	raw, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("flatten extract: %w", err)
	}
	var m map[string]interface{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("flatten extract: %w", err)
	}
	return m, nil
}

// StatementExtractFromMap reconstructs a validated extract from a
// flattened mapping.
func StatementExtractFromMap(m map[string]interface{}) (*StatementExtract, error) {
	raw, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("reconstruct extract: %w", err)
	}
	var e StatementExtract
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, fmt.Errorf("reconstruct extract: %w", err)
	}
	return NewStatementExtract(e.TDSSalary, e.TDSOthers, e.TCS, e.Challans, e.Totals, e.Source, e.Confidence)
}

// ParseMiss signals that deterministic parsing found no usable
// structure at all: the caller should escalate to a fallback extractor
// rather than retry. Low-quality rows do not raise it.
type ParseMiss struct {
	Reason string
	Err    error
}

func (e *ParseMiss) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse miss: %s: %v", e.Reason, e.Err)
	}
	return "parse miss: " + e.Reason
}

func (e *ParseMiss) Unwrap() error { return e.Err }
