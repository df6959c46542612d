package service

import (
	"log"
	"path/filepath"
	"regexp"
	"strings"

	"itr-prep/dto"
	"itr-prep/utils"
)

// extractionStrategy tags how a section's rows were recovered: from a
// matched table, or by scanning the section's raw text.
type extractionStrategy string

const (
	strategyTable    extractionStrategy = "TABLE"
	strategyTextScan extractionStrategy = "TEXT_SCAN"
)

// Logical sections of a tax-credit statement, in document order.
const (
	sectionTDSSalary = "tds_salary"
	sectionTDSOthers = "tds_others"
	sectionTCS       = "tcs"
	sectionChallans  = "challans"
)

// The non-salary patterns are checked first: "NON-SALARY" headers would
// otherwise satisfy the salary pattern.
var sectionPatterns = []struct {
	name     string
	patterns []*regexp.Regexp
}{
	{sectionTDSOthers, compileAll(
		`TDS.*(?:OTHER|NON.?SALARY)`,
		`PART.*B.*TDS`,
		`SECTION.*(?:194|195|196)`,
	)},
	{sectionTDSSalary, compileAll(
		`TDS.*SALARY`,
		`PART.*A.*SALARY`,
		`SECTION.*192`,
	)},
	{sectionTCS, compileAll(
		`TCS.*COLLECTED`,
		`PART.*C.*TCS`,
		`TAX.*COLLECTED`,
	)},
	{sectionChallans, compileAll(
		`ADVANCE.*TAX`,
		`SELF.*ASSESSMENT`,
		`CHALLAN`,
		`PART.*D`,
	)},
}

// Expected header keywords per section schema, used to score candidate
// tables.
var (
	tdsTableKeywords     = []string{"TAN", "DEDUCTOR", "NAME", "SECTION", "AMOUNT", "PERIOD"}
	tcsTableKeywords     = []string{"TAN", "COLLECTOR", "NAME", "SECTION", "AMOUNT"}
	challanTableKeywords = []string{"BSR", "CHALLAN", "DATE", "AMOUNT", "PAID"}
)

var (
	currencyAmountPattern = regexp.MustCompile(`(?i)(?:₹|RS\.?|INR)\s*([0-9][0-9,]*(?:\.[0-9]+)?)`)
	bsrCodePattern        = regexp.MustCompile(`(?i)BSR[:\s]*([0-9]{6,7})`)
	minorHeadAdvance      = regexp.MustCompile(`^\s*100\s*$`)
	minorHeadSelfAssess   = regexp.MustCompile(`^\s*300\s*$`)
)

var totalPatterns = []struct {
	re  *regexp.Regexp
	key string
}{
	{regexp.MustCompile(`(?i)TOTAL.*TDS.*SALARY[^0-9\n]*([0-9][0-9,]*)`), "tds_salary_total"},
	{regexp.MustCompile(`(?i)TOTAL.*TDS.*OTHER[^0-9\n]*([0-9][0-9,]*)`), "tds_others_total"},
	{regexp.MustCompile(`(?i)TOTAL.*TCS[^0-9\n]*([0-9][0-9,]*)`), "tcs_total"},
	{regexp.MustCompile(`(?i)TOTAL.*ADVANCE[^0-9\n]*([0-9][0-9,]*)`), "advance_tax_total"},
	{regexp.MustCompile(`(?i)TOTAL.*SELF.*ASSESSMENT[^0-9\n]*([0-9][0-9,]*)`), "self_assessment_total"},
}

var statementKinds = map[string]bool{
	"form26as":  true,
	"form_26as": true,
	"26as":      true,
}

// StatementParser converts one statutory tax-credit statement into a
// typed extract without probabilistic inference. It holds no state
// between calls.
type StatementParser struct {
	extractor DocumentExtractor
	tolerance int64
}

// NewStatementParser wires the parser to its extraction collaborator.
// tolerance is the rupee slack allowed between summed rows and the
// statement's declared section totals.
func NewStatementParser(extractor DocumentExtractor, tolerance int64) *StatementParser {
	if tolerance <= 0 {
		tolerance = 1
	}
	return &StatementParser{extractor: extractor, tolerance: tolerance}
}

// Supports checks the requested kind against the parser's alias set and
// the file's extension.
func (p *StatementParser) Supports(kind, path string) bool {
	if !statementKinds[strings.ToLower(strings.TrimSpace(kind))] {
		return false
	}
	return strings.EqualFold(filepath.Ext(path), ".pdf")
}

// Parse extracts a typed statement from the file. It fails with a
// *dto.ParseMiss when the extraction backend errors or no sections can
// be identified, telling the caller to escalate to the fallback
// extractor.
func (p *StatementParser) Parse(path string) (*dto.StatementExtract, error) {
	content, err := p.extractor.Extract(path)
	if err != nil {
		return nil, &dto.ParseMiss{Reason: "document extraction failed", Err: err}
	}

	sections := detectSections(content.Text)
	if len(sections) == 0 {
		return nil, &dto.ParseMiss{Reason: "no statement sections detected"}
	}

	var salary, others, tcs []dto.TDSRow
	var challans []dto.ChallanRow
	claimed := make(map[int]bool)

	for _, sec := range sections {
		switch sec.name {
		case sectionTDSSalary:
			rows, strategy := p.parseTDSSection(sec.text, content.Tables, claimed, tdsTableKeywords)
			log.Printf("section %s: %d rows via %s", sec.name, len(rows), strategy)
			salary = append(salary, rows...)
		case sectionTDSOthers:
			rows, strategy := p.parseTDSSection(sec.text, content.Tables, claimed, tdsTableKeywords)
			log.Printf("section %s: %d rows via %s", sec.name, len(rows), strategy)
			others = append(others, rows...)
		case sectionTCS:
			rows, strategy := p.parseTDSSection(sec.text, content.Tables, claimed, tcsTableKeywords)
			log.Printf("section %s: %d rows via %s", sec.name, len(rows), strategy)
			tcs = append(tcs, rows...)
		case sectionChallans:
			rows, strategy := p.parseChallanSection(sec.text, content.Tables, claimed)
			log.Printf("section %s: %d challans via %s", sec.name, len(rows), strategy)
			challans = append(challans, rows...)
		}
	}

	totals := extractTotals(content.Text)

	extract, err := dto.NewStatementExtract(salary, others, tcs, challans, totals, dto.SourceDeterministic, 1.0)
	if err != nil {
		return nil, &dto.ParseMiss{Reason: "extract validation failed", Err: err}
	}

	p.crossCheckTotals(extract)
	return extract, nil
}

type section struct {
	name string
	text string
}

// detectSections walks the text line by line, starting a new section
// span whenever a section-header pattern matches. The same logical
// section may appear more than once (e.g. separate advance-tax and
// self-assessment challan blocks).
func detectSections(text string) []section {
	var sections []section
	var current *section

	for _, line := range strings.Split(text, "\n") {
		upper := strings.ToUpper(line)
		matched := ""
		// Summary lines ("Total Advance Tax ...") echo section keywords
		// but never open a section.
		if strings.Contains(upper, "TOTAL") {
			if current != nil {
				current.text += "\n" + line
			}
			continue
		}
		for _, sp := range sectionPatterns {
			for _, re := range sp.patterns {
				if re.MatchString(upper) {
					matched = sp.name
					break
				}
			}
			if matched != "" {
				break
			}
		}

		if matched != "" {
			if current != nil {
				sections = append(sections, *current)
			}
			current = &section{name: matched, text: line}
			continue
		}
		if current != nil {
			current.text += "\n" + line
		}
	}
	if current != nil {
		sections = append(sections, *current)
	}
	return sections
}

// parseTDSSection recovers typed TDS rows for a section, preferring the
// best-matching unclaimed table and falling back to a raw text scan.
func (p *StatementParser) parseTDSSection(sectionText string, tables [][][]string, claimed map[int]bool, keywords []string) ([]dto.TDSRow, extractionStrategy) {
	if idx := selectTable(tables, claimed, keywords); idx >= 0 {
		claimed[idx] = true
		if rows := parseTDSTable(tables[idx]); len(rows) > 0 {
			return rows, strategyTable
		}
	}
	return tdsRowsFromText(sectionText), strategyTextScan
}

// parseChallanSection recovers challan rows, resolving each row's kind
// from a minor-head column when present, else from the section context.
func (p *StatementParser) parseChallanSection(sectionText string, tables [][][]string, claimed map[int]bool) ([]dto.ChallanRow, extractionStrategy) {
	kind := challanKindFromContext(sectionText)

	if idx := selectTable(tables, claimed, challanTableKeywords); idx >= 0 {
		claimed[idx] = true
		if rows := parseChallanTable(tables[idx], kind); len(rows) > 0 {
			return rows, strategyTable
		}
	}
	return challansFromText(sectionText, kind), strategyTextScan
}

// selectTable returns the index of the unclaimed table whose header row
// overlaps the expected schema the most, or -1 when no table scores at
// least two keyword hits.
func selectTable(tables [][][]string, claimed map[int]bool, keywords []string) int {
	best, bestScore := -1, 1
	for i, table := range tables {
		if claimed[i] || len(table) < 2 {
			continue
		}
		if score := utils.HeaderScore(table[0], keywords); score > bestScore {
			best, bestScore = i, score
		}
	}
	return best
}

func parseTDSTable(table [][]string) []dto.TDSRow {
	headers := utils.NormalizeHeaders(table[0])
	var rows []dto.TDSRow

	for _, raw := range table[1:] {
		if len(raw) < 3 {
			continue
		}
		amountIdx, ok := headers[utils.ColAmount]
		if !ok {
			amountIdx = len(raw) - 1 // amount is conventionally the last column
		}
		amount := utils.ParseAmount(utils.Cell(raw, amountIdx))
		if amount <= 0 {
			continue
		}

		row, err := dto.NewTDSRow(
			utils.Cell(raw, idxOr(headers, utils.ColTAN)),
			utils.Cell(raw, idxOr(headers, utils.ColDeductor)),
			utils.Cell(raw, idxOr(headers, utils.ColSection)),
			utils.ParseDate(utils.Cell(raw, idxOr(headers, utils.ColPeriodFrom))),
			utils.ParseDate(utils.Cell(raw, idxOr(headers, utils.ColPeriodTo))),
			amount,
		)
		if err != nil {
			log.Printf("skipping unparseable TDS row %v: %v", raw, err)
			continue
		}
		rows = append(rows, row)
	}
	return rows
}

func parseChallanTable(table [][]string, contextKind dto.ChallanKind) []dto.ChallanRow {
	headers := utils.NormalizeHeaders(table[0])
	var rows []dto.ChallanRow

	for _, raw := range table[1:] {
		if len(raw) < 3 {
			continue
		}
		amountIdx, ok := headers[utils.ColAmount]
		if !ok {
			amountIdx = len(raw) - 1
		}
		amount := utils.ParseAmount(utils.Cell(raw, amountIdx))
		if amount <= 0 {
			continue
		}

		kind := contextKind
		if kindIdx, ok := headers[utils.ColKind]; ok {
			switch cell := utils.Cell(raw, kindIdx); {
			case minorHeadAdvance.MatchString(cell):
				kind = dto.ChallanAdvance
			case minorHeadSelfAssess.MatchString(cell):
				kind = dto.ChallanSelfAssessment
			}
		}

		row, err := dto.NewChallanRow(
			kind,
			utils.Cell(raw, idxOr(headers, utils.ColBSRCode)),
			utils.Cell(raw, idxOr(headers, utils.ColChallanNo)),
			utils.ParseDate(utils.Cell(raw, idxOr(headers, utils.ColPaidOn))),
			amount,
		)
		if err != nil {
			log.Printf("skipping unparseable challan row %v: %v", raw, err)
			continue
		}
		rows = append(rows, row)
	}
	return rows
}

// tdsRowsFromText is the coarse fallback: amounts preceded by a
// currency marker within the section span become amount-only rows.
func tdsRowsFromText(sectionText string) []dto.TDSRow {
	var rows []dto.TDSRow
	for _, m := range currencyAmountPattern.FindAllStringSubmatch(sectionText, -1) {
		amount := utils.ParseAmount(m[1])
		if amount <= 0 {
			continue
		}
		rows = append(rows, dto.TDSRow{Amount: amount})
	}
	return rows
}

func challansFromText(sectionText string, kind dto.ChallanKind) []dto.ChallanRow {
	bsrCodes := bsrCodePattern.FindAllStringSubmatch(sectionText, -1)
	var rows []dto.ChallanRow
	for i, m := range currencyAmountPattern.FindAllStringSubmatch(sectionText, -1) {
		amount := utils.ParseAmount(m[1])
		if amount <= 0 {
			continue
		}
		row := dto.ChallanRow{Kind: kind, Amount: amount}
		if i < len(bsrCodes) {
			row.BSRCode = bsrCodes[i][1]
		}
		rows = append(rows, row)
	}
	return rows
}

func challanKindFromContext(sectionText string) dto.ChallanKind {
	upper := strings.ToUpper(sectionText)
	if strings.Contains(upper, "SELF") {
		return dto.ChallanSelfAssessment
	}
	return dto.ChallanAdvance
}

func extractTotals(text string) map[string]int64 {
	totals := make(map[string]int64)
	for _, tp := range totalPatterns {
		if m := tp.re.FindStringSubmatch(text); m != nil {
			if amount := utils.ParseAmount(m[1]); amount > 0 {
				totals[tp.key] = amount
			}
		}
	}
	return totals
}

// crossCheckTotals compares summed row amounts against the statement's
// declared section totals. Mismatches beyond the tolerance are logged,
// never fatal.
func (p *StatementParser) crossCheckTotals(extract *dto.StatementExtract) {
	checks := []struct {
		key  string
		rows []dto.TDSRow
	}{
		{"tds_salary_total", extract.TDSSalary},
		{"tds_others_total", extract.TDSOthers},
		{"tcs_total", extract.TCS},
	}

	for _, check := range checks {
		declared, ok := extract.Totals[check.key]
		if !ok {
			continue
		}
		var computed int64
		for _, r := range check.rows {
			computed += r.Amount
		}
		if diff := computed - declared; diff > p.tolerance || diff < -p.tolerance {
			log.Printf("%s mismatch: rows sum to %d, statement declares %d", check.key, computed, declared)
		}
	}

	challanSums := map[string]int64{}
	for _, c := range extract.Challans {
		switch c.Kind {
		case dto.ChallanAdvance:
			challanSums["advance_tax_total"] += c.Amount
		case dto.ChallanSelfAssessment:
			challanSums["self_assessment_total"] += c.Amount
		}
	}
	for key, computed := range challanSums {
		declared, ok := extract.Totals[key]
		if !ok {
			continue
		}
		if diff := computed - declared; diff > p.tolerance || diff < -p.tolerance {
			log.Printf("%s mismatch: challans sum to %d, statement declares %d", key, computed, declared)
		}
	}
}

func idxOr(headers map[string]int, key string) int {
	if i, ok := headers[key]; ok {
		return i
	}
	return -1
}

func compileAll(patterns ...string) []*regexp.Regexp {
	res := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		res[i] = regexp.MustCompile(p)
	}
	return res
}
