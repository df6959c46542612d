package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"itr-prep/dto"
)

type stubExtractor struct {
	content *dto.DocumentContent
	err     error
}

func (s *stubExtractor) Extract(path string) (*dto.DocumentContent, error) {
	return s.content, s.err
}

func statementFixture() *dto.DocumentContent {
	return &dto.DocumentContent{
		Text: "Form 26AS - Annual Tax Statement\n" +
			"PART A - Details of Tax Deducted at Source on Salary\n" +
			"Total TDS on Salary: Rs. 1,20,000\n" +
			"PART B - TDS on payments other than salary\n" +
			"Total TDS on Other Income: Rs. 14,500\n" +
			"PART C - Details of Tax Collected at Source\n" +
			"Total TCS: Rs. 2,000\n" +
			"PART D - Details of Tax Paid (Advance Tax / Self Assessment)\n" +
			"Total Advance Tax: Rs. 15,000\n" +
			"Total Self Assessment Tax: Rs. 3,000\n",
		Tables: [][][]string{
			{
				{"TAN of Deductor", "Name of Deductor", "Section", "Period From", "Period To", "Amount"},
				{"DELA12345E", "ACME LTD", "192", "01/04/2024", "30/06/2024", "1,20,000"},
			},
			{
				{"TAN of Deductor", "Name of Deductor", "Section", "Period From", "Period To", "Amount"},
				{"MUMH67890F", "HDFC BANK", "194A", "01/04/2024", "31/03/2025", "14,500"},
			},
			{
				{"TAN of Collector", "Name of Collector", "Section", "Amount"},
				{"BLRT11223G", "TRAVELCO", "206C", "2,000"},
			},
			{
				{"BSR Code", "Challan Serial No", "Date of Deposit", "Minor Head", "Amount"},
				{"0510308", "00025", "15/06/2024", "100", "15,000"},
				{"0510308", "00031", "10/07/2025", "300", "3,000"},
			},
		},
	}
}

func TestParseStatement(t *testing.T) {
	parser := NewStatementParser(&stubExtractor{content: statementFixture()}, 1)

	extract, err := parser.Parse("26as.pdf")
	require.NoError(t, err)

	require.Len(t, extract.TDSSalary, 1)
	salary := extract.TDSSalary[0]
	assert.Equal(t, "DELA12345E", salary.TAN)
	assert.Equal(t, "ACME LTD", salary.Deductor)
	assert.Equal(t, "192", salary.Section)
	assert.Equal(t, int64(120000), salary.Amount)
	require.NotNil(t, salary.PeriodFrom)
	assert.Equal(t, 2024, salary.PeriodFrom.Year())

	require.Len(t, extract.TDSOthers, 1)
	assert.Equal(t, int64(14500), extract.TDSOthers[0].Amount)
	assert.Equal(t, "194A", extract.TDSOthers[0].Section)

	require.Len(t, extract.TCS, 1)
	assert.Equal(t, int64(2000), extract.TCS[0].Amount)

	require.Len(t, extract.Challans, 2)
	assert.Equal(t, dto.ChallanAdvance, extract.Challans[0].Kind)
	assert.Equal(t, int64(15000), extract.Challans[0].Amount)
	assert.Equal(t, "0510308", extract.Challans[0].BSRCode)
	assert.Equal(t, dto.ChallanSelfAssessment, extract.Challans[1].Kind)
	assert.Equal(t, int64(3000), extract.Challans[1].Amount)

	assert.Equal(t, int64(120000), extract.Totals["tds_salary_total"])
	assert.Equal(t, int64(2000), extract.Totals["tcs_total"])
	assert.Equal(t, int64(15000), extract.Totals["advance_tax_total"])
	assert.Equal(t, int64(3000), extract.Totals["self_assessment_total"])

	assert.Equal(t, dto.SourceDeterministic, extract.Source)
	assert.Equal(t, 1.0, extract.Confidence)
}

func TestParseStatementTextScanFallback(t *testing.T) {
	content := &dto.DocumentContent{
		Text: "PART A - Details of Tax Deducted at Source on Salary\n" +
			"Deducted by ACME LTD Rs. 50,000 during FY 2024-25\n" +
			"Advance Tax paid via challan\n" +
			"BSR: 0510308 paid ₹10,000 on 15/06/2024\n",
	}
	parser := NewStatementParser(&stubExtractor{content: content}, 1)

	extract, err := parser.Parse("26as.pdf")
	require.NoError(t, err)

	require.Len(t, extract.TDSSalary, 1)
	assert.Equal(t, int64(50000), extract.TDSSalary[0].Amount)

	require.Len(t, extract.Challans, 1)
	assert.Equal(t, dto.ChallanAdvance, extract.Challans[0].Kind)
	assert.Equal(t, int64(10000), extract.Challans[0].Amount)
	assert.Equal(t, "0510308", extract.Challans[0].BSRCode)
}

func TestParseStatementMissOnNoSections(t *testing.T) {
	content := &dto.DocumentContent{Text: "unrelated scanned letter\nnothing tax shaped here\n"}
	parser := NewStatementParser(&stubExtractor{content: content}, 1)

	_, err := parser.Parse("26as.pdf")
	var miss *dto.ParseMiss
	require.ErrorAs(t, err, &miss)
	assert.Contains(t, miss.Reason, "no statement sections")
}

func TestParseStatementMissOnExtractorError(t *testing.T) {
	boom := errors.New("unreadable pdf")
	parser := NewStatementParser(&stubExtractor{err: boom}, 1)

	_, err := parser.Parse("26as.pdf")
	var miss *dto.ParseMiss
	require.ErrorAs(t, err, &miss)
	assert.ErrorIs(t, err, boom)
}

func TestSupports(t *testing.T) {
	parser := NewStatementParser(&stubExtractor{}, 1)

	assert.True(t, parser.Supports("form26as", "statement.pdf"))
	assert.True(t, parser.Supports("Form_26AS", "STATEMENT.PDF"))
	assert.True(t, parser.Supports("26as", "dir/x.pdf"))
	assert.False(t, parser.Supports("form16", "statement.pdf"))
	assert.False(t, parser.Supports("form26as", "statement.docx"))
}
