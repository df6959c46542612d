package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTDSRowRejectsNegativeAmount(t *testing.T) {
	_, err := NewTDSRow("DELH12345E", "ACME LTD", "192", nil, nil, -1)
	assert.ErrorIs(t, err, ErrNegativeAmount)
}

func TestParseChallanKind(t *testing.T) {
	kind, err := ParseChallanKind("ADVANCE")
	require.NoError(t, err)
	assert.Equal(t, ChallanAdvance, kind)

	_, err = ParseChallanKind("REGULAR")
	assert.Error(t, err)
}

func TestNewChallanRowValidation(t *testing.T) {
	_, err := NewChallanRow("BOGUS", "0510308", "01234", nil, 5000)
	assert.Error(t, err)

	_, err = NewChallanRow(ChallanSelfAssessment, "0510308", "01234", nil, -5)
	assert.ErrorIs(t, err, ErrNegativeAmount)
}

func TestNewStatementExtractConfidenceBounds(t *testing.T) {
	_, err := NewStatementExtract(nil, nil, nil, nil, nil, SourceDeterministic, 1.5)
	assert.Error(t, err)

	_, err = NewStatementExtract(nil, nil, nil, nil, nil, SourceDeterministic, -0.1)
	assert.Error(t, err)

	extract, err := NewStatementExtract(nil, nil, nil, nil, nil, SourceDeterministic, 1.0)
	require.NoError(t, err)
	assert.True(t, extract.Empty())
	assert.NotNil(t, extract.Totals)
}

func TestNewStatementExtractRejectsBadRows(t *testing.T) {
	_, err := NewStatementExtract(
		[]TDSRow{{Deductor: "ACME LTD", Amount: -10}},
		nil, nil, nil, nil, SourceDeterministic, 1.0)
	assert.ErrorIs(t, err, ErrNegativeAmount)

	_, err = NewStatementExtract(nil, nil, nil,
		[]ChallanRow{{Kind: "BOGUS", Amount: 100}},
		nil, SourceDeterministic, 1.0)
	assert.Error(t, err)
}

func TestStatementExtractFlattenRoundTrip(t *testing.T) {
	extract, err := NewStatementExtract(
		[]TDSRow{{TAN: "DELH12345E", Deductor: "ACME LTD", Section: "192", Amount: 120000}},
		[]TDSRow{{Deductor: "HDFC BANK", Section: "194A", Amount: 14500}},
		nil,
		[]ChallanRow{{Kind: ChallanAdvance, BSRCode: "0510308", ChallanNo: "01234", Amount: 15000}},
		map[string]int64{"tds_salary_total": 120000},
		SourceDeterministic, 1.0)
	require.NoError(t, err)

	flat, err := extract.Flatten()
	require.NoError(t, err)

	back, err := StatementExtractFromMap(flat)
	require.NoError(t, err)
	assert.Equal(t, extract, back)
}

func TestParseMissUnwrap(t *testing.T) {
	inner := assert.AnError
	miss := &ParseMiss{Reason: "no sections", Err: inner}
	assert.ErrorIs(t, miss, inner)
	assert.Contains(t, miss.Error(), "no sections")

	bare := &ParseMiss{Reason: "no sections"}
	assert.Equal(t, "parse miss: no sections", bare.Error())
}
