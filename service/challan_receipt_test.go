package service

import (
	"testing"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"itr-prep/dto"
)

func encodeCIN(t *testing.T, payload string) *gozxing.BitMatrix {
	t.Helper()
	matrix, err := qrcode.NewQRCodeWriter().Encode(payload, gozxing.BarcodeFormat_QR_CODE, 256, 256, nil)
	require.NoError(t, err)
	return matrix
}

func TestReadChallanReceiptQR(t *testing.T) {
	reader := NewChallanReceiptReader()
	img := encodeCIN(t, "CIN|0510308|15/06/2024|00025|100|15000")

	row, err := reader.ReadImage(img)
	require.NoError(t, err)

	assert.Equal(t, dto.ChallanAdvance, row.Kind)
	assert.Equal(t, "0510308", row.BSRCode)
	assert.Equal(t, "00025", row.ChallanNo)
	assert.Equal(t, int64(15000), row.Amount)
	require.NotNil(t, row.PaidOn)
	assert.Equal(t, 2024, row.PaidOn.Year())
}

func TestReadChallanReceiptSelfAssessment(t *testing.T) {
	reader := NewChallanReceiptReader()
	img := encodeCIN(t, "CIN|0510308|10/07/2025|00031|300|3000")

	row, err := reader.ReadImage(img)
	require.NoError(t, err)

	assert.Equal(t, dto.ChallanSelfAssessment, row.Kind)
	assert.Equal(t, int64(3000), row.Amount)
}

func TestReadChallanReceiptNoQR(t *testing.T) {
	reader := NewChallanReceiptReader()

	// A blank bitmap carries no QR at all.
	blank, err := gozxing.NewBitMatrix(64, 64)
	require.NoError(t, err)

	_, err = reader.ReadImage(blank)
	assert.Error(t, err)
}

func TestParseCIN(t *testing.T) {
	row, err := parseCIN("CIN|0510308|15/06/2024|00025|100|15000")
	require.NoError(t, err)
	assert.Equal(t, dto.ChallanAdvance, row.Kind)

	_, err = parseCIN("0510308|15/06/2024|00025|100|15000")
	assert.ErrorContains(t, err, "malformed CIN")

	_, err = parseCIN("CIN|0510308|15/06/2024|00025|400|15000")
	assert.ErrorContains(t, err, "minor head")

	_, err = parseCIN("CIN|0510308|15/06/2024|00025|100|zero")
	assert.ErrorContains(t, err, "amount")
}
