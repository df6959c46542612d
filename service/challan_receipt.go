package service

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"strings"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"

	"itr-prep/dto"
	"itr-prep/utils"
)

// Treasury minor-head codes printed in challan CINs.
const (
	minorHeadAdvanceCode    = "100"
	minorHeadSelfAssessCode = "300"
)

// ChallanReceiptReader decodes the CIN QR stamped on bank challan
// receipts, giving a typed payment row without parsing the receipt
// body.
type ChallanReceiptReader struct {
	reader gozxing.Reader
}

func NewChallanReceiptReader() *ChallanReceiptReader {
	return &ChallanReceiptReader{reader: qrcode.NewQRCodeReader()}
}

// Read decodes the QR in the receipt image at path into a challan row.
func (r *ChallanReceiptReader) Read(path string) (*dto.ChallanRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open receipt image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode receipt image: %w", err)
	}
	return r.ReadImage(img)
}

// ReadImage decodes the QR from an already-loaded image.
func (r *ChallanReceiptReader) ReadImage(img image.Image) (*dto.ChallanRow, error) {
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return nil, fmt.Errorf("prepare receipt bitmap: %w", err)
	}
	decoded, err := r.reader.Decode(bmp, nil)
	if err != nil {
		return nil, fmt.Errorf("no CIN QR found on receipt: %w", err)
	}
	return parseCIN(decoded.GetText())
}

// parseCIN parses the pipe-delimited CIN payload:
// CIN|<bsr>|<tender date>|<serial>|<minor head>|<amount>.
func parseCIN(payload string) (*dto.ChallanRow, error) {
	fields := strings.Split(strings.TrimSpace(payload), "|")
	if len(fields) != 6 || fields[0] != "CIN" {
		return nil, fmt.Errorf("malformed CIN payload %q", payload)
	}

	var kind dto.ChallanKind
	switch fields[4] {
	case minorHeadAdvanceCode:
		kind = dto.ChallanAdvance
	case minorHeadSelfAssessCode:
		kind = dto.ChallanSelfAssessment
	default:
		return nil, fmt.Errorf("CIN minor head %q is not a tax payment", fields[4])
	}

	amount := utils.ParseAmount(fields[5])
	if amount <= 0 {
		return nil, fmt.Errorf("CIN amount %q is not a positive amount", fields[5])
	}

	row, err := dto.NewChallanRow(kind, fields[1], fields[3], utils.ParseDate(fields[2]), amount)
	if err != nil {
		return nil, err
	}
	return &row, nil
}
