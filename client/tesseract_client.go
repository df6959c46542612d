package client

import (
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/otiai10/gosseract/v2"
)

// TesseractClient runs OCR on scanned statement pages. It is only used
// when a PDF carries no usable text layer.
type TesseractClient struct {
	dataPath string
}

func NewTesseractClient(dataPath string) *TesseractClient {
	return &TesseractClient{dataPath: dataPath}
}

// ExtractTextFromImage OCRs a single page image.
func (tc *TesseractClient) ExtractTextFromImage(img image.Image) (string, error) {
	tempFile, err := os.CreateTemp("", "stmt-page-*.png")
	if err != nil {
		return "", fmt.Errorf("create temp image file: %w", err)
	}
	defer os.Remove(tempFile.Name())

	if err := png.Encode(tempFile, img); err != nil {
		tempFile.Close()
		return "", fmt.Errorf("encode page image: %w", err)
	}
	tempFile.Close()

	return tc.ExtractTextFromFile(tempFile.Name())
}

// ExtractTextFromFile OCRs an image file on disk.
func (tc *TesseractClient) ExtractTextFromFile(filePath string) (string, error) {
	client := gosseract.NewClient()
	defer client.Close()

	if tc.dataPath != "" {
		client.SetTessdataPrefix(tc.dataPath)
	}
	if err := client.SetLanguage("eng"); err != nil {
		return "", fmt.Errorf("set OCR language: %w", err)
	}
	if err := client.SetImage(filePath); err != nil {
		return "", fmt.Errorf("set OCR image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("OCR extraction failed: %w", err)
	}
	return text, nil
}
