package service

import (
	"fmt"
	"log"
	"os"
	"strings"

	"itr-prep/client"
	"itr-prep/dto"
)

// DocumentExtractor is the raw-document-extraction collaborator the
// statement parser blocks on. Implementations read the file and return
// its page text plus any detected tables.
type DocumentExtractor interface {
	Extract(path string) (*dto.DocumentContent, error)
}

// Text layers shorter than this are treated as absent (scanned PDF).
const minTextLayer = 40

type pdfExtractor struct {
	pdfClient *client.PDFClient
	ocrClient *client.TesseractClient
	allowOCR  bool
}

// NewPDFExtractor builds the default extractor: embedded PDF text
// first, page-image OCR when the text layer is missing or too thin.
// Pass a nil ocrClient to disable the OCR fallback.
func NewPDFExtractor(pdfClient *client.PDFClient, ocrClient *client.TesseractClient) DocumentExtractor {
	return &pdfExtractor{
		pdfClient: pdfClient,
		ocrClient: ocrClient,
		allowOCR:  ocrClient != nil,
	}
}

func (e *pdfExtractor) Extract(path string) (*dto.DocumentContent, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read statement file: %w", err)
	}

	content, err := e.pdfClient.ExtractContent(data)
	if err != nil {
		return nil, fmt.Errorf("extract pdf content: %w", err)
	}

	if len(strings.TrimSpace(content.Text)) >= minTextLayer || !e.allowOCR {
		return content, nil
	}

	log.Printf("statement %s has no usable text layer, running OCR on page images", path)

	images, err := e.pdfClient.ExtractImages(data)
	if err != nil || len(images) == 0 {
		// Keep whatever the text layer gave us; the parser decides
		// whether it is enough.
		if err != nil {
			log.Printf("page image extraction failed for %s: %v", path, err)
		}
		return content, nil
	}

	var combined strings.Builder
	for _, img := range images {
		pageText, ocrErr := e.ocrClient.ExtractTextFromImage(img)
		if ocrErr != nil {
			log.Printf("OCR failed for a page of %s: %v", path, ocrErr)
			continue
		}
		combined.WriteString(pageText)
		combined.WriteString("\n")
	}

	if len(strings.TrimSpace(combined.String())) > len(strings.TrimSpace(content.Text)) {
		content.Text = combined.String()
	}
	return content, nil
}
