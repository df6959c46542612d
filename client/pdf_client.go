package client

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"itr-prep/dto"
)

// Column gaps wider than this many points separate table cells; text
// pieces closer together belong to the same cell.
const cellGap = 14.0

// PDFClient extracts page text and positional tables from statement
// PDFs.
type PDFClient struct{}

func NewPDFClient() *PDFClient {
	return &PDFClient{}
}

// ExtractContent returns the document's text (pages in order) together
// with any tables detected from the text layout.
func (c *PDFClient) ExtractContent(pdfData []byte) (*dto.DocumentContent, error) {
	r, err := pdf.NewReader(bytes.NewReader(pdfData), int64(len(pdfData)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}

	var textBuilder strings.Builder
	var tables [][][]string

	for pageIndex := 1; pageIndex <= r.NumPage(); pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		rows, err := page.GetTextByRow()
		if err == nil {
			for _, row := range rows {
				var parts []string
				for _, word := range row.Content {
					parts = append(parts, word.S)
				}
				line := strings.TrimSpace(strings.Join(parts, " "))
				if line != "" {
					textBuilder.WriteString(line)
					textBuilder.WriteString("\n")
				}
			}
		}

		tables = append(tables, detectTables(page.Content())...)
	}

	return &dto.DocumentContent{
		Text:   textBuilder.String(),
		Tables: tables,
	}, nil
}

// ExtractImages pulls the page images out of a scanned statement so the
// OCR client can read them.
func (c *PDFClient) ExtractImages(pdfData []byte) ([]image.Image, error) {
	tempDir, err := os.MkdirTemp("", "stmt_images")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(tempDir)

	tempFile, err := os.CreateTemp("", "stmt-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tempFile.Name())

	if _, err := tempFile.Write(pdfData); err != nil {
		tempFile.Close()
		return nil, fmt.Errorf("write pdf data: %w", err)
	}
	tempFile.Close()

	conf := model.NewDefaultConfiguration()
	if err := api.ExtractImagesFile(tempFile.Name(), tempDir, nil, conf); err != nil {
		return nil, fmt.Errorf("extract images: %w", err)
	}

	files, err := os.ReadDir(tempDir)
	if err != nil {
		return nil, fmt.Errorf("read temp dir: %w", err)
	}

	var images []image.Image
	for _, file := range files {
		if file.IsDir() {
			continue
		}
		imgFile, err := os.Open(filepath.Join(tempDir, file.Name()))
		if err != nil {
			continue
		}
		img, _, err := image.Decode(imgFile)
		imgFile.Close()
		if err != nil {
			continue
		}
		images = append(images, img)
	}

	return images, nil
}

// detectTables reconstructs tables from positioned text: pieces are
// grouped into lines by Y, split into cells at wide X gaps, and runs of
// two or more consecutive multi-cell lines become a table.
func detectTables(content pdf.Content) [][][]string {
	type piece struct {
		x, w float64
		s    string
	}

	lineMap := make(map[int][]piece)
	for _, t := range content.Text {
		if strings.TrimSpace(t.S) == "" {
			continue
		}
		yKey := int(math.Round(t.Y))
		lineMap[yKey] = append(lineMap[yKey], piece{x: t.X, w: t.W, s: t.S})
	}

	yKeys := make([]int, 0, len(lineMap))
	for y := range lineMap {
		yKeys = append(yKeys, y)
	}
	// PDF Y grows bottom-to-top.
	sort.Sort(sort.Reverse(sort.IntSlice(yKeys)))

	var tables [][][]string
	var current [][]string
	flush := func() {
		if len(current) >= 2 {
			tables = append(tables, current)
		}
		current = nil
	}

	for _, y := range yKeys {
		pieces := lineMap[y]
		sort.Slice(pieces, func(a, b int) bool { return pieces[a].x < pieces[b].x })

		var cells []string
		var cell strings.Builder
		prevEnd := math.Inf(-1)
		for _, p := range pieces {
			if cell.Len() > 0 && p.x-prevEnd > cellGap {
				cells = append(cells, strings.TrimSpace(cell.String()))
				cell.Reset()
			} else if cell.Len() > 0 {
				cell.WriteString(" ")
			}
			cell.WriteString(p.s)
			prevEnd = p.x + p.w
		}
		if cell.Len() > 0 {
			cells = append(cells, strings.TrimSpace(cell.String()))
		}

		if len(cells) >= 3 {
			current = append(current, cells)
		} else {
			flush()
		}
	}
	flush()

	return tables
}
