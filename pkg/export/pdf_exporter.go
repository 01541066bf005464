package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// pdfTableWidth is the printable width on an A4 portrait page with
// 10mm side margins.
const pdfTableWidth = 190.0

// PDFExporter renders a dataset as a single-table PDF document.
type PDFExporter struct {
	titleFontSize float64
	cellFontSize  float64
}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{titleFontSize: 14, cellFontSize: 9}
}

// Render lays the dataset out as one bordered table with equal column
// widths. The title, when present, becomes a centered heading.
func (e *PDFExporter) Render(data Dataset, title string) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("pdf requires at least one header")
	}

	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetMargins(10, 15, 10)
	doc.AddPage()

	if title != "" {
		doc.SetFont("Arial", "B", e.titleFontSize)
		doc.CellFormat(0, 10, title, "", 1, "C", false, 0, "")
		doc.Ln(4)
	}

	cellWidth := pdfTableWidth / float64(len(data.Headers))
	e.writeHeaderRow(doc, data.Headers, cellWidth)

	doc.SetFont("Arial", "", e.cellFontSize)
	for _, row := range data.Rows {
		for _, header := range data.Headers {
			doc.CellFormat(cellWidth, 7, row[header], "1", 0, "", false, 0, "")
		}
		doc.Ln(-1)
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (e *PDFExporter) writeHeaderRow(doc *gofpdf.Fpdf, headers []string, cellWidth float64) {
	doc.SetFont("Arial", "B", 10)
	for _, header := range headers {
		doc.CellFormat(cellWidth, 8, header, "1", 0, "C", false, 0, "")
	}
	doc.Ln(-1)
}
