package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// PDFExporter renders datasets as landscape tables, one section per sheet.
type PDFExporter struct {
	Title string
}

// NewPDFExporter builds a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Relative widths of the attendance columns. Extra columns share the last weight.
var columnWeights = []float64{3, 2, 2, 2, 3.5, 3.5, 2, 3, 1.3, 1.3, 3}

const (
	rowHeight    = 7
	bottomMargin = 15
)

// Render produces a PDF document for the datasets.
func (e *PDFExporter) Render(data []Dataset) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.SetAutoPageBreak(false, bottomMargin)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	for _, ds := range data {
		e.renderSheet(pdf, tr, ds)
	}

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (e *PDFExporter) renderSheet(pdf *gofpdf.Fpdf, tr func(string) string, ds Dataset) {
	widths := columnWidths(pdf, len(ds.Headers))

	pdf.AddPage()
	title := ds.Name
	if e.Title != "" {
		title = e.Title + " - " + ds.Name
	}
	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 10, tr(title), "", 1, "L", false, 0, "")
	pdf.Ln(2)
	e.renderHeader(pdf, tr, ds.Headers, widths)

	_, pageHeight := pdf.GetPageSize()
	pdf.SetFont("Arial", "", 8)
	for _, row := range ds.Rows {
		if pdf.GetY()+rowHeight > pageHeight-bottomMargin {
			pdf.AddPage()
			e.renderHeader(pdf, tr, ds.Headers, widths)
			pdf.SetFont("Arial", "", 8)
		}
		for i, w := range widths {
			value := ""
			if i < len(row) {
				value = fit(pdf, tr(row[i]), w)
			}
			pdf.CellFormat(w, rowHeight, value, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}
}

func (e *PDFExporter) renderHeader(pdf *gofpdf.Fpdf, tr func(string) string, headers []string, widths []float64) {
	pdf.SetFont("Arial", "B", 8)
	pdf.SetFillColor(230, 230, 230)
	for i, h := range headers {
		pdf.CellFormat(widths[i], rowHeight, fit(pdf, tr(h), widths[i]), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)
}

// columnWidths spreads the printable width across n columns by weight.
func columnWidths(pdf *gofpdf.Fpdf, n int) []float64 {
	if n == 0 {
		return nil
	}
	pageWidth, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	usable := pageWidth - left - right

	weights := make([]float64, n)
	var total float64
	for i := range weights {
		w := columnWeights[len(columnWeights)-1]
		if i < len(columnWeights) {
			w = columnWeights[i]
		}
		weights[i] = w
		total += w
	}
	for i := range weights {
		weights[i] = usable * weights[i] / total
	}
	return weights
}

// fit truncates s so it fits within width, leaving cell padding.
func fit(pdf *gofpdf.Fpdf, s string, width float64) string {
	limit := width - 2*pdf.GetCellMargin()
	if pdf.GetStringWidth(s) <= limit {
		return s
	}
	b := []byte(s)
	for len(b) > 0 && pdf.GetStringWidth(string(b)+"..") > limit {
		b = b[:len(b)-1]
	}
	return string(b) + ".."
}
