// Package export renders attendance artifacts into downloadable files.
package export

import (
	"fmt"

	"github.com/JonMunkholm/attendance/internal/core"
)

// Dataset is one sheet flattened to text cells.
type Dataset struct {
	Name    string
	Headers []string
	Rows    [][]string
}

// datasets flattens every sheet of a in order.
func datasets(a *core.Artifact) []Dataset {
	out := make([]Dataset, len(a.Sheets))
	for i, s := range a.Sheets {
		rows := make([][]string, len(s.Rows))
		for j, r := range s.Rows {
			rows[j] = r.Values()
		}
		out[i] = Dataset{Name: s.Name, Headers: core.OutputColumns, Rows: rows}
	}
	return out
}

// Renderer dispatches an artifact to the exporter for its format.
type Renderer struct {
	XLSX *XLSXExporter
	CSV  *CSVExporter
	PDF  *PDFExporter
}

// NewRenderer builds a renderer with every exporter.
func NewRenderer() *Renderer {
	return &Renderer{
		XLSX: NewXLSXExporter(),
		CSV:  NewCSVExporter(),
		PDF:  NewPDFExporter(),
	}
}

// Render encodes a in a.Format.
func (r *Renderer) Render(a *core.Artifact) ([]byte, error) {
	if a == nil || len(a.Sheets) == 0 {
		return nil, &core.Error{Kind: core.KindEmptyExport, Message: "artifact has no sheets"}
	}

	data := datasets(a)
	switch a.Format {
	case core.FormatXLSX:
		return r.XLSX.Render(data)
	case core.FormatCSV:
		if len(data) != 1 {
			return nil, &core.Error{
				Kind:    core.KindUnsupportedFormat,
				Message: fmt.Sprintf("csv holds one sheet, got %d", len(data)),
			}
		}
		return r.CSV.Render(data[0])
	case core.FormatPDF:
		return r.PDF.Render(data)
	default:
		return nil, &core.Error{
			Kind:    core.KindUnsupportedFormat,
			Message: fmt.Sprintf("unsupported export format %q", a.Format),
		}
	}
}
