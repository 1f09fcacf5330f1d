package pdf

import (
	"fmt"
	"io"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/gayathriimasha/smart-campus-mis/internal/report"
)

// FileName is the suggested download name for exported reports.
const FileName = "report.pdf"

// ContentType is the MIME type of rendered documents.
const ContentType = "application/pdf"

const (
	margin     = 15.0
	lineHeight = 8.0
	rowHeight  = 7.0
)

// Options tunes document layout.
type Options struct {
	// CreatedAt pins the document creation date. Zero leaves the library default.
	CreatedAt time.Time
}

// Render lays the document out on A4 pages and writes the PDF to w: the title,
// subtitle and date range lines followed by a table with a header row.
func Render(doc report.Document, w io.Writer, opts Options) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, margin)
	if !opts.CreatedAt.IsZero() {
		pdf.SetCreationDate(opts.CreatedAt)
	}
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(tr(doc.Title), false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, lineHeight+2, tr(doc.Title), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 12)
	for _, line := range []string{doc.Subtitle, doc.DateRange} {
		pdf.CellFormat(0, lineHeight, tr(line), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	if len(doc.Table.Headers) > 0 {
		widths := columnWidths(pdf, len(doc.Table.Headers))
		header := func() {
			pdf.SetFont("Helvetica", "B", 11)
			pdf.SetFillColor(230, 230, 230)
			for i, heading := range doc.Table.Headers {
				pdf.CellFormat(widths[i], rowHeight, tr(heading), "1", 0, "L", true, 0, "")
			}
			pdf.Ln(-1)
			pdf.SetFont("Helvetica", "", 10)
		}
		header()

		_, pageHeight := pdf.GetPageSize()
		for _, row := range doc.Table.Rows {
			if pdf.GetY()+rowHeight > pageHeight-margin {
				pdf.AddPage()
				header()
			}
			for i := range widths {
				cell := ""
				if i < len(row) {
					cell = fit(pdf, tr(row[i]), widths[i])
				}
				pdf.CellFormat(widths[i], rowHeight, cell, "1", 0, "L", false, 0, "")
			}
			pdf.Ln(-1)
		}
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}

func columnWidths(pdf *fpdf.Fpdf, columns int) []float64 {
	pageWidth, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	width := (pageWidth - left - right) / float64(columns)
	widths := make([]float64, columns)
	for i := range widths {
		widths[i] = width
	}
	return widths
}

// fit truncates text with an ellipsis so it stays inside a cell.
func fit(pdf *fpdf.Fpdf, text string, width float64) string {
	limit := width - 2*pdf.GetCellMargin()
	if pdf.GetStringWidth(text) <= limit {
		return text
	}
	runes := []rune(text)
	for len(runes) > 0 && pdf.GetStringWidth(string(runes)+"...") > limit {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "..."
}
