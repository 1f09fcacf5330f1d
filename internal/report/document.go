package report

import (
	"fmt"
	"time"
)

// DefaultTitle is the first line of every exported document.
const DefaultTitle = "Smart Campus MIS Report"

// Table is the tabular section of a document.
type Table struct {
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// Document is the ordered export content handed to a layout sink.
type Document struct {
	Title     string `json:"title"`
	Subtitle  string `json:"subtitle"`
	DateRange string `json:"date_range"`
	Table     Table  `json:"table"`
}

// Lines returns the document's text lines in display order.
func (d Document) Lines() []string {
	return []string{d.Title, d.Subtitle, d.DateRange}
}

// ExportOptions tunes document content.
type ExportOptions struct {
	Title      string
	DateLayout string
}

// Headers returns the table header row for a report kind.
func Headers(kind Kind) []string {
	switch kind {
	case KindRegistrations:
		return []string{"Name", "Role", "Registered At"}
	case KindAnnouncements:
		return []string{"Message", "Sender", "Sent At"}
	default:
		return nil
	}
}

// Export builds the document for a report. It reports false when no report kind
// is selected, which is an idle state rather than an error.
func Export(kind Kind, window DateWindow, rows []TableRow, opts ExportOptions) (Document, bool) {
	if !kind.Valid() {
		return Document{}, false
	}

	title := opts.Title
	if title == "" {
		title = DefaultTitle
	}

	body := make([][]string, 0, len(rows))
	for _, row := range rows {
		body = append(body, row.Cells())
	}

	return Document{
		Title:     title,
		Subtitle:  fmt.Sprintf("Report: %s", kind.Description()),
		DateRange: fmt.Sprintf("Date Range: %s - %s", formatBound(window.Start, opts.DateLayout), formatBound(window.End, opts.DateLayout)),
		Table: Table{
			Headers: Headers(kind),
			Rows:    body,
		},
	}, true
}

func formatBound(t *time.Time, layout string) string {
	if t == nil {
		return NotAvailable
	}
	return FormatDate(*t, layout)
}
