package report

import (
	"strings"
	"time"
)

// DefaultDateLayout renders dates as month/day/year without padding.
const DefaultDateLayout = "1/2/2006"

// NotAvailable is rendered for absent values.
const NotAvailable = "N/A"

// FormatDate renders t with layout, or NotAvailable for the zero time.
func FormatDate(t time.Time, layout string) string {
	if t.IsZero() {
		return NotAvailable
	}
	if layout == "" {
		layout = DefaultDateLayout
	}
	return t.Format(layout)
}

// TableRow is a record prepared for tabular display and export.
type TableRow interface {
	Cells() []string
}

// RegistrationRow is a registration with its date pre-formatted.
type RegistrationRow struct {
	RegistrationRecord
	Date string `json:"date"`
}

// Cells maps the row to the Name, Role, Registered At columns.
func (r RegistrationRow) Cells() []string {
	return []string{orNA(r.Name), orNA(string(r.Role)), orNA(r.Date)}
}

// ActivityRow is an announcement with its date pre-formatted.
type ActivityRow struct {
	ActivityRecord
	Date string `json:"date"`
}

// Cells maps the row to the Message, Sender, Sent At columns.
func (r ActivityRow) Cells() []string {
	return []string{orNA(r.Message), r.Actor(), orNA(r.Date)}
}

func orNA(value string) string {
	if strings.TrimSpace(value) == "" {
		return NotAvailable
	}
	return value
}

// BuildRegistrationRows passes filtered registrations through with formatted dates.
func BuildRegistrationRows(records []RegistrationRecord, layout string) []RegistrationRow {
	rows := make([]RegistrationRow, 0, len(records))
	for _, record := range records {
		rows = append(rows, RegistrationRow{RegistrationRecord: record, Date: FormatDate(record.CreatedAt, layout)})
	}
	return rows
}

// BuildActivityRows passes filtered announcements through with formatted dates.
func BuildActivityRows(records []ActivityRecord, layout string) []ActivityRow {
	rows := make([]ActivityRow, 0, len(records))
	for _, record := range records {
		rows = append(rows, ActivityRow{ActivityRecord: record, Date: FormatDate(record.CreatedAt, layout)})
	}
	return rows
}
