// Package report filters, buckets and shapes campus records into chart series and export documents.
package report

import "strings"

// Kind identifies which report is being built.
type Kind string

const (
	// KindNone is the idle state before a report has been selected.
	KindNone Kind = ""
	// KindRegistrations buckets user registrations per month and role.
	KindRegistrations Kind = "registrations"
	// KindAnnouncements buckets announcements per sender.
	KindAnnouncements Kind = "announcements"
)

// ChartKind names the chart a caller should draw for a report.
type ChartKind string

const (
	// ChartLine is drawn for registration trends.
	ChartLine ChartKind = "line"
	// ChartBar is drawn for per-sender announcement counts.
	ChartBar ChartKind = "bar"
)

// ParseKind normalises user input into a Kind. Unknown values map to KindNone.
func ParseKind(value string) Kind {
	switch Kind(strings.ToLower(strings.TrimSpace(value))) {
	case KindRegistrations:
		return KindRegistrations
	case KindAnnouncements:
		return KindAnnouncements
	default:
		return KindNone
	}
}

// Valid reports whether the kind names a buildable report.
func (k Kind) Valid() bool {
	return k == KindRegistrations || k == KindAnnouncements
}

// Strategy returns the bucketing strategy used for the kind.
func (k Kind) Strategy() Strategy {
	if k == KindAnnouncements {
		return ByActor
	}
	return ByMonthAndRole
}

// Chart returns the chart kind matching the report.
func (k Kind) Chart() ChartKind {
	if k == KindAnnouncements {
		return ChartBar
	}
	return ChartLine
}

// Description is the human readable report name used in exports.
func (k Kind) Description() string {
	switch k {
	case KindRegistrations:
		return "User Registrations"
	case KindAnnouncements:
		return "Announcements"
	default:
		return ""
	}
}
