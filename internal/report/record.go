package report

import (
	"strings"
	"time"
)

// Role is the category of a registered user.
type Role string

const (
	// RoleStudent marks a registered student.
	RoleStudent Role = "student"
	// RoleLecturer marks a registered lecturer.
	RoleLecturer Role = "lecturer"
)

// UnknownActor is the bucket for announcements without a sender name.
const UnknownActor = "Unknown"

// Record is the capability shared by every record the engine consumes.
// A zero time from OccurredAt means the timestamp was absent or malformed.
type Record interface {
	RecordID() int
	OccurredAt() time.Time
}

// RegistrationRecord is a user account as seen by the registration report.
type RegistrationRecord struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func (r RegistrationRecord) RecordID() int         { return r.ID }
func (r RegistrationRecord) OccurredAt() time.Time { return r.CreatedAt }

// ActivityRecord is an announcement as seen by the activity report.
type ActivityRecord struct {
	ID        int       `json:"id"`
	Message   string    `json:"message"`
	ActorID   int       `json:"actor_id"`
	ActorName string    `json:"actor_name"`
	CreatedAt time.Time `json:"created_at"`
}

func (r ActivityRecord) RecordID() int         { return r.ID }
func (r ActivityRecord) OccurredAt() time.Time { return r.CreatedAt }

// Actor returns the sender bucket name, falling back to UnknownActor.
func (r ActivityRecord) Actor() string {
	if name := strings.TrimSpace(r.ActorName); name != "" {
		return name
	}
	return UnknownActor
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTimestamp parses the timestamp formats emitted by upstream record sources.
// It reports false and returns the zero time when the value cannot be parsed.
func ParseTimestamp(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}
