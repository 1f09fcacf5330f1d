package session

import (
	"context"
	"errors"
	"time"

	"github.com/gayathriimasha/smart-campus-mis/internal/report"
)

// ErrSuperseded indicates a fetch result arrived after the viewer selected another report.
var ErrSuperseded = errors.New("selection superseded")

// Session is the report state of one viewer.
type Session struct {
	Viewer     string            `json:"viewer"`
	Kind       report.Kind       `json:"kind"`
	Generation int64             `json:"generation"`
	Window     report.DateWindow `json:"window"`
	Records    report.Records    `json:"records"`
	Loaded     bool              `json:"loaded"`
	Notice     string            `json:"notice,omitempty"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

// Store persists viewer sessions. Begin, Commit and SetNotice together form the
// stale-fetch guard: a fetch started for generation g may only land while g is current.
type Store interface {
	Get(ctx context.Context, viewer string) (Session, error)
	Begin(ctx context.Context, viewer string, kind report.Kind) (int64, error)
	Commit(ctx context.Context, viewer string, generation int64, records report.Records) (Session, error)
	SetNotice(ctx context.Context, viewer string, generation int64, notice string) (Session, error)
	SetWindow(ctx context.Context, viewer string, window report.DateWindow) (Session, error)
}

func begin(s *Session, kind report.Kind, now time.Time) {
	s.Kind = kind
	s.Generation++
	s.Notice = ""
	s.UpdatedAt = now
}

// commit stores records. Records belong to a kind, so a successful fetch replaces them.
func commit(s *Session, records report.Records, now time.Time) {
	s.Records = records
	s.Loaded = true
	s.Notice = ""
	s.UpdatedAt = now
}

func notice(s *Session, message string, now time.Time) {
	s.Notice = message
	s.UpdatedAt = now
}

// Active returns the records to build views from: the stored records when they
// belong to the selected kind, otherwise an empty set for the selected kind.
func (s Session) Active() report.Records {
	if s.Loaded && s.Records.Kind == s.Kind {
		return s.Records
	}
	return report.Records{Kind: s.Kind}
}
