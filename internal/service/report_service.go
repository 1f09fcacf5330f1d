package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/gayathriimasha/smart-campus-mis/internal/dto"
	"github.com/gayathriimasha/smart-campus-mis/internal/events"
	"github.com/gayathriimasha/smart-campus-mis/internal/middleware"
	"github.com/gayathriimasha/smart-campus-mis/internal/observability"
	"github.com/gayathriimasha/smart-campus-mis/internal/report"
	"github.com/gayathriimasha/smart-campus-mis/internal/session"
	"github.com/gayathriimasha/smart-campus-mis/internal/source"
)

var (
	// ErrInvalidKind indicates a report kind that cannot be built.
	ErrInvalidKind = errors.New("invalid report kind")
	// ErrSuperseded indicates the viewer selected another report while the fetch was in flight.
	ErrSuperseded = session.ErrSuperseded
)

// User-visible notices for fetch failures.
const (
	NoticeMissingCredential = "Sign in to load report data."
	NoticeInvalidCredential = "Your session has expired. Sign in again to load report data."
	NoticeFetchFailed       = "Report data could not be loaded. Select the report again to retry."
)

// NoticeFor maps a fetch error to the notice shown to the viewer.
func NoticeFor(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, source.ErrMissingCredential):
		return NoticeMissingCredential
	case errors.Is(err, source.ErrInvalidCredential):
		return NoticeInvalidCredential
	default:
		return NoticeFetchFailed
	}
}

// ExportPublisher announces exported documents.
type ExportPublisher interface {
	PublishExport(ctx context.Context, event events.ReportExported) error
}

// ReportOptions tunes report content.
type ReportOptions struct {
	Title      string
	DateLayout string
}

// ReportService builds report views and export documents.
type ReportService interface {
	Build(ctx context.Context, kind report.Kind, window report.DateWindow, credential string) (dto.ReportViewResponse, error)
	ExportOnce(ctx context.Context, kind report.Kind, window report.DateWindow, credential string) (report.Document, bool, error)
	Select(ctx context.Context, viewer string, kind report.Kind, credential string) (dto.ReportViewResponse, error)
	ChangeWindow(ctx context.Context, viewer string, window report.DateWindow) (dto.ReportViewResponse, error)
	Current(ctx context.Context, viewer string) (dto.ReportViewResponse, error)
	Export(ctx context.Context, viewer string) (report.Document, bool, error)
}

type reportService struct {
	fetcher   source.Fetcher
	sessions  session.Store
	publisher ExportPublisher
	opts      ReportOptions
	logger    zerolog.Logger
	now       func() time.Time
}

// NewReportService constructs the report service. publisher may be nil.
func NewReportService(fetcher source.Fetcher, sessions session.Store, publisher ExportPublisher, opts ReportOptions, logger zerolog.Logger) ReportService {
	if opts.Title == "" {
		opts.Title = report.DefaultTitle
	}
	if opts.DateLayout == "" {
		opts.DateLayout = report.DefaultDateLayout
	}
	return &reportService{
		fetcher:   fetcher,
		sessions:  sessions,
		publisher: publisher,
		opts:      opts,
		logger:    logger.With().Str("component", "report_service").Logger(),
		now:       time.Now,
	}
}

func (s *reportService) fetch(ctx context.Context, kind report.Kind, credential string) (report.Records, error) {
	tracer := otel.Tracer("github.com/gayathriimasha/smart-campus-mis/internal/service/report")
	ctx, span := tracer.Start(ctx, "report.fetch",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("report.kind", string(kind))),
	)
	defer span.End()

	start := s.now()
	defer func() {
		observability.ReportBuildLatency().WithLabelValues(string(kind)).Observe(time.Since(start).Seconds())
	}()

	resource, err := source.ResourceFor(kind)
	if err != nil {
		return report.Records{}, ErrInvalidKind
	}

	records, err := s.fetcher.Fetch(ctx, resource, credential)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch_failed")
		outcome := "fetch_error"
		if source.IsAuthError(err) {
			outcome = "auth_error"
		}
		observability.ReportBuilds().WithLabelValues(string(kind), outcome).Inc()
		return report.Records{}, err
	}

	span.SetAttributes(attribute.Int("report.records", records.Len()))
	observability.ReportBuilds().WithLabelValues(string(kind), "ok").Inc()
	return records, nil
}

func (s *reportService) view(records report.Records, window report.DateWindow, notice string) dto.ReportViewResponse {
	return dto.NewReportViewResponse(report.Assemble(records, window, s.opts.DateLayout), notice)
}

func (s *reportService) Build(ctx context.Context, kind report.Kind, window report.DateWindow, credential string) (dto.ReportViewResponse, error) {
	if !kind.Valid() {
		return dto.ReportViewResponse{}, ErrInvalidKind
	}

	records, err := s.fetch(ctx, kind, credential)
	if err != nil {
		s.logger.Warn().Err(err).
			Str("correlation_id", middleware.CorrelationIDFromContext(ctx)).
			Str("kind", string(kind)).
			Msg("report fetch failed")
		return s.view(report.Records{Kind: kind}, window, NoticeFor(err)), nil
	}

	return s.view(records, window, ""), nil
}

func (s *reportService) ExportOnce(ctx context.Context, kind report.Kind, window report.DateWindow, credential string) (report.Document, bool, error) {
	if !kind.Valid() {
		return report.Document{}, false, nil
	}

	records, err := s.fetch(ctx, kind, credential)
	if err != nil {
		return report.Document{}, false, err
	}

	return s.export(ctx, "", report.Assemble(records, window, s.opts.DateLayout))
}

func (s *reportService) Select(ctx context.Context, viewer string, kind report.Kind, credential string) (dto.ReportViewResponse, error) {
	if !kind.Valid() {
		return dto.ReportViewResponse{}, ErrInvalidKind
	}

	generation, err := s.sessions.Begin(ctx, viewer, kind)
	if err != nil {
		return dto.ReportViewResponse{}, err
	}

	records, fetchErr := s.fetch(ctx, kind, credential)

	var current session.Session
	if fetchErr != nil {
		s.logger.Warn().Err(fetchErr).
			Str("correlation_id", middleware.CorrelationIDFromContext(ctx)).
			Str("viewer", viewer).
			Str("kind", string(kind)).
			Msg("report fetch failed")
		current, err = s.sessions.SetNotice(ctx, viewer, generation, NoticeFor(fetchErr))
	} else {
		current, err = s.sessions.Commit(ctx, viewer, generation, records)
	}
	if errors.Is(err, session.ErrSuperseded) {
		observability.ReportSuperseded().Inc()
		s.logger.Info().Str("viewer", viewer).Str("kind", string(kind)).Int64("generation", generation).Msg("discarded superseded fetch result")
		return dto.ReportViewResponse{}, ErrSuperseded
	}
	if err != nil {
		return dto.ReportViewResponse{}, err
	}

	return s.sessionView(current), nil
}

func (s *reportService) sessionView(current session.Session) dto.ReportViewResponse {
	response := s.view(current.Active(), current.Window, current.Notice)
	response.Selected = current.Kind
	return response
}

func (s *reportService) ChangeWindow(ctx context.Context, viewer string, window report.DateWindow) (dto.ReportViewResponse, error) {
	current, err := s.sessions.SetWindow(ctx, viewer, window)
	if err != nil {
		return dto.ReportViewResponse{}, err
	}
	return s.sessionView(current), nil
}

func (s *reportService) Current(ctx context.Context, viewer string) (dto.ReportViewResponse, error) {
	current, err := s.sessions.Get(ctx, viewer)
	if err != nil {
		return dto.ReportViewResponse{}, err
	}
	return s.sessionView(current), nil
}

func (s *reportService) Export(ctx context.Context, viewer string) (report.Document, bool, error) {
	current, err := s.sessions.Get(ctx, viewer)
	if err != nil {
		return report.Document{}, false, err
	}
	if !current.Kind.Valid() {
		return report.Document{}, false, nil
	}
	return s.export(ctx, viewer, report.Assemble(current.Active(), current.Window, s.opts.DateLayout))
}

func (s *reportService) export(ctx context.Context, viewer string, view report.View) (report.Document, bool, error) {
	doc, ok := report.Export(view.Kind, view.Window, view.Rows, report.ExportOptions{
		Title:      s.opts.Title,
		DateLayout: s.opts.DateLayout,
	})
	if !ok {
		return report.Document{}, false, nil
	}

	observability.ReportExports().WithLabelValues(string(view.Kind)).Inc()

	if s.publisher != nil {
		event := events.ReportExported{
			Viewer:        viewer,
			Kind:          string(view.Kind),
			Rows:          len(doc.Table.Rows),
			CorrelationID: middleware.CorrelationIDFromContext(ctx),
			ExportedAt:    s.now().UTC(),
		}
		if err := s.publisher.PublishExport(ctx, event); err != nil {
			s.logger.Warn().Err(err).Str("kind", event.Kind).Msg("failed to publish export event")
		}
	}

	return doc, true, nil
}
