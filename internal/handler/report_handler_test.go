package handler_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/gayathriimasha/smart-campus-mis/internal/dto"
	"github.com/gayathriimasha/smart-campus-mis/internal/handler"
	"github.com/gayathriimasha/smart-campus-mis/internal/middleware"
	"github.com/gayathriimasha/smart-campus-mis/internal/report"
	"github.com/gayathriimasha/smart-campus-mis/internal/service"
	"github.com/gayathriimasha/smart-campus-mis/internal/source"
)

type mockReportService struct {
	view       dto.ReportViewResponse
	doc        report.Document
	ok         bool
	err        error
	lastKind   report.Kind
	lastWindow report.DateWindow
	lastViewer string
	lastCred   string
}

func (m *mockReportService) Build(_ context.Context, kind report.Kind, window report.DateWindow, credential string) (dto.ReportViewResponse, error) {
	m.lastKind, m.lastWindow, m.lastCred = kind, window, credential
	return m.view, m.err
}

func (m *mockReportService) ExportOnce(_ context.Context, kind report.Kind, window report.DateWindow, credential string) (report.Document, bool, error) {
	m.lastKind, m.lastWindow, m.lastCred = kind, window, credential
	return m.doc, m.ok, m.err
}

func (m *mockReportService) Select(_ context.Context, viewer string, kind report.Kind, credential string) (dto.ReportViewResponse, error) {
	m.lastViewer, m.lastKind, m.lastCred = viewer, kind, credential
	return m.view, m.err
}

func (m *mockReportService) ChangeWindow(_ context.Context, viewer string, window report.DateWindow) (dto.ReportViewResponse, error) {
	m.lastViewer, m.lastWindow = viewer, window
	return m.view, m.err
}

func (m *mockReportService) Current(_ context.Context, viewer string) (dto.ReportViewResponse, error) {
	m.lastViewer = viewer
	return m.view, m.err
}

func (m *mockReportService) Export(_ context.Context, viewer string) (report.Document, bool, error) {
	m.lastViewer = viewer
	return m.doc, m.ok, m.err
}

func newReportApp(svc service.ReportService) *fiber.App {
	app := fiber.New()
	app.Use(middleware.Viewer())
	handler.NewReportHandler(svc, nil, nil, zerolog.New(io.Discard)).Register(app.Group("/api/v1/reports"))
	return app
}

func sampleDocument() report.Document {
	return report.Document{
		Title:     report.DefaultTitle,
		Subtitle:  "Report: Announcements",
		DateRange: "Date Range: N/A - N/A",
		Table: report.Table{
			Headers: report.Headers(report.KindAnnouncements),
			Rows:    [][]string{{"Welcome", "Alice", "1/1/2024"}},
		},
	}
}

func TestReportHandler_BuildParsesWindowAndCredential(t *testing.T) {
	svc := &mockReportService{view: dto.ReportViewResponse{Kind: report.KindRegistrations}}
	app := newReportApp(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/registrations?start=2024-01-01&end=2024-01-31", nil)
	req.Header.Set("Authorization", "Bearer campus-token")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	require.Equal(t, report.KindRegistrations, svc.lastKind)
	require.Equal(t, "campus-token", svc.lastCred)
	require.NotNil(t, svc.lastWindow.Start)
	require.NotNil(t, svc.lastWindow.End)
	require.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), *svc.lastWindow.Start)
	require.Equal(t, time.Date(2024, 1, 31, 23, 59, 59, 999999999, time.UTC), *svc.lastWindow.End)

	var body struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
		Notice  string `json:"notice"`
		Data    struct {
			Kind report.Kind `json:"kind"`
		} `json:"data"`
	}
	decodeResponse(t, resp, &body)
	require.True(t, body.Success)
	require.Equal(t, "report generated", body.Message)
	require.Empty(t, body.Notice)
	require.Equal(t, report.KindRegistrations, body.Data.Kind)
}

func TestReportHandler_BuildSurfacesNotice(t *testing.T) {
	svc := &mockReportService{view: dto.ReportViewResponse{Kind: report.KindAnnouncements, Notice: service.NoticeMissingCredential}}
	app := newReportApp(svc)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/reports/announcements", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Notice string `json:"notice"`
	}
	decodeResponse(t, resp, &body)
	require.Equal(t, service.NoticeMissingCredential, body.Notice)
	require.Empty(t, svc.lastCred)
}

func TestReportHandler_BuildRejectsBadInput(t *testing.T) {
	svc := &mockReportService{}
	app := newReportApp(svc)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/reports/grades", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/reports/registrations?start=01/02/2024", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var body struct {
		Success bool              `json:"success"`
		Details map[string]string `json:"details"`
	}
	decodeResponse(t, resp, &body)
	require.False(t, body.Success)
	require.Equal(t, "datetime", body.Details["Start"])
	require.Equal(t, report.KindNone, svc.lastKind)
}

func TestReportHandler_SelectUsesViewerHeader(t *testing.T) {
	svc := &mockReportService{view: dto.ReportViewResponse{Kind: report.KindAnnouncements, Selected: report.KindAnnouncements}}
	app := newReportApp(svc)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/reports/session/kind", strings.NewReader(`{"kind":"announcements"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.ViewerHeader, "dashboard-7")
	req.Header.Set("Authorization", "Bearer campus-token")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, "dashboard-7", svc.lastViewer)
	require.Equal(t, report.KindAnnouncements, svc.lastKind)
	require.Equal(t, "campus-token", svc.lastCred)
}

func TestReportHandler_SelectValidation(t *testing.T) {
	svc := &mockReportService{}
	app := newReportApp(svc)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/reports/session/kind", strings.NewReader(`{"kind":"grades"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	require.Empty(t, svc.lastViewer)
}

func TestReportHandler_SessionErrorMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		statusCode int
	}{
		{name: "superseded", err: service.ErrSuperseded, statusCode: fiber.StatusConflict},
		{name: "store failure", err: errors.New("redis down"), statusCode: fiber.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := newReportApp(&mockReportService{err: tc.err})

			req := httptest.NewRequest(http.MethodPut, "/api/v1/reports/session/kind", strings.NewReader(`{"kind":"registrations"}`))
			req.Header.Set("Content-Type", "application/json")
			resp, err := app.Test(req)
			require.NoError(t, err)
			require.Equal(t, tc.statusCode, resp.StatusCode)
		})
	}
}

func TestReportHandler_ChangeWindow(t *testing.T) {
	svc := &mockReportService{}
	app := newReportApp(svc)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/reports/session/window", strings.NewReader(`{"start":"2024-02-01"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.ViewerHeader, "dashboard-7")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.NotNil(t, svc.lastWindow.Start)
	require.Nil(t, svc.lastWindow.End)
}

func TestReportHandler_SessionExport(t *testing.T) {
	t.Run("nothing selected", func(t *testing.T) {
		app := newReportApp(&mockReportService{ok: false})
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/reports/session/export", nil))
		require.NoError(t, err)
		require.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	})

	t.Run("pdf attachment", func(t *testing.T) {
		app := newReportApp(&mockReportService{ok: true, doc: sampleDocument()})
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/reports/session/export", nil), -1)
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		require.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
		require.Equal(t, `attachment; filename="report.pdf"`, resp.Header.Get("Content-Disposition"))

		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		require.True(t, bytes.HasPrefix(body, []byte("%PDF-")))
	})
}

func TestReportHandler_ExportOnceErrorMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		statusCode int
	}{
		{name: "missing credential", err: source.ErrMissingCredential, statusCode: fiber.StatusUnauthorized},
		{name: "expired credential", err: source.ErrInvalidCredential, statusCode: fiber.StatusUnauthorized},
		{name: "upstream failure", err: &source.FetchError{Resource: source.ResourceUsers, Status: 500}, statusCode: fiber.StatusBadGateway},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := newReportApp(&mockReportService{err: tc.err})
			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/reports/registrations/export", nil))
			require.NoError(t, err)
			require.Equal(t, tc.statusCode, resp.StatusCode)

			var body struct {
				Success bool   `json:"success"`
				Message string `json:"message"`
			}
			decodeResponse(t, resp, &body)
			require.False(t, body.Success)
			require.Equal(t, service.NoticeFor(tc.err), body.Message)
		})
	}
}
