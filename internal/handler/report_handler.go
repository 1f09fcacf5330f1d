package handler

import (
	"bytes"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/gayathriimasha/smart-campus-mis/internal/dto"
	"github.com/gayathriimasha/smart-campus-mis/internal/middleware"
	"github.com/gayathriimasha/smart-campus-mis/internal/pdf"
	"github.com/gayathriimasha/smart-campus-mis/internal/report"
	"github.com/gayathriimasha/smart-campus-mis/internal/service"
	"github.com/gayathriimasha/smart-campus-mis/internal/source"
	"github.com/gayathriimasha/smart-campus-mis/internal/utils"
)

// ReportHandler serves report views, viewer sessions and PDF exports.
type ReportHandler struct {
	service     service.ReportService
	validate    *validator.Validate
	exportGuard fiber.Handler
	logger      zerolog.Logger
}

// NewReportHandler constructs the handler. exportGuard runs before export
// routes and may be nil.
func NewReportHandler(service service.ReportService, validate *validator.Validate, exportGuard fiber.Handler, logger zerolog.Logger) *ReportHandler {
	if validate == nil {
		validate = validator.New(validator.WithRequiredStructEnabled())
	}
	if exportGuard == nil {
		exportGuard = func(c *fiber.Ctx) error { return c.Next() }
	}
	return &ReportHandler{
		service:     service,
		validate:    validate,
		exportGuard: exportGuard,
		logger:      logger.With().Str("component", "report_handler").Logger(),
	}
}

// Register wires report routes. Session routes are registered before the
// kind parameter routes so "session" is never parsed as a kind.
func (h *ReportHandler) Register(router fiber.Router) {
	router.Get("/session", h.current)
	router.Put("/session/kind", h.selectKind)
	router.Put("/session/window", h.changeWindow)
	router.Get("/session/export", h.exportGuard, h.exportSession)
	router.Get("/:kind", h.build)
	router.Get("/:kind/export", h.exportGuard, h.exportOnce)
}

func (h *ReportHandler) build(c *fiber.Ctx) error {
	kind := report.ParseKind(c.Params("kind"))
	if !kind.Valid() {
		return utils.SendError(c, fiber.StatusNotFound, "unknown report")
	}

	var req dto.ReportWindowRequest
	if err := c.QueryParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid query")
	}
	window, err := h.window(req)
	if err != nil {
		return h.windowError(c, err)
	}

	view, err := h.service.Build(c.UserContext(), kind, window, middleware.GetCredential(c))
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Str("kind", string(kind)).Msg("failed to build report")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to build report")
	}

	return utils.SendNotice(c, "report generated", view.Notice, view)
}

func (h *ReportHandler) exportOnce(c *fiber.Ctx) error {
	kind := report.ParseKind(c.Params("kind"))
	if !kind.Valid() {
		return utils.SendError(c, fiber.StatusNotFound, "unknown report")
	}

	var req dto.ReportWindowRequest
	if err := c.QueryParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid query")
	}
	window, err := h.window(req)
	if err != nil {
		return h.windowError(c, err)
	}

	doc, ok, err := h.service.ExportOnce(c.UserContext(), kind, window, middleware.GetCredential(c))
	switch {
	case err != nil && source.IsAuthError(err):
		return utils.SendError(c, fiber.StatusUnauthorized, service.NoticeFor(err))
	case err != nil:
		requestLogger(h.logger, c).Warn().Err(err).Str("kind", string(kind)).Msg("export fetch failed")
		return utils.SendError(c, fiber.StatusBadGateway, service.NoticeFor(err))
	case !ok:
		return c.SendStatus(fiber.StatusNoContent)
	}

	return h.sendDocument(c, doc)
}

func (h *ReportHandler) current(c *fiber.Ctx) error {
	view, err := h.service.Current(c.UserContext(), middleware.GetViewer(c))
	if err != nil {
		return h.sessionError(c, err)
	}
	return utils.SendNotice(c, "report session retrieved", view.Notice, view)
}

func (h *ReportHandler) selectKind(c *fiber.Ctx) error {
	var req dto.ReportSelectRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}
	if err := h.validate.Struct(req); err != nil {
		return utils.Fail(c, fiber.StatusBadRequest, "invalid report kind", validationDetails(err))
	}

	view, err := h.service.Select(c.UserContext(), middleware.GetViewer(c), report.ParseKind(req.Kind), middleware.GetCredential(c))
	if err != nil {
		return h.sessionError(c, err)
	}
	return utils.SendNotice(c, "report selected", view.Notice, view)
}

func (h *ReportHandler) changeWindow(c *fiber.Ctx) error {
	var req dto.ReportWindowRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}
	window, err := h.window(req)
	if err != nil {
		return h.windowError(c, err)
	}

	view, err := h.service.ChangeWindow(c.UserContext(), middleware.GetViewer(c), window)
	if err != nil {
		return h.sessionError(c, err)
	}
	return utils.SendNotice(c, "date range updated", view.Notice, view)
}

func (h *ReportHandler) exportSession(c *fiber.Ctx) error {
	doc, ok, err := h.service.Export(c.UserContext(), middleware.GetViewer(c))
	if err != nil {
		return h.sessionError(c, err)
	}
	if !ok {
		return c.SendStatus(fiber.StatusNoContent)
	}
	return h.sendDocument(c, doc)
}

func (h *ReportHandler) window(req dto.ReportWindowRequest) (report.DateWindow, error) {
	if err := h.validate.Struct(req); err != nil {
		return report.DateWindow{}, err
	}
	return req.Window()
}

func (h *ReportHandler) windowError(c *fiber.Ctx, err error) error {
	if isValidationError(err) {
		return utils.Fail(c, fiber.StatusBadRequest, "dates must use YYYY-MM-DD", validationDetails(err))
	}
	return utils.SendError(c, fiber.StatusBadRequest, err.Error())
}

func (h *ReportHandler) sessionError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrSuperseded):
		return utils.SendError(c, fiber.StatusConflict, "a newer report selection is in progress")
	case errors.Is(err, service.ErrInvalidKind):
		return utils.SendError(c, fiber.StatusBadRequest, "invalid report kind")
	default:
		requestLogger(h.logger, c).Error().Err(err).Str("viewer", middleware.GetViewer(c)).Msg("report session operation failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "report session unavailable")
	}
}

func (h *ReportHandler) sendDocument(c *fiber.Ctx, doc report.Document) error {
	var buf bytes.Buffer
	if err := pdf.Render(doc, &buf, pdf.Options{}); err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to render report document")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to render report")
	}

	c.Attachment(pdf.FileName)
	c.Set(fiber.HeaderContentType, pdf.ContentType)
	return c.Send(buf.Bytes())
}
