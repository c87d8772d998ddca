package summary

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/medinsight/medinsight/internal/platform/metrics"
	"github.com/medinsight/medinsight/internal/platform/report"
)

// DocumentRenderer turns a composed report into a binary document.
// *report.Renderer satisfies it.
type DocumentRenderer interface {
	Render(doc report.Document) ([]byte, error)
}

type Handler struct {
	svc      *Service
	renderer DocumentRenderer
}

func NewHandler(svc *Service, renderer DocumentRenderer) *Handler {
	return &Handler{svc: svc, renderer: renderer}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/summaries", h.CreateSummary)
	api.POST("/summaries/pdf", h.CreateSummaryPDF)
}

func (h *Handler) CreateSummary(c echo.Context) error {
	rep, mode, err := h.summarize(c)
	if err != nil {
		return err
	}
	metrics.RecordSummary(string(mode))
	metrics.AddDateFallbacks(rep.UnknownDates)
	return c.JSON(http.StatusOK, Response{Summary: rep.Summary})
}

func (h *Handler) CreateSummaryPDF(c echo.Context) error {
	now := time.Now()
	rep, mode, err := h.summarize(c)
	if err != nil {
		return err
	}
	pdf, err := h.renderer.Render(report.Document{
		Title:     "Patient Medical Summary",
		Hospital:  rep.Hospital,
		Doctor:    rep.Doctor,
		Generated: now,
		Body:      rep.Summary,
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	metrics.RecordSummary(string(mode))
	metrics.AddDateFallbacks(rep.UnknownDates)
	return c.Blob(http.StatusOK, "application/pdf", pdf)
}

// summarize binds the shared request shape and runs the service. The mode
// comes from the "mode" query parameter; invocation time is captured once so
// timeline bucketing inside one request is consistent.
func (h *Handler) summarize(c echo.Context) (*Report, Mode, error) {
	now := time.Now()

	var req Request
	if err := c.Bind(&req); err != nil {
		return nil, "", echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	mode, err := ParseMode(c.QueryParam("mode"))
	if err != nil {
		return nil, "", echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	rep, err := h.svc.Summarize(c.Request().Context(), req.History, Options{
		Mode:          mode,
		EmergencyMode: req.Emergency(),
		Now:           now,
	})
	if err != nil {
		return nil, "", echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return rep, mode, nil
}
