package predict

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medinsight/medinsight/internal/platform/metrics"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/predictions", h.CreatePrediction)
}

func (h *Handler) CreatePrediction(c echo.Context) error {
	var req Request
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	result, err := h.svc.Predict(req.PatientData)
	if err != nil {
		if errors.Is(err, ErrNoPatientData) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	metrics.RecordPrediction(len(result.Predictions), result.TrendDirection)
	return c.JSON(http.StatusOK, Response{Prediction: result})
}
