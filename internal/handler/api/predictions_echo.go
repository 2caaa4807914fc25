package api

import (
	"errors"
	"time"

	models "MatchCast/internal/domain/models"
	"MatchCast/internal/usecase"
	xhttp "MatchCast/pkg/http"
	xlogger "MatchCast/pkg/logger"

	"github.com/labstack/echo/v4"
)

// PredictionsEchoHandler exposes the prediction pipeline over Echo.
type PredictionsEchoHandler struct {
	logger    *xlogger.Logger
	predictor *usecase.Predictor
	health    func() error
	started   time.Time
}

func NewPredictionsEchoHandler(logger *xlogger.Logger, predictor *usecase.Predictor, health func() error) *PredictionsEchoHandler {
	return &PredictionsEchoHandler{
		logger:    logger,
		predictor: predictor,
		health:    health,
		started:   time.Now(),
	}
}

func (h *PredictionsEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.POST("/predict", h.Predict)
	g.POST("/predict/batch", h.PredictBatch)
	g.GET("/health", h.HealthCheck)
}

func (h *PredictionsEchoHandler) Predict(c echo.Context) error {
	req := &models.PredictRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	pred, err := h.predictor.Predict(c.Request().Context(), *req)
	if err != nil {
		h.logger.Error("predict usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, toAppError(err))
	}
	return xhttp.SuccessResponse(c, pred)
}

func (h *PredictionsEchoHandler) PredictBatch(c echo.Context) error {
	req := &models.PredictBatchRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	items, err := h.predictor.PredictBatch(c.Request().Context(), *req)
	if err != nil {
		h.logger.Error("predict batch usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, toAppError(err))
	}
	return xhttp.SuccessResponse(c, map[string]interface{}{
		"count":   len(items),
		"results": items,
	})
}

func (h *PredictionsEchoHandler) HealthCheck(c echo.Context) error {
	status := "ok"
	if h.health != nil {
		if err := h.health(); err != nil {
			h.logger.Warn("health check degraded", xlogger.Error(err))
			status = "degraded"
		}
	}
	return xhttp.SuccessResponse(c, map[string]interface{}{
		"status":         status,
		"uptime_seconds": int64(time.Since(h.started).Seconds()),
	})
}

// toAppError maps domain errors onto transport errors: unknown teams are
// 404, malformed input 400, transient upstream faults 503.
func toAppError(err error) error {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return xhttp.NotFoundError(err.Error()).WithError(err)
	case models.IsValidation(err):
		return xhttp.BadRequestError(err.Error()).WithError(err)
	case models.IsTransient(err):
		return xhttp.ServiceUnavailableError(err.Error()).WithError(err)
	default:
		return err
	}
}
