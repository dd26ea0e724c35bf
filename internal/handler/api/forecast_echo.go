package api

import (
	"github.com/labstack/echo/v4"

	models "SentiCast/internal/domain/models"
	"SentiCast/internal/usecase"
	xhttp "SentiCast/pkg/http"
	xlogger "SentiCast/pkg/logger"
)

// ForecastEchoHandler serves the forecast comparison views.
type ForecastEchoHandler struct {
	logger  *xlogger.Logger
	view    *usecase.ForecastViewUseCase
	catalog *usecase.CatalogService
}

func NewForecastEchoHandler(logger *xlogger.Logger, view *usecase.ForecastViewUseCase, catalog *usecase.CatalogService) *ForecastEchoHandler {
	return &ForecastEchoHandler{logger: logger, view: view, catalog: catalog}
}

func (h *ForecastEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/forecast")
	g.GET("/models", h.Models)
	g.GET("/series", h.Series)
	g.POST("/reload", h.Reload)
}

func (h *ForecastEchoHandler) Models(c echo.Context) error {
	res, err := h.view.Models()
	if err != nil {
		return xhttp.AppErrorResponse(c, appError(err))
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *ForecastEchoHandler) Series(c echo.Context) error {
	req := &models.SeriesRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.view.Series(req.Model, req.Selection, req.Sentiment)
	if err != nil {
		mapped := appError(err)
		if mapped == err {
			h.logger.Error("series usecase error", xlogger.String("model", req.Model), xlogger.Error(err))
		}
		return xhttp.AppErrorResponse(c, mapped)
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=15")
	return xhttp.SuccessResponse(c, res)
}

type reloadResponse struct {
	Reloaded bool                  `json:"reloaded"`
	Status   usecase.CatalogStatus `json:"status"`
}

// Reload forces a rebuild from the configured source.
func (h *ForecastEchoHandler) Reload(c echo.Context) error {
	changed, err := h.catalog.Reload(c.Request().Context(), true)
	if err != nil {
		h.logger.Error("forced reload failed", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.ServiceUnavailableError("reload failed").WithError(err))
	}
	return xhttp.SuccessResponse(c, reloadResponse{Reloaded: changed, Status: h.catalog.Status()})
}
