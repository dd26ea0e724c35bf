package api

import (
	"github.com/labstack/echo/v4"

	models "SentiCast/internal/domain/models"
	"SentiCast/internal/service/ratelimit"
	"SentiCast/internal/usecase"
	xhttp "SentiCast/pkg/http"
	xlogger "SentiCast/pkg/logger"
)

// SentimentEchoHandler serves the multi-model sentiment panel.
type SentimentEchoHandler struct {
	logger *xlogger.Logger
	uc     *usecase.SentimentUseCase
	rl     *ratelimit.Limiter
}

// NewSentimentEchoHandler rate limits classify per client IP; a nil
// limiter disables limiting.
func NewSentimentEchoHandler(logger *xlogger.Logger, uc *usecase.SentimentUseCase, rl *ratelimit.Limiter) *SentimentEchoHandler {
	return &SentimentEchoHandler{logger: logger, uc: uc, rl: rl}
}

func (h *SentimentEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/sentiment")
	g.POST("/classify", h.Classify)
	g.GET("/endpoints", h.Endpoints)
	g.GET("/samples", h.Samples)
}

func (h *SentimentEchoHandler) Classify(c echo.Context) error {
	if h.rl != nil && !h.rl.Allow(c.RealIP()) {
		return xhttp.AppErrorResponse(c, xhttp.TooManyRequestsError("too many classification requests"))
	}

	req := &models.ClassifyRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.uc.Classify(c.Request().Context(), req.Text)
	if err != nil {
		return xhttp.AppErrorResponse(c, appError(err))
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *SentimentEchoHandler) Endpoints(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.uc.Endpoints())
}

func (h *SentimentEchoHandler) Samples(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.uc.Samples())
}
