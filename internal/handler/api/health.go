package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"SentiCast/internal/usecase"
)

type HealthHandler struct {
	catalog *usecase.CatalogService
}

func NewHealthHandler(catalog *usecase.CatalogService) *HealthHandler {
	return &HealthHandler{catalog: catalog}
}

func (h *HealthHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.Health)
}

type healthResponse struct {
	Status string `json:"status"`
	usecase.CatalogStatus
}

// Health is always 200 while the process serves; status says whether the
// catalog is ready.
func (h *HealthHandler) Health(c echo.Context) error {
	st := h.catalog.Status()
	res := healthResponse{Status: "ok", CatalogStatus: st}
	if !st.Loaded {
		res.Status = "loading"
	}
	return c.JSON(http.StatusOK, res)
}
