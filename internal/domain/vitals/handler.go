package vitals

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/wellcare/wellcare/internal/platform/apperr"
	"github.com/wellcare/wellcare/internal/platform/auth"
	"github.com/wellcare/wellcare/internal/platform/httpx"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/vitals", h.record)
	api.GET("/vitals", h.list)
}

func (h *Handler) record(c echo.Context) error {
	var req RecordInput
	if err := httpx.BindJSON(c, &req); err != nil {
		return apperr.HTTP(err)
	}
	res, err := h.svc.Record(c.Request().Context(), auth.UserIDFromContext(c.Request().Context()), req)
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"success": true,
		"vital":   res.Vital,
		"alert":   res.Alert,
	})
}

func (h *Handler) list(c echo.Context) error {
	callerID := auth.UserIDFromContext(c.Request().Context())
	target := c.QueryParam("patientId")
	if target == "" {
		target = callerID
	}
	list, err := h.svc.List(c.Request().Context(), callerID, target)
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"vitals": list})
}
