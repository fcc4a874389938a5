package alerting

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/wellcare/wellcare/internal/platform/apperr"
	"github.com/wellcare/wellcare/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/alerts", h.listAlerts)
	api.PUT("/alerts/:id/read", h.markAlertRead)
	api.GET("/notifications", h.listNotifications)
	api.PUT("/notifications/:id/read", h.markNotificationRead)
}

func (h *Handler) listAlerts(c echo.Context) error {
	callerID := auth.UserIDFromContext(c.Request().Context())
	target := c.QueryParam("patientId")
	if target == "" {
		target = callerID
	}
	list, err := h.svc.ListAlerts(c.Request().Context(), callerID, target)
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"alerts": list})
}

func (h *Handler) markAlertRead(c echo.Context) error {
	a, err := h.svc.MarkAlertRead(c.Request().Context(), auth.UserIDFromContext(c.Request().Context()), c.Param("id"))
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"success": true, "alert": a})
}

func (h *Handler) listNotifications(c echo.Context) error {
	list, err := h.svc.ListNotifications(c.Request().Context(), auth.UserIDFromContext(c.Request().Context()))
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"notifications": list})
}

func (h *Handler) markNotificationRead(c echo.Context) error {
	n, err := h.svc.MarkNotificationRead(c.Request().Context(), auth.UserIDFromContext(c.Request().Context()), c.Param("id"))
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"success": true, "notification": n})
}
