package medication

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
	api.POST("/medications", h.add)
	api.GET("/medications", h.list)
	api.PUT("/medications/:id/active", h.setActive)
	api.POST("/medications/log", h.logDose)
	api.GET("/medications/logs", h.listDoseLogs)
}

func (h *Handler) add(c echo.Context) error {
	var req AddInput
	if err := httpx.BindJSON(c, &req); err != nil {
		return apperr.HTTP(err)
	}
	m, err := h.svc.Add(c.Request().Context(), auth.UserIDFromContext(c.Request().Context()), req)
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{"success": true, "medication": m})
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
	return c.JSON(http.StatusOK, map[string]interface{}{"medications": list})
}

type setActiveRequest struct {
	Active *bool `json:"active"`
}

func (h *Handler) setActive(c echo.Context) error {
	var req setActiveRequest
	if err := httpx.BindJSON(c, &req); err != nil {
		return apperr.HTTP(err)
	}
	if req.Active == nil {
		return apperr.HTTP(apperr.E(apperr.InvalidInput, "active is required"))
	}
	m, err := h.svc.SetActive(c.Request().Context(), auth.UserIDFromContext(c.Request().Context()), c.Param("id"), *req.Active)
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"success": true, "medication": m})
}

func (h *Handler) logDose(c echo.Context) error {
	var req LogInput
	if err := httpx.BindJSON(c, &req); err != nil {
		return apperr.HTTP(err)
	}
	d, err := h.svc.LogDose(c.Request().Context(), auth.UserIDFromContext(c.Request().Context()), req)
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{"success": true, "log": d})
}

func (h *Handler) listDoseLogs(c echo.Context) error {
	callerID := auth.UserIDFromContext(c.Request().Context())
	target := c.QueryParam("patientId")
	if target == "" {
		target = callerID
	}
	list, err := h.svc.ListDoseLogs(c.Request().Context(), callerID, target)
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"logs": list})
}
