package consent

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
	api.POST("/consent/grant", h.grant)
	api.POST("/consent/revoke", h.revoke)
	api.GET("/consent/granted", h.listGranted)
	api.GET("/consent/patients", h.listPatients)
}

type grantRequest struct {
	GranteeEmail string `json:"granteeEmail"`
	AccessLevel  string `json:"accessLevel"`
}

func (h *Handler) grant(c echo.Context) error {
	var req grantRequest
	if err := httpx.BindJSON(c, &req); err != nil {
		return apperr.HTTP(err)
	}
	g, err := h.svc.Grant(c.Request().Context(), auth.UserIDFromContext(c.Request().Context()), req.GranteeEmail, req.AccessLevel)
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"success": true,
		"consent": g,
	})
}

type revokeRequest struct {
	GranteeEmail string `json:"granteeEmail"`
}

func (h *Handler) revoke(c echo.Context) error {
	var req revokeRequest
	if err := httpx.BindJSON(c, &req); err != nil {
		return apperr.HTTP(err)
	}
	if err := h.svc.Revoke(c.Request().Context(), auth.UserIDFromContext(c.Request().Context()), req.GranteeEmail); err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"success": true})
}

func (h *Handler) listGranted(c echo.Context) error {
	grants, err := h.svc.ListByPatient(c.Request().Context(), auth.UserIDFromContext(c.Request().Context()))
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"consents": grants})
}

func (h *Handler) listPatients(c echo.Context) error {
	patients, err := h.svc.ListPatients(c.Request().Context(), auth.UserIDFromContext(c.Request().Context()))
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"patients": patients})
}
