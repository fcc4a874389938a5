package identity

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/wellcare/wellcare/internal/platform/apperr"
	"github.com/wellcare/wellcare/internal/platform/auth"
	"github.com/wellcare/wellcare/internal/platform/httpx"
)

// Handler provides HTTP handlers for signup, login, and profiles.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes wires identity routes. Signup and login sit on the open
// group; profile routes require a bearer token.
func (h *Handler) RegisterRoutes(open, api *echo.Group) {
	open.POST("/auth/signup", h.Signup)
	open.POST("/auth/login", h.Login)
	api.GET("/auth/profile", h.GetProfile)
	api.PUT("/auth/profile", h.UpdateProfile)
}

func (h *Handler) Signup(c echo.Context) error {
	var in RegisterInput
	if err := httpx.BindJSON(c, &in); err != nil {
		return apperr.HTTP(err)
	}
	p, err := h.svc.Register(c.Request().Context(), in)
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"success": true,
		"userId":  p.ID,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) Login(c echo.Context) error {
	var in loginRequest
	if err := httpx.BindJSON(c, &in); err != nil {
		return apperr.HTTP(err)
	}
	token, p, err := h.svc.Login(c.Request().Context(), in.Email, in.Password)
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"accessToken": token,
		"profile":     p,
	})
}

func (h *Handler) GetProfile(c echo.Context) error {
	userID := auth.UserIDFromContext(c.Request().Context())
	p, err := h.svc.GetProfile(c.Request().Context(), userID)
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"profile": p})
}

func (h *Handler) UpdateProfile(c echo.Context) error {
	userID := auth.UserIDFromContext(c.Request().Context())
	var patch ProfileUpdate
	if err := httpx.BindJSON(c, &patch); err != nil {
		return apperr.HTTP(err)
	}
	p, err := h.svc.UpdateProfile(c.Request().Context(), userID, patch)
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"profile": p,
	})
}
