package assistant

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
	api.POST("/ai/chat", h.chat)
	api.POST("/chat", h.chat)
	api.GET("/ai/chat/history", h.chatHistory)
	api.POST("/ai/symptom-check", h.symptomCheck)
	api.GET("/ai/symptom-history", h.symptomHistory)
	api.POST("/health-check/session", h.startSession)
	api.POST("/health-check/analyze-face", h.analyzeFace)
	api.POST("/health-check/session/complete", h.completeSession)
	api.GET("/health-check/history", h.checkHistory)
}

type chatRequest struct {
	Message             string           `json:"message"`
	ConversationHistory []HistoryMessage `json:"conversationHistory"`
}

func (h *Handler) chat(c echo.Context) error {
	var req chatRequest
	if err := httpx.BindJSON(c, &req); err != nil {
		return apperr.HTTP(err)
	}
	res, err := h.svc.Chat(c.Request().Context(), auth.UserIDFromContext(c.Request().Context()), req.Message, req.ConversationHistory)
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":      true,
		"message":      res.Message,
		"usedFallback": res.UsedFallback,
	})
}

func (h *Handler) chatHistory(c echo.Context) error {
	history, err := h.svc.ChatHistory(c.Request().Context(), auth.UserIDFromContext(c.Request().Context()))
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"history": history})
}

type symptomCheckRequest struct {
	Symptoms []string `json:"symptoms"`
	Duration string   `json:"duration"`
	Severity int      `json:"severity"`
}

func (h *Handler) symptomCheck(c echo.Context) error {
	var req symptomCheckRequest
	if err := httpx.BindJSON(c, &req); err != nil {
		return apperr.HTTP(err)
	}
	sc, err := h.svc.SymptomCheck(c.Request().Context(), auth.UserIDFromContext(c.Request().Context()), req.Symptoms, req.Duration, req.Severity)
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":  true,
		"analysis": sc.Analysis,
		"checkId":  sc.ID,
	})
}

func (h *Handler) symptomHistory(c echo.Context) error {
	checks, err := h.svc.SymptomHistory(c.Request().Context(), auth.UserIDFromContext(c.Request().Context()))
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"checks": checks})
}

func (h *Handler) startSession(c echo.Context) error {
	sess, err := h.svc.StartSession(c.Request().Context(), auth.UserIDFromContext(c.Request().Context()))
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"success":   true,
		"sessionId": sess.ID,
		"session":   sess,
	})
}

type analyzeFaceRequest struct {
	ImageData string `json:"imageData"`
	SessionID string `json:"sessionId"`
}

func (h *Handler) analyzeFace(c echo.Context) error {
	var req analyzeFaceRequest
	if err := httpx.BindJSON(c, &req); err != nil {
		return apperr.HTTP(err)
	}
	fa, err := h.svc.AnalyzeFace(c.Request().Context(), auth.UserIDFromContext(c.Request().Context()), req.ImageData, req.SessionID)
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":    true,
		"analysis":   fa.Analysis,
		"analysisId": fa.ID,
	})
}

type completeSessionRequest struct {
	SessionID string `json:"sessionId"`
}

func (h *Handler) completeSession(c echo.Context) error {
	var req completeSessionRequest
	if err := httpx.BindJSON(c, &req); err != nil {
		return apperr.HTTP(err)
	}
	sess, err := h.svc.CompleteSession(c.Request().Context(), auth.UserIDFromContext(c.Request().Context()), req.SessionID)
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"success": true, "session": sess})
}

func (h *Handler) checkHistory(c echo.Context) error {
	history, err := h.svc.History(c.Request().Context(), auth.UserIDFromContext(c.Request().Context()))
	if err != nil {
		return apperr.HTTP(err)
	}
	return c.JSON(http.StatusOK, history)
}
