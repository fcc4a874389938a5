package apperr

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// HTTP converts a service error into an echo HTTP error. Internal errors
// get a generic message so store or upstream failures are never exposed.
func HTTP(err error) *echo.HTTPError {
	kind := KindOf(err)
	switch kind {
	case InvalidInput:
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case Unauthorized:
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	case AccessDenied:
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case NotFound:
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case Conflict:
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
}
