// Package httpx holds small HTTP-boundary helpers shared by the domain
// handlers.
package httpx

import (
	"encoding/json"
	"errors"
	"io"

	"github.com/labstack/echo/v4"

	"github.com/wellcare/wellcare/internal/platform/apperr"
)

// BindJSON decodes a request body into a closed record type. Unknown fields
// are rejected rather than silently dropped, so partial or misspelled
// payloads never reach storage.
func BindJSON(c echo.Context, v interface{}) error {
	dec := json.NewDecoder(c.Request().Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return apperr.E(apperr.InvalidInput, "request body is required")
		}
		return apperr.E(apperr.InvalidInput, "invalid request body: %v", err)
	}
	return nil
}
