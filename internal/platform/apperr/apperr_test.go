package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestKindOf(t *testing.T) {
	err := E(NotFound, "grant not found")
	if KindOf(err) != NotFound {
		t.Errorf("expected NotFound, got %v", KindOf(err))
	}
	wrapped := fmt.Errorf("revoke: %w", err)
	if KindOf(wrapped) != NotFound {
		t.Errorf("expected NotFound through wrap, got %v", KindOf(wrapped))
	}
	if KindOf(errors.New("boom")) != Internal {
		t.Error("unknown errors must map to Internal")
	}
}

func TestWrapUnwrap(t *testing.T) {
	inner := errors.New("connection refused")
	err := Wrap(Internal, inner, "store write failed")
	if !errors.Is(err, inner) {
		t.Error("Wrap must preserve the error chain")
	}
	if err.Error() != "store write failed" {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestHTTPStatusMapping(t *testing.T) {
	cases := []struct {
		kind   Kind
		status int
	}{
		{InvalidInput, http.StatusBadRequest},
		{Unauthorized, http.StatusUnauthorized},
		{AccessDenied, http.StatusForbidden},
		{NotFound, http.StatusNotFound},
		{Conflict, http.StatusConflict},
		{Internal, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		he := HTTP(E(tc.kind, "x"))
		if he.Code != tc.status {
			t.Errorf("kind %v: expected %d, got %d", tc.kind, tc.status, he.Code)
		}
	}
}

func TestHTTPInternalHidesDetail(t *testing.T) {
	he := HTTP(errors.New("pq: relation kv_store does not exist"))
	if he.Message != "internal server error" {
		t.Errorf("internal detail leaked: %v", he.Message)
	}
}
