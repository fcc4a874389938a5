package identity

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/wellcare/wellcare/internal/platform/apperr"
	"github.com/wellcare/wellcare/internal/platform/auth"
	"github.com/wellcare/wellcare/internal/platform/store"
)

func newTestService() *Service {
	tokens := auth.NewTokenService([]byte("0123456789abcdef0123456789abcdef"), time.Hour)
	return NewService(NewRepoKV(store.NewMemory()), tokens)
}

func register(t *testing.T, svc *Service, email, role string) *Principal {
	t.Helper()
	p, err := svc.Register(context.Background(), RegisterInput{
		Email:    email,
		Password: "password123",
		Name:     "Test User",
		Role:     role,
	})
	if err != nil {
		t.Fatalf("register %s: %v", email, err)
	}
	return p
}

func TestRegisterSuccess(t *testing.T) {
	svc := newTestService()
	p := register(t, svc, "pat@example.com", RolePatient)
	if p.ID == "" {
		t.Error("id not assigned")
	}
	if p.Role != RolePatient {
		t.Errorf("unexpected role %q", p.Role)
	}
}

func TestRegisterInvalidRole(t *testing.T) {
	svc := newTestService()
	_, err := svc.Register(context.Background(), RegisterInput{
		Email: "x@example.com", Password: "password123", Name: "X", Role: "admin",
	})
	if !apperr.IsKind(err, apperr.InvalidInput) {
		t.Fatalf("expected InvalidInput, got %v", err)
	}
}

func TestRegisterMissingFields(t *testing.T) {
	svc := newTestService()
	_, err := svc.Register(context.Background(), RegisterInput{Email: "x@example.com"})
	if !apperr.IsKind(err, apperr.InvalidInput) {
		t.Fatalf("expected InvalidInput, got %v", err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newTestService()
	register(t, svc, "pat@example.com", RolePatient)
	_, err := svc.Register(context.Background(), RegisterInput{
		Email: "pat@example.com", Password: "password123", Name: "Again", Role: RoleDoctor,
	})
	if !apperr.IsKind(err, apperr.Conflict) {
		t.Fatalf("expected Conflict, got %v", err)
	}
}

func TestLoginRoundTrip(t *testing.T) {
	svc := newTestService()
	p := register(t, svc, "pat@example.com", RolePatient)

	token, got, err := svc.Login(context.Background(), "pat@example.com", "password123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if token == "" {
		t.Error("no token issued")
	}
	if got.ID != p.ID {
		t.Errorf("profile mismatch: %s vs %s", got.ID, p.ID)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newTestService()
	register(t, svc, "pat@example.com", RolePatient)
	_, _, err := svc.Login(context.Background(), "pat@example.com", "wrongpassword")
	if !apperr.IsKind(err, apperr.Unauthorized) {
		t.Fatalf("expected Unauthorized, got %v", err)
	}
}

func TestLoginUnknownEmailIsUnauthorized(t *testing.T) {
	svc := newTestService()
	_, _, err := svc.Login(context.Background(), "ghost@example.com", "password123")
	// unknown email must not be distinguishable from a bad password
	if !apperr.IsKind(err, apperr.Unauthorized) {
		t.Fatalf("expected Unauthorized, got %v", err)
	}
}

func TestUpdateProfileFiltersImmutableFields(t *testing.T) {
	svc := newTestService()
	p := register(t, svc, "pat@example.com", RolePatient)

	name := "Renamed"
	age := 52
	got, err := svc.UpdateProfile(context.Background(), p.ID, ProfileUpdate{Name: &name, Age: &age})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Name != "Renamed" || got.Age == nil || *got.Age != 52 {
		t.Errorf("patch not applied: %+v", got)
	}
	if got.Email != "pat@example.com" || got.Role != RolePatient || got.ID != p.ID {
		t.Error("immutable fields changed")
	}

	// email index still resolves to the same principal
	id, err := svc.ResolveEmail(context.Background(), "pat@example.com")
	if err != nil || id != p.ID {
		t.Errorf("email index diverged: %s %v", id, err)
	}
}

func TestUpdateProfileHandlerDiscardsIdentityFields(t *testing.T) {
	svc := newTestService()
	p := register(t, svc, "pat@example.com", RolePatient)
	h := NewHandler(svc)
	e := echo.New()

	put := func(body string) (*httptest.ResponseRecorder, error) {
		req := httptest.NewRequest(http.MethodPut, "/auth/profile", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		req = req.WithContext(context.WithValue(req.Context(), auth.UserIDKey, p.ID))
		rec := httptest.NewRecorder()
		return rec, h.UpdateProfile(e.NewContext(req, rec))
	}

	// a patch echoing back immutable fields is filtered, not rejected
	rec, err := put(`{"name":"Patricia","email":"evil@example.com","role":"doctor"}`)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	got, err := svc.GetProfile(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	if got.Name != "Patricia" {
		t.Errorf("name not applied: %q", got.Name)
	}
	if got.Email != "pat@example.com" || got.Role != RolePatient {
		t.Errorf("immutable fields applied from patch: %s %s", got.Email, got.Role)
	}

	// a genuinely unknown field still fails strict binding
	_, err = put(`{"nickname":"Pat"}`)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown field, got %v", err)
	}
}

func TestUpdateProfileRejectsEmptyName(t *testing.T) {
	svc := newTestService()
	p := register(t, svc, "pat@example.com", RolePatient)
	empty := ""
	if _, err := svc.UpdateProfile(context.Background(), p.ID, ProfileUpdate{Name: &empty}); !apperr.IsKind(err, apperr.InvalidInput) {
		t.Fatalf("expected InvalidInput, got %v", err)
	}
}

func TestGetProfileNotFound(t *testing.T) {
	svc := newTestService()
	_, err := svc.GetProfile(context.Background(), "missing-id")
	if !apperr.IsKind(err, apperr.NotFound) {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestResolveEmailNotFound(t *testing.T) {
	svc := newTestService()
	_, err := svc.ResolveEmail(context.Background(), "ghost@example.com")
	if !apperr.IsKind(err, apperr.NotFound) {
		t.Fatalf("expected NotFound, got %v", err)
	}
}
