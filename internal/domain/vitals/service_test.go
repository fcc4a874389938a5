package vitals

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/wellcare/wellcare/internal/domain/alerting"
	"github.com/wellcare/wellcare/internal/domain/consent"
	"github.com/wellcare/wellcare/internal/domain/identity"
	"github.com/wellcare/wellcare/internal/platform/apperr"
	"github.com/wellcare/wellcare/internal/platform/auth"
	"github.com/wellcare/wellcare/internal/platform/store"
)

type testEnv struct {
	vitals   *Service
	alerts   *alerting.Service
	consents *consent.Service
	ids      *identity.Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	mem := store.NewMemory()
	tokens := auth.NewTokenService([]byte("0123456789abcdef0123456789abcdef"), time.Hour)
	ids := identity.NewService(identity.NewRepoKV(mem), tokens)
	consents := consent.NewService(consent.NewRepoKV(mem), ids)
	alerts := alerting.NewService(alerting.NewRepoKV(mem), consents, consents, zerolog.Nop())
	v := NewService(NewRepoKV(mem), consents, alerts, zerolog.Nop())
	return &testEnv{vitals: v, alerts: alerts, consents: consents, ids: ids}
}

func (e *testEnv) register(t *testing.T, email, role string) *identity.Principal {
	t.Helper()
	p, err := e.ids.Register(context.Background(), identity.RegisterInput{
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

func TestRecordAndListNewestFirst(t *testing.T) {
	env := newTestEnv(t)
	patient := env.register(t, "pat@example.com", identity.RolePatient)

	readings := [][2]int{{118, 76}, {122, 80}, {125, 82}}
	for _, r := range readings {
		res, err := env.vitals.Record(context.Background(), patient.ID, RecordInput{Systolic: r[0], Diastolic: r[1]})
		if err != nil {
			t.Fatalf("record %v: %v", r, err)
		}
		if res.Alert != nil {
			t.Errorf("reading %v should not alert, got %+v", r, res.Alert)
		}
		time.Sleep(time.Millisecond)
	}

	list, err := env.vitals.List(context.Background(), patient.ID, patient.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("vital count = %d, want 3", len(list))
	}
	if list[0].Systolic != 125 || list[2].Systolic != 118 {
		t.Errorf("not newest first: %d, %d, %d", list[0].Systolic, list[1].Systolic, list[2].Systolic)
	}
}

func TestRecordValidation(t *testing.T) {
	env := newTestEnv(t)
	patient := env.register(t, "pat@example.com", identity.RolePatient)

	cases := []RecordInput{
		{Systolic: 0, Diastolic: 80},
		{Systolic: 120, Diastolic: 0},
		{Systolic: -5, Diastolic: 80},
		{Systolic: 400, Diastolic: 80},
		{Systolic: 120, Diastolic: 400},
	}
	for _, in := range cases {
		if _, err := env.vitals.Record(context.Background(), patient.ID, in); !apperr.IsKind(err, apperr.InvalidInput) {
			t.Errorf("Record(%d/%d) error = %v, want InvalidInput", in.Systolic, in.Diastolic, err)
		}
	}
}

func TestRecordRaisesAlertAtThreshold(t *testing.T) {
	env := newTestEnv(t)
	patient := env.register(t, "pat@example.com", identity.RolePatient)

	cases := []struct {
		systolic, diastolic int
		severity            string
	}{
		{139, 89, ""},
		{140, 89, alerting.SeverityWarning},
		{139, 90, alerting.SeverityWarning},
		{160, 85, alerting.SeverityCritical},
		{150, 100, alerting.SeverityCritical},
	}
	for _, tc := range cases {
		res, err := env.vitals.Record(context.Background(), patient.ID, RecordInput{Systolic: tc.systolic, Diastolic: tc.diastolic})
		if err != nil {
			t.Fatalf("record %d/%d: %v", tc.systolic, tc.diastolic, err)
		}
		if tc.severity == "" {
			if res.Alert != nil {
				t.Errorf("%d/%d raised %+v, want none", tc.systolic, tc.diastolic, res.Alert)
			}
			continue
		}
		if res.Alert == nil {
			t.Errorf("%d/%d raised no alert, want %s", tc.systolic, tc.diastolic, tc.severity)
			continue
		}
		if res.Alert.Severity != tc.severity {
			t.Errorf("%d/%d severity = %q, want %q", tc.systolic, tc.diastolic, res.Alert.Severity, tc.severity)
		}
		if res.Alert.VitalID != res.Vital.ID {
			t.Errorf("alert vital id = %q, want %q", res.Alert.VitalID, res.Vital.ID)
		}
		time.Sleep(time.Millisecond)
	}
}

func TestListConsentGated(t *testing.T) {
	env := newTestEnv(t)
	patient := env.register(t, "pat@example.com", identity.RolePatient)
	carer := env.register(t, "care@example.com", identity.RoleCaregiver)

	if _, err := env.vitals.Record(context.Background(), patient.ID, RecordInput{Systolic: 120, Diastolic: 80}); err != nil {
		t.Fatalf("record: %v", err)
	}

	if _, err := env.vitals.List(context.Background(), carer.ID, patient.ID); !apperr.IsKind(err, apperr.AccessDenied) {
		t.Fatalf("expected AccessDenied before grant, got %v", err)
	}

	if _, err := env.consents.Grant(context.Background(), patient.ID, "care@example.com", consent.AccessView); err != nil {
		t.Fatalf("grant: %v", err)
	}
	list, err := env.vitals.List(context.Background(), carer.ID, patient.ID)
	if err != nil {
		t.Fatalf("list after grant: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("vital count = %d, want 1", len(list))
	}

	if err := env.consents.Revoke(context.Background(), patient.ID, "care@example.com"); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if _, err := env.vitals.List(context.Background(), carer.ID, patient.ID); !apperr.IsKind(err, apperr.AccessDenied) {
		t.Errorf("expected AccessDenied after revoke, got %v", err)
	}
}

func TestRecordSurvivesAlertFailure(t *testing.T) {
	env := newTestEnv(t)
	patient := env.register(t, "pat@example.com", identity.RolePatient)
	env.vitals.alerter = failingAlerter{}

	res, err := env.vitals.Record(context.Background(), patient.ID, RecordInput{Systolic: 165, Diastolic: 95})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if res.Alert != nil {
		t.Errorf("alert should be nil on evaluation failure, got %+v", res.Alert)
	}

	list, err := env.vitals.List(context.Background(), patient.ID, patient.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("vital count = %d, want 1", len(list))
	}
}

type failingAlerter struct{}

func (failingAlerter) Evaluate(ctx context.Context, ownerID, vitalID string, systolic, diastolic int) (*alerting.Alert, error) {
	return nil, context.DeadlineExceeded
}
