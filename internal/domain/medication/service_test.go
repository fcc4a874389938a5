package medication

import (
	"context"
	"testing"
	"time"

	"github.com/wellcare/wellcare/internal/domain/consent"
	"github.com/wellcare/wellcare/internal/domain/identity"
	"github.com/wellcare/wellcare/internal/platform/apperr"
	"github.com/wellcare/wellcare/internal/platform/auth"
	"github.com/wellcare/wellcare/internal/platform/store"
)

type testEnv struct {
	meds     *Service
	consents *consent.Service
	ids      *identity.Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	mem := store.NewMemory()
	tokens := auth.NewTokenService([]byte("0123456789abcdef0123456789abcdef"), time.Hour)
	ids := identity.NewService(identity.NewRepoKV(mem), tokens)
	consents := consent.NewService(consent.NewRepoKV(mem), ids)
	return &testEnv{meds: NewService(NewRepoKV(mem), consents), consents: consents, ids: ids}
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

func TestAddDefaultsAndValidation(t *testing.T) {
	env := newTestEnv(t)
	patient := env.register(t, "pat@example.com", identity.RolePatient)

	m, err := env.meds.Add(context.Background(), patient.ID, AddInput{Name: "Lisinopril", Dosage: "10mg"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if m.Schedule != "as needed" {
		t.Errorf("schedule = %q, want default", m.Schedule)
	}
	if !m.Active {
		t.Error("new medication should be active")
	}

	if _, err := env.meds.Add(context.Background(), patient.ID, AddInput{Name: "Aspirin"}); !apperr.IsKind(err, apperr.InvalidInput) {
		t.Errorf("missing dosage: got %v, want InvalidInput", err)
	}
	if _, err := env.meds.Add(context.Background(), patient.ID, AddInput{Dosage: "81mg"}); !apperr.IsKind(err, apperr.InvalidInput) {
		t.Errorf("missing name: got %v, want InvalidInput", err)
	}
}

func TestViewGrantDoesNotCoverMedications(t *testing.T) {
	env := newTestEnv(t)
	patient := env.register(t, "pat@example.com", identity.RolePatient)
	carer := env.register(t, "care@example.com", identity.RoleCaregiver)

	if _, err := env.meds.Add(context.Background(), patient.ID, AddInput{Name: "Lisinopril", Dosage: "10mg"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := env.consents.Grant(context.Background(), patient.ID, "care@example.com", consent.AccessView); err != nil {
		t.Fatalf("grant: %v", err)
	}

	if _, err := env.meds.List(context.Background(), carer.ID, patient.ID); !apperr.IsKind(err, apperr.AccessDenied) {
		t.Fatalf("view grant listing medications: got %v, want AccessDenied", err)
	}
	if _, err := env.meds.ListDoseLogs(context.Background(), carer.ID, patient.ID); !apperr.IsKind(err, apperr.AccessDenied) {
		t.Fatalf("view grant listing dose logs: got %v, want AccessDenied", err)
	}

	if _, err := env.consents.Grant(context.Background(), patient.ID, "care@example.com", consent.AccessFull); err != nil {
		t.Fatalf("upgrade grant: %v", err)
	}
	list, err := env.meds.List(context.Background(), carer.ID, patient.ID)
	if err != nil {
		t.Fatalf("list with full grant: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("medication count = %d, want 1", len(list))
	}
}

func TestSetActiveOwnerOnly(t *testing.T) {
	env := newTestEnv(t)
	patient := env.register(t, "pat@example.com", identity.RolePatient)
	carer := env.register(t, "care@example.com", identity.RoleCaregiver)

	m, err := env.meds.Add(context.Background(), patient.ID, AddInput{Name: "Lisinopril", Dosage: "10mg"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	// Even a full grant never confers write access.
	if _, err := env.consents.Grant(context.Background(), patient.ID, "care@example.com", consent.AccessFull); err != nil {
		t.Fatalf("grant: %v", err)
	}
	if _, err := env.meds.SetActive(context.Background(), carer.ID, m.ID, false); !apperr.IsKind(err, apperr.NotFound) {
		t.Fatalf("non-owner set active: got %v, want NotFound", err)
	}

	got, err := env.meds.SetActive(context.Background(), patient.ID, m.ID, false)
	if err != nil {
		t.Fatalf("owner set active: %v", err)
	}
	if got.Active {
		t.Error("medication still active")
	}
}

func TestLogDose(t *testing.T) {
	env := newTestEnv(t)
	patient := env.register(t, "pat@example.com", identity.RolePatient)

	m, err := env.meds.Add(context.Background(), patient.ID, AddInput{Name: "Lisinopril", Dosage: "10mg"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	d, err := env.meds.LogDose(context.Background(), patient.ID, LogInput{MedicationID: m.ID})
	if err != nil {
		t.Fatalf("log dose: %v", err)
	}
	if !d.Taken {
		t.Error("taken should default to true")
	}
	time.Sleep(time.Millisecond)

	missed := false
	d2, err := env.meds.LogDose(context.Background(), patient.ID, LogInput{MedicationID: m.ID, Taken: &missed})
	if err != nil {
		t.Fatalf("log missed dose: %v", err)
	}
	if d2.Taken {
		t.Error("explicit taken=false ignored")
	}

	logs, err := env.meds.ListDoseLogs(context.Background(), patient.ID, patient.ID)
	if err != nil {
		t.Fatalf("list logs: %v", err)
	}
	if len(logs) != 2 {
		t.Fatalf("log count = %d, want 2", len(logs))
	}
	if logs[0].ID != d2.ID {
		t.Error("logs not newest first")
	}
}

func TestLogDoseUnknownMedication(t *testing.T) {
	env := newTestEnv(t)
	patient := env.register(t, "pat@example.com", identity.RolePatient)

	if _, err := env.meds.LogDose(context.Background(), patient.ID, LogInput{MedicationID: "medication:nope:1"}); !apperr.IsKind(err, apperr.NotFound) {
		t.Fatalf("got %v, want NotFound", err)
	}
	if _, err := env.meds.LogDose(context.Background(), patient.ID, LogInput{}); !apperr.IsKind(err, apperr.InvalidInput) {
		t.Fatalf("got %v, want InvalidInput", err)
	}
}

func TestLogDoseAgainstSomeoneElsesMedication(t *testing.T) {
	env := newTestEnv(t)
	patient := env.register(t, "pat@example.com", identity.RolePatient)
	other := env.register(t, "other@example.com", identity.RolePatient)

	m, err := env.meds.Add(context.Background(), patient.ID, AddInput{Name: "Lisinopril", Dosage: "10mg"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := env.meds.LogDose(context.Background(), other.ID, LogInput{MedicationID: m.ID}); !apperr.IsKind(err, apperr.NotFound) {
		t.Fatalf("got %v, want NotFound", err)
	}
}

func TestListOrdersActiveFirst(t *testing.T) {
	env := newTestEnv(t)
	patient := env.register(t, "pat@example.com", identity.RolePatient)

	m1, err := env.meds.Add(context.Background(), patient.ID, AddInput{Name: "Old", Dosage: "5mg"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	time.Sleep(time.Millisecond)
	m2, err := env.meds.Add(context.Background(), patient.ID, AddInput{Name: "New", Dosage: "10mg"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := env.meds.SetActive(context.Background(), patient.ID, m2.ID, false); err != nil {
		t.Fatalf("set active: %v", err)
	}

	list, err := env.meds.List(context.Background(), patient.ID, patient.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].ID != m1.ID || list[1].ID != m2.ID {
		t.Errorf("unexpected order: %q then %q", list[0].Name, list[1].Name)
	}
}
