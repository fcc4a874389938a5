package integration

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/wellcare/wellcare/internal/domain/alerting"
	"github.com/wellcare/wellcare/internal/domain/consent"
	"github.com/wellcare/wellcare/internal/domain/identity"
	"github.com/wellcare/wellcare/internal/domain/medication"
	"github.com/wellcare/wellcare/internal/domain/vitals"
	"github.com/wellcare/wellcare/internal/platform/apperr"
	"github.com/wellcare/wellcare/internal/platform/auth"
	"github.com/wellcare/wellcare/internal/platform/store"
)

type services struct {
	ids      *identity.Service
	consents *consent.Service
	alerts   *alerting.Service
	vitals   *vitals.Service
	meds     *medication.Service
	tokens   *auth.TokenService
}

func newServices(t *testing.T) *services {
	t.Helper()
	mem := store.NewMemory()
	tokens := auth.NewTokenService([]byte("0123456789abcdef0123456789abcdef"), time.Hour)
	ids := identity.NewService(identity.NewRepoKV(mem), tokens)
	consents := consent.NewService(consent.NewRepoKV(mem), ids)
	alerts := alerting.NewService(alerting.NewRepoKV(mem), consents, consents, zerolog.Nop())
	v := vitals.NewService(vitals.NewRepoKV(mem), consents, alerts, zerolog.Nop())
	meds := medication.NewService(medication.NewRepoKV(mem), consents)
	return &services{ids: ids, consents: consents, alerts: alerts, vitals: v, meds: meds, tokens: tokens}
}

// TestPatientCaregiverSharing walks the primary product flow: a patient
// signs up, logs an elevated reading, shares their data with a caregiver,
// and the caregiver sees the alert land as a notification.
func TestPatientCaregiverSharing(t *testing.T) {
	ctx := context.Background()
	s := newServices(t)

	var patient, carer *identity.Principal

	t.Run("Signup", func(t *testing.T) {
		var err error
		patient, err = s.ids.Register(ctx, identity.RegisterInput{
			Email:    "maria@example.com",
			Password: "sunflower9",
			Name:     "Maria",
			Role:     identity.RolePatient,
		})
		if err != nil {
			t.Fatalf("register patient: %v", err)
		}
		carer, err = s.ids.Register(ctx, identity.RegisterInput{
			Email:    "jon@example.com",
			Password: "hunter2hunter2",
			Name:     "Jon",
			Role:     identity.RoleCaregiver,
		})
		if err != nil {
			t.Fatalf("register caregiver: %v", err)
		}
	})

	t.Run("Login", func(t *testing.T) {
		token, profile, err := s.ids.Login(ctx, "maria@example.com", "sunflower9")
		if err != nil {
			t.Fatalf("login: %v", err)
		}
		claims, err := s.tokens.Verify(token)
		if err != nil {
			t.Fatalf("verify token: %v", err)
		}
		if claims.Subject != patient.ID || profile.ID != patient.ID {
			t.Errorf("token subject %q, profile %q, want %q", claims.Subject, profile.ID, patient.ID)
		}
	})

	t.Run("GrantBeforeAlert", func(t *testing.T) {
		if _, err := s.consents.Grant(ctx, patient.ID, "jon@example.com", consent.AccessView); err != nil {
			t.Fatalf("grant: %v", err)
		}
	})

	var alertID string

	t.Run("ElevatedReadingRaisesWarning", func(t *testing.T) {
		res, err := s.vitals.Record(ctx, patient.ID, vitals.RecordInput{Systolic: 145, Diastolic: 92})
		if err != nil {
			t.Fatalf("record: %v", err)
		}
		if res.Alert == nil {
			t.Fatal("145/92 should raise an alert")
		}
		if res.Alert.Severity != alerting.SeverityWarning {
			t.Errorf("severity = %q, want warning", res.Alert.Severity)
		}
		alertID = res.Alert.ID
	})

	t.Run("CaregiverReceivesOneNotification", func(t *testing.T) {
		ns, err := s.alerts.ListNotifications(ctx, carer.ID)
		if err != nil {
			t.Fatalf("list notifications: %v", err)
		}
		if len(ns) != 1 {
			t.Fatalf("notification count = %d, want 1", len(ns))
		}
		n := ns[0]
		if n.AlertID != alertID || n.PatientID != patient.ID || n.RecipientID != carer.ID || n.Read {
			t.Errorf("notification = %+v", n)
		}
	})

	t.Run("CaregiverReadsVitalsNewestFirst", func(t *testing.T) {
		time.Sleep(time.Millisecond)
		if _, err := s.vitals.Record(ctx, patient.ID, vitals.RecordInput{Systolic: 122, Diastolic: 78}); err != nil {
			t.Fatalf("record second reading: %v", err)
		}
		list, err := s.vitals.List(ctx, carer.ID, patient.ID)
		if err != nil {
			t.Fatalf("caregiver list vitals: %v", err)
		}
		if len(list) != 2 {
			t.Fatalf("vital count = %d, want 2", len(list))
		}
		if list[0].Systolic != 122 || list[1].Systolic != 145 {
			t.Errorf("order: %d then %d, want newest first", list[0].Systolic, list[1].Systolic)
		}
	})

	t.Run("ViewGrantStopsAtMedications", func(t *testing.T) {
		if _, err := s.meds.Add(ctx, patient.ID, medication.AddInput{Name: "Lisinopril", Dosage: "10mg"}); err != nil {
			t.Fatalf("add medication: %v", err)
		}
		if _, err := s.meds.List(ctx, carer.ID, patient.ID); !apperr.IsKind(err, apperr.AccessDenied) {
			t.Fatalf("caregiver medications: got %v, want AccessDenied", err)
		}
	})

	t.Run("CaregiverPatientList", func(t *testing.T) {
		patients, err := s.consents.ListPatients(ctx, carer.ID)
		if err != nil {
			t.Fatalf("list patients: %v", err)
		}
		if len(patients) != 1 || patients[0].ID != patient.ID || patients[0].AccessLevel != consent.AccessView {
			t.Errorf("patients = %+v", patients)
		}
	})

	t.Run("RevokeClosesEverything", func(t *testing.T) {
		if err := s.consents.Revoke(ctx, patient.ID, "jon@example.com"); err != nil {
			t.Fatalf("revoke: %v", err)
		}
		if _, err := s.vitals.List(ctx, carer.ID, patient.ID); !apperr.IsKind(err, apperr.AccessDenied) {
			t.Errorf("vitals after revoke: got %v, want AccessDenied", err)
		}
		if _, err := s.alerts.ListAlerts(ctx, carer.ID, patient.ID); !apperr.IsKind(err, apperr.AccessDenied) {
			t.Errorf("alerts after revoke: got %v, want AccessDenied", err)
		}
	})
}

// TestCriticalReadingFanOut covers the critical threshold and fan-out to
// multiple recipients with mixed access levels.
func TestCriticalReadingFanOut(t *testing.T) {
	ctx := context.Background()
	s := newServices(t)

	patient, err := s.ids.Register(ctx, identity.RegisterInput{
		Email: "pat@example.com", Password: "password123", Name: "Pat", Role: identity.RolePatient,
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	carer, err := s.ids.Register(ctx, identity.RegisterInput{
		Email: "care@example.com", Password: "password123", Name: "Care", Role: identity.RoleCaregiver,
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	doc, err := s.ids.Register(ctx, identity.RegisterInput{
		Email: "doc@example.com", Password: "password123", Name: "Doc", Role: identity.RoleDoctor,
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := s.consents.Grant(ctx, patient.ID, "care@example.com", consent.AccessView); err != nil {
		t.Fatalf("grant: %v", err)
	}
	if _, err := s.consents.Grant(ctx, patient.ID, "doc@example.com", consent.AccessFull); err != nil {
		t.Fatalf("grant: %v", err)
	}

	res, err := s.vitals.Record(ctx, patient.ID, vitals.RecordInput{Systolic: 170, Diastolic: 105})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if res.Alert == nil || res.Alert.Severity != alerting.SeverityCritical {
		t.Fatalf("alert = %+v, want critical", res.Alert)
	}

	for _, id := range []string{carer.ID, doc.ID} {
		ns, err := s.alerts.ListNotifications(ctx, id)
		if err != nil {
			t.Fatalf("list notifications: %v", err)
		}
		if len(ns) != 1 || ns[0].AlertID != res.Alert.ID {
			t.Errorf("recipient %s notifications = %+v", id, ns)
		}
	}

	// Doctor acknowledges the alert on the patient's behalf.
	a, err := s.alerts.MarkAlertRead(ctx, doc.ID, res.Alert.ID)
	if err != nil {
		t.Fatalf("mark read: %v", err)
	}
	if !a.Read {
		t.Error("alert not marked read")
	}
}
