package alerting

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/wellcare/wellcare/internal/domain/consent"
	"github.com/wellcare/wellcare/internal/platform/apperr"
)

// GrantSource lists the active consent grants for a patient, used to pick
// fan-out recipients.
type GrantSource interface {
	ListByPatient(ctx context.Context, patientID string) ([]*consent.Grant, error)
}

// AccessGate decides whether a caller may read another user's alerts.
type AccessGate interface {
	Authorize(ctx context.Context, callerID, ownerID string, scope consent.Scope) error
}

type Service struct {
	repo   Repository
	grants GrantSource
	gate   AccessGate
	log    zerolog.Logger
}

func NewService(repo Repository, grants GrantSource, gate AccessGate, log zerolog.Logger) *Service {
	return &Service{repo: repo, grants: grants, gate: gate, log: log}
}

// Evaluate checks a persisted reading against the blood pressure thresholds.
// On breach it writes the alert and then fans out one notification to every
// consent holder, regardless of access level. A failed notification write is
// logged and skipped; it never aborts the alert or the rest of the fan-out.
func (s *Service) Evaluate(ctx context.Context, ownerID, vitalID string, systolic, diastolic int) (*Alert, error) {
	severity := EvaluateBP(systolic, diastolic)
	if severity == "" {
		return nil, nil
	}

	now := time.Now().UTC()
	a := &Alert{
		ID:        alertKey(ownerID, now.UnixNano()),
		OwnerID:   ownerID,
		Type:      TypeHighBP,
		Severity:  severity,
		Message:   fmt.Sprintf("High blood pressure detected: %d/%d mmHg", systolic, diastolic),
		VitalID:   vitalID,
		Timestamp: now,
	}
	if err := s.repo.CreateAlert(ctx, a); err != nil {
		return nil, err
	}

	s.fanOut(ctx, a)
	return a, nil
}

func (s *Service) fanOut(ctx context.Context, a *Alert) {
	grants, err := s.grants.ListByPatient(ctx, a.OwnerID)
	if err != nil {
		s.log.Error().Err(err).Str("alert_id", a.ID).Msg("fan-out grant lookup failed")
		return
	}
	for _, g := range grants {
		if !g.Granted {
			continue
		}
		n := &Notification{
			ID:          notificationKey(g.GranteeID, time.Now().UTC().UnixNano()),
			RecipientID: g.GranteeID,
			PatientID:   a.OwnerID,
			Type:        a.Type,
			Message:     a.Message,
			AlertID:     a.ID,
			Timestamp:   a.Timestamp,
		}
		if err := s.repo.CreateNotification(ctx, n); err != nil {
			s.log.Error().Err(err).
				Str("alert_id", a.ID).
				Str("recipient_id", g.GranteeID).
				Msg("notification write failed")
		}
	}
}

// ListAlerts returns patientID's alerts newest first. Reading someone
// else's alerts requires a consent grant.
func (s *Service) ListAlerts(ctx context.Context, callerID, patientID string) ([]*Alert, error) {
	if err := s.gate.Authorize(ctx, callerID, patientID, consent.ScopeAlerts); err != nil {
		return nil, err
	}
	list, err := s.repo.ListAlertsByOwner(ctx, patientID)
	if err != nil {
		return nil, err
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Timestamp.After(list[j].Timestamp) })
	return list, nil
}

// MarkAlertRead flips the read flag. The owner and any consent holder with
// alert access may acknowledge an alert.
func (s *Service) MarkAlertRead(ctx context.Context, callerID, alertID string) (*Alert, error) {
	a, err := s.repo.GetAlert(ctx, alertID)
	if err != nil {
		return nil, err
	}
	if err := s.gate.Authorize(ctx, callerID, a.OwnerID, consent.ScopeAlerts); err != nil {
		return nil, err
	}
	a.Read = true
	if err := s.repo.UpdateAlert(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// ListNotifications returns the caller's own notifications newest first.
func (s *Service) ListNotifications(ctx context.Context, recipientID string) ([]*Notification, error) {
	list, err := s.repo.ListNotificationsByRecipient(ctx, recipientID)
	if err != nil {
		return nil, err
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Timestamp.After(list[j].Timestamp) })
	return list, nil
}

// MarkNotificationRead flips the read flag on the caller's own
// notification. A notification addressed to someone else is reported as
// NotFound rather than denied, so the id space is not probeable.
func (s *Service) MarkNotificationRead(ctx context.Context, recipientID, id string) (*Notification, error) {
	n, err := s.repo.GetNotification(ctx, id)
	if err != nil {
		return nil, err
	}
	if n.RecipientID != recipientID {
		return nil, apperr.E(apperr.NotFound, "notification not found")
	}
	n.Read = true
	if err := s.repo.UpdateNotification(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}
