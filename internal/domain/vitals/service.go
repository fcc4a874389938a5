package vitals

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/wellcare/wellcare/internal/domain/alerting"
	"github.com/wellcare/wellcare/internal/domain/consent"
	"github.com/wellcare/wellcare/internal/platform/apperr"
)

// AccessGate decides whether a caller may read another user's vitals.
type AccessGate interface {
	Authorize(ctx context.Context, callerID, ownerID string, scope consent.Scope) error
}

// Alerter evaluates a persisted reading against the blood pressure
// thresholds and handles notification fan-out.
type Alerter interface {
	Evaluate(ctx context.Context, ownerID, vitalID string, systolic, diastolic int) (*alerting.Alert, error)
}

type Service struct {
	repo    Repository
	gate    AccessGate
	alerter Alerter
	log     zerolog.Logger
}

func NewService(repo Repository, gate AccessGate, alerter Alerter, log zerolog.Logger) *Service {
	return &Service{repo: repo, gate: gate, alerter: alerter, log: log}
}

// RecordInput is the closed reading payload.
type RecordInput struct {
	Systolic  int    `json:"systolic"`
	Diastolic int    `json:"diastolic"`
	Pulse     *int   `json:"pulse"`
	Notes     string `json:"notes"`
}

// RecordResult pairs the persisted reading with the alert it raised, if any.
type RecordResult struct {
	Vital *Vital          `json:"vital"`
	Alert *alerting.Alert `json:"alert"`
}

// Record persists a reading for ownerID and evaluates it against the blood
// pressure thresholds. The reading is the source of truth: if alert
// evaluation fails after the write, the failure is logged and the reading
// still stands.
func (s *Service) Record(ctx context.Context, ownerID string, in RecordInput) (*RecordResult, error) {
	if in.Systolic <= 0 || in.Diastolic <= 0 {
		return nil, apperr.E(apperr.InvalidInput, "systolic and diastolic are required")
	}
	if in.Systolic >= 400 || in.Diastolic >= 400 {
		return nil, apperr.E(apperr.InvalidInput, "blood pressure reading out of range")
	}

	now := time.Now().UTC()
	v := &Vital{
		ID:        vitalKey(ownerID, now.UnixNano()),
		OwnerID:   ownerID,
		Systolic:  in.Systolic,
		Diastolic: in.Diastolic,
		Pulse:     in.Pulse,
		Notes:     in.Notes,
		Timestamp: now,
		CreatedAt: now,
	}
	if err := s.repo.Create(ctx, v); err != nil {
		return nil, err
	}

	alert, err := s.alerter.Evaluate(ctx, ownerID, v.ID, v.Systolic, v.Diastolic)
	if err != nil {
		s.log.Error().Err(err).Str("vital_id", v.ID).Msg("alert evaluation failed")
		alert = nil
	}
	return &RecordResult{Vital: v, Alert: alert}, nil
}

// List returns targetOwnerID's readings newest first. Reading another
// user's vitals requires a consent grant.
func (s *Service) List(ctx context.Context, callerID, targetOwnerID string) ([]*Vital, error) {
	if err := s.gate.Authorize(ctx, callerID, targetOwnerID, consent.ScopeVitals); err != nil {
		return nil, err
	}
	list, err := s.repo.ListByOwner(ctx, targetOwnerID)
	if err != nil {
		return nil, err
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Timestamp.After(list[j].Timestamp) })
	return list, nil
}
