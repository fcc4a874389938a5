package medication

import (
	"context"
	"sort"
	"time"

	"github.com/wellcare/wellcare/internal/domain/consent"
	"github.com/wellcare/wellcare/internal/platform/apperr"
)

const defaultSchedule = "as needed"

// AccessGate decides whether a caller may read another user's medication
// data.
type AccessGate interface {
	Authorize(ctx context.Context, callerID, ownerID string, scope consent.Scope) error
}

type Service struct {
	repo Repository
	gate AccessGate
}

func NewService(repo Repository, gate AccessGate) *Service {
	return &Service{repo: repo, gate: gate}
}

// AddInput is the closed medication payload.
type AddInput struct {
	Name     string `json:"name"`
	Dosage   string `json:"dosage"`
	Schedule string `json:"schedule"`
	Notes    string `json:"notes"`
}

// Add creates an active medication for ownerID.
func (s *Service) Add(ctx context.Context, ownerID string, in AddInput) (*Medication, error) {
	if in.Name == "" || in.Dosage == "" {
		return nil, apperr.E(apperr.InvalidInput, "name and dosage are required")
	}
	schedule := in.Schedule
	if schedule == "" {
		schedule = defaultSchedule
	}

	now := time.Now().UTC()
	m := &Medication{
		ID:        medicationKey(ownerID, now.UnixNano()),
		OwnerID:   ownerID,
		Name:      in.Name,
		Dosage:    in.Dosage,
		Schedule:  schedule,
		Notes:     in.Notes,
		Active:    true,
		CreatedAt: now,
	}
	if err := s.repo.CreateMedication(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// List returns targetOwnerID's medications, active first, then newest
// first. Reading another user's list requires full access.
func (s *Service) List(ctx context.Context, callerID, targetOwnerID string) ([]*Medication, error) {
	if err := s.gate.Authorize(ctx, callerID, targetOwnerID, consent.ScopeMedications); err != nil {
		return nil, err
	}
	list, err := s.repo.ListMedicationsByOwner(ctx, targetOwnerID)
	if err != nil {
		return nil, err
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Active != list[j].Active {
			return list[i].Active
		}
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return list, nil
}

// SetActive flips the active flag. Only the owner may change their own
// medication list; someone else's medication is reported as NotFound.
func (s *Service) SetActive(ctx context.Context, callerID, medicationID string, active bool) (*Medication, error) {
	m, err := s.repo.GetMedication(ctx, medicationID)
	if err != nil {
		return nil, err
	}
	if m.OwnerID != callerID {
		return nil, apperr.E(apperr.NotFound, "medication not found")
	}
	m.Active = active
	if err := s.repo.UpdateMedication(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// LogInput is the closed dose log payload. Taken defaults to true when the
// field is omitted.
type LogInput struct {
	MedicationID string `json:"medicationId"`
	Taken        *bool  `json:"taken"`
	Notes        string `json:"notes"`
}

// LogDose records whether a dose of one of the owner's medications was
// taken.
func (s *Service) LogDose(ctx context.Context, ownerID string, in LogInput) (*DoseLog, error) {
	if in.MedicationID == "" {
		return nil, apperr.E(apperr.InvalidInput, "medicationId is required")
	}
	m, err := s.repo.GetMedication(ctx, in.MedicationID)
	if err != nil {
		return nil, err
	}
	if m.OwnerID != ownerID {
		return nil, apperr.E(apperr.NotFound, "medication not found")
	}

	taken := true
	if in.Taken != nil {
		taken = *in.Taken
	}
	now := time.Now().UTC()
	d := &DoseLog{
		ID:           doseLogKey(ownerID, now.UnixNano()),
		OwnerID:      ownerID,
		MedicationID: m.ID,
		Taken:        taken,
		Timestamp:    now,
		Notes:        in.Notes,
	}
	if err := s.repo.CreateDoseLog(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// ListDoseLogs returns targetOwnerID's dose history newest first. Reading
// another user's history requires full access.
func (s *Service) ListDoseLogs(ctx context.Context, callerID, targetOwnerID string) ([]*DoseLog, error) {
	if err := s.gate.Authorize(ctx, callerID, targetOwnerID, consent.ScopeDoseLogs); err != nil {
		return nil, err
	}
	list, err := s.repo.ListDoseLogsByOwner(ctx, targetOwnerID)
	if err != nil {
		return nil, err
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Timestamp.After(list[j].Timestamp) })
	return list, nil
}
