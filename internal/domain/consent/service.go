package consent

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/wellcare/wellcare/internal/domain/identity"
	"github.com/wellcare/wellcare/internal/platform/apperr"
)

// PrincipalDirectory is the slice of the identity registry the ledger needs:
// email resolution for grant/revoke and profile lookups for the
// caregiver-facing patient list.
type PrincipalDirectory interface {
	ResolveEmail(ctx context.Context, email string) (string, error)
	GetProfile(ctx context.Context, id string) (*identity.Principal, error)
}

// Service is the consent ledger plus the access gate every cross-user read
// goes through.
type Service struct {
	repo      Repository
	directory PrincipalDirectory
}

func NewService(repo Repository, directory PrincipalDirectory) *Service {
	return &Service{repo: repo, directory: directory}
}

// Grant shares the patient's data with the principal registered under
// granteeEmail. Unknown email is NotFound; a bad access level or a
// self-grant is InvalidInput. Granting twice overwrites the prior record.
func (s *Service) Grant(ctx context.Context, patientID, granteeEmail, accessLevel string) (*Grant, error) {
	if granteeEmail == "" || accessLevel == "" {
		return nil, apperr.E(apperr.InvalidInput, "grantee email and access level are required")
	}
	if !ValidAccessLevel(accessLevel) {
		return nil, apperr.E(apperr.InvalidInput, "access level must be %q or %q", AccessView, AccessFull)
	}

	granteeID, err := s.directory.ResolveEmail(ctx, granteeEmail)
	if err != nil {
		return nil, err
	}
	if granteeID == patientID {
		return nil, apperr.E(apperr.InvalidInput, "cannot grant access to yourself")
	}

	g := &Grant{
		ID:           fmt.Sprintf("consent:%s:%s", patientID, granteeID),
		PatientID:    patientID,
		GranteeID:    granteeID,
		GranteeEmail: granteeEmail,
		AccessLevel:  accessLevel,
		Granted:      true,
		GrantedAt:    time.Now().UTC(),
	}
	if err := s.repo.Put(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

// Revoke removes the grant for granteeEmail. A second revoke of the same
// grant reports NotFound rather than failing destructively.
func (s *Service) Revoke(ctx context.Context, patientID, granteeEmail string) error {
	if granteeEmail == "" {
		return apperr.E(apperr.InvalidInput, "grantee email is required")
	}
	granteeID, err := s.directory.ResolveEmail(ctx, granteeEmail)
	if err != nil {
		return err
	}
	if _, err := s.repo.Get(ctx, patientID, granteeID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, patientID, granteeID)
}

// IsGranted reports whether requester currently holds consent over the
// patient's data, and at which level.
func (s *Service) IsGranted(ctx context.Context, requesterID, patientID string) (bool, string, error) {
	g, err := s.repo.Get(ctx, patientID, requesterID)
	if err != nil {
		if apperr.IsKind(err, apperr.NotFound) {
			return false, "", nil
		}
		return false, "", err
	}
	if !g.Granted {
		return false, "", nil
	}
	return true, g.AccessLevel, nil
}

// Authorize is the access gate. Self-access always passes; any other caller
// needs a grant whose level covers the scope. Failure is always
// AccessDenied, never NotFound, so the gate does not confirm whether the
// target exists.
func (s *Service) Authorize(ctx context.Context, callerID, ownerID string, scope Scope) error {
	if callerID == ownerID {
		return nil
	}
	granted, level, err := s.IsGranted(ctx, callerID, ownerID)
	if err != nil {
		return err
	}
	if !granted || !covered(level, scope) {
		return apperr.E(apperr.AccessDenied, "access denied")
	}
	return nil
}

// ListByPatient returns every grant the patient has issued.
func (s *Service) ListByPatient(ctx context.Context, patientID string) ([]*Grant, error) {
	grants, err := s.repo.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}
	sort.Slice(grants, func(i, j int) bool { return grants[i].GrantedAt.After(grants[j].GrantedAt) })
	return grants, nil
}

// PatientAccess is one row of the caregiver/doctor patient list: the
// patient profile plus the grant terms.
type PatientAccess struct {
	identity.Principal
	AccessLevel string    `json:"accessLevel"`
	GrantedAt   time.Time `json:"grantedAt"`
}

// ListPatients returns the profile of every patient who has granted the
// caller access. A grant whose patient profile cannot be loaded is skipped
// rather than failing the whole view.
func (s *Service) ListPatients(ctx context.Context, granteeID string) ([]*PatientAccess, error) {
	grants, err := s.repo.ListByGrantee(ctx, granteeID)
	if err != nil {
		return nil, err
	}

	patients := make([]*PatientAccess, 0, len(grants))
	for _, g := range grants {
		if !g.Granted {
			continue
		}
		p, err := s.directory.GetProfile(ctx, g.PatientID)
		if err != nil {
			continue
		}
		patients = append(patients, &PatientAccess{
			Principal:   *p,
			AccessLevel: g.AccessLevel,
			GrantedAt:   g.GrantedAt,
		})
	}
	sort.Slice(patients, func(i, j int) bool { return patients[i].GrantedAt.After(patients[j].GrantedAt) })
	return patients, nil
}
