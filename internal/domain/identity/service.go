package identity

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/wellcare/wellcare/internal/platform/apperr"
	"github.com/wellcare/wellcare/internal/platform/auth"
)

// Service provides principal registration, authentication, and profile
// management.
type Service struct {
	repo   Repository
	tokens *auth.TokenService
}

func NewService(repo Repository, tokens *auth.TokenService) *Service {
	return &Service{repo: repo, tokens: tokens}
}

// RegisterInput is the closed signup payload.
type RegisterInput struct {
	Email    string       `json:"email"`
	Password string       `json:"password"`
	Name     string       `json:"name"`
	Role     string       `json:"role"`
	Profile  ProfileAttrs `json:"profile"`
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (*Principal, error) {
	if in.Email == "" || in.Password == "" || in.Name == "" || in.Role == "" {
		return nil, apperr.E(apperr.InvalidInput, "missing required fields: email, password, name, role")
	}
	if !ValidRole(in.Role) {
		return nil, apperr.E(apperr.InvalidInput, "invalid role, must be patient, caregiver, or doctor")
	}
	if !auth.ValidPasswordLength(in.Password) {
		return nil, apperr.E(apperr.InvalidInput, "password must be at least 8 characters")
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	p := &Principal{
		ID:            uuid.NewString(),
		Email:         in.Email,
		Name:          in.Name,
		Role:          in.Role,
		Age:           in.Profile.Age,
		Conditions:    in.Profile.Conditions,
		Phone:         in.Profile.Phone,
		Relationship:  in.Profile.Relationship,
		Specialty:     in.Profile.Specialty,
		LicenseNumber: in.Profile.LicenseNumber,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, p, hash); err != nil {
		return nil, err
	}
	return p, nil
}

// Login verifies credentials and returns a signed bearer token plus the
// profile. Wrong email and wrong password are indistinguishable to the
// caller.
func (s *Service) Login(ctx context.Context, email, password string) (string, *Principal, error) {
	if email == "" || password == "" {
		return "", nil, apperr.E(apperr.InvalidInput, "email and password are required")
	}
	p, hash, err := s.repo.GetCredentials(ctx, email)
	if err != nil {
		if apperr.IsKind(err, apperr.NotFound) {
			return "", nil, apperr.E(apperr.Unauthorized, "invalid email or password")
		}
		return "", nil, err
	}
	if !auth.CheckPassword(hash, password) {
		return "", nil, apperr.E(apperr.Unauthorized, "invalid email or password")
	}

	token, err := s.tokens.Issue(p.ID, p.Email, p.Role)
	if err != nil {
		return "", nil, err
	}
	return token, p, nil
}

func (s *Service) GetProfile(ctx context.Context, id string) (*Principal, error) {
	return s.repo.GetByID(ctx, id)
}

// ProfileUpdate is a filtered patch: id, email, and role are immutable,
// accepted in the payload, and discarded. Unknown fields are still rejected
// by the strict binder.
type ProfileUpdate struct {
	Name          *string  `json:"name,omitempty"`
	Age           *int     `json:"age,omitempty"`
	Conditions    []string `json:"conditions,omitempty"`
	Phone         *string  `json:"phone,omitempty"`
	Relationship  *string  `json:"relationship,omitempty"`
	Specialty     *string  `json:"specialty,omitempty"`
	LicenseNumber *string  `json:"licenseNumber,omitempty"`

	// Immutable identity fields, never applied.
	ID    *string `json:"id,omitempty"`
	Email *string `json:"email,omitempty"`
	Role  *string `json:"role,omitempty"`
}

func (s *Service) UpdateProfile(ctx context.Context, id string, patch ProfileUpdate) (*Principal, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		if *patch.Name == "" {
			return nil, apperr.E(apperr.InvalidInput, "name cannot be empty")
		}
		p.Name = *patch.Name
	}
	if patch.Age != nil {
		p.Age = patch.Age
	}
	if patch.Conditions != nil {
		p.Conditions = patch.Conditions
	}
	if patch.Phone != nil {
		p.Phone = *patch.Phone
	}
	if patch.Relationship != nil {
		p.Relationship = *patch.Relationship
	}
	if patch.Specialty != nil {
		p.Specialty = *patch.Specialty
	}
	if patch.LicenseNumber != nil {
		p.LicenseNumber = *patch.LicenseNumber
	}

	now := time.Now().UTC()
	p.UpdatedAt = &now
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// ResolveEmail maps a registered email to a principal id.
func (s *Service) ResolveEmail(ctx context.Context, email string) (string, error) {
	return s.repo.ResolveEmail(ctx, email)
}
