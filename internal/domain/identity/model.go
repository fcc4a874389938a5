package identity

import "time"

// Roles a principal can hold. Fixed at signup.
const (
	RolePatient   = "patient"
	RoleCaregiver = "caregiver"
	RoleDoctor    = "doctor"
)

func ValidRole(role string) bool {
	switch role {
	case RolePatient, RoleCaregiver, RoleDoctor:
		return true
	}
	return false
}

// Principal is a registered user. ID, Email, and Role are immutable after
// creation; the remaining attributes are mutable by the owner only.
type Principal struct {
	ID            string     `json:"id"`
	Email         string     `json:"email"`
	Name          string     `json:"name"`
	Role          string     `json:"role"`
	Age           *int       `json:"age,omitempty"`
	Conditions    []string   `json:"conditions,omitempty"`
	Phone         string     `json:"phone,omitempty"`
	Relationship  string     `json:"relationship,omitempty"`
	Specialty     string     `json:"specialty,omitempty"`
	LicenseNumber string     `json:"licenseNumber,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     *time.Time `json:"updatedAt,omitempty"`
}

// ProfileAttrs carries the optional role-specific attributes supplied at
// signup or in a profile update.
type ProfileAttrs struct {
	Age           *int     `json:"age,omitempty"`
	Conditions    []string `json:"conditions,omitempty"`
	Phone         string   `json:"phone,omitempty"`
	Relationship  string   `json:"relationship,omitempty"`
	Specialty     string   `json:"specialty,omitempty"`
	LicenseNumber string   `json:"licenseNumber,omitempty"`
}
