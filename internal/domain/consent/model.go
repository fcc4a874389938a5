package consent

import "time"

// Access levels a patient can grant.
const (
	AccessView = "view"
	AccessFull = "full"
)

func ValidAccessLevel(level string) bool {
	return level == AccessView || level == AccessFull
}

// Scope names a category of patient data a cross-user read can target.
// "view" grants cover vitals and alerts; "full" grants additionally cover
// medications and dose logs.
type Scope int

const (
	ScopeVitals Scope = iota
	ScopeAlerts
	ScopeMedications
	ScopeDoseLogs
)

func (s Scope) String() string {
	switch s {
	case ScopeVitals:
		return "vitals"
	case ScopeAlerts:
		return "alerts"
	case ScopeMedications:
		return "medications"
	case ScopeDoseLogs:
		return "dose logs"
	default:
		return "unknown"
	}
}

// covered reports whether an access level reaches the scope.
func covered(level string, scope Scope) bool {
	switch scope {
	case ScopeVitals, ScopeAlerts:
		return level == AccessView || level == AccessFull
	case ScopeMedications, ScopeDoseLogs:
		return level == AccessFull
	default:
		return false
	}
}

// Grant is one consent record. Exactly one grant exists per
// (patient, grantee) pair; granting again overwrites it.
type Grant struct {
	ID           string    `json:"id"`
	PatientID    string    `json:"patientId"`
	GranteeID    string    `json:"granteeId"`
	GranteeEmail string    `json:"granteeEmail"`
	AccessLevel  string    `json:"accessLevel"`
	Granted      bool      `json:"granted"`
	GrantedAt    time.Time `json:"grantedAt"`
}
