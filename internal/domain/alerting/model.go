package alerting

import "time"

const (
	SeverityWarning  = "warning"
	SeverityCritical = "critical"
)

// TypeHighBP is the only alert type the evaluator raises today.
const TypeHighBP = "high_bp"

// Alert is raised against the patient's own record when a reading breaches
// the blood pressure thresholds.
type Alert struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"ownerId"`
	Type      string    `json:"type"`
	Severity  string    `json:"severity"`
	Message   string    `json:"message"`
	VitalID   string    `json:"vitalId"`
	Timestamp time.Time `json:"timestamp"`
	Read      bool      `json:"read"`
}

// Notification is the per-grantee copy of an alert, delivered to everyone
// holding consent at the time the alert fires.
type Notification struct {
	ID          string    `json:"id"`
	RecipientID string    `json:"recipientId"`
	PatientID   string    `json:"patientId"`
	Type        string    `json:"type"`
	Message     string    `json:"message"`
	AlertID     string    `json:"alertId"`
	Timestamp   time.Time `json:"timestamp"`
	Read        bool      `json:"read"`
}

// EvaluateBP maps a reading to an alert severity. Empty string means the
// reading is below both thresholds.
func EvaluateBP(systolic, diastolic int) string {
	switch {
	case systolic >= 160 || diastolic >= 100:
		return SeverityCritical
	case systolic >= 140 || diastolic >= 90:
		return SeverityWarning
	default:
		return ""
	}
}
