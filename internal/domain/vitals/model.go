package vitals

import "time"

// Vital is one append-only blood pressure reading.
type Vital struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"ownerId"`
	Systolic  int       `json:"systolic"`
	Diastolic int       `json:"diastolic"`
	Pulse     *int      `json:"pulse,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	CreatedAt time.Time `json:"createdAt"`
}
