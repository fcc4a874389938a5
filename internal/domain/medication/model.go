package medication

import "time"

// Medication is one entry in a patient's medication list. Entries are never
// hard-deleted; Active is flipped off instead so dose history keeps its
// referent.
type Medication struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"ownerId"`
	Name      string    `json:"name"`
	Dosage    string    `json:"dosage"`
	Schedule  string    `json:"schedule"`
	Notes     string    `json:"notes,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
}

// DoseLog is one append-only adherence record.
type DoseLog struct {
	ID           string    `json:"id"`
	OwnerID      string    `json:"ownerId"`
	MedicationID string    `json:"medicationId"`
	Taken        bool      `json:"taken"`
	Timestamp    time.Time `json:"timestamp"`
	Notes        string    `json:"notes,omitempty"`
}
