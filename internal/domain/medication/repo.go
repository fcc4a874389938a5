package medication

import "context"

// Repository persists medications and dose logs. Dose logs are append-only;
// medications support updates only to flip the active flag.
type Repository interface {
	CreateMedication(ctx context.Context, m *Medication) error
	GetMedication(ctx context.Context, id string) (*Medication, error)
	UpdateMedication(ctx context.Context, m *Medication) error
	ListMedicationsByOwner(ctx context.Context, ownerID string) ([]*Medication, error)

	CreateDoseLog(ctx context.Context, d *DoseLog) error
	ListDoseLogsByOwner(ctx context.Context, ownerID string) ([]*DoseLog, error)
}
