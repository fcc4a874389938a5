package vitals

import "context"

// Repository persists blood pressure readings. Readings are append-only;
// there is no update or delete.
type Repository interface {
	Create(ctx context.Context, v *Vital) error
	ListByOwner(ctx context.Context, ownerID string) ([]*Vital, error)
}
