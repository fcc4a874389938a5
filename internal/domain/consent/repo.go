package consent

import "context"

// Repository persists grants under a forward key (patient → grantee) and a
// reverse key (grantee → patient). Both records are written and deleted as
// one atomic unit; the two directions can never diverge.
type Repository interface {
	Put(ctx context.Context, g *Grant) error
	Get(ctx context.Context, patientID, granteeID string) (*Grant, error)
	Delete(ctx context.Context, patientID, granteeID string) error
	ListByPatient(ctx context.Context, patientID string) ([]*Grant, error)
	ListByGrantee(ctx context.Context, granteeID string) ([]*Grant, error)
}
