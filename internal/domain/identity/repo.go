package identity

import "context"

// Repository persists principals and the email lookup index. The primary
// record and the email index are written as one atomic unit so the two can
// never diverge.
type Repository interface {
	Create(ctx context.Context, p *Principal, passwordHash string) error
	GetByID(ctx context.Context, id string) (*Principal, error)
	GetCredentials(ctx context.Context, email string) (*Principal, string, error)
	Update(ctx context.Context, p *Principal) error
	ResolveEmail(ctx context.Context, email string) (string, error)
}
