package consent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/wellcare/wellcare/internal/platform/apperr"
	"github.com/wellcare/wellcare/internal/platform/store"
)

func forwardKey(patientID, granteeID string) string {
	return fmt.Sprintf("consent:%s:%s", patientID, granteeID)
}

func reverseKey(granteeID, patientID string) string {
	return fmt.Sprintf("consent:grantee:%s:%s", granteeID, patientID)
}

type repoKV struct {
	store store.Store
}

func NewRepoKV(s store.Store) Repository {
	return &repoKV{store: s}
}

func (r *repoKV) Put(ctx context.Context, g *Grant) error {
	raw, err := json.Marshal(g)
	if err != nil {
		return fmt.Errorf("marshal grant: %w", err)
	}
	return r.store.SetMulti(ctx, map[string][]byte{
		forwardKey(g.PatientID, g.GranteeID): raw,
		reverseKey(g.GranteeID, g.PatientID): raw,
	})
}

func (r *repoKV) Get(ctx context.Context, patientID, granteeID string) (*Grant, error) {
	raw, err := r.store.Get(ctx, forwardKey(patientID, granteeID))
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.E(apperr.NotFound, "consent grant not found")
	}
	if err != nil {
		return nil, err
	}
	var g Grant
	if err := json.Unmarshal(raw, &g); err != nil {
		return nil, fmt.Errorf("unmarshal grant: %w", err)
	}
	return &g, nil
}

func (r *repoKV) Delete(ctx context.Context, patientID, granteeID string) error {
	return r.store.DeleteMulti(ctx,
		forwardKey(patientID, granteeID),
		reverseKey(granteeID, patientID),
	)
}

func (r *repoKV) ListByPatient(ctx context.Context, patientID string) ([]*Grant, error) {
	return r.list(ctx, fmt.Sprintf("consent:%s:", patientID))
}

func (r *repoKV) ListByGrantee(ctx context.Context, granteeID string) ([]*Grant, error) {
	return r.list(ctx, fmt.Sprintf("consent:grantee:%s:", granteeID))
}

func (r *repoKV) list(ctx context.Context, prefix string) ([]*Grant, error) {
	values, err := r.store.ListByPrefix(ctx, prefix)
	if err != nil {
		return nil, err
	}
	grants := make([]*Grant, 0, len(values))
	for _, raw := range values {
		var g Grant
		if err := json.Unmarshal(raw, &g); err != nil {
			return nil, fmt.Errorf("unmarshal grant: %w", err)
		}
		grants = append(grants, &g)
	}
	return grants, nil
}
