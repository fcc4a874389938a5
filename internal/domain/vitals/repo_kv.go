package vitals

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/wellcare/wellcare/internal/platform/store"
)

func vitalKey(ownerID string, ts int64) string {
	return fmt.Sprintf("vital:%s:%d", ownerID, ts)
}

type repoKV struct {
	store store.Store
}

func NewRepoKV(s store.Store) Repository {
	return &repoKV{store: s}
}

func (r *repoKV) Create(ctx context.Context, v *Vital) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal vital: %w", err)
	}
	return r.store.Set(ctx, v.ID, raw)
}

func (r *repoKV) ListByOwner(ctx context.Context, ownerID string) ([]*Vital, error) {
	raws, err := r.store.ListByPrefix(ctx, "vital:"+ownerID+":")
	if err != nil {
		return nil, err
	}
	out := make([]*Vital, 0, len(raws))
	for _, raw := range raws {
		var v Vital
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("unmarshal vital: %w", err)
		}
		out = append(out, &v)
	}
	return out, nil
}
