package medication

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/wellcare/wellcare/internal/platform/apperr"
	"github.com/wellcare/wellcare/internal/platform/store"
)

func medicationKey(ownerID string, ts int64) string {
	return fmt.Sprintf("medication:%s:%d", ownerID, ts)
}

func doseLogKey(ownerID string, ts int64) string {
	return fmt.Sprintf("medlog:%s:%d", ownerID, ts)
}

type repoKV struct {
	store store.Store
}

func NewRepoKV(s store.Store) Repository {
	return &repoKV{store: s}
}

func (r *repoKV) CreateMedication(ctx context.Context, m *Medication) error {
	raw, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal medication: %w", err)
	}
	return r.store.Set(ctx, m.ID, raw)
}

func (r *repoKV) GetMedication(ctx context.Context, id string) (*Medication, error) {
	raw, err := r.store.Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.E(apperr.NotFound, "medication not found")
	}
	if err != nil {
		return nil, err
	}
	var m Medication
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("unmarshal medication %s: %w", id, err)
	}
	return &m, nil
}

func (r *repoKV) UpdateMedication(ctx context.Context, m *Medication) error {
	raw, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal medication: %w", err)
	}
	return r.store.Set(ctx, m.ID, raw)
}

func (r *repoKV) ListMedicationsByOwner(ctx context.Context, ownerID string) ([]*Medication, error) {
	raws, err := r.store.ListByPrefix(ctx, "medication:"+ownerID+":")
	if err != nil {
		return nil, err
	}
	out := make([]*Medication, 0, len(raws))
	for _, raw := range raws {
		var m Medication
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, fmt.Errorf("unmarshal medication: %w", err)
		}
		out = append(out, &m)
	}
	return out, nil
}

func (r *repoKV) CreateDoseLog(ctx context.Context, d *DoseLog) error {
	raw, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("marshal dose log: %w", err)
	}
	return r.store.Set(ctx, d.ID, raw)
}

func (r *repoKV) ListDoseLogsByOwner(ctx context.Context, ownerID string) ([]*DoseLog, error) {
	raws, err := r.store.ListByPrefix(ctx, "medlog:"+ownerID+":")
	if err != nil {
		return nil, err
	}
	out := make([]*DoseLog, 0, len(raws))
	for _, raw := range raws {
		var d DoseLog
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, fmt.Errorf("unmarshal dose log: %w", err)
		}
		out = append(out, &d)
	}
	return out, nil
}
