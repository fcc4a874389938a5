package alerting

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/wellcare/wellcare/internal/platform/apperr"
	"github.com/wellcare/wellcare/internal/platform/store"
)

func alertKey(ownerID string, ts int64) string {
	return fmt.Sprintf("alert:%s:%d", ownerID, ts)
}

func notificationKey(recipientID string, ts int64) string {
	return fmt.Sprintf("notification:%s:%d", recipientID, ts)
}

type repoKV struct {
	store store.Store
}

func NewRepoKV(s store.Store) Repository {
	return &repoKV{store: s}
}

func (r *repoKV) CreateAlert(ctx context.Context, a *Alert) error {
	raw, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("marshal alert: %w", err)
	}
	return r.store.Set(ctx, a.ID, raw)
}

func (r *repoKV) GetAlert(ctx context.Context, id string) (*Alert, error) {
	raw, err := r.store.Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.E(apperr.NotFound, "alert not found")
	}
	if err != nil {
		return nil, err
	}
	var a Alert
	if err := json.Unmarshal(raw, &a); err != nil {
		return nil, fmt.Errorf("unmarshal alert %s: %w", id, err)
	}
	return &a, nil
}

func (r *repoKV) UpdateAlert(ctx context.Context, a *Alert) error {
	raw, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("marshal alert: %w", err)
	}
	return r.store.Set(ctx, a.ID, raw)
}

func (r *repoKV) ListAlertsByOwner(ctx context.Context, ownerID string) ([]*Alert, error) {
	raws, err := r.store.ListByPrefix(ctx, "alert:"+ownerID+":")
	if err != nil {
		return nil, err
	}
	out := make([]*Alert, 0, len(raws))
	for _, raw := range raws {
		var a Alert
		if err := json.Unmarshal(raw, &a); err != nil {
			return nil, fmt.Errorf("unmarshal alert: %w", err)
		}
		out = append(out, &a)
	}
	return out, nil
}

func (r *repoKV) CreateNotification(ctx context.Context, n *Notification) error {
	raw, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}
	return r.store.Set(ctx, n.ID, raw)
}

func (r *repoKV) GetNotification(ctx context.Context, id string) (*Notification, error) {
	raw, err := r.store.Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.E(apperr.NotFound, "notification not found")
	}
	if err != nil {
		return nil, err
	}
	var n Notification
	if err := json.Unmarshal(raw, &n); err != nil {
		return nil, fmt.Errorf("unmarshal notification %s: %w", id, err)
	}
	return &n, nil
}

func (r *repoKV) UpdateNotification(ctx context.Context, n *Notification) error {
	raw, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}
	return r.store.Set(ctx, n.ID, raw)
}

func (r *repoKV) ListNotificationsByRecipient(ctx context.Context, recipientID string) ([]*Notification, error) {
	raws, err := r.store.ListByPrefix(ctx, "notification:"+recipientID+":")
	if err != nil {
		return nil, err
	}
	out := make([]*Notification, 0, len(raws))
	for _, raw := range raws {
		var n Notification
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, fmt.Errorf("unmarshal notification: %w", err)
		}
		out = append(out, &n)
	}
	return out, nil
}
