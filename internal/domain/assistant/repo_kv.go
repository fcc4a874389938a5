package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/wellcare/wellcare/internal/platform/apperr"
	"github.com/wellcare/wellcare/internal/platform/store"
)

func chatKey(userID string, ts int64) string {
	return fmt.Sprintf("chat:%s:%d", userID, ts)
}

func symptomKey(userID string, ts int64) string {
	return fmt.Sprintf("symptom:%s:%d", userID, ts)
}

func sessionKey(userID string, ts int64) string {
	return fmt.Sprintf("health-session:%s:%d", userID, ts)
}

func faceKey(userID string, ts int64) string {
	return fmt.Sprintf("face-analysis:%s:%d", userID, ts)
}

type repoKV struct {
	store store.Store
}

func NewRepoKV(s store.Store) Repository {
	return &repoKV{store: s}
}

func (r *repoKV) CreateChat(ctx context.Context, rec *ChatRecord) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal chat record: %w", err)
	}
	return r.store.Set(ctx, rec.ID, raw)
}

func (r *repoKV) ListChatsByUser(ctx context.Context, userID string) ([]*ChatRecord, error) {
	raws, err := r.store.ListByPrefix(ctx, "chat:"+userID+":")
	if err != nil {
		return nil, err
	}
	out := make([]*ChatRecord, 0, len(raws))
	for _, raw := range raws {
		var rec ChatRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, fmt.Errorf("unmarshal chat record: %w", err)
		}
		out = append(out, &rec)
	}
	return out, nil
}

func (r *repoKV) CreateSymptomCheck(ctx context.Context, sc *SymptomCheck) error {
	raw, err := json.Marshal(sc)
	if err != nil {
		return fmt.Errorf("marshal symptom check: %w", err)
	}
	return r.store.Set(ctx, sc.ID, raw)
}

func (r *repoKV) ListSymptomChecksByUser(ctx context.Context, userID string) ([]*SymptomCheck, error) {
	raws, err := r.store.ListByPrefix(ctx, "symptom:"+userID+":")
	if err != nil {
		return nil, err
	}
	out := make([]*SymptomCheck, 0, len(raws))
	for _, raw := range raws {
		var sc SymptomCheck
		if err := json.Unmarshal(raw, &sc); err != nil {
			return nil, fmt.Errorf("unmarshal symptom check: %w", err)
		}
		out = append(out, &sc)
	}
	return out, nil
}

func (r *repoKV) CreateSession(ctx context.Context, s *HealthSession) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	return r.store.Set(ctx, s.ID, raw)
}

func (r *repoKV) GetSession(ctx context.Context, id string) (*HealthSession, error) {
	raw, err := r.store.Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.E(apperr.NotFound, "session not found")
	}
	if err != nil {
		return nil, err
	}
	var s HealthSession
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("unmarshal session %s: %w", id, err)
	}
	return &s, nil
}

func (r *repoKV) UpdateSession(ctx context.Context, s *HealthSession) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	return r.store.Set(ctx, s.ID, raw)
}

func (r *repoKV) ListSessionsByUser(ctx context.Context, userID string) ([]*HealthSession, error) {
	raws, err := r.store.ListByPrefix(ctx, "health-session:"+userID+":")
	if err != nil {
		return nil, err
	}
	out := make([]*HealthSession, 0, len(raws))
	for _, raw := range raws {
		var s HealthSession
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("unmarshal session: %w", err)
		}
		out = append(out, &s)
	}
	return out, nil
}

func (r *repoKV) CreateFaceAnalysis(ctx context.Context, fa *FaceAnalysis) error {
	raw, err := json.Marshal(fa)
	if err != nil {
		return fmt.Errorf("marshal face analysis: %w", err)
	}
	return r.store.Set(ctx, fa.ID, raw)
}

func (r *repoKV) ListFaceAnalysesByUser(ctx context.Context, userID string) ([]*FaceAnalysis, error) {
	raws, err := r.store.ListByPrefix(ctx, "face-analysis:"+userID+":")
	if err != nil {
		return nil, err
	}
	out := make([]*FaceAnalysis, 0, len(raws))
	for _, raw := range raws {
		var fa FaceAnalysis
		if err := json.Unmarshal(raw, &fa); err != nil {
			return nil, fmt.Errorf("unmarshal face analysis: %w", err)
		}
		out = append(out, &fa)
	}
	return out, nil
}
