package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/wellcare/wellcare/internal/platform/apperr"
	"github.com/wellcare/wellcare/internal/platform/store"
)

func userKey(id string) string     { return "user:" + id }
func emailKey(email string) string { return "user:email:" + email }

// storedPrincipal is the persisted shape; the password hash never appears
// in the API model.
type storedPrincipal struct {
	Principal
	PasswordHash string `json:"passwordHash"`
}

type repoKV struct {
	store store.Store
}

func NewRepoKV(s store.Store) Repository {
	return &repoKV{store: s}
}

func (r *repoKV) Create(ctx context.Context, p *Principal, passwordHash string) error {
	// Uniqueness check against the email index. Two racing signups for the
	// same email resolve last-write-wins, the same as any concurrent
	// overwrite in the record store.
	_, err := r.store.Get(ctx, emailKey(p.Email))
	if err == nil {
		return apperr.E(apperr.Conflict, "email already registered")
	}
	if !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("check email index: %w", err)
	}

	record, err := json.Marshal(storedPrincipal{Principal: *p, PasswordHash: passwordHash})
	if err != nil {
		return fmt.Errorf("marshal principal: %w", err)
	}
	idx, err := json.Marshal(p.ID)
	if err != nil {
		return fmt.Errorf("marshal email index: %w", err)
	}

	return r.store.SetMulti(ctx, map[string][]byte{
		userKey(p.ID):     record,
		emailKey(p.Email): idx,
	})
}

func (r *repoKV) GetByID(ctx context.Context, id string) (*Principal, error) {
	raw, err := r.store.Get(ctx, userKey(id))
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.E(apperr.NotFound, "profile not found")
	}
	if err != nil {
		return nil, err
	}
	var sp storedPrincipal
	if err := json.Unmarshal(raw, &sp); err != nil {
		return nil, fmt.Errorf("unmarshal principal %s: %w", id, err)
	}
	return &sp.Principal, nil
}

func (r *repoKV) GetCredentials(ctx context.Context, email string) (*Principal, string, error) {
	id, err := r.ResolveEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}
	raw, err := r.store.Get(ctx, userKey(id))
	if errors.Is(err, store.ErrNotFound) {
		return nil, "", apperr.E(apperr.NotFound, "profile not found")
	}
	if err != nil {
		return nil, "", err
	}
	var sp storedPrincipal
	if err := json.Unmarshal(raw, &sp); err != nil {
		return nil, "", fmt.Errorf("unmarshal principal %s: %w", id, err)
	}
	return &sp.Principal, sp.PasswordHash, nil
}

func (r *repoKV) Update(ctx context.Context, p *Principal) error {
	raw, err := r.store.Get(ctx, userKey(p.ID))
	if errors.Is(err, store.ErrNotFound) {
		return apperr.E(apperr.NotFound, "profile not found")
	}
	if err != nil {
		return err
	}
	var sp storedPrincipal
	if err := json.Unmarshal(raw, &sp); err != nil {
		return fmt.Errorf("unmarshal principal %s: %w", p.ID, err)
	}

	sp.Principal = *p
	record, err := json.Marshal(sp)
	if err != nil {
		return fmt.Errorf("marshal principal: %w", err)
	}
	return r.store.Set(ctx, userKey(p.ID), record)
}

func (r *repoKV) ResolveEmail(ctx context.Context, email string) (string, error) {
	raw, err := r.store.Get(ctx, emailKey(email))
	if errors.Is(err, store.ErrNotFound) {
		return "", apperr.E(apperr.NotFound, "user with that email not found")
	}
	if err != nil {
		return "", err
	}
	var id string
	if err := json.Unmarshal(raw, &id); err != nil {
		return "", fmt.Errorf("unmarshal email index: %w", err)
	}
	return id, nil
}
