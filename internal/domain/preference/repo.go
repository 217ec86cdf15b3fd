package preference

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/wlstjr1123/carebridge/internal/platform/session"
)

// Repository persists preference state per session. The server-side session
// mirrors what the portal keeps for the current tab; it is best-effort and
// the in-memory store stays authoritative for the active page view.
type Repository interface {
	Load(ctx context.Context, sessionID string) (*Preference, error)
	SaveRegion(ctx context.Context, sessionID, sido, sigungu string) error
	SaveFilter(ctx context.Context, sessionID, etype string, equipment map[string]bool) error
	SaveSort(ctx context.Context, sessionID string, mode SortMode) error
	Clear(ctx context.Context, sessionID string) error
}

// Session keys for the persisted preference dimensions.
const (
	keySido    = "pref_sido"
	keySigungu = "pref_sigungu"
	keyEtype   = "pref_etype"
	keyEquip   = "pref_equipment"
	keySort    = "pref_sort"
)

type sessionRepo struct {
	store session.Store
}

// NewSessionRepository returns a Repository writing through the session
// store (Redis in production, in-memory in tests).
func NewSessionRepository(store session.Store) Repository {
	return &sessionRepo{store: store}
}

func (r *sessionRepo) Load(ctx context.Context, sessionID string) (*Preference, error) {
	p := New()

	read := func(key string) (string, bool, error) {
		val, err := r.store.Get(ctx, sessionID, key)
		if err == session.ErrMiss {
			return "", false, nil
		}
		if err != nil {
			return "", false, err
		}
		return val, true, nil
	}

	if v, ok, err := read(keySido); err != nil {
		return nil, err
	} else if ok {
		p.Sido = v
	}
	if v, ok, err := read(keySigungu); err != nil {
		return nil, err
	} else if ok {
		p.Sigungu = v
	}
	if v, ok, err := read(keyEtype); err != nil {
		return nil, err
	} else if ok {
		p.Etype = v
	}
	if v, ok, err := read(keySort); err != nil {
		return nil, err
	} else if ok {
		p.Sort = SortMode(v)
	}
	if v, ok, err := read(keyEquip); err != nil {
		return nil, err
	} else if ok && v != "" {
		eq := map[string]bool{}
		if err := json.Unmarshal([]byte(v), &eq); err != nil {
			return nil, fmt.Errorf("decode equipment set: %w", err)
		}
		p.Equipment = eq
	}

	return p, nil
}

func (r *sessionRepo) SaveRegion(ctx context.Context, sessionID, sido, sigungu string) error {
	if err := r.store.Set(ctx, sessionID, keySido, sido, 0); err != nil {
		return err
	}
	return r.store.Set(ctx, sessionID, keySigungu, sigungu, 0)
}

func (r *sessionRepo) SaveFilter(ctx context.Context, sessionID, etype string, equipment map[string]bool) error {
	raw, err := json.Marshal(equipment)
	if err != nil {
		return fmt.Errorf("encode equipment set: %w", err)
	}
	if err := r.store.Set(ctx, sessionID, keyEtype, etype, 0); err != nil {
		return err
	}
	return r.store.Set(ctx, sessionID, keyEquip, string(raw), 0)
}

func (r *sessionRepo) SaveSort(ctx context.Context, sessionID string, mode SortMode) error {
	return r.store.Set(ctx, sessionID, keySort, string(mode), 0)
}

func (r *sessionRepo) Clear(ctx context.Context, sessionID string) error {
	return r.store.Delete(ctx, sessionID, keySido, keySigungu, keyEtype, keyEquip, keySort)
}
