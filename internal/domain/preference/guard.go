package preference

import (
	"context"
	"time"

	"github.com/wlstjr1123/carebridge/internal/platform/session"
)

// Navigation classifies how the user arrived at the page.
type Navigation string

const (
	NavReload      Navigation = "reload"
	NavNavigate    Navigation = "navigate"
	NavBackForward Navigation = "back_forward"
)

// guardState names the reset machine's states. One explicit machine replaces
// the original flag juggling around reloads, button-triggered refreshes and
// cross-page navigation.
type guardState string

const (
	stateIdle         guardState = "idle"
	stateButtonReload guardState = "button_reload"
	stateResetPending guardState = "reset_pending"
)

// Session keys backing the guard. KeyButtonReload matches the front-end
// marker the portal has always used.
const (
	KeyButtonReload = "emergency_button_click"
	keyGuardState   = "pref_guard_state"
)

const guardTTL = 10 * time.Minute

// ResetGuard decides whether a page entry should clear the session
// preferences. A button-triggered refresh (apply, sort, chip removal)
// announces itself beforehand and is exempted exactly once; a genuine reload
// or an arrival from outside the emergency pages triggers one reset, guarded
// against loops by the reset-pending state.
type ResetGuard struct {
	store session.Store
}

func NewResetGuard(store session.Store) *ResetGuard {
	return &ResetGuard{store: store}
}

// MarkButtonReload records that the next page load is a self-inflicted
// refresh and must not reset preferences.
func (g *ResetGuard) MarkButtonReload(ctx context.Context, sessionID string) error {
	return g.store.Set(ctx, sessionID, KeyButtonReload, "true", guardTTL)
}

// ShouldReset consumes one page-entry event and reports whether the
// preferences must be reset. internalReferrer is true when the user moved
// between emergency pages, which never resets.
func (g *ResetGuard) ShouldReset(ctx context.Context, sessionID string, nav Navigation, internalReferrer bool) (bool, error) {
	state := g.state(ctx, sessionID)

	// A marked button reload consumes the marker and stays put.
	if marked, err := g.consumeButtonMarker(ctx, sessionID); err != nil {
		return false, err
	} else if marked {
		return false, nil
	}

	switch state {
	case stateResetPending:
		// The reset already happened; this load is its follow-up.
		if err := g.store.Delete(ctx, sessionID, keyGuardState); err != nil {
			return false, err
		}
		return false, nil
	default:
		reset := nav == NavReload || (nav == NavNavigate && !internalReferrer)
		if !reset {
			return false, nil
		}
		if err := g.store.Set(ctx, sessionID, keyGuardState, string(stateResetPending), guardTTL); err != nil {
			return false, err
		}
		return true, nil
	}
}

// ClearPending drops the reset-pending state, used when the reset itself
// failed so the next load may retry.
func (g *ResetGuard) ClearPending(ctx context.Context, sessionID string) error {
	return g.store.Delete(ctx, sessionID, keyGuardState)
}

func (g *ResetGuard) state(ctx context.Context, sessionID string) guardState {
	val, err := g.store.Get(ctx, sessionID, keyGuardState)
	if err != nil {
		return stateIdle
	}
	return guardState(val)
}

func (g *ResetGuard) consumeButtonMarker(ctx context.Context, sessionID string) (bool, error) {
	_, err := g.store.Get(ctx, sessionID, KeyButtonReload)
	if err == session.ErrMiss {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := g.store.Delete(ctx, sessionID, KeyButtonReload); err != nil {
		return false, err
	}
	return true, nil
}
