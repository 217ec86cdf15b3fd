package preference

import (
	"context"
	"testing"

	"github.com/wlstjr1123/carebridge/internal/platform/session"
)

func TestGuardResetsOnReload(t *testing.T) {
	ctx := context.Background()
	g := NewResetGuard(session.NewMemoryStore())

	reset, err := g.ShouldReset(ctx, "sid", NavReload, false)
	if err != nil {
		t.Fatal(err)
	}
	if !reset {
		t.Error("a plain reload should reset preferences")
	}

	// The follow-up load after the reset must not reset again.
	reset, err = g.ShouldReset(ctx, "sid", NavReload, false)
	if err != nil {
		t.Fatal(err)
	}
	if reset {
		t.Error("reset-pending state should absorb the follow-up load")
	}

	// The state machine is back to idle: the next genuine reload resets.
	reset, _ = g.ShouldReset(ctx, "sid", NavReload, false)
	if !reset {
		t.Error("guard stuck after one reset cycle")
	}
}

func TestGuardButtonReloadSuppressesExactlyOneReset(t *testing.T) {
	ctx := context.Background()
	g := NewResetGuard(session.NewMemoryStore())

	if err := g.MarkButtonReload(ctx, "sid"); err != nil {
		t.Fatal(err)
	}

	reset, err := g.ShouldReset(ctx, "sid", NavReload, false)
	if err != nil {
		t.Fatal(err)
	}
	if reset {
		t.Error("button-triggered reload must not reset")
	}

	// The marker is one-shot.
	reset, _ = g.ShouldReset(ctx, "sid", NavReload, false)
	if !reset {
		t.Error("marker should have been consumed by the first load")
	}
}

func TestGuardNavigationRules(t *testing.T) {
	ctx := context.Background()
	g := NewResetGuard(session.NewMemoryStore())

	// Moving between emergency pages keeps the state.
	reset, _ := g.ShouldReset(ctx, "sid", NavNavigate, true)
	if reset {
		t.Error("internal navigation must not reset")
	}

	// Arriving from elsewhere clears it.
	reset, _ = g.ShouldReset(ctx, "sid", NavNavigate, false)
	if !reset {
		t.Error("arrival from another page should reset")
	}
}

func TestGuardClearPendingAllowsRetry(t *testing.T) {
	ctx := context.Background()
	g := NewResetGuard(session.NewMemoryStore())

	if reset, _ := g.ShouldReset(ctx, "sid", NavReload, false); !reset {
		t.Fatal("expected reset")
	}

	// The reset failed; clearing the pending state re-arms the guard.
	if err := g.ClearPending(ctx, "sid"); err != nil {
		t.Fatal(err)
	}
	if reset, _ := g.ShouldReset(ctx, "sid", NavReload, false); !reset {
		t.Error("guard should retry after a failed reset")
	}
}

func TestGuardBackForwardNeverResets(t *testing.T) {
	ctx := context.Background()
	g := NewResetGuard(session.NewMemoryStore())

	if reset, _ := g.ShouldReset(ctx, "sid", NavBackForward, false); reset {
		t.Error("history navigation must not reset")
	}
}
