package roster

import (
	"context"
	"testing"
	"time"

	"github.com/louisbranch/roster/internal/services/roster/controller"
)

func newTestStore(t *testing.T, ttl time.Duration) (*sessionStore, *time.Time) {
	t.Helper()
	dir := newStubDirectory()
	store := newSessionStore(ttl, func() *controller.Controller {
		return controller.New(dir, controller.Options{})
	})
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	store.now = func() time.Time { return now }
	return store, &now
}

// waitSession blocks until the session's initial fetch has settled.
func waitSession(t *testing.T, sess *session) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for sess.surface.Snapshot().Loading {
		if time.Now().After(deadline) {
			t.Fatal("initial load did not finish")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func sessionCount(store *sessionStore) int {
	store.mu.Lock()
	defer store.mu.Unlock()
	return len(store.sessions)
}

func TestSessionStoreCreateLoadsRoster(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t, time.Hour)
	sess := store.Create(context.Background())
	waitSession(t, sess)

	snap := sess.surface.Snapshot()
	if snap.Loading || len(snap.Users) != 3 {
		t.Fatalf("surface snapshot = loading %t users %d, want loaded roster of 3", snap.Loading, len(snap.Users))
	}
	got, ok := store.Get(sess.id)
	if !ok || got != sess {
		t.Fatal("expected session lookup to succeed")
	}
}

func TestSessionStoreCreateSurvivesCancelledRequest(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t, time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sess := store.Create(ctx)
	waitSession(t, sess)

	if snap := sess.surface.Snapshot(); snap.Error != "" {
		t.Fatalf("Error = %q, want load to ignore request cancellation", snap.Error)
	}
}

func TestSessionStoreExpiry(t *testing.T) {
	t.Parallel()

	store, now := newTestStore(t, time.Hour)
	sess := store.Create(context.Background())
	waitSession(t, sess)

	*now = now.Add(30 * time.Minute)
	if _, ok := store.Get(sess.id); !ok {
		t.Fatal("expected session alive before ttl")
	}

	// Get extends the expiry.
	*now = now.Add(45 * time.Minute)
	if _, ok := store.Get(sess.id); !ok {
		t.Fatal("expected sliding expiry to keep session alive")
	}

	*now = now.Add(2 * time.Hour)
	if _, ok := store.Get(sess.id); ok {
		t.Fatal("expected session expired")
	}
	if sessionCount(store) != 0 {
		t.Fatalf("sessions = %d, want 0", sessionCount(store))
	}
}

func TestSessionStoreCleanupPurgesExpired(t *testing.T) {
	t.Parallel()

	store, now := newTestStore(t, time.Minute)
	stale := store.Create(context.Background())
	waitSession(t, stale)

	*now = now.Add(sessionCleanupInterval + time.Minute)
	fresh := store.Create(context.Background())
	waitSession(t, fresh)

	if sessionCount(store) != 1 {
		t.Fatalf("sessions = %d, want only the fresh one", sessionCount(store))
	}
	if _, ok := store.Get(stale.id); ok {
		t.Fatal("expected stale session purged")
	}
}

func TestSessionStoreRejectsUnknownIDs(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t, time.Hour)
	for _, value := range []string{"", "not-an-xid", "9m4e2mr0ui3e8a215n4g"} {
		if _, ok := store.Get(value); ok {
			t.Fatalf("Get(%q) succeeded, want miss", value)
		}
	}
}

func TestSessionStoreExpiryUnsubscribesSurface(t *testing.T) {
	t.Parallel()

	store, now := newTestStore(t, time.Hour)
	sess := store.Create(context.Background())
	waitSession(t, sess)

	*now = now.Add(2 * time.Hour)
	if _, ok := store.Get(sess.id); ok {
		t.Fatal("expected expired session to be gone")
	}
	before := sess.surface.Snapshot().Revision
	sess.controller.OpenCreate()
	if after := sess.surface.Snapshot().Revision; after != before {
		t.Fatal("expected expired session surface to be unsubscribed")
	}
}

func TestPageSurfaceDropsStaleSnapshots(t *testing.T) {
	t.Parallel()

	surface := &pageSurface{}
	surface.Render(controller.Snapshot{Revision: 2, Loading: false})
	surface.Render(controller.Snapshot{Revision: 1, Loading: true})
	if got := surface.Snapshot(); got.Revision != 2 || got.Loading {
		t.Fatalf("snapshot = %+v, want revision 2", got)
	}
}
