package roster

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/louisbranch/roster/internal/platform/id"
	"github.com/louisbranch/roster/internal/platform/requestctx"
	"github.com/louisbranch/roster/internal/services/roster/controller"
)

const (
	// sessionCookieName stores the visitor's roster session ID.
	sessionCookieName = "roster_session"
	// defaultSessionTTL controls how long an idle roster stays in memory.
	defaultSessionTTL = 24 * time.Hour
	// sessionCleanupInterval controls how often expired sessions are purged.
	sessionCleanupInterval = 10 * time.Minute
)

// session is one visitor's roster controller and the surface rendering it.
type session struct {
	id         string
	controller *controller.Controller
	surface    *pageSurface
	expiresAt   time.Time
	unsubscribe func()
}

// context tags ctx with the session for directory tracing.
func (s *session) context(ctx context.Context) context.Context {
	return requestctx.WithSessionID(ctx, s.id)
}

// pageSurface keeps the newest snapshot delivered by the controller; the
// page and fragment handlers render from it.
type pageSurface struct {
	mu     sync.Mutex
	latest controller.Snapshot
}

func (p *pageSurface) Render(snapshot controller.Snapshot) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if snapshot.Revision < p.latest.Revision {
		return
	}
	p.latest = snapshot
}

func (p *pageSurface) Snapshot() controller.Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.latest
}

type sessionStore struct {
	mu            sync.Mutex
	sessions      map[string]*session
	lastCleanup   time.Time
	ttl           time.Duration
	newController func() *controller.Controller
	now           func() time.Time
}

func newSessionStore(ttl time.Duration, newController func() *controller.Controller) *sessionStore {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &sessionStore{
		sessions:      make(map[string]*session),
		ttl:           ttl,
		newController: newController,
		now:           time.Now,
	}
}

// Get returns a live session and extends its expiry.
func (s *sessionStore) Get(sessionID string) (*session, bool) {
	if s == nil || sessionID == "" || !id.Valid(sessionID) {
		return nil, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	s.cleanupLocked(now)
	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, false
	}
	if now.After(sess.expiresAt) {
		s.deleteLocked(sessionID)
		return nil, false
	}
	sess.expiresAt = now.Add(s.ttl)
	return sess, true
}

// Create starts a session and its initial roster fetch. The fetch outlives
// the request that triggered it.
func (s *sessionStore) Create(ctx context.Context) *session {
	ctrl := s.newController()
	surface := &pageSurface{latest: ctrl.Snapshot()}
	sess := &session{
		id:          id.NewID(),
		controller:  ctrl,
		surface:     surface,
		unsubscribe: ctrl.Subscribe(surface),
	}

	s.mu.Lock()
	now := s.now()
	s.cleanupLocked(now)
	sess.expiresAt = now.Add(s.ttl)
	s.sessions[sess.id] = sess
	s.mu.Unlock()

	loadCtx := sess.context(context.WithoutCancel(ctx))
	go func() {
		_ = ctrl.Load(loadCtx)
	}()
	return sess
}

func (s *sessionStore) deleteLocked(sessionID string) {
	sess, ok := s.sessions[sessionID]
	if !ok {
		return
	}
	if sess.unsubscribe != nil {
		sess.unsubscribe()
	}
	delete(s.sessions, sessionID)
}

func (s *sessionStore) cleanupLocked(now time.Time) {
	if now.Sub(s.lastCleanup) < sessionCleanupInterval {
		return
	}
	for key, sess := range s.sessions {
		if now.After(sess.expiresAt) {
			s.deleteLocked(key)
		}
	}
	s.lastCleanup = now
}

func (s *sessionStore) cookie(sessionID string) *http.Cookie {
	return &http.Cookie{
		Name:     sessionCookieName,
		Value:    sessionID,
		Path:     "/",
		MaxAge:   int(s.ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}
