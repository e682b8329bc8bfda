// Package controller owns the roster state for one browser session and
// reconciles it with the user directory.
//
// Every operation that talks to the directory holds a single in-flight slot
// for its duration; an operation started while another is outstanding fails
// with OPERATION_IN_FLIGHT and leaves the state untouched. Local transitions
// (opening, editing, cancelling the form) never wait on the directory.
package controller

import (
	"context"
	"log"
	"slices"
	"strconv"
	"sync"

	apperrors "github.com/louisbranch/roster/internal/platform/errors"
	"github.com/louisbranch/roster/internal/services/roster/directory"
	"golang.org/x/sync/semaphore"
)

// Static messages shown for failed operations.
const (
	MsgFetchFailed       = "Failed to fetch users!"
	MsgAddFailed         = "Failed to add user!"
	MsgUpdateFailed      = "Failed to update user!"
	MsgDeleteFailed      = "Failed to delete user!"
	MsgOperationInFlight = "Another request is still in progress."
	MsgNotInCreateMode   = "The form is not open for a new user."
	MsgNoEditTarget      = "No user is being edited."
	MsgUserNotFound      = "User not found."
)

// Options tunes controller behavior.
type Options struct {
	IDPolicy IDPolicy
}

// Controller holds the roster for one session.
type Controller struct {
	directory directory.Directory
	idPolicy  IDPolicy
	inflight  *semaphore.Weighted

	mu            sync.Mutex
	revision      uint64
	loading       bool
	err           *apperrors.Error
	users         []directory.User
	mode          Mode
	editTarget    *directory.User
	draft         Draft
	subscriptions []subscription
	nextSubID     int
}

// New builds a controller in its initial loading state. Call Load to fetch
// the roster.
func New(dir directory.Directory, opts Options) *Controller {
	policy := opts.IDPolicy
	if policy == "" {
		policy = IDPolicyServer
	}
	return &Controller{
		directory: dir,
		idPolicy:  policy,
		inflight:  semaphore.NewWeighted(1),
		loading:   true,
		users:     []directory.User{},
	}
}

// Subscribe registers a surface and returns a function that removes it.
func (c *Controller) Subscribe(surface Surface) (unsubscribe func()) {
	if surface == nil {
		return func() {}
	}
	c.mu.Lock()
	c.nextSubID++
	subID := c.nextSubID
	c.subscriptions = append(c.subscriptions, subscription{id: subID, surface: surface})
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.subscriptions = slices.DeleteFunc(c.subscriptions, func(s subscription) bool {
			return s.id == subID
		})
	}
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Load replaces the roster with the directory's user list. A successful load
// clears any error.
func (c *Controller) Load(ctx context.Context) error {
	if !c.inflight.TryAcquire(1) {
		return inFlightError()
	}
	defer c.inflight.Release(1)

	c.mutate(func() bool {
		if c.loading {
			return false
		}
		c.loading = true
		return true
	})

	users, err := c.directory.ListUsers(ctx)
	if err != nil {
		log.Printf("list users: %v", err)
		domainErr := apperrors.Wrap(apperrors.CodeUsersFetchFailed, MsgFetchFailed, err)
		c.mutate(func() bool {
			c.loading = false
			c.err = domainErr
			return true
		})
		return domainErr
	}

	c.mutate(func() bool {
		c.users = slices.Clone(users)
		if c.users == nil {
			c.users = []directory.User{}
		}
		c.loading = false
		c.err = nil
		return true
	})
	return nil
}

// Reload retries the roster fetch, typically after a failed Load.
func (c *Controller) Reload(ctx context.Context) error {
	return c.Load(ctx)
}

// OpenCreate shows an empty form for a new user. Opening it while editing
// discards the edit.
func (c *Controller) OpenCreate() {
	c.mutate(func() bool {
		if c.mode == ModeCreate {
			return false
		}
		if c.mode == ModeEdit {
			c.draft = Draft{}
		}
		c.mode = ModeCreate
		c.editTarget = nil
		return true
	})
}

// BeginEdit selects a user for editing and copies its fields into the draft.
func (c *Controller) BeginEdit(id directory.UserID) error {
	var notFound bool
	c.mutate(func() bool {
		index := c.indexLocked(id)
		if index < 0 {
			notFound = true
			return false
		}
		target := c.users[index]
		c.editTarget = &target
		c.draft = DraftFromUser(target)
		c.mode = ModeEdit
		return true
	})
	if notFound {
		return apperrors.WithMetadata(apperrors.CodeUserNotFound, MsgUserNotFound, map[string]string{"id": id.String()})
	}
	return nil
}

// Cancel hides the form, clears the edit target, and resets the draft.
func (c *Controller) Cancel() {
	c.mutate(func() bool {
		if c.mode == ModeHidden && c.editTarget == nil && c.draft.IsZero() {
			return false
		}
		c.mode = ModeHidden
		c.editTarget = nil
		c.draft = Draft{}
		return true
	})
}

// DismissError clears the current error.
func (c *Controller) DismissError() {
	c.mutate(func() bool {
		if c.err == nil {
			return false
		}
		c.err = nil
		return true
	})
}

// SubmitCreate creates a user from draft and appends it to the roster. On
// failure the form stays open holding draft. An edit begun while the create
// was in flight is left open.
func (c *Controller) SubmitCreate(ctx context.Context, draft Draft) error {
	c.mu.Lock()
	mode := c.mode
	c.mu.Unlock()
	if mode != ModeCreate {
		return apperrors.New(apperrors.CodeFormNotInCreateMode, MsgNotInCreateMode)
	}
	if !c.inflight.TryAcquire(1) {
		return inFlightError()
	}
	defer c.inflight.Release(1)

	c.setDraft(draft)

	created, err := c.directory.CreateUser(ctx, draft.Input())
	if err != nil {
		log.Printf("create user: %v", err)
		domainErr := apperrors.Wrap(apperrors.CodeUserAddFailed, MsgAddFailed, err)
		c.mutate(func() bool {
			c.err = domainErr
			return true
		})
		return domainErr
	}

	c.mutate(func() bool {
		id := c.createdIDLocked(created.ID)
		c.users = append(c.users, draft.Input().User(id))
		if c.mode == ModeCreate {
			c.mode = ModeHidden
			c.draft = Draft{}
		}
		return true
	})
	return nil
}

// SubmitUpdate saves draft over the edit target, keeping its identifier and
// position. On failure the edit stays open holding draft.
func (c *Controller) SubmitUpdate(ctx context.Context, draft Draft) error {
	c.mu.Lock()
	var targetID directory.UserID
	hasTarget := c.editTarget != nil
	if hasTarget {
		targetID = c.editTarget.ID
	}
	c.mu.Unlock()
	if !hasTarget {
		return apperrors.New(apperrors.CodeNoEditTarget, MsgNoEditTarget)
	}
	if !c.inflight.TryAcquire(1) {
		return inFlightError()
	}
	defer c.inflight.Release(1)

	c.setDraft(draft)

	if err := c.directory.UpdateUser(ctx, targetID, draft.Input()); err != nil {
		log.Printf("update user %s: %v", targetID, err)
		domainErr := apperrors.Wrap(apperrors.CodeUserUpdateFailed, MsgUpdateFailed, err)
		c.mutate(func() bool {
			c.err = domainErr
			return true
		})
		return domainErr
	}

	c.mutate(func() bool {
		if index := c.indexLocked(targetID); index >= 0 {
			c.users[index] = draft.Input().User(targetID)
		}
		if c.editTarget != nil && c.editTarget.ID == targetID {
			c.editTarget = nil
			c.draft = Draft{}
			c.mode = ModeHidden
		}
		return true
	})
	return nil
}

// DeleteUser removes a user from the directory and then from the roster.
// Deleting the edit target also cancels the edit.
func (c *Controller) DeleteUser(ctx context.Context, id directory.UserID) error {
	if !c.inflight.TryAcquire(1) {
		return inFlightError()
	}
	defer c.inflight.Release(1)

	if err := c.directory.DeleteUser(ctx, id); err != nil {
		log.Printf("delete user %s: %v", id, err)
		domainErr := apperrors.Wrap(apperrors.CodeUserDeleteFailed, MsgDeleteFailed, err)
		c.mutate(func() bool {
			c.err = domainErr
			return true
		})
		return domainErr
	}

	c.mutate(func() bool {
		if index := c.indexLocked(id); index >= 0 {
			c.users = slices.Delete(c.users, index, index+1)
		}
		if c.editTarget != nil && c.editTarget.ID == id {
			c.editTarget = nil
			c.draft = Draft{}
			c.mode = ModeHidden
		}
		return true
	})
	return nil
}

func (c *Controller) setDraft(draft Draft) {
	c.mutate(func() bool {
		if c.draft == draft {
			return false
		}
		c.draft = draft
		return true
	})
}

// mutate applies change under the lock and, when it reports a change, bumps
// the revision and notifies surfaces after unlocking.
func (c *Controller) mutate(change func() bool) {
	c.mu.Lock()
	if !change() {
		c.mu.Unlock()
		return
	}
	c.revision++
	snapshot := c.snapshotLocked()
	surfaces := make([]Surface, 0, len(c.subscriptions))
	for _, sub := range c.subscriptions {
		surfaces = append(surfaces, sub.surface)
	}
	c.mu.Unlock()

	for _, surface := range surfaces {
		surface.Render(snapshot)
	}
}

func (c *Controller) snapshotLocked() Snapshot {
	snapshot := Snapshot{
		Revision: c.revision,
		Loading:  c.loading,
		Users:    slices.Clone(c.users),
		Mode:     c.mode,
		Draft:    c.draft,
	}
	if snapshot.Users == nil {
		snapshot.Users = []directory.User{}
	}
	if c.err != nil {
		snapshot.Error = c.err.Message
		snapshot.ErrorCode = c.err.Code
	}
	if c.editTarget != nil {
		target := *c.editTarget
		snapshot.EditTarget = &target
	}
	return snapshot
}

func (c *Controller) indexLocked(id directory.UserID) int {
	return slices.IndexFunc(c.users, func(user directory.User) bool {
		return user.ID == id
	})
}

// createdIDLocked picks the identifier for a newly created user. The server
// policy never reuses an identifier already on the roster: a missing or
// repeated server id falls back to the first free number from len+1.
func (c *Controller) createdIDLocked(serverID directory.UserID) directory.UserID {
	next := len(c.users) + 1
	if c.idPolicy != IDPolicyServer {
		return directory.UserID(strconv.Itoa(next))
	}
	if serverID != "" && c.indexLocked(serverID) < 0 {
		return serverID
	}
	for c.indexLocked(directory.UserID(strconv.Itoa(next))) >= 0 {
		next++
	}
	return directory.UserID(strconv.Itoa(next))
}

func inFlightError() *apperrors.Error {
	return apperrors.New(apperrors.CodeOperationInFlight, MsgOperationInFlight)
}
