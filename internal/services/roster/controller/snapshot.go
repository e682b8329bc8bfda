package controller

import (
	"fmt"
	"strings"

	apperrors "github.com/louisbranch/roster/internal/platform/errors"
	"github.com/louisbranch/roster/internal/services/roster/directory"
)

// Mode is the state of the roster form region.
type Mode int

const (
	// ModeHidden shows no form.
	ModeHidden Mode = iota
	// ModeCreate shows the form for a new user.
	ModeCreate
	// ModeEdit shows the form for the edit target.
	ModeEdit
)

func (m Mode) String() string {
	switch m {
	case ModeHidden:
		return "hidden"
	case ModeCreate:
		return "create"
	case ModeEdit:
		return "edit"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Draft holds the editable form fields.
type Draft struct {
	Name       string
	Email      string
	Department string
}

// DraftFromUser copies a user's editable fields; a missing department becomes
// the empty string.
func DraftFromUser(user directory.User) Draft {
	return Draft{
		Name:       user.Name,
		Email:      user.Email,
		Department: user.Department,
	}
}

// Input converts the draft into a directory request body.
func (d Draft) Input() directory.UserInput {
	return directory.UserInput{
		Name:       d.Name,
		Email:      d.Email,
		Department: d.Department,
	}
}

// IsZero reports whether every field is empty.
func (d Draft) IsZero() bool {
	return d == Draft{}
}

// Snapshot is an immutable copy of the roster state handed to surfaces.
type Snapshot struct {
	// Revision increases by one on every state change.
	Revision uint64
	Loading  bool
	// Error is the static message for the last failed operation, empty when
	// there is none.
	Error      string
	ErrorCode  apperrors.Code
	Users      []directory.User
	Mode       Mode
	EditTarget *directory.User
	Draft      Draft
}

// FormVisible reports whether the create/edit form is shown.
func (s Snapshot) FormVisible() bool {
	return s.Mode != ModeHidden
}

// LoadFailed reports whether the last error came from fetching the roster.
func (s Snapshot) LoadFailed() bool {
	return s.ErrorCode == apperrors.CodeUsersFetchFailed
}

// IDPolicy chooses the identifier recorded locally for a created user.
type IDPolicy string

const (
	// IDPolicyServer uses the identifier returned by the directory, falling
	// back to the next sequential value when the response has none.
	IDPolicyServer IDPolicy = "server"
	// IDPolicySequential always records the collection length plus one.
	IDPolicySequential IDPolicy = "sequential"
)

// ParseIDPolicy parses a policy name; empty selects IDPolicyServer.
func ParseIDPolicy(value string) (IDPolicy, error) {
	switch IDPolicy(strings.ToLower(strings.TrimSpace(value))) {
	case "", IDPolicyServer:
		return IDPolicyServer, nil
	case IDPolicySequential:
		return IDPolicySequential, nil
	default:
		return "", fmt.Errorf("unknown create id policy %q", value)
	}
}
