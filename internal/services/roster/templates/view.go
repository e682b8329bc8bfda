package templates

import (
	"net/url"

	apperrors "github.com/louisbranch/roster/internal/platform/errors"
	"github.com/louisbranch/roster/internal/services/roster/controller"
	rosteri18n "github.com/louisbranch/roster/internal/services/roster/i18n"
)

// PageContext carries request-scoped layout data.
type PageContext struct {
	Lang string
	Loc  Localizer
}

// RosterView is everything the roster fragment renders.
type RosterView struct {
	Revision   uint64
	Loading    bool
	Error      string
	LoadFailed bool
	// Notice is a transient message for this response only, such as a
	// rejected concurrent action.
	Notice string
	Users  []UserCard
	Form   *FormView
}

// UserCard is one rendered user.
type UserCard struct {
	ID         string
	Name       string
	Email      string
	Department string
}

// FormView describes the open create or edit form.
type FormView struct {
	Editing    bool
	Action     string
	Name       string
	Email      string
	Department string
}

// NewRosterView maps a controller snapshot onto the roster view.
func NewRosterView(loc Localizer, snap controller.Snapshot) RosterView {
	view := RosterView{
		Revision:   snap.Revision,
		Loading:    snap.Loading,
		LoadFailed: snap.LoadFailed(),
		Users:      make([]UserCard, 0, len(snap.Users)),
	}
	if snap.Error != "" {
		view.Error = ErrorMessage(loc, snap.ErrorCode, snap.Error)
	}
	for _, user := range snap.Users {
		view.Users = append(view.Users, UserCard{
			ID:         user.ID.String(),
			Name:       user.Name,
			Email:      user.Email,
			Department: user.Department,
		})
	}
	switch snap.Mode {
	case controller.ModeCreate:
		view.Form = &FormView{
			Action:     "/users",
			Name:       snap.Draft.Name,
			Email:      snap.Draft.Email,
			Department: snap.Draft.Department,
		}
	case controller.ModeEdit:
		form := &FormView{
			Editing:    true,
			Name:       snap.Draft.Name,
			Email:      snap.Draft.Email,
			Department: snap.Draft.Department,
		}
		if snap.EditTarget != nil {
			form.Action = UserPath(snap.EditTarget.ID.String())
		}
		view.Form = form
	}
	return view
}

// ErrorMessage localizes a domain error, keeping fallback when there is no
// localizer.
func ErrorMessage(loc Localizer, code apperrors.Code, fallback string) string {
	if loc == nil || code == "" {
		return fallback
	}
	return T(loc, rosteri18n.ErrorKey(code))
}

// UserPath is the resource path for one user.
func UserPath(id string) string {
	return "/users/" + url.PathEscape(id)
}
