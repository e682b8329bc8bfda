package i18n

import (
	apperrors "github.com/louisbranch/roster/internal/platform/errors"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func init() {
	lang := language.English

	// Page
	message.SetString(lang, "roster.title", "User Management")
	message.SetString(lang, "roster.heading", "User Management")
	message.SetString(lang, "roster.loading", "Loading...")
	message.SetString(lang, "roster.empty", "No users yet.")
	message.SetString(lang, "roster.language", "Language")
	message.SetString(lang, "language.en", "English")
	message.SetString(lang, "language.pt-BR", "Português (Brasil)")

	// Roster actions
	message.SetString(lang, "roster.add_new", "Add New User")
	message.SetString(lang, "roster.edit", "Edit")
	message.SetString(lang, "roster.delete", "Delete")
	message.SetString(lang, "roster.email", "Email: %s")
	message.SetString(lang, "roster.department", "Department: %s")
	message.SetString(lang, "roster.not_available", "N/A")

	// Form
	message.SetString(lang, "form.name", "Name")
	message.SetString(lang, "form.email", "Email")
	message.SetString(lang, "form.department", "Department")
	message.SetString(lang, "form.add", "Add User")
	message.SetString(lang, "form.update", "Update User")
	message.SetString(lang, "form.cancel", "Cancel")

	// Errors
	message.SetString(lang, "error.dismiss", "Dismiss")
	message.SetString(lang, "error.retry", "Retry")
	message.SetString(lang, "error.csrf_invalid", "Request origin could not be verified.")
	message.SetString(lang, ErrorKey(apperrors.CodeUsersFetchFailed), "Failed to fetch users!")
	message.SetString(lang, ErrorKey(apperrors.CodeUserAddFailed), "Failed to add user!")
	message.SetString(lang, ErrorKey(apperrors.CodeUserUpdateFailed), "Failed to update user!")
	message.SetString(lang, ErrorKey(apperrors.CodeUserDeleteFailed), "Failed to delete user!")
	message.SetString(lang, ErrorKey(apperrors.CodeOperationInFlight), "Another request is still in progress.")
	message.SetString(lang, ErrorKey(apperrors.CodeFormNotInCreateMode), "The form is not open for a new user.")
	message.SetString(lang, ErrorKey(apperrors.CodeNoEditTarget), "No user is being edited.")
	message.SetString(lang, ErrorKey(apperrors.CodeUserNotFound), "User not found.")
}
