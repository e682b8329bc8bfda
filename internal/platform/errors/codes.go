// Package errors provides structured error handling with i18n support.
package errors

import "net/http"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Directory operation failures
	CodeUsersFetchFailed Code = "USERS_FETCH_FAILED"
	CodeUserAddFailed    Code = "USER_ADD_FAILED"
	CodeUserUpdateFailed Code = "USER_UPDATE_FAILED"
	CodeUserDeleteFailed Code = "USER_DELETE_FAILED"

	// Roster state errors
	CodeOperationInFlight   Code = "OPERATION_IN_FLIGHT"
	CodeFormNotInCreateMode Code = "FORM_NOT_IN_CREATE_MODE"
	CodeNoEditTarget        Code = "NO_EDIT_TARGET"
	CodeUserNotFound        Code = "USER_NOT_FOUND"
)

// HTTPStatus maps domain codes to the status served to the roster page.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeFormNotInCreateMode,
		CodeNoEditTarget:
		return http.StatusBadRequest

	case CodeOperationInFlight:
		return http.StatusConflict

	case CodeUserNotFound:
		return http.StatusNotFound

	// Directory failures are rendered as part of the page, the request itself
	// succeeded.
	case CodeUsersFetchFailed,
		CodeUserAddFailed,
		CodeUserUpdateFailed,
		CodeUserDeleteFailed:
		return http.StatusOK

	default:
		return http.StatusInternalServerError
	}
}
