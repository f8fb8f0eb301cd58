package controller

import "errors"

// error codes mirror the `data` values the controller sends with a
// failed response
var (
	ErrorAuthRequired            = errors.New("auth_required")
	ErrorBillingRequired         = errors.New("billing_required")
	ErrorCycleInProgress         = errors.New("cycle_in_progress")
	ErrorDuplicateEntry          = errors.New("duplicate_entry")
	ErrorInsufficientPermissions = errors.New("insufficient_permissions")
	ErrorInvalidCredentials      = errors.New("invalid_credentials")
	ErrorInvalidInput            = errors.New("invalid_input")
	ErrorInvalidTransition       = errors.New("invalid_transition")
	ErrorNotFound                = errors.New("not_found")
	ErrorSeatLimitReached        = errors.New("seat_limit_reached")
	ErrorUserExists              = errors.New("user_exists")
	ErrorVendorInUse             = errors.New("vendor_in_use")
	ErrorWrongApp                = errors.New("wrong_app")

	ErrorUnknown = errors.New("unknown_error")
)

var knownErrors = []error{
	ErrorAuthRequired,
	ErrorBillingRequired,
	ErrorCycleInProgress,
	ErrorDuplicateEntry,
	ErrorInsufficientPermissions,
	ErrorInvalidCredentials,
	ErrorInvalidInput,
	ErrorInvalidTransition,
	ErrorNotFound,
	ErrorSeatLimitReached,
	ErrorUserExists,
	ErrorVendorInUse,
	ErrorWrongApp,
}
