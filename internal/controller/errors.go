package controller

import "errors"

var (
	ErrorAuthRequired              = errors.New("auth_required")
	ErrorBillingRequired           = errors.New("billing_required")
	ErrorCronDisabled              = errors.New("cron_disabled")
	ErrorCycleInProgress           = errors.New("cycle_in_progress")
	ErrorDatabaseIssue             = errors.New("database_issue")
	ErrorDuplicateEntry            = errors.New("duplicate_entry")
	ErrorGeneric                   = errors.New("generic_error")
	ErrorInsufficientPermissions   = errors.New("insufficient_permissions")
	ErrorInvalidCredentials        = errors.New("invalid_credentials")
	ErrorInvalidInput              = errors.New("invalid_input")
	ErrorInvalidPublicServerUrl    = errors.New("invalid_public_server_url")
	ErrorInvalidTransition         = errors.New("invalid_transition")
	ErrorInvitationUnusable        = errors.New("invitation_unusable")
	ErrorMissingCacheConnection    = errors.New("missing_cache_connection")
	ErrorMissingDatabaseConnection = errors.New("missing_database_connection")
	ErrorMissingQueueConnection    = errors.New("missing_queue_connection")
	ErrorMissingServiceLog         = errors.New("missing_service_log")
	ErrorNotFound                  = errors.New("not_found")
	ErrorQueueIssue                = errors.New("queue_issue")
	ErrorSeatLimitReached          = errors.New("seat_limit_reached")
	ErrorUserExists                = errors.New("user_exists")
	ErrorVendorInUse               = errors.New("vendor_in_use")
	ErrorWrongApp                  = errors.New("wrong_app")
)
