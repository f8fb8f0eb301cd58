package models

import "errors"

var (
	ErrorCaseNotReady                    = errors.New("case_not_ready")
	ErrorCredentialsAuthenticationFailed = errors.New("credentials_authentication_failed")
	ErrorDatabaseUndefined               = errors.New("database_undefined")
	ErrorDeleteFailed                    = errors.New("delete_failed")
	ErrorDuplicateEntry                  = errors.New("duplicate_entry")
	ErrorInsertFailed                    = errors.New("insert_failed")
	ErrorInvalidInput                    = errors.New("invalid_input")
	ErrorInvitationAccepted              = errors.New("invitation_accepted")
	ErrorInvitationExpired               = errors.New("invitation_expired")
	ErrorNotFound                        = errors.New("not_found")
	ErrorRowsAffectedCheckFailed         = errors.New("rows_affected_check_failed")
	ErrorSeatLimitReached                = errors.New("seat_limit_reached")
	ErrorSelectFailed                    = errors.New("select_failed")
	ErrorSelectsFailed                   = errors.New("selects_failed")
	ErrorStmtPreparationFailed           = errors.New("stmt_preparation_failed")
	ErrorTransactionFailed               = errors.New("transaction_failed")
	ErrorUpdateFailed                    = errors.New("update_failed")
	ErrorUserExists                      = errors.New("user_exists")

	mysqlErrorDuplicateEntryCode uint16 = 1062
)
