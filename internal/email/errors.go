package email

import "errors"

var (
	ErrorInvalidInput  = errors.New("invalid_input")
	ErrorNotConfigured = errors.New("smtp_not_configured")
	ErrorSendFailed    = errors.New("send_failed")
)
