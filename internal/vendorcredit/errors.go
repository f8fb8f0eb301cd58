package vendorcredit

import "errors"

var (
	ErrorInvalidInput         = errors.New("invalid_input")
	ErrorInvalidTransition    = errors.New("invalid_transition")
	ErrorInvalidTemplate      = errors.New("invalid_template")
	ErrorImportJobNotFound    = errors.New("import_job_not_found")
	ErrorImportJobNotReady    = errors.New("import_job_not_ready")
	ErrorImportMappingMissing = errors.New("import_mapping_missing")
	ErrorImportFileEmpty      = errors.New("import_file_empty")
	ErrorStoreUndefined       = errors.New("store_undefined")
	ErrorSeatLimitReached     = errors.New("seat_limit_reached")
)
