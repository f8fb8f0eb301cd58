package common

import "time"

const (
	DefaultDurationConnectionTimeout = 10 * time.Second
)

const (
	LogLevelTrace = "trace"
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

var LogLevels = []string{
	LogLevelTrace,
	LogLevelDebug,
	LogLevelInfo,
	LogLevelWarn,
	LogLevelError,
}

// App identifies which of the hosted applications an organisation
// belongs to
type App string

const (
	AppFilters      App = "filters"
	AppSolar        App = "solar"
	AppVendorCredit App = "vendorcredit"
)

var Apps = []App{
	AppFilters,
	AppSolar,
	AppVendorCredit,
}

func (a App) IsValid() bool {
	for _, app := range Apps {
		if a == app {
			return true
		}
	}
	return false
}

const (
	OutputFormatJson = "json"
	OutputFormatText = "text"
)
