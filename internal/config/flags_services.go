package config

import (
	"time"
	"tradedesk/internal/cli"
)

const (
	ControllerUrl       = "controller-url"
	CronSecret          = "cron-secret"
	ImportBatchSize     = "import-batch-size"
	OrgId               = "org-id"
	PublicServerUrl     = "public-server-url"
	ReminderInterval    = "reminder-interval"
	SessionSigningToken = "session-signing-token"
	AllowedIps          = "allowed-ips"
)

func GetControllerUrlFlags() cli.Flags {
	return cli.Flags{
		{
			Name:         ControllerUrl,
			Short:        'u',
			DefaultValue: "http://localhost:13371",
			Usage:        "the url of the controller service",
			Type:         cli.FlagTypeString,
		},
	}
}

// GetOrgFlags returns the --org-id flag, the org-id key of the global
// configuration file is used when the flag is not set
func GetOrgFlags() cli.Flags {
	return cli.Flags{
		{
			Name:         OrgId,
			DefaultValue: "",
			Usage:        "the id of the organisation to operate on",
			Type:         cli.FlagTypeString,
		},
	}
}

// GetControllerFlags returns the flags that only the controller
// service needs on top of its connection flags
func GetControllerFlags() cli.Flags {
	return cli.Flags{
		{
			Name:         PublicServerUrl,
			DefaultValue: "http://localhost:13371",
			Usage:        "the url that links in invitation emails point to",
			Type:         cli.FlagTypeString,
		},
		{
			Name:         SessionSigningToken,
			DefaultValue: "super_secret_session_token",
			Usage:        "the secret used to sign session tokens",
			Type:         cli.FlagTypeString,
		},
		{
			Name:         CronSecret,
			DefaultValue: "",
			Usage:        "the bearer token required by the cron endpoints, cron endpoints are disabled when empty",
			Type:         cli.FlagTypeString,
		},
		{
			Name:         AllowedIps,
			DefaultValue: []string{},
			Usage:        "cidrs allowed to reach the controller, every address is allowed when empty",
			Type:         cli.FlagTypeStringSlice,
		},
		{
			Name:         ImportBatchSize,
			DefaultValue: 20,
			Usage:        "maximum number of ready import jobs processed per cron sweep",
			Type:         cli.FlagTypeInteger,
		},
	}
}

// GetWorkerFlags returns the scheduling flags of the background worker
func GetWorkerFlags() cli.Flags {
	return cli.Flags{
		{
			Name:         ReminderInterval,
			DefaultValue: 5 * time.Minute,
			Usage:        "how often the reminder cycle runs",
			Type:         cli.FlagTypeDuration,
		},
	}
}
