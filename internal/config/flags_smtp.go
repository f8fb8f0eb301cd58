package config

import "tradedesk/internal/cli"

const (
	SmtpUsername = "smtp-username"
	SmtpPassword = "smtp-password"
	SmtpHostname = "smtp-hostname"
	SmtpPort     = "smtp-port"
	SmtpSender   = "smtp-sender"
)

func GetSmtpFlags() cli.Flags {
	return cli.Flags{
		{
			Name:         SmtpUsername,
			DefaultValue: "noreply@tradedesk.local",
			Usage:        "defines the smtp server user's email address",
			Type:         cli.FlagTypeString,
		},
		{
			Name:         SmtpPassword,
			DefaultValue: "",
			Usage:        "defines the smtp server user's password",
			Type:         cli.FlagTypeString,
		},
		{
			Name:         SmtpHostname,
			DefaultValue: "",
			Usage:        "defines the smtp server's hostname",
			Type:         cli.FlagTypeString,
		},
		{
			Name:         SmtpPort,
			DefaultValue: 587,
			Usage:        "defines the smtp server's port",
			Type:         cli.FlagTypeInteger,
		},
		{
			Name:         SmtpSender,
			DefaultValue: "Tradedesk <noreply@tradedesk.local>",
			Usage:        "defines the from address used on outgoing reminder emails",
			Type:         cli.FlagTypeString,
		},
	}
}
