package email

import (
	"fmt"
	"tradedesk/internal/cli"
	"tradedesk/internal/config"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var flags cli.Flags = cli.Flags{}.
	Append(config.GetSmtpFlags())

var Command = cli.NewCommand(cli.CommandOpts{
	Name:    "check.email",
	Flags:   flags,
	Use:     "email",
	Aliases: []string{"smtp"},
	Short:   "Checks connectivity and credentials of the smtp server",
	Run: func(cmd *cobra.Command, opts *cli.Command, args []string) error {
		smtpConfig, sender, err := config.NewSmtpConfigFromFlags()
		if err != nil {
			return err
		}
		if !smtpConfig.IsSet() {
			cli.PrintBoxedWarningMessage("No smtp server is configured, emails will only be logged")
			return nil
		}
		logrus.Infof("verifying smtp server[%s:%v]...", smtpConfig.Hostname, smtpConfig.Port)
		if err := smtpConfig.VerifyConnection(); err != nil {
			return fmt.Errorf("failed to verify smtp server: %w", err)
		}
		cli.PrintBoxedSuccessMessage(fmt.Sprintf(
			"Successfully authenticated with smtp server[%s] as sender[%s]",
			smtpConfig.Hostname,
			sender.Address,
		))
		return nil
	},
})
