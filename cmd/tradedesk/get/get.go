package get

import (
	"tradedesk/cmd/tradedesk/get/dashboard"
	"tradedesk/cmd/tradedesk/get/jobs"
	"tradedesk/cmd/tradedesk/get/members"
	"tradedesk/cmd/tradedesk/get/orgs"
	"tradedesk/cmd/tradedesk/get/readiness"
	"tradedesk/cmd/tradedesk/get/stuck_permits"
	"tradedesk/cmd/tradedesk/get/today"

	"github.com/spf13/cobra"
)

func init() {
	Command.AddCommand(dashboard.Command.Get())
	Command.AddCommand(jobs.Command.Get())
	Command.AddCommand(members.Command.Get())
	Command.AddCommand(orgs.Command.Get())
	Command.AddCommand(readiness.Command.Get())
	Command.AddCommand(stuck_permits.Command.Get())
	Command.AddCommand(today.Command.Get())
}

var Command = &cobra.Command{
	Use:     "get",
	Aliases: []string{"g", "list"},
	Short:   "Retrieves resources from the controller",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}
