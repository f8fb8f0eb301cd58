package add

import (
	"tradedesk/cmd/tradedesk/add/member"

	"github.com/spf13/cobra"
)

func init() {
	Command.AddCommand(member.Command.Get())
}

var Command = &cobra.Command{
	Use:     "add",
	Aliases: []string{"a"},
	Short:   "Adds resources to an organisation",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}
