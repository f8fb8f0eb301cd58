package create

import (
	"tradedesk/cmd/tradedesk/create/org"

	"github.com/spf13/cobra"
)

func init() {
	Command.AddCommand(org.Command.Get())
}

var Command = &cobra.Command{
	Use:     "create",
	Aliases: []string{"c", "new"},
	Short:   "Creates resources",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}
