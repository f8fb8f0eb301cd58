package export

import (
	"tradedesk/cmd/tradedesk/export/cases"

	"github.com/spf13/cobra"
)

func init() {
	Command.AddCommand(cases.Command.Get())
}

var Command = &cobra.Command{
	Use:     "export",
	Aliases: []string{"e"},
	Short:   "Exports reports",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}
