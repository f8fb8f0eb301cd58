package validate

import (
	"tradedesk/cmd/tradedesk/validate/template"

	"github.com/spf13/cobra"
)

func init() {
	Command.AddCommand(template.Command)
}

var Command = &cobra.Command{
	Use:     "validate",
	Aliases: []string{"v"},
	Short:   "Validates resource files offline",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}
