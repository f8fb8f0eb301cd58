package template

import (
	"fmt"
	"tradedesk/internal/cli"
	"tradedesk/internal/vendorcredit"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var Command = &cobra.Command{
	Use:     "template <path-to-template-file>",
	Aliases: []string{"claimtemplate", "t"},
	Short:   "Validates a ClaimTemplate resource",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, resourcePath, err := cli.GetFilePathFromArgs(args)
		if err != nil {
			return err
		}
		document, err := vendorcredit.LoadTemplateFromFile(resourcePath)
		if err != nil {
			return fmt.Errorf("failed to load claim template from path[%s]: %w", resourcePath, err)
		}
		return cli.PrintOutput(viper.GetString("output"), document, func() *cli.Table {
			return cli.NewTable(cli.NewTableOpts{
				Headers: []string{"step", "title", "required", "fields needed", "due in days"},
				Rows: func(t *cli.Table) error {
					for _, step := range document.Spec.Steps {
						dueDays := "-"
						if step.DefaultDueDays != nil {
							dueDays = fmt.Sprintf("%v", *step.DefaultDueDays)
						}
						if err := t.NewRow(step.Id, step.Title, step.Required, step.FieldsNeeded, dueDays); err != nil {
							return err
						}
					}
					return nil
				},
			})
		})
	},
}
