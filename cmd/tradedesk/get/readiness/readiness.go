package readiness

import (
	"fmt"
	"strings"
	"tradedesk/internal/cli"
	"tradedesk/internal/common"
	"tradedesk/internal/config"
	"tradedesk/pkg/controller"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var flags cli.Flags = cli.Flags{}.
	Append(config.GetControllerUrlFlags()).
	Append(config.GetOrgFlags())

var Command = cli.NewCommand(cli.CommandOpts{
	Name:  "get.readiness",
	Flags: flags,
	Use:   "readiness <case-id>",
	Short: "Shows what a vendor credit case is missing before it can be submitted",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, opts *cli.Command, args []string) error {
		client, session, err := cli.RequireAuth(viper.GetString(config.ControllerUrl), opts.GetFullname())
		if err != nil {
			return err
		}
		orgId, err := cli.ResolveOrgId(viper.GetString(config.OrgId), session, common.AppVendorCredit)
		if err != nil {
			return err
		}
		output, err := client.GetCaseReadinessV1(controller.GetCaseReadinessV1Input{
			OrgId:  orgId,
			CaseId: args[0],
		})
		if err != nil {
			return fmt.Errorf("failed to get readiness of case[%s]: %w", args[0], err)
		}
		readiness := output.Data
		return cli.PrintOutput(viper.GetString("output"), readiness, func() *cli.Table {
			return cli.NewTable(cli.NewTableOpts{
				Headers: []string{"ready", "missing fields", "missing evidence", "pending required steps"},
				Rows: func(t *cli.Table) error {
					return t.NewRow(
						readiness.Ok,
						strings.Join(readiness.MissingFields, ", "),
						strings.Join(readiness.MissingEvidence, ", "),
						readiness.MissingChecklistSteps,
					)
				},
			})
		})
	},
})
