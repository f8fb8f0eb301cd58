package dashboard

import (
	"fmt"
	"tradedesk/internal/cli"
	"tradedesk/internal/common"
	"tradedesk/internal/config"
	"tradedesk/internal/solar"
	"tradedesk/pkg/controller"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var flags cli.Flags = cli.Flags{
	{
		Name:         "app",
		DefaultValue: string(common.AppSolar),
		Usage:        fmt.Sprintf("the app whose dashboard is shown (one of [%s, %s])", common.AppSolar, common.AppVendorCredit),
		Type:         cli.FlagTypeString,
	},
}.
	Append(config.GetControllerUrlFlags()).
	Append(config.GetOrgFlags())

var Command = cli.NewCommand(cli.CommandOpts{
	Name:    "get.dashboard",
	Flags:   flags,
	Use:     "dashboard",
	Aliases: []string{"dash"},
	Short:   "Shows the dashboard of a solar or vendorcredit organisation",
	Run: func(cmd *cobra.Command, opts *cli.Command, args []string) error {
		app := common.App(viper.GetString("app"))
		if app != common.AppSolar && app != common.AppVendorCredit {
			return fmt.Errorf("%w: app[%s] has no dashboard", cli.ErrorInvalidInput, app)
		}
		client, session, err := cli.RequireAuth(viper.GetString(config.ControllerUrl), opts.GetFullname())
		if err != nil {
			return err
		}
		orgId, err := cli.ResolveOrgId(viper.GetString(config.OrgId), session, app)
		if err != nil {
			return err
		}
		format := viper.GetString("output")

		if app == common.AppSolar {
			output, err := client.GetSolarDashboardV1(controller.GetSolarDashboardV1Input{OrgId: orgId})
			if err != nil {
				return fmt.Errorf("failed to get solar dashboard: %w", err)
			}
			return cli.PrintOutput(format, output.Data, func() *cli.Table {
				return cli.NewTable(cli.NewTableOpts{
					Headers: []string{"metric", "value"},
					Rows: func(t *cli.Table) error {
						for _, status := range solar.JobStatuses {
							if err := t.NewRow("jobs "+string(status), output.Data.JobsByStatus[status]); err != nil {
								return err
							}
						}
						if err := t.NewRow("open tasks", output.Data.OpenTasks); err != nil {
							return err
						}
						if err := t.NewRow("stuck permits", output.Data.StuckPermitCount); err != nil {
							return err
						}
						return t.NewRow("upcoming inspections", len(output.Data.UpcomingInspections))
					},
				})
			})
		}

		output, err := client.GetVendorCreditDashboardV1(controller.GetVendorCreditDashboardV1Input{OrgId: orgId})
		if err != nil {
			return fmt.Errorf("failed to get vendorcredit dashboard: %w", err)
		}
		return cli.PrintOutput(format, output.Data, func() *cli.Table {
			return cli.NewTable(cli.NewTableOpts{
				Headers: []string{"metric", "value"},
				Rows: func(t *cli.Table) error {
					if err := t.NewRow("open cases", output.Data.OpenCount); err != nil {
						return err
					}
					if err := t.NewRow("expected open total", fmt.Sprintf("%.2f", output.Data.ExpectedOpenTotal)); err != nil {
						return err
					}
					if err := t.NewRow("credit received", fmt.Sprintf("%.2f", output.Data.ActualReceivedTotal)); err != nil {
						return err
					}
					for _, aging := range output.Data.Aging {
						if err := t.NewRow("aged "+aging.Bucket+" days", aging.Count); err != nil {
							return err
						}
					}
					for _, vendor := range output.Data.TopVendors {
						if err := t.NewRow("vendor "+vendor.VendorName, fmt.Sprintf("%.2f", vendor.ExpectedCredit)); err != nil {
							return err
						}
					}
					return nil
				},
			})
		})
	},
})
