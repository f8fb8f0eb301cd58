package cases

import (
	"fmt"
	"os"
	"time"
	"tradedesk/internal/cli"
	"tradedesk/internal/common"
	"tradedesk/internal/config"
	"tradedesk/pkg/controller"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const dateLayout = "2006-01-02"

var flags cli.Flags = cli.Flags{
	{
		Name:         "start",
		DefaultValue: "",
		Usage:        "only cases created on or after this date (YYYY-MM-DD)",
		Type:         cli.FlagTypeString,
	},
	{
		Name:         "end",
		DefaultValue: "",
		Usage:        "only cases created on or before this date (YYYY-MM-DD)",
		Type:         cli.FlagTypeString,
	},
	{
		Name:         "vendor-id",
		DefaultValue: "",
		Usage:        "only cases of this vendor",
		Type:         cli.FlagTypeString,
	},
	{
		Name:         "status",
		DefaultValue: "",
		Usage:        "only cases in this status",
		Type:         cli.FlagTypeString,
	},
	{
		Name:         "file",
		Short:        'f',
		DefaultValue: "",
		Usage:        "writes the report to this path instead of stdout",
		Type:         cli.FlagTypeString,
	},
}.
	Append(config.GetControllerUrlFlags()).
	Append(config.GetOrgFlags())

var Command = cli.NewCommand(cli.CommandOpts{
	Name:  "export.cases",
	Flags: flags,
	Use:   "cases",
	Short: "Exports vendor credit cases as csv",
	Run: func(cmd *cobra.Command, opts *cli.Command, args []string) error {
		start := viper.GetString("start")
		end := viper.GetString("end")
		for flag, value := range map[string]string{"start": start, "end": end} {
			if value == "" {
				continue
			}
			if _, err := time.Parse(dateLayout, value); err != nil {
				return fmt.Errorf("%w: --%s must be a YYYY-MM-DD date", cli.ErrorInvalidInput, flag)
			}
		}

		client, session, err := cli.RequireAuth(viper.GetString(config.ControllerUrl), opts.GetFullname())
		if err != nil {
			return err
		}
		orgId, err := cli.ResolveOrgId(viper.GetString(config.OrgId), session, common.AppVendorCredit)
		if err != nil {
			return err
		}
		output, err := client.ExportCasesReportV1(controller.ExportCasesReportV1Input{
			OrgId:    orgId,
			Start:    start,
			End:      end,
			VendorId: viper.GetString("vendor-id"),
			Status:   viper.GetString("status"),
		})
		if err != nil {
			return fmt.Errorf("failed to export cases: %w", err)
		}

		filePath := viper.GetString("file")
		if filePath == "" {
			_, err := os.Stdout.Write(output.Data)
			return err
		}
		if err := os.WriteFile(filePath, output.Data, 0o644); err != nil {
			return fmt.Errorf("failed to write report to path[%s]: %w", filePath, err)
		}
		cli.PrintBoxedSuccessMessage(fmt.Sprintf("Report written to %s", filePath))
		return nil
	},
})
