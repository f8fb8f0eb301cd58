package org

import (
	"fmt"
	"strings"
	"tradedesk/internal/cli"
	"tradedesk/internal/common"
	"tradedesk/internal/config"
	"tradedesk/internal/validate"
	"tradedesk/pkg/controller"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var flags cli.Flags = cli.Flags{
	{
		Name:         "app",
		DefaultValue: "",
		Usage:        fmt.Sprintf("the app this organisation uses (one of [%s])", joinApps()),
		Type:         cli.FlagTypeString,
	},
	{
		Name:         "timezone",
		DefaultValue: "UTC",
		Usage:        "the IANA timezone reminders are scheduled in",
		Type:         cli.FlagTypeString,
	},
}.
	Append(config.GetControllerUrlFlags())

func joinApps() string {
	apps := []string{}
	for _, app := range common.Apps {
		apps = append(apps, string(app))
	}
	return strings.Join(apps, ", ")
}

var Command = cli.NewCommand(cli.CommandOpts{
	Name:  "create.org",
	Flags: flags,
	Use:   "org <name>",
	Short: "Creates an organisation that you own",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, opts *cli.Command, args []string) error {
		name := strings.TrimSpace(args[0])
		if err := validate.OrgName(name); err != nil {
			return fmt.Errorf("%w: %w", cli.ErrorInvalidInput, err)
		}
		timezone := viper.GetString("timezone")
		if err := validate.Timezone(timezone); err != nil {
			return fmt.Errorf("%w: %w", cli.ErrorInvalidInput, err)
		}
		app := common.App(viper.GetString("app"))
		isKnownApp := false
		for _, known := range common.Apps {
			isKnownApp = isKnownApp || known == app
		}
		if !isKnownApp {
			return fmt.Errorf("%w: --app must be one of [%s]", cli.ErrorInvalidInput, joinApps())
		}

		client, _, err := cli.RequireAuth(viper.GetString(config.ControllerUrl), opts.GetFullname())
		if err != nil {
			return err
		}
		output, err := client.CreateOrgV1(controller.CreateOrgV1Input{
			App:      app,
			Name:     name,
			Timezone: timezone,
		})
		if err != nil {
			return fmt.Errorf("failed to create org: %w", err)
		}
		cli.PrintBoxedSuccessMessage(fmt.Sprintf(
			"Organisation %s was created\n\nID: %s\n\nSet `org-id: %s` in your configuration file to use it by default",
			name,
			output.Data.Id,
			output.Data.Id,
		))
		return nil
	},
})
