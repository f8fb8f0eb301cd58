package register

import (
	"errors"
	"fmt"
	"tradedesk/internal/cli"
	"tradedesk/internal/config"
	"tradedesk/internal/validate"
	"tradedesk/pkg/controller"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var flags cli.Flags = cli.Flags{
	{
		Name:         "email",
		DefaultValue: "",
		Usage:        "the email address you are signing up with",
		Type:         cli.FlagTypeString,
	},
	{
		Name:         "name",
		DefaultValue: "",
		Usage:        "your display name",
		Type:         cli.FlagTypeString,
	},
	{
		Name:         "password",
		DefaultValue: "",
		Usage:        "the password of your new account, you will be prompted when this is not set",
		Type:         cli.FlagTypeString,
	},
}.
	Append(config.GetControllerUrlFlags())

var Command = cli.NewCommand(cli.CommandOpts{
	Name:  "register",
	Flags: flags,
	Use:   "register",
	Short: "Creates a Tradedesk account",
	Run: func(cmd *cobra.Command, opts *cli.Command, args []string) error {
		inputPassword := viper.GetString("password")
		if inputPassword != "" {
			cli.WarnPasswordFlag()
		}
		email, err := cli.PromptString("Email", viper.GetString("email"))
		if err != nil {
			return err
		}
		if err := validate.Email(email); err != nil {
			return fmt.Errorf("%w: email[%s] is not valid: %w", cli.ErrorInvalidInput, email, err)
		}
		password, err := cli.PromptPassword("Password", inputPassword)
		if err != nil {
			return err
		}
		if err := validate.Password(password); err != nil {
			return fmt.Errorf("%w: password is not strong enough: %w", cli.ErrorInvalidInput, err)
		}

		client, err := controller.NewClient(controller.NewClientOpts{
			ControllerUrl: viper.GetString(config.ControllerUrl),
			Id:            opts.GetFullname(),
		})
		if err != nil {
			return fmt.Errorf("%w: %w", cli.ErrorClientUnavailable, err)
		}
		input := controller.CreateUserV1Input{
			Email:    email,
			Password: password,
		}
		if name := viper.GetString("name"); name != "" {
			input.Name = &name
		}
		output, err := client.CreateUserV1(input)
		if err != nil {
			if errors.Is(err, controller.ErrorUserExists) {
				return fmt.Errorf("an account with email[%s] already exists, use `%s login`", email, cli.AppName)
			}
			return fmt.Errorf("failed to create user: %w", err)
		}
		cli.PrintBoxedSuccessMessage(fmt.Sprintf(
			"Account created!\n\nUser ID: %s\n\nLogin with `%s login --email %s`",
			output.Data.Id,
			cli.AppName,
			output.Data.Email,
		))
		return nil
	},
})
