package login

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
		Usage:        "the email address of your account",
		Type:         cli.FlagTypeString,
	},
	{
		Name:         "password",
		DefaultValue: "",
		Usage:        "the password of your account, you will be prompted when this is not set",
		Type:         cli.FlagTypeString,
	},
}.
	Append(config.GetControllerUrlFlags())

var Command = cli.NewCommand(cli.CommandOpts{
	Name:  "login",
	Flags: flags,
	Use:   "login",
	Short: "Logs in to Tradedesk from your terminal",
	Run: func(cmd *cobra.Command, opts *cli.Command, args []string) error {
		if _, _, err := controller.GetSessionToken(); err == nil {
			return fmt.Errorf("looks like you're already logged in, run `%s logout` first", cli.AppName)
		}

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

		client, err := controller.NewClient(controller.NewClientOpts{
			ControllerUrl: viper.GetString(config.ControllerUrl),
			Id:            opts.GetFullname(),
		})
		if err != nil {
			return fmt.Errorf("%w: %w", cli.ErrorClientUnavailable, err)
		}
		output, err := client.CreateSessionV1(controller.CreateSessionV1Input{
			Email:    email,
			Password: password,
		})
		if err != nil {
			if errors.Is(err, controller.ErrorInvalidCredentials) {
				fmt.Println("The provided credentials don't seem correct, try again")
				return cli.ErrorAuthError
			}
			return fmt.Errorf("failed to create session: %w", err)
		}

		sessionFilePath, err := controller.SaveSessionToken(output.Data.SessionToken)
		if err != nil {
			return err
		}
		cli.PrintBoxedSuccessMessage(fmt.Sprintf(
			"Welcome back %s!\n\nSession ID: %s\nExpires at: %s\nSaved to: %s",
			output.Data.User.Email,
			output.Data.SessionId,
			output.Data.ExpiresAt.Local().Format("2006-01-02 15:04"),
			sessionFilePath,
		))
		return nil
	},
})
