package filters

import (
	"fmt"
	"os"
	"path/filepath"
	"tradedesk/internal/cli"
	"tradedesk/internal/config"
	"tradedesk/pkg/controller"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var flags cli.Flags = cli.Flags{}.
	Append(config.GetControllerUrlFlags())

var Command = cli.NewCommand(cli.CommandOpts{
	Name:  "import.filters",
	Flags: flags,
	Use:   "filters <path-to-csv>",
	Short: "Imports a filter catalogue csv, requires a platform admin account",
	Long: "Imports a filter catalogue csv with the columns brand, sku, product_name, nominal_w, " +
		"nominal_h and thickness. Rows that fail validation are reported and the rest are imported",
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, opts *cli.Command, args []string) error {
		_, filePath, err := cli.GetFilePathFromArgs(args)
		if err != nil {
			return err
		}
		file, err := os.Open(filePath)
		if err != nil {
			return fmt.Errorf("failed to open file at path[%s]: %w", filePath, err)
		}
		defer file.Close()

		client, _, err := cli.RequireAuth(viper.GetString(config.ControllerUrl), opts.GetFullname())
		if err != nil {
			return err
		}
		output, err := client.ImportFiltersV1(controller.ImportFiltersV1Input{
			Filename: filepath.Base(filePath),
			Data:     file,
		})
		if err != nil {
			return fmt.Errorf("failed to import filters: %w", err)
		}
		result := output.Data
		if err := cli.PrintOutput(viper.GetString("output"), result, func() *cli.Table {
			return cli.NewTable(cli.NewTableOpts{
				Headers: []string{"row", "error"},
				Rows: func(t *cli.Table) error {
					for _, rowError := range result.Errors {
						if err := t.NewRow(rowError.Row, rowError.Message); err != nil {
							return err
						}
					}
					return nil
				},
			})
		}); err != nil {
			return err
		}
		message := fmt.Sprintf("%v filters imported, %v rows failed", result.Inserted, result.Failed)
		if result.Failed > 0 {
			cli.PrintBoxedWarningMessage(message)
			return nil
		}
		cli.PrintBoxedSuccessMessage(message)
		return nil
	},
})
