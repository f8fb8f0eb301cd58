package cli

import (
	"encoding/json"
	"fmt"
	"tradedesk/internal/common"
)

// PrintOutput writes data as indented JSON when format is json and
// otherwise renders the table built by asTable
func PrintOutput(format string, data any, asTable func() *Table) error {
	switch format {
	case common.OutputFormatJson:
		o, err := json.MarshalIndent(data, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal output: %w", err)
		}
		fmt.Println(string(o))
	case common.OutputFormatText, "":
		fmt.Print(asTable().Render().GetString())
	default:
		return fmt.Errorf("%w: output format[%s] is not supported", ErrorInvalidInput, format)
	}
	return nil
}
