package cli

import (
	"strings"
	"testing"
)

func TestTableRendersRows(t *testing.T) {
	var missing *string
	present := "present"
	output := NewTable(NewTableOpts{
		Headers: []string{"name", "count", "flag", "optional", "other"},
		Rows: func(t *Table) error {
			if err := t.NewRow("alpha", 3, true, missing, &present); err != nil {
				return err
			}
			return t.NewRow("beta", 4, false, &present, missing)
		},
	}).Render().GetString()

	for _, expected := range []string{"alpha", "beta", "yes", "no", "present", "-"} {
		if !strings.Contains(output, expected) {
			t.Errorf("expected table output to contain %q, got:\n%s", expected, output)
		}
	}
}
