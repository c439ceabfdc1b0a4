package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Mohsinsiddi/tokenforge/internal/contract"
	"github.com/Mohsinsiddi/tokenforge/internal/ui"
)

var abisCmd = &cobra.Command{
	Use:   "abis",
	Short: "List the bundled contract ABIs",
	Long: `List the contract ABIs that are bundled into tokenforge.

The interaction commands fall back to these when no ABI cache from a
deploy run is present in the output directory. To add a built-in, create
internal/contract/<name>_abi.go and call RegisterBuiltin() from init().`,
	RunE: func(cmd *cobra.Command, args []string) error {
		builtins := contract.AllBuiltins()

		table := ui.NewTable([]ui.Column{
			{Title: "ID", Width: 12}, {Title: "Name", Width: 38},
			{Title: "Functions", Width: 9}, {Title: "Description", Width: 60},
		})
		for _, b := range builtins {
			table.AddRow(ui.Row{
				b.ID, b.Name, fmt.Sprintf("%d", countFunctions(b.ABI)), b.Description,
			})
		}
		fmt.Println(table.Render())
		return nil
	},
}

func countFunctions(abi []contract.ABIEntry) int {
	n := 0
	for _, e := range abi {
		if e.Type == "function" {
			n++
		}
	}
	return n
}
