package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/Mohsinsiddi/tokenforge/internal/deploy"
	"github.com/Mohsinsiddi/tokenforge/internal/ui"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List deployed tokens from the address book",
	RunE: func(cmd *cobra.Command, args []string) error {
		book, err := deploy.LoadAddressBook(outDir)
		if err != nil {
			return err
		}
		if len(book) == 0 {
			fmt.Println(ui.Meta("No tokens deployed yet. Run: tokenforge deploy --config <plan>"))
			return nil
		}

		symbols := make([]string, 0, len(book))
		for sym := range book {
			symbols = append(symbols, sym)
		}
		sort.Strings(symbols)

		table := ui.NewTable([]ui.Column{
			{Title: "Symbol", Width: 8}, {Title: "Name", Width: 24},
			{Title: "Decimals", Width: 8}, {Title: "Address", Width: 42},
		})
		for _, sym := range symbols {
			e := book[sym]
			table.AddRow(ui.Row{
				sym, e.Name, fmt.Sprintf("%d", e.Decimals), e.Address,
			})
		}
		fmt.Println(table.Render())
		return nil
	},
}
