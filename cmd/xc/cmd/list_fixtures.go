package cmd

import (
	"fmt"

	"github.com/cwbudde/go-dws/cmd/xc/fixtures"
	"github.com/spf13/cobra"
)

var listFixturesCmd = &cobra.Command{
	Use:   "list-fixtures",
	Short: "List the fixture programs xc can run or dump",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		for _, name := range fixtures.Names() {
			fx, _ := fixtures.Get(name)
			fmt.Printf("%-22s %s\n", fx.Name, fx.Description)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listFixturesCmd)
}
