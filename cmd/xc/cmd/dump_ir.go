package cmd

import (
	"fmt"

	"github.com/cwbudde/go-dws/cmd/xc/fixtures"
	"github.com/spf13/cobra"
)

var dumpIRCmd = &cobra.Command{
	Use:   "dump-ir <fixture>",
	Short: "Lower a fixture and print its IR",
	Long: `Dump-ir runs a fixture through the same passes as run, stopping
after lowering, and prints the resulting module's structs, globals, and
function bodies in a readable text form.`,
	Args: cobra.ExactArgs(1),
	RunE: dumpFixtureIR,
}

func init() {
	rootCmd.AddCommand(dumpIRCmd)
}

func dumpFixtureIR(_ *cobra.Command, args []string) error {
	fx, ok := fixtures.Get(args[0])
	if !ok {
		exitWithError("no such fixture %q (see `xc list-fixtures`)", args[0])
	}

	module, _, err := buildModule(fx.Build())
	if err != nil {
		return reportPipelineError(err)
	}

	fmt.Print(module.Dump())
	return nil
}
