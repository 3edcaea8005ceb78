package cmd

import (
	"fmt"
	"os"

	"github.com/cwbudde/go-dws/cmd/xc/fixtures"
	"github.com/cwbudde/go-dws/internal/errors"
	"github.com/cwbudde/go-dws/internal/refbackend"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run <fixture>",
	Short: "Run a fixture program through the full pipeline",
	Long: `Run drives a fixture through const-string folding, abstract-class
and interface checking, virtual-method discovery, type checking, lowering,
and execution on the reference backend, printing the program's own output
to stdout.`,
	Args: cobra.ExactArgs(1),
	RunE: runFixture,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runFixture(_ *cobra.Command, args []string) error {
	fx, ok := fixtures.Get(args[0])
	if !ok {
		exitWithError("no such fixture %q (see `xc list-fixtures`)", args[0])
	}

	module, _, err := buildModule(fx.Build())
	if err != nil {
		return reportPipelineError(err)
	}

	var trace []func(before, after int)
	if traceGC {
		trace = append(trace, func(before, after int) {
			fmt.Fprintf(os.Stderr, "xc: gc live objects: %d -> %d\n", before, after)
		})
	}

	if err := refbackend.Execute(module, os.Stdout, trace...); err != nil {
		return reportPipelineError(err)
	}
	return nil
}

// reportPipelineError prints a *errors.CompilerError with its source-
// context formatting (empty here, there being no real source text behind
// a fixture) and triggers a RuntimeAbort's exit rather than cobra's own
// generic "Error: ..." usage-line rendering, matching an abort's process-
// level severity.
func reportPipelineError(err error) error {
	ce, ok := err.(*errors.CompilerError)
	if !ok {
		return err
	}
	fmt.Fprint(os.Stderr, ce.Format(false))
	if ce.Kind == errors.RuntimeAbortKind {
		os.Exit(1)
	}
	return ce
}
