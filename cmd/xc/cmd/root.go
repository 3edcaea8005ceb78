// Package cmd implements the xc command-line driver: a thin cobra shell
// around the middle end's six passes and the reference backend, exercising
// the full fold -> checks -> lower -> execute pipeline against the hand
// built programs in cmd/xc/fixtures. This is the one package in the
// module allowed to touch os.Stdout/os.Stderr directly and call os.Exit.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "xc",
	Short: "X-language middle-end and JIT driver",
	Long: `xc drives the X-language middle end end to end: const-string
folding, abstract-class and interface checking, virtual-method discovery,
type checking, lowering to IR, and execution on the reference backend.

It has no lexer or parser of its own -- every program it runs comes from
cmd/xc/fixtures, a set of hand-built ASTs standing in for what a front end
would hand the pipeline.`,
}

var (
	traceGC bool
	noFold  bool
)

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&traceGC, "trace-gc", false, "log the live-object count before and after the final GC sweep")
	rootCmd.PersistentFlags().BoolVar(&noFold, "no-fold", false, "skip the const-string-folding pass")
}

func exitWithError(msg string, args ...any) {
	fmt.Fprintf(os.Stderr, "xc: "+msg+"\n", args...)
	os.Exit(1)
}
