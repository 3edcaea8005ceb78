// Command xc drives the X-language middle end: const-string folding,
// abstract-class and interface checking, virtual-method discovery, type
// checking, lowering, and execution on the reference backend, against the
// fixture programs in cmd/xc/fixtures.
package main

import (
	"fmt"
	"os"

	"github.com/cwbudde/go-dws/cmd/xc/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
