package cmd

import (
	"bytes"
	"testing"

	"github.com/cwbudde/go-dws/cmd/xc/fixtures"
	"github.com/cwbudde/go-dws/internal/refbackend"
	"github.com/cwbudde/go-dws/internal/testsnap"
)

// TestFixturesRun drives every registered fixture through buildModule and
// refbackend.Execute and snapshots its stdout, the same pipeline `xc run`
// wires to os.Stdout. Run with UPDATE_SNAPS=true to record.
func TestFixturesRun(t *testing.T) {
	for _, name := range fixtures.Names() {
		name := name
		t.Run(name, func(t *testing.T) {
			fx, _ := fixtures.Get(name)
			module, _, err := buildModule(fx.Build())
			if err != nil {
				t.Fatalf("buildModule(%s): %v", name, err)
			}

			var out bytes.Buffer
			if err := refbackend.Execute(module, &out); err != nil {
				t.Fatalf("Execute(%s): %v", name, err)
			}

			testsnap.Match(t, name+"_stdout", out.String())
		})
	}
}
