// Package testsnap wraps github.com/gkampitakis/go-snaps for cmd/xc's own
// golden tests, the one place this tree keeps the teacher's snapshot
// dependency alive (see internal/interp/fixture_test.go's
// snaps.MatchSnapshot(t, name, actualOutput) for the pattern this mirrors).
// No other package in this module should import this one: lower-level unit
// tests assert against exact expected strings the way the teacher's own
// package tests do, snapshots are for cmd/xc's end-to-end stdout/dump-ir
// golden output only.
package testsnap

import (
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
)

// Match snapshots got under name, keyed per-test the way go-snaps expects.
// Run `UPDATE_SNAPS=true go test ./...` to (re)record a snapshot.
func Match(t *testing.T, name, got string) {
	t.Helper()
	snaps.MatchSnapshot(t, name, got)
}
