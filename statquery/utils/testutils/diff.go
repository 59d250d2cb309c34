package testutils

import (
	"github.com/sergi/go-diff/diffmatchpatch"
)

// Diff renders a readable character-level diff of want against got, for the
// failure message of golden text comparisons.
func Diff(want, got string) string {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(want, got, false)
	return dmp.DiffPrettyText(dmp.DiffCleanupSemantic(diffs))
}
