//go:build !release

package assert

import "fmt"

// That panics when an internal invariant does not hold. Compiled out under
// the release build tag.
func That(cond bool, format string, args ...any) { //nolint:goprintffuncname // matches fmt verbs
	if cond {
		return
	}
	panic(fmt.Sprintf(format, args...))
}
