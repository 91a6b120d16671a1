//go:build debug

package resolve

import "fmt"

// assertExtraAlreadyFlattened panics in debug builds (built with
// `-tags debug`) when an Extra variant self-edges outside a dev group.
// Per 4.2.3 this indicates the caller never flattened the extra into its
// base requirement set; release builds silently tolerate it since the
// translator makes no other correctness claim about caller-supplied
// extras.
func assertExtraAlreadyFlattened(owner, extra string) {
	panic(fmt.Sprintf("resolve: extra %q of %q self-edges outside a dev group; caller must flatten extras into the base set before calling Translate", extra, owner))
}
