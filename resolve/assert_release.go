//go:build !debug

package resolve

func assertExtraAlreadyFlattened(owner, extra string) {}
