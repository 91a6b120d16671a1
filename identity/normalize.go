package identity

import (
	"regexp"
	"strings"
)

var normalizationRe = regexp.MustCompile(`[-_.]+`)

// NormalizeName canonicalizes a package name per PEP 503 so that
// differently-spelled references to the same package (e.g. "Foo_Bar" and
// "foo-bar") intern to the same handle.
// https://www.python.org/dev/peps/pep-0503/#normalized-names
func NormalizeName(name string) string {
	return strings.ToLower(normalizationRe.ReplaceAllString(name, "-"))
}
