package distindex

import (
	"strings"

	"github.com/nathanjmcdougall/uv/version"
)

// Environment describes an interpreter the resolver is choosing
// distributions for: the tag priorities it accepts (rank 0 is the most
// preferred tag, mirroring the upstream wheel tag-scoring convention) and its
// version, used to check Requires-Python markers.
//
// The fetch dispatcher consults two independent Environments per 4.5.4:
// the installed interpreter (the one that would build a source fallback)
// and the target interpreter (the one the resolved project will run
// under). They are usually the same value but are kept distinct because
// cross-building makes them diverge.
type Environment struct {
	// TagPriority maps a compatibility tag (interpreter-abi-platform
	// triple) to its preference rank; lower is better. A tag absent
	// from this map is unsupported.
	TagPriority map[string]int

	// PythonVersion is this environment's interpreter version, in the
	// same dotted form a Requires-Python specifier compares against.
	PythonVersion string
}

// Priority returns the preference rank for tag, or ok=false if tag is not
// supported by this environment at all.
func (e Environment) Priority(tag string) (priority int, ok bool) {
	p, ok := e.TagPriority[tag]
	return p, ok
}

// Supports reports whether any of tags is compatible with this
// environment.
func (e Environment) Supports(tags []string) bool {
	for _, t := range tags {
		if _, ok := e.Priority(t); ok {
			return true
		}
	}
	return false
}

// SatisfiesPythonVersion reports whether this environment's interpreter
// satisfies a Requires-Python specifier such as ">=3.8,<4". An empty
// specifier always matches.
func (e Environment) SatisfiesPythonVersion(requiresPython string) bool {
	requiresPython = strings.TrimSpace(requiresPython)
	if requiresPython == "" {
		return true
	}

	selfVersion, valid := version.Parse(e.PythonVersion)
	if !valid {
		// An environment with no parseable interpreter version cannot
		// be checked against a Requires-Python constraint; fail closed.
		return false
	}

	reqs, err := version.ParseVersionRequirements(requiresPython)
	if err != nil {
		return false
	}

	return version.RangeFromRequirements(reqs).Contains(selfVersion)
}
