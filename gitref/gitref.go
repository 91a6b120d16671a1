// Package gitref orders git tag references that look like semantic
// versions, supporting the git requirement source's precise-commit
// pinning (supplemental to the registry-only version ordering the core
// resolver uses for PEP 440 specifiers).
package gitref

import (
	"sort"

	"github.com/Masterminds/semver/v3"
)

// Ref is one candidate git reference: the tag as the user wrote it, and
// the commit it currently points at. Reference resolution (turning a
// branch or tag name into a commit) happens upstream; this package only
// orders an already-fetched set of tags.
type Ref struct {
	Tag    string
	Commit string
}

type parsedRef struct {
	ref     Ref
	version *semver.Version
}

// SortBySemver sorts refs by semantic-version order, highest first. Tags
// that do not parse as a semantic version sort after every tag that
// does, preserving their relative input order (stable sort).
func SortBySemver(refs []Ref) {
	parsed := make([]parsedRef, len(refs))
	for i, r := range refs {
		v, err := semver.NewVersion(r.Tag)
		if err == nil {
			parsed[i] = parsedRef{ref: r, version: v}
		} else {
			parsed[i] = parsedRef{ref: r}
		}
	}

	sort.SliceStable(parsed, func(i, j int) bool {
		vi, vj := parsed[i].version, parsed[j].version
		switch {
		case vi == nil && vj == nil:
			return false
		case vi == nil:
			return false
		case vj == nil:
			return true
		default:
			return vi.GreaterThan(vj)
		}
	})

	for i, p := range parsed {
		refs[i] = p.ref
	}
}

// Highest returns the highest semver-ordered tag among refs, or ok=false
// if none of them parse as a semantic version.
func Highest(refs []Ref) (Ref, bool) {
	var best Ref
	var bestVersion *semver.Version
	found := false

	for _, r := range refs {
		v, err := semver.NewVersion(r.Tag)
		if err != nil {
			continue
		}
		if !found || v.GreaterThan(bestVersion) {
			best = r
			bestVersion = v
			found = true
		}
	}

	return best, found
}

// MatchesConstraint reports whether tag satisfies a semver constraint
// expression such as "^1.2.3" or ">=1.0.0, <2.0.0".
func MatchesConstraint(tag, constraint string) (bool, error) {
	v, err := semver.NewVersion(tag)
	if err != nil {
		return false, err
	}

	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return false, err
	}

	return c.Check(v), nil
}
