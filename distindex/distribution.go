// Package distindex implements the fetch dispatcher (C5): it classifies
// candidate distributions, gates them on index capabilities and
// interpreter compatibility, deduplicates, and submits the survivors as
// metadata-fetch requests.
package distindex

import (
	"fmt"
	"strings"

	"github.com/nathanjmcdougall/uv/version"
)

// DistributionKind distinguishes a prebuilt wheel from a source
// distribution. Only wheels are safe to speculatively fetch (4.5.2).
type DistributionKind uint8

const (
	Wheel DistributionKind = iota
	SourceDistribution
)

// Distribution is the registry's answer for one candidate version: which
// concrete artifact it resolves to, if any, and what it requires.
type Distribution struct {
	Name    string
	Version version.Version
	Kind    DistributionKind

	// Tags are the wheel compatibility tags (interpreter-abi-platform
	// triples), empty for source distributions.
	Tags []string

	RequiresPython string

	// Preinstalled distributions bypass the interpreter-compatibility
	// check entirely (4.5.4).
	Preinstalled bool
}

// VersionMap is the registry response for one package name: every
// distribution known for it, keyed by nothing in particular since C5
// only ever scans them for the first distribution of an exact version.
type VersionMap struct {
	Name          string
	Distributions []Distribution
}

// Resolve picks the distribution v resolves to in this version map, or
// ok=false if no distribution exists for that exact version (4.5.1).
func (vm VersionMap) Resolve(v version.Version) (Distribution, bool) {
	for _, d := range vm.Distributions {
		if d.Version.Equal(v) {
			return d, true
		}
	}
	return Distribution{}, false
}

// ParseWheelFilename mirrors the upstream wheel filename convention
// (PEP 427): {name}-{version}(-{build})?-{tags}.whl, with tags expanded
// across interpreter/abi/platform triples.
func ParseWheelFilename(filename string) (name string, v version.Version, tags []string, err error) {
	trim := strings.TrimSuffix(filename, ".whl")
	if filename == trim {
		return "", version.Version{}, nil, fmt.Errorf("distindex: not a wheel filename: %s", filename)
	}

	split := strings.Split(trim, "-")
	switch {
	case len(split) < 5:
		return "", version.Version{}, nil, fmt.Errorf("distindex: expected wheel filename in at least 5 parts, got: %s", filename)
	case len(split) > 6:
		return "", version.Version{}, nil, fmt.Errorf("distindex: expected wheel filename in at most 6 parts, got: %s", filename)
	}

	parsed, valid := version.Parse(split[1])
	if !valid {
		return "", version.Version{}, nil, fmt.Errorf("distindex: invalid version in wheel filename: %q", split[1])
	}

	tags = make([]string, 0)
	for _, interpreter := range strings.Split(split[len(split)-3], ".") {
		for _, abi := range strings.Split(split[len(split)-2], ".") {
			for _, platform := range strings.Split(split[len(split)-1], ".") {
				tags = append(tags, fmt.Sprintf("%s-%s-%s", interpreter, abi, platform))
			}
		}
	}

	return split[0], parsed, tags, nil
}

// ParseSdistFilename parses a source distribution filename of the form
// {name}-{version}{suffix} (e.g. "python-slugify-3.0.0.tar.gz"). Source
// distributions are never speculatively fetched (4.5.2); Dispatch
// recognizes them by Distribution.Kind and does not call this parser.
func ParseSdistFilename(filename, suffix string) (name string, v version.Version, err error) {
	sep := strings.LastIndex(filename, "-")
	if sep < 0 {
		return "", version.Version{}, fmt.Errorf("distindex: expected sdist filename to be <name>-<version>%s, got: %s", suffix, filename)
	}

	versionString := strings.TrimSuffix(filename, suffix)[sep+1:]
	parsed, valid := version.Parse(versionString)
	if !valid {
		return "", version.Version{}, fmt.Errorf("distindex: invalid version in sdist filename: %q", versionString)
	}

	return filename[:sep], parsed, nil
}
