package main

import (
	"context"
	"fmt"

	"github.com/nathanjmcdougall/uv/distindex"
	"github.com/nathanjmcdougall/uv/identity"
	"github.com/nathanjmcdougall/uv/mvs"
	"github.com/nathanjmcdougall/uv/pep508"
	"github.com/nathanjmcdougall/uv/prefetch"
	"github.com/nathanjmcdougall/uv/resolve"
	"github.com/nathanjmcdougall/uv/version"
)

// fixturePackage is one package version as described in a config file's
// registry fixture: a name, a version, the dependency specifiers it
// carries, and the wheel metadata the fetch dispatcher gates on.
type fixturePackage struct {
	Name           string   `json:"name"`
	Version        string   `json:"version"`
	Dependencies   []string `json:"dependencies"`
	Tags           []string `json:"tags"`
	RequiresPython string   `json:"requiresPython"`
	Sdist          bool     `json:"sdist"`
}

// fixtureRegistry is a small in-memory stand-in for a real package
// index: a closed set of known package versions, their dependencies, and
// wheel tags. It implements both mvs.PackageIndex (for minimal version
// selection) and prefetch.Selector (for the prefetch strategy engine),
// since both roles reduce to "pick the best known version in a range"
// against the same closed dataset.
type fixtureRegistry struct {
	in           *identity.Interner
	byName       map[string][]fixturePackage
	highestFirst bool
}

func newFixtureRegistry(in *identity.Interner, packages []fixturePackage, highestFirst bool) *fixtureRegistry {
	byName := make(map[string][]fixturePackage)
	for _, p := range packages {
		byName[identity.NormalizeName(p.Name)] = append(byName[identity.NormalizeName(p.Name)], p)
	}
	return &fixtureRegistry{in: in, byName: byName, highestFirst: highestFirst}
}

func (r *fixtureRegistry) best(name string, rng version.Range) (fixturePackage, version.Version, bool) {
	var bestPkg fixturePackage
	var bestVersion version.Version
	found := false

	for _, p := range r.byName[identity.NormalizeName(name)] {
		v, valid := version.Parse(p.Version)
		if !valid || !rng.Contains(v) {
			continue
		}
		if !found || v.GreaterThan(bestVersion) {
			bestPkg, bestVersion, found = p, v, true
		}
	}

	return bestPkg, bestVersion, found
}

// Resolve implements mvs.PackageIndex: find the best known version of
// name within rng, translate its dependency specifiers, and return the
// resulting edges alongside the pinned version.
func (r *fixtureRegistry) Resolve(_ context.Context, name string, rng version.Range) (mvs.Resolved, error) {
	p, v, ok := r.best(name, rng)
	if !ok {
		return mvs.Resolved{}, fmt.Errorf("registry: no version of %q satisfies %v", name, rng)
	}

	var deps []resolve.TranslatedDependency
	for _, spec := range p.Dependencies {
		d, err := pep508.ParseDependency(spec)
		if err != nil {
			return mvs.Resolved{}, fmt.Errorf("registry: parsing dependency %q of %s: %w", spec, name, err)
		}

		translated, err := resolve.Translate(r.in, resolve.Requirement{
			Name:   d.Name,
			Extras: d.Extras,
			Source: resolve.Source{Kind: resolve.Registry, Specifier: joinVersionClauses(d)},
		}, "", p.Name)
		if err != nil {
			return mvs.Resolved{}, err
		}
		deps = append(deps, translated...)
	}

	return mvs.Resolved{Name: identity.NormalizeName(name), Version: v, Dependencies: deps}, nil
}

// SelectNoPreference implements prefetch.Selector.
func (r *fixtureRegistry) SelectNoPreference(name string, rng version.Range) (version.Version, bool) {
	_, v, ok := r.best(name, rng)
	return v, ok
}

// UseHighestVersion implements prefetch.Selector.
func (r *fixtureRegistry) UseHighestVersion(_ string) bool {
	return r.highestFirst
}

// VersionMap builds the distindex.VersionMap the fetch dispatcher needs
// for one package name.
func (r *fixtureRegistry) VersionMap(name string) *distindex.VersionMap {
	entries := r.byName[identity.NormalizeName(name)]
	if entries == nil {
		return nil
	}

	vm := &distindex.VersionMap{Name: identity.NormalizeName(name)}
	for _, p := range entries {
		v, valid := version.Parse(p.Version)
		if !valid {
			continue
		}
		kind := distindex.Wheel
		if p.Sdist {
			kind = distindex.SourceDistribution
		}
		vm.Distributions = append(vm.Distributions, distindex.Distribution{
			Name:           identity.NormalizeName(name),
			Version:        v,
			Kind:           kind,
			Tags:           p.Tags,
			RequiresPython: p.RequiresPython,
		})
	}
	return vm
}
