// Package mvs implements a minimal-version-selection walk over translated
// dependencies, adapted to consume the resolver core's own
// TranslatedDependency tuples (C2) instead of a flat requirement list.
// It is a demonstration consumer, not part of the CDCL core itself: the
// core treats version selection as an external callback (1, "Out of
// scope").
package mvs

import (
	"context"
	"fmt"
	"sort"

	"github.com/nathanjmcdougall/uv/identity"
	"github.com/nathanjmcdougall/uv/resolve"
	"github.com/nathanjmcdougall/uv/version"
)

// Resolved is one package index lookup result: the canonical name and
// version a candidate resolved to, plus the translated dependencies that
// package requires at that version.
type Resolved struct {
	Name         string
	Version      version.Version
	Dependencies []resolve.TranslatedDependency
}

// PackageIndex resolves a candidate (identity, range) pair to the
// concrete package the minimal-version-selection walk should pin, and
// the dependencies that pin requires in turn.
type PackageIndex interface {
	Resolve(ctx context.Context, name string, rng version.Range) (Resolved, error)
}

type node struct {
	value    Resolved
	children []node
}

type tree []node

func (t tree) walk(f func(r Resolved, depth int)) {
	walkTree(t, 0, f)
}

func walkTree(t tree, depth int, f func(r Resolved, depth int)) {
	for _, n := range t {
		f(n.value, depth)
		if len(n.children) > 0 {
			walkTree(n.children, depth+1, f)
		}
	}
}

// Select recursively visits every dependency's dependencies and builds a
// list of the minimal version required of each package, then reduces
// that list by keeping only the greatest requested version of each
// package, and finally sorts the result by name.
//
// https://research.swtch.com/vgo-mvs describes the algorithm this walk is
// adapted from.
func Select(
	ctx context.Context,
	in *identity.Interner,
	roots []resolve.TranslatedDependency,
	idx PackageIndex,
) ([]Resolved, error) {
	t, err := selectTree(ctx, in, roots, idx, make(map[string]struct{}), nil)
	if err != nil {
		return nil, err
	}

	reduced := reduce(t)
	sort.Slice(reduced, func(i, j int) bool { return reduced[i].Name < reduced[j].Name })
	return reduced, nil
}

func selectTree(
	ctx context.Context,
	in *identity.Interner,
	deps []resolve.TranslatedDependency,
	idx PackageIndex,
	visited map[string]struct{},
	path []ModuleRef,
) (tree, error) {
	if len(deps) == 0 {
		return nil, nil
	}

	var nodes []node
	for _, d := range deps {
		variant := in.Get(d.Identity)
		if variant.Kind != identity.Package {
			// Extra, dev-group, and marker virtual nodes resolve to the
			// same version as their base package; MVS only needs to
			// pin real base packages.
			continue
		}

		key := fmt.Sprintf("%s %s", variant.Name, d.Range.String())
		if _, ok := visited[key]; ok {
			continue
		}
		visited[key] = struct{}{}

		resolved, err := idx.Resolve(ctx, variant.Name, d.Range)
		if err != nil {
			step := ModuleRef{Name: variant.Name, Version: d.Range.String()}
			return nil, NewBuildListError(err, append(path, step), nil)
		}

		step := ModuleRef{Name: resolved.Name, Version: resolved.Version.String()}
		children, err := selectTree(ctx, in, resolved.Dependencies, idx, visited, append(path, step))
		if err != nil {
			return nil, err
		}

		nodes = append(nodes, node{value: resolved, children: children})
	}

	return nodes, nil
}

// reduce collapses the tree to one entry per package name, keeping
// whichever requested version is greatest.
func reduce(t tree) []Resolved {
	byName := make(map[string][]Resolved)
	t.walk(func(r Resolved, _ int) {
		byName[r.Name] = append(byName[r.Name], r)
	})

	out := make([]Resolved, 0, len(byName))
	for _, candidates := range byName {
		greatest := candidates[0]
		for _, c := range candidates[1:] {
			if c.Version.GreaterThan(greatest.Version) {
				greatest = c
			}
		}
		out = append(out, greatest)
	}

	return out
}
