package main

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"

	"github.com/nathanjmcdougall/uv/distindex"
	"github.com/nathanjmcdougall/uv/fetchpool"
	"github.com/nathanjmcdougall/uv/identity"
	"github.com/nathanjmcdougall/uv/mvs"
	"github.com/nathanjmcdougall/uv/pep508"
	"github.com/nathanjmcdougall/uv/prefetch"
	"github.com/nathanjmcdougall/uv/resolve"
	"github.com/nathanjmcdougall/uv/version"
)

// parseRootRequirement parses one uv.json requirement entry and
// translates it into root-level edges (owningPackageName = "", so the
// self-edge policy never applies to root requirements).
func parseRootRequirement(in *identity.Interner, spec string) ([]resolve.TranslatedDependency, error) {
	d, err := pep508.ParseDependency(spec)
	if err != nil {
		return nil, err
	}

	return resolve.Translate(in, resolve.Requirement{
		Name:   d.Name,
		Extras: d.Extras,
		Source: resolve.Source{Kind: resolve.Registry, Specifier: joinVersionClauses(d)},
	}, "", "")
}

func joinVersionClauses(d *pep508.Dependency) string {
	s := ""
	for i, r := range d.Versions {
		if i > 0 {
			s += ","
		}
		s += r.String()
	}
	return s
}

// runResolution wires C1 through C5 together over a closed fixture
// registry: it translates the root requirements, walks minimal version
// selection, and — for each package decision along the way — runs the
// prefetch controller and strategy engine and dispatches the resulting
// candidates through the fetch pool. The demo interpreter environment is
// fixed; a real CLI would derive it from the active Python install.
func runResolution(ctx context.Context, cfg *Config) ([]mvs.Resolved, error) {
	in := identity.NewInterner()
	reg := newFixtureRegistry(in, cfg.Registry, true)
	controller := prefetch.NewController(in)

	targetEnv := distindex.Environment{
		TagPriority: map[string]int{
			"cp311-cp311-linux_x86_64": 0,
			"py3-none-any":             1,
			"py2.py3-none-any":         1,
		},
		PythonVersion: "3.11",
	}
	caps := distindex.IndexCapabilities{MetadataSidecars: true}
	regset := distindex.NewRegistrationSet()

	pool := fetchpool.New(ctx, 64, 4, func(_ context.Context, req distindex.Request) error {
		logrus.WithFields(logrus.Fields{
			"package": req.Name,
			"version": req.Version.String(),
		}).Debug("fetchpool: fetched speculative metadata")
		return nil
	})
	defer pool.Close()

	roots := make([]resolve.TranslatedDependency, 0, len(cfg.Requirements))
	for _, r := range cfg.Requirements {
		dep, err := parseRootRequirement(in, r)
		if err != nil {
			return nil, fmt.Errorf("resolver: parsing root requirement %q: %w", r, err)
		}
		roots = append(roots, dep...)
	}

	resolved, err := mvs.Select(ctx, in, roots, reg)
	if err != nil {
		return nil, err
	}

	// Prefetch dispatch is best-effort and per-package: a dispatch failure
	// for one resolved package (e.g. its version map went missing) should
	// not stop speculative fetching from being attempted for the rest, so
	// failures are accumulated rather than returned on the first one.
	var dispatchErr error
	for _, r := range resolved {
		handle := in.Intern(identity.PackageVariant(r.Name))

		candidates := prefetch.RecordAndPrefetch(
			controller, in, handle, r.Name, r.Version,
			version.Full(), nil, reg,
		)
		if len(candidates) == 0 {
			continue
		}

		vm := reg.VersionMap(r.Name)
		if _, err := distindex.Dispatch(r.Name, candidates, vm, targetEnv, targetEnv, caps, regset, pool); err != nil {
			dispatchErr = multierr.Append(dispatchErr, fmt.Errorf("resolver: dispatching prefetch for %q: %w", r.Name, err))
		}
	}
	if dispatchErr != nil {
		return nil, dispatchErr
	}

	return resolved, nil
}
