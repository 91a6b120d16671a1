package prefetch

import (
	"github.com/nathanjmcdougall/uv/identity"
	"github.com/nathanjmcdougall/uv/version"
)

const burstCap = 50

// Selector is the candidate selector the resolver core is built on top
// of (6: "Consumed from the candidate selector"). The strategy engine
// asks it for the best version within a shrinking range and for which
// direction to walk once the compatible range is exhausted.
type Selector interface {
	// SelectNoPreference returns the best candidate version for name
	// within rng, or ok=false if none exists.
	SelectNoPreference(name string, rng version.Range) (v version.Version, ok bool)
	// UseHighestVersion reports the direction policy for name: true
	// walks from high to low, false walks from low to high.
	UseHighestVersion(name string) bool
}

// ConstraintTerm is a unit-propagated bound from root-level constraints
// that Phase B must respect (6). A positive term narrows the walk to
// versions inside it; a negative term excludes them.
type ConstraintTerm struct {
	Range    version.Range
	Negative bool
}

func (t ConstraintTerm) apply(r version.Range) version.Range {
	if t.Negative {
		return version.Intersect(r, t.Range.Complement())
	}
	return version.Intersect(r, t.Range)
}

// PrefetchFor implements C4: given the resolver's current decision for a
// base package, it produces up to min(tried, 50) candidate versions to
// speculatively fetch, using the two-phase walk described in 4.4.
//
// It is the caller's responsibility to have already confirmed
// is_base_package(identity) and ShouldPrefetch(handle) fired; PrefetchFor
// does not re-check either.
func PrefetchFor(
	name string,
	tried uint64,
	chosenVersion version.Version,
	currentRange version.Range,
	unchangeable *ConstraintTerm,
	sel Selector,
) []version.Version {
	n := tried
	if n > burstCap {
		n = burstCap
	}

	out := make([]version.Version, 0, n)
	if n == 0 {
		return out
	}

	// Phase A: compatible walk. The chosen version is already being tried,
	// so it is excluded from the candidates.
	compatibleRange := version.Intersect(currentRange, version.Singleton(chosenVersion).Complement())
	lastVersion := chosenVersion
	exhausted := false

	for uint64(len(out)) < n {
		picked, ok := sel.SelectNoPreference(name, compatibleRange)
		if !ok {
			exhausted = true
			break
		}
		out = append(out, picked)
		compatibleRange = version.Intersect(compatibleRange, version.Singleton(picked).Complement())
		lastVersion = picked
	}

	if !exhausted || uint64(len(out)) >= n {
		return out
	}

	// Phase B: in-order walk, direction from selector policy, discarding
	// the compatibility constraint entirely per the design note in 9.
	highestFirst := sel.UseHighestVersion(name)

	phaseBRange := version.Full()
	if highestFirst {
		phaseBRange = version.StrictlyLessThan(lastVersion, false)
	} else {
		phaseBRange = version.StrictlyGreaterThan(lastVersion, false)
	}
	if unchangeable != nil {
		phaseBRange = unchangeable.apply(phaseBRange)
	}

	for uint64(len(out)) < n {
		picked, ok := sel.SelectNoPreference(name, phaseBRange)
		if !ok {
			break
		}
		out = append(out, picked)

		if highestFirst {
			phaseBRange = version.Intersect(phaseBRange, version.StrictlyLessThan(picked, false))
		} else {
			phaseBRange = version.Intersect(phaseBRange, version.StrictlyGreaterThan(picked, false))
		}
	}

	return out
}

// RecordAndPrefetch is the convenience composition of all of C3+C4 the
// resolver loop calls once per decision: record the attempt, check
// whether a burst should fire, and if so run the two-phase walk and
// commit the new baseline.
func RecordAndPrefetch(
	c *Controller,
	in *identity.Interner,
	handle identity.Handle,
	name string,
	chosenVersion version.Version,
	currentRange version.Range,
	unchangeable *ConstraintTerm,
	sel Selector,
) []version.Version {
	c.RecordAttempt(handle)

	if !in.IsBasePackage(handle) {
		return nil
	}

	tried, fire := c.ShouldPrefetch(handle)
	if !fire {
		return nil
	}

	candidates := PrefetchFor(name, tried, chosenVersion, currentRange, unchangeable, sel)
	c.CommitPrefetch(handle, tried)
	return candidates
}
