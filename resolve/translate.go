package resolve

import (
	pep440 "github.com/aquasecurity/go-pep440-version"
	"github.com/sirupsen/logrus"

	"github.com/nathanjmcdougall/uv/identity"
	"github.com/nathanjmcdougall/uv/version"
)

// Requirement is the resolver-agnostic dependency specification translate
// consumes: a package name, the extras it requests of that package, an
// optional environment marker string (empty means unconditional), and the
// source its versions should be drawn from.
type Requirement struct {
	Name   string
	Extras []string
	Marker string
	Source Source
}

// TranslatedDependency is exactly the shape the resolver core consumes:
// an interned identity, the version range it constrains candidates to,
// the origin specifier (registry requirements only), and a parsed URL
// (non-registry requirements only).
type TranslatedDependency struct {
	Identity        identity.Handle
	Range           version.Range
	OriginSpecifier string
	HasSpecifier    bool
	URL             *ParsedUrl
}

// Translate implements 4.2: it expands requirement across {none} ∪ extras,
// classifies the source into a range/URL pair, interns the resulting
// identity, and applies the self-edge policy described in 4.2.3.
//
// enclosingDevGroup is the name of the dev-dependency group this edge was
// reached through, or "" if the edge is a regular (non-dev) dependency.
// owningPackageName is the name of the package whose dependency list this
// requirement came from, or "" for root-level requirements (which have no
// owner and so can never self-edge).
func Translate(
	in *identity.Interner,
	requirement Requirement,
	enclosingDevGroup string,
	owningPackageName string,
) ([]TranslatedDependency, error) {
	edges := append([]string{""}, requirement.Extras...)

	out := make([]TranslatedDependency, 0, len(edges))
	for _, extra := range edges {
		dep, keep, err := translateOne(in, requirement, extra, enclosingDevGroup, owningPackageName)
		if err != nil {
			return nil, err
		}
		if keep {
			out = append(out, dep)
		}
	}

	return out, nil
}

func translateOne(
	in *identity.Interner,
	requirement Requirement,
	extra string,
	enclosingDevGroup string,
	owningPackageName string,
) (TranslatedDependency, bool, error) {
	var dep TranslatedDependency

	if requirement.Source.Kind == Registry {
		rng, err := rangeFromSpecifier(requirement.Source.Specifier)
		if err != nil {
			return TranslatedDependency{}, false, err
		}
		dep.Range = rng
		dep.OriginSpecifier = canonicalSpecifier(requirement.Source.Specifier)
		dep.HasSpecifier = true
	} else {
		parsed, err := parseSource(requirement.Source)
		if err != nil {
			return TranslatedDependency{}, false, err
		}
		dep.Range = version.Full()
		dep.URL = &parsed
	}

	kind := identityKind(extra, requirement.Marker != "")
	var v identity.Variant
	switch kind {
	case identity.Extra:
		v = identity.ExtraVariant(requirement.Name, extra, requirement.Marker)
	case identity.Marker:
		v = identity.MarkerVariant(requirement.Name, requirement.Marker)
	default:
		v = identity.PackageVariant(requirement.Name)
	}
	dep.Identity = in.Intern(v)

	isDev := enclosingDevGroup != ""
	isSelfEdge := owningPackageName != "" && identity.NormalizeName(requirement.Name) == identity.NormalizeName(owningPackageName)

	if isSelfEdge && !isDev {
		if kind == identity.Package {
			logrus.WithFields(logrus.Fields{
				"package": owningPackageName,
			}).Warnf("%s has a dependency on itself", owningPackageName)
			return TranslatedDependency{}, false, nil
		}
		// Extra self-edges in a non-dev context indicate the caller
		// failed to flatten the extra into its base requirement set
		// before calling Translate. Debug builds panic here; release
		// builds keep the edge without any check.
		if kind == identity.Extra {
			assertExtraAlreadyFlattened(owningPackageName, extra)
		}
	}

	return dep, true, nil
}

// canonicalSpecifier round-trips specifier through the ecosystem PEP 440
// specifier parser so origin_specifier carries the normalized form a
// lockfile or error message should display, rather than whatever
// whitespace and ordering the user happened to type. Falls back to the
// verbatim string if it fails to parse here; rangeFromSpecifier already
// performed the authoritative parse for range construction, so a parse
// error at this point only degrades display, not correctness.
func canonicalSpecifier(specifier string) string {
	specs, err := pep440.NewSpecifiers(specifier)
	if err != nil {
		return specifier
	}
	return specs.String()
}
