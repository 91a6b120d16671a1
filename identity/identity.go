// Package identity implements the interned package identity the resolver
// core hands out as stable numeric handles (component C1 of the resolver).
//
// A Variant is a sum of five cases: the synthetic root, a base package, an
// extra-virtual package (an optional feature set of a base package), a
// dev-group-virtual package, and a marker-virtual package (a conditional
// edge gated by an environment marker). Only base packages participate in
// prefetch bookkeeping; the virtual variants exist so the conflict-driven
// solver can reason about extras, dev groups, and markers as first-class
// nodes without polluting that bookkeeping.
package identity

import "sync"

// Kind distinguishes the four non-root variants plus the synthetic root
// used to seed resolution.
type Kind uint8

const (
	Root Kind = iota
	Package
	Extra
	Dev
	Marker
)

func (k Kind) String() string {
	switch k {
	case Root:
		return "root"
	case Package:
		return "package"
	case Extra:
		return "extra"
	case Dev:
		return "dev"
	case Marker:
		return "marker"
	default:
		return "unknown"
	}
}

// Variant is the semantic value of a package identity. It is a plain
// comparable struct so it can be used directly as a map key: two variants
// are equal iff every field matches, which is exactly the equality the
// interner needs to guarantee (invariant: two identities are equal iff all
// their semantic fields match).
type Variant struct {
	Kind Kind

	// Name is the base package name for Package, Extra, Dev, and Marker
	// variants. Empty for Root.
	Name string

	// Extra is the extra-name for Extra variants only.
	Extra string

	// DevGroup is the dev-group name for Dev variants only.
	DevGroup string

	// Marker is the string rendering of the environment marker gating a
	// Marker (or markered Extra/Dev) variant. Kept as a string rather than
	// an *pep508.Expr so Variant stays comparable.
	Marker string
}

// RootVariant is the single synthetic top-level package used to seed
// resolution.
var RootVariant = Variant{Kind: Root}

// PackageVariant returns the base-package variant for name.
func PackageVariant(name string) Variant {
	return Variant{Kind: Package, Name: NormalizeName(name)}
}

// ExtraVariant returns the extra-virtual variant pulling in extra of the
// base package name, optionally gated by marker.
func ExtraVariant(name, extra, marker string) Variant {
	return Variant{Kind: Extra, Name: NormalizeName(name), Extra: extra, Marker: marker}
}

// DevVariant returns the dev-group-virtual variant for the dev dependency
// group of the base package name.
func DevVariant(name, group string) Variant {
	return Variant{Kind: Dev, Name: NormalizeName(name), DevGroup: group}
}

// MarkerVariant returns the marker-virtual variant representing a
// conditional edge to the base package name, gated by marker.
func MarkerVariant(name, marker string) Variant {
	return Variant{Kind: Marker, Name: NormalizeName(name), Marker: marker}
}

// Handle is a stable numeric reference to an interned Variant. Handles are
// only comparable within the lifetime of the Interner that produced them.
type Handle int

// Interner owns every Variant seen during one resolution and hands out
// stable handles for them. Interning is idempotent: interning the same
// Variant twice returns the same Handle.
type Interner struct {
	mu        sync.Mutex
	byVariant map[Variant]Handle
	variants  []Variant
}

// NewInterner returns an Interner seeded with the root handle at index 0.
func NewInterner() *Interner {
	in := &Interner{byVariant: make(map[Variant]Handle)}
	in.Intern(RootVariant)
	return in
}

// Intern returns the stable handle for v, creating one if this is the
// first time v has been seen.
func (in *Interner) Intern(v Variant) Handle {
	in.mu.Lock()
	defer in.mu.Unlock()

	if h, ok := in.byVariant[v]; ok {
		return h
	}

	h := Handle(len(in.variants))
	in.variants = append(in.variants, v)
	in.byVariant[v] = h
	return h
}

// Lookup returns the handle for v without interning it, reporting whether
// v has already been interned.
func (in *Interner) Lookup(v Variant) (Handle, bool) {
	in.mu.Lock()
	defer in.mu.Unlock()

	h, ok := in.byVariant[v]
	return h, ok
}

// Get returns the Variant a handle was interned from.
func (in *Interner) Get(h Handle) Variant {
	in.mu.Lock()
	defer in.mu.Unlock()

	return in.variants[h]
}

// IsBasePackage reports whether h identifies a base package, i.e. neither
// the root nor one of the extra/dev/marker virtual variants. This
// predicate gates both prefetch tracking (C3) and prefetch triggering
// (C4): only base packages accumulate attempt counts or get speculatively
// fetched.
func (in *Interner) IsBasePackage(h Handle) bool {
	return in.Get(h).Kind == Package
}

// Root returns the handle for the synthetic root package.
func (in *Interner) Root() Handle {
	h, _ := in.Lookup(RootVariant)
	return h
}
