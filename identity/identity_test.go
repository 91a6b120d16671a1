package identity

import "testing"

func TestInternIsIdempotent(t *testing.T) {
	in := NewInterner()

	a := in.Intern(PackageVariant("requests"))
	b := in.Intern(PackageVariant("requests"))
	if a != b {
		t.Fatalf("interning the same variant twice gave different handles: %d != %d", a, b)
	}

	c := in.Intern(PackageVariant("urllib3"))
	if a == c {
		t.Fatalf("distinct variants got the same handle")
	}
}

func TestInternDistinguishesKinds(t *testing.T) {
	in := NewInterner()

	pkg := in.Intern(PackageVariant("requests"))
	extra := in.Intern(ExtraVariant("requests", "socks", ""))
	dev := in.Intern(DevVariant("requests", "test"))
	marker := in.Intern(MarkerVariant("requests", `sys_platform == "win32"`))

	handles := []Handle{pkg, extra, dev, marker}
	for i := range handles {
		for j := range handles {
			if i != j && handles[i] == handles[j] {
				t.Fatalf("variants of different kinds collapsed to the same handle")
			}
		}
	}
}

func TestGetRoundTrips(t *testing.T) {
	in := NewInterner()
	v := ExtraVariant("requests", "security", "")
	h := in.Intern(v)
	if got := in.Get(h); got != v {
		t.Fatalf("got %+v, want %+v", got, v)
	}
}

func TestLookupReportsAbsence(t *testing.T) {
	in := NewInterner()
	if _, ok := in.Lookup(PackageVariant("requests")); ok {
		t.Fatalf("expected requests to be unseen before interning")
	}

	in.Intern(PackageVariant("requests"))
	if _, ok := in.Lookup(PackageVariant("requests")); !ok {
		t.Fatalf("expected requests to be found after interning")
	}
}

func TestIsBasePackage(t *testing.T) {
	in := NewInterner()

	pkg := in.Intern(PackageVariant("requests"))
	extra := in.Intern(ExtraVariant("requests", "socks", ""))
	dev := in.Intern(DevVariant("requests", "test"))
	marker := in.Intern(MarkerVariant("requests", `sys_platform == "win32"`))

	if !in.IsBasePackage(pkg) {
		t.Fatalf("expected base package to report true")
	}
	if in.IsBasePackage(extra) || in.IsBasePackage(dev) || in.IsBasePackage(marker) {
		t.Fatalf("expected virtual variants to report false")
	}
	if in.IsBasePackage(in.Root()) {
		t.Fatalf("expected root to report false")
	}
}

func TestPackageVariantNormalizesName(t *testing.T) {
	a := PackageVariant("Foo_Bar")
	b := PackageVariant("foo-bar")
	if a != b {
		t.Fatalf("expected differently-spelled names to normalize to the same variant: %+v != %+v", a, b)
	}
}

func TestRootIsSeededAtConstruction(t *testing.T) {
	in := NewInterner()
	if got := in.Get(in.Root()); got.Kind != Root {
		t.Fatalf("got kind %v, want Root", got.Kind)
	}
}
