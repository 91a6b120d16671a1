package prefetch

import (
	"testing"

	"github.com/nathanjmcdougall/uv/version"
)

// fakeSelector answers SelectNoPreference by returning the highest
// available version in a closed candidate set that falls within range,
// mirroring how a real registry-backed selector would behave.
type fakeSelector struct {
	available  []version.Version
	useHighest bool
}

func (f fakeSelector) SelectNoPreference(_ string, rng version.Range) (version.Version, bool) {
	var best version.Version
	found := false
	for _, v := range f.available {
		if !rng.Contains(v) {
			continue
		}
		if !found || v.GreaterThan(best) {
			best = v
			found = true
		}
	}
	return best, found
}

func (f fakeSelector) UseHighestVersion(_ string) bool {
	return f.useHighest
}

func versions(ss ...string) []version.Version {
	out := make([]version.Version, len(ss))
	for i, s := range ss {
		out[i] = version.MustParse(s)
	}
	return out
}

func TestPrefetchForTwoPhaseWalk(t *testing.T) {
	sel := fakeSelector{
		available:  versions("1.1", "1.2", "1.3", "1.4", "1.5", "1.6", "1.7", "1.8", "1.9", "2.0"),
		useHighest: true,
	}

	currentRange := version.RangeFromRequirements([]version.Requirement{
		{Operator: version.GreaterOrEqual, Version: version.MustParse("1.5")},
		{Operator: version.Less, Version: version.MustParse("2")},
	})

	unchangeable := &ConstraintTerm{
		Range: version.RangeFromRequirements([]version.Requirement{
			{Operator: version.GreaterOrEqual, Version: version.MustParse("1.2")},
		}),
	}

	got := PrefetchFor("a", 50, version.MustParse("1.9"), currentRange, unchangeable, sel)

	want := versions("1.8", "1.7", "1.6", "1.5", "1.4", "1.3", "1.2")
	if len(got) != len(want) {
		t.Fatalf("got %d candidates, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Fatalf("candidate %d: got %v, want %v (full: %v)", i, got[i], want[i], got)
		}
	}
}

func TestPrefetchForRespectsBurstCap(t *testing.T) {
	vs := make([]version.Version, 0, 100)
	for i := 1; i <= 100; i++ {
		vs = append(vs, version.MustParse(itoaVersion(i)))
	}
	sel := fakeSelector{available: vs, useHighest: true}

	got := PrefetchFor("a", 9000, version.MustParse(itoaVersion(100)), version.Full(), nil, sel)
	if len(got) != 50 {
		t.Fatalf("got %d candidates, want burst cap of 50", len(got))
	}
}

func itoaVersion(i int) string {
	digits := []byte{}
	if i == 0 {
		return "0"
	}
	n := i
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits) + ".0"
}

func TestPrefetchForZeroTriedYieldsNothing(t *testing.T) {
	sel := fakeSelector{available: versions("1.0"), useHighest: true}
	got := PrefetchFor("a", 0, version.MustParse("1.0"), version.Full(), nil, sel)
	if len(got) != 0 {
		t.Fatalf("expected no candidates when tried=0, got %v", got)
	}
}
