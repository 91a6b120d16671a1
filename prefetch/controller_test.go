package prefetch

import (
	"testing"

	"github.com/nathanjmcdougall/uv/identity"
)

func TestShouldPrefetchEscalatingThresholds(t *testing.T) {
	in := identity.NewInterner()
	h := in.Intern(identity.PackageVariant("a"))
	c := NewController(in)

	fires := map[uint64]uint64{}
	for i := 0; i < 25; i++ {
		c.RecordAttempt(h)
		tried, fire := c.ShouldPrefetch(h)
		if fire {
			fires[tried] = tried
			c.CommitPrefetch(h, tried)
		}
	}

	for _, want := range []uint64{5, 10, 20} {
		if _, ok := fires[want]; !ok {
			t.Fatalf("expected a fire at tried=%d, got fires at %v", want, fires)
		}
	}
	if len(fires) != 3 {
		t.Fatalf("expected exactly 3 fires (5, 10, 20) across 1..25 with commits, got %v", fires)
	}
}

func TestShouldPrefetchSteadyStateCadence(t *testing.T) {
	in := identity.NewInterner()
	h := in.Intern(identity.PackageVariant("a"))
	c := NewController(in)

	for i := 0; i < 20; i++ {
		c.RecordAttempt(h)
	}
	c.CommitPrefetch(h, 20)

	for i := 0; i < 5; i++ {
		c.RecordAttempt(h)
		if _, fire := c.ShouldPrefetch(h); fire {
			t.Fatalf("did not expect a fire before tried-last reaches 20 (tried=%d)", 20+i+1)
		}
	}

	c.RecordAttempt(h) // tried = 26... continue to 40
	for c.Tried(h) < 40 {
		c.RecordAttempt(h)
	}

	tried, fire := c.ShouldPrefetch(h)
	if !fire {
		t.Fatalf("expected a fire once tried-last reaches 20 (tried=%d)", tried)
	}
	if tried != 40 {
		t.Fatalf("got tried=%d, want 40", tried)
	}
}

func TestShouldPrefetchIsMonotoneUntilCommit(t *testing.T) {
	in := identity.NewInterner()
	h := in.Intern(identity.PackageVariant("a"))
	c := NewController(in)

	for i := 0; i < 5; i++ {
		c.RecordAttempt(h)
	}
	if _, fire := c.ShouldPrefetch(h); !fire {
		t.Fatalf("expected a fire at tried=5")
	}

	// Without a commit, every higher tried count must still fire.
	for i := 0; i < 3; i++ {
		c.RecordAttempt(h)
		if _, fire := c.ShouldPrefetch(h); !fire {
			t.Fatalf("expected should_prefetch to remain true before commit, tried=%d", c.Tried(h))
		}
	}
}

func TestRecordAttemptIgnoresNonBasePackages(t *testing.T) {
	in := identity.NewInterner()
	h := in.Intern(identity.ExtraVariant("a", "x", ""))
	c := NewController(in)

	c.RecordAttempt(h)
	if c.Tried(h) != 0 {
		t.Fatalf("expected extra-variant attempts to be ignored, got tried=%d", c.Tried(h))
	}
}
