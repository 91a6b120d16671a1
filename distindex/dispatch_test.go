package distindex

import (
	"fmt"
	"testing"

	"github.com/nathanjmcdougall/uv/version"
)

type fakeSubmitter struct {
	requests []Request
	fail     bool
}

func (f *fakeSubmitter) Submit(r Request) error {
	if f.fail {
		return fmt.Errorf("pool gone")
	}
	f.requests = append(f.requests, r)
	return nil
}

func wheelDist(name, v string, tags ...string) Distribution {
	return Distribution{
		Name:    name,
		Version: version.MustParse(v),
		Kind:    Wheel,
		Tags:    tags,
	}
}

func env(tags ...string) Environment {
	p := make(map[string]int, len(tags))
	for i, t := range tags {
		p[t] = i
	}
	return Environment{TagPriority: p, PythonVersion: "3.11"}
}

func mustParseAll(ss ...string) []version.Version {
	out := make([]version.Version, len(ss))
	for i, s := range ss {
		out[i] = version.MustParse(s)
	}
	return out
}

func TestDispatchHappyPath(t *testing.T) {
	vm := &VersionMap{Name: "a", Distributions: []Distribution{
		wheelDist("a", "1.0", "cp311-cp311-linux_x86_64"),
		wheelDist("a", "1.1", "cp311-cp311-linux_x86_64"),
	}}
	reg := NewRegistrationSet()
	sub := &fakeSubmitter{}
	caps := IndexCapabilities{MetadataSidecars: true}
	targetEnv := env("cp311-cp311-linux_x86_64")

	n, err := Dispatch("a", mustParseAll("1.0", "1.1"), vm, targetEnv, targetEnv, caps, reg, sub)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 2 || len(sub.requests) != 2 {
		t.Fatalf("got %d dispatched, want 2: %+v", n, sub.requests)
	}
}

func TestDispatchSkipsSourceDistributions(t *testing.T) {
	vm := &VersionMap{Name: "a", Distributions: []Distribution{
		{Name: "a", Version: version.MustParse("1.0"), Kind: SourceDistribution},
	}}
	reg := NewRegistrationSet()
	sub := &fakeSubmitter{}
	caps := IndexCapabilities{MetadataSidecars: true}
	targetEnv := env("cp311-cp311-linux_x86_64")

	n, err := Dispatch("a", mustParseAll("1.0"), vm, targetEnv, targetEnv, caps, reg, sub)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected source distributions to never be dispatched, got %d", n)
	}
}

func TestDispatchAbortsWholeBurstWithoutIndexCapabilities(t *testing.T) {
	vm := &VersionMap{Name: "a", Distributions: []Distribution{
		wheelDist("a", "1.0", "cp311-cp311-linux_x86_64"),
		wheelDist("a", "1.1", "cp311-cp311-linux_x86_64"),
	}}
	reg := NewRegistrationSet()
	sub := &fakeSubmitter{}
	caps := IndexCapabilities{} // neither capability
	targetEnv := env("cp311-cp311-linux_x86_64")

	n, err := Dispatch("a", mustParseAll("1.0", "1.1"), vm, targetEnv, targetEnv, caps, reg, sub)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected the whole burst to abort, got %d dispatched", n)
	}
}

func TestDispatchSkipsIncompatibleCandidatesWithoutAborting(t *testing.T) {
	vm := &VersionMap{Name: "a", Distributions: []Distribution{
		wheelDist("a", "1.0", "cp27-cp27-linux_x86_64"),
		wheelDist("a", "1.1", "cp311-cp311-linux_x86_64"),
	}}
	reg := NewRegistrationSet()
	sub := &fakeSubmitter{}
	caps := IndexCapabilities{RangeRequests: true}
	targetEnv := env("cp311-cp311-linux_x86_64")

	n, err := Dispatch("a", mustParseAll("1.0", "1.1"), vm, targetEnv, targetEnv, caps, reg, sub)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 1 || len(sub.requests) != 1 || !sub.requests[0].Version.Equal(version.MustParse("1.1")) {
		t.Fatalf("expected only the compatible candidate to dispatch, got %+v", sub.requests)
	}
}

func TestDispatchDedupsAgainstRegistrationSet(t *testing.T) {
	vm := &VersionMap{Name: "a", Distributions: []Distribution{
		wheelDist("a", "1.0", "cp311-cp311-linux_x86_64"),
	}}
	reg := NewRegistrationSet()
	reg.Register("a==1.0")
	sub := &fakeSubmitter{}
	caps := IndexCapabilities{MetadataSidecars: true}
	targetEnv := env("cp311-cp311-linux_x86_64")

	n, err := Dispatch("a", mustParseAll("1.0"), vm, targetEnv, targetEnv, caps, reg, sub)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected already-registered candidate to dedup, got %d", n)
	}
}

func TestDispatchPropagatesSubmissionFailure(t *testing.T) {
	vm := &VersionMap{Name: "a", Distributions: []Distribution{
		wheelDist("a", "1.0", "cp311-cp311-linux_x86_64"),
	}}
	reg := NewRegistrationSet()
	sub := &fakeSubmitter{fail: true}
	caps := IndexCapabilities{MetadataSidecars: true}
	targetEnv := env("cp311-cp311-linux_x86_64")

	_, err := Dispatch("a", mustParseAll("1.0"), vm, targetEnv, targetEnv, caps, reg, sub)
	if err == nil {
		t.Fatalf("expected submission failure to propagate")
	}
}

func TestDispatchUnregisteredTask(t *testing.T) {
	reg := NewRegistrationSet()
	sub := &fakeSubmitter{}
	targetEnv := env("cp311-cp311-linux_x86_64")

	_, err := Dispatch("a", nil, nil, targetEnv, targetEnv, IndexCapabilities{}, reg, sub)
	if _, ok := err.(ErrUnregisteredTask); !ok {
		t.Fatalf("expected ErrUnregisteredTask, got %v", err)
	}
}
