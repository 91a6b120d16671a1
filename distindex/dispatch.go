package distindex

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/nathanjmcdougall/uv/version"
)

// Request is a single metadata-fetch work item submitted to the shared
// fetch pool, built from a distribution the dispatcher decided to
// speculate on.
type Request struct {
	Name    string
	Version version.Version
	Kind    DistributionKind
	Tags    []string
}

// RequestFrom builds a Request from a Distribution, matching the external
// interface named in 6 (`Request::from(distribution)`).
func RequestFrom(d Distribution) Request {
	return Request{Name: d.Name, Version: d.Version, Kind: d.Kind, Tags: d.Tags}
}

// Submitter is the fetch pool's ingestion point: a bounded channel
// wrapped behind a blocking send, per the concurrency model in section 5.
type Submitter interface {
	Submit(Request) error
}

// ErrChannelClosed mirrors the ChannelClosed fatal error in 7: the fetch
// pool has gone away and no further work can be submitted.
var ErrChannelClosed = fmt.Errorf("distindex: fetch pool channel closed")

// ErrUnregisteredTask mirrors UnregisteredTask in 7: the index layer has
// no version map for the requested package, which indicates a scheduler
// bug rather than a transient condition.
type ErrUnregisteredTask struct{ Name string }

func (e ErrUnregisteredTask) Error() string {
	return fmt.Sprintf("distindex: no version map registered for %q", e.Name)
}

// Dispatch runs the four gates in 4.5 over candidates (the sequence C4
// produced) and submits the survivors to sub. It returns an error only
// when submission itself fails or the version map is missing outright;
// every other rejection is a benign, logged skip.
//
// installedEnv is the interpreter that would build a source fallback,
// targetEnv is the interpreter the resolved project will run under
// (4.5.4); they are often equal.
func Dispatch(
	name string,
	candidates []version.Version,
	vm *VersionMap,
	installedEnv, targetEnv Environment,
	caps IndexCapabilities,
	reg *RegistrationSet,
	sub Submitter,
) (dispatched int, err error) {
	if vm == nil {
		return 0, ErrUnregisteredTask{Name: name}
	}

	for _, v := range candidates {
		dist, ok := vm.Resolve(v)
		if !ok {
			// No distribution exists for this exact version in the
			// version map (4.5.1).
			logrus.WithFields(logrus.Fields{"package": name, "version": v.String()}).
				Trace("prefetch: no distribution for candidate, skipping")
			continue
		}

		if dist.Kind == SourceDistribution {
			logrus.WithFields(logrus.Fields{"package": name, "version": v.String()}).
				Trace("prefetch: source distribution, skipping speculative fetch")
			continue
		}

		if !dist.Preinstalled && !caps.sufficesForSpeculativeFetch() {
			logrus.WithFields(logrus.Fields{"package": name}).
				Debug("prefetch: index lacks metadata sidecars and range requests, aborting burst")
			return dispatched, nil
		}

		if !dist.Preinstalled {
			// Only wheels reach here (source distributions are skipped
			// above), so the target-interpreter check is the only one
			// that applies; the installed-interpreter check exists for
			// source fallbacks, which this speculative path never
			// considers.
			if !targetEnv.Supports(dist.Tags) {
				logrus.WithFields(logrus.Fields{"package": name, "version": v.String()}).
					Trace("prefetch: incompatible with target interpreter, skipping candidate")
				continue
			}
			if !targetEnv.SatisfiesPythonVersion(dist.RequiresPython) {
				logrus.WithFields(logrus.Fields{"package": name, "version": v.String()}).
					Trace("prefetch: requires-python unsatisfied, skipping candidate")
				continue
			}
		}

		id := fmt.Sprintf("%s==%s", name, v.String())
		if !reg.Register(id) {
			continue
		}

		if err := sub.Submit(RequestFrom(dist)); err != nil {
			return dispatched, fmt.Errorf("%w: %v", ErrChannelClosed, err)
		}
		dispatched++

		logrus.WithFields(logrus.Fields{"package": name, "version": v.String()}).
			Trace("prefetch: dispatched candidate")
	}

	return dispatched, nil
}
