// Package prefetch implements the adaptive prefetch controller (C3) and
// the two-phase prefetch strategy engine (C4): together they decide when
// resolver progress on a package should trigger speculative metadata
// fetches, and which candidate versions those fetches should target.
package prefetch

import (
	"github.com/nathanjmcdougall/uv/identity"
)

// thresholds are the escalating attempt counts that can trigger a burst,
// per 4.3. Beyond the last fixed threshold, the controller falls back to
// a steady 20-attempt cadence (see ShouldPrefetch).
var thresholds = []uint64{5, 10, 20}

const steadyStateInterval = 20

// Controller tracks, per base-package handle, how many candidate versions
// the resolver has attempted and when the last prefetch burst fired. It
// is owned exclusively by the resolver task for the lifetime of one
// resolution: no internal locking, per the concurrency model.
type Controller struct {
	interner      *identity.Interner
	triedVersions map[identity.Handle]uint64
	lastPrefetch  map[identity.Handle]uint64
}

// NewController returns a Controller that consults in to decide whether a
// handle names a base package.
func NewController(in *identity.Interner) *Controller {
	return &Controller{
		interner:      in,
		triedVersions: make(map[identity.Handle]uint64),
		lastPrefetch:  make(map[identity.Handle]uint64),
	}
}

// RecordAttempt increments the tried-version count for handle, unless it
// does not identify a base package (4.3: only base packages participate
// in prefetch bookkeeping).
func (c *Controller) RecordAttempt(handle identity.Handle) {
	if !c.interner.IsBasePackage(handle) {
		return
	}
	c.triedVersions[handle]++
}

// Tried returns the current attempt count for handle.
func (c *Controller) Tried(handle identity.Handle) uint64 {
	return c.triedVersions[handle]
}

// ShouldPrefetch reports the current attempt count for handle and whether
// a prefetch burst should fire now, per the threshold rules in 4.3. The
// rules are monotone in tried: once true at tried = k, they remain true
// for every tried' > k until CommitPrefetch resets last.
func (c *Controller) ShouldPrefetch(handle identity.Handle) (tried uint64, fire bool) {
	tried = c.triedVersions[handle]
	last := c.lastPrefetch[handle]

	for _, th := range thresholds {
		if tried >= th && last < th {
			return tried, true
		}
	}

	if tried >= steadyStateInterval && tried-last >= steadyStateInterval {
		return tried, true
	}

	return tried, false
}

// CommitPrefetch records that a burst has just run for handle at the
// given tried count, resetting the baseline future ShouldPrefetch calls
// compare against.
func (c *Controller) CommitPrefetch(handle identity.Handle, tried uint64) {
	c.lastPrefetch[handle] = tried
}
