package distindex

// IndexCapabilities describes what a package index can do besides serve
// full artifacts. Built-distribution gating (4.5.3) requires at least one
// of these to be true before a wheel is safe to speculatively fetch.
type IndexCapabilities struct {
	// MetadataSidecars is true when the index serves a PEP 658-style
	// `.metadata` file alongside each artifact.
	MetadataSidecars bool
	// RangeRequests is true when the index's artifact storage answers
	// HTTP range requests, letting the dispatcher pull just the
	// metadata out of the middle of an archive.
	RangeRequests bool
}

// SupportsRangeRequests reports whether this index supports range
// requests. Kept as a method (mirroring the external interface named in
// 6, IndexCapabilities::supports_range_requests) rather than a bare field
// read, since real index probing is likely to need I/O in a fuller
// implementation.
func (c IndexCapabilities) SupportsRangeRequests() bool {
	return c.RangeRequests
}

// SupportsMetadataSidecars reports whether the index serves metadata
// sidecars.
func (c IndexCapabilities) SupportsMetadataSidecars() bool {
	return c.MetadataSidecars
}

// sufficesForSpeculativeFetch is the whole-burst gate in 4.5.3: without
// either capability, downloading a wheel to inspect its metadata would
// force a full-artifact download, defeating the point of speculating.
func (c IndexCapabilities) sufficesForSpeculativeFetch() bool {
	return c.SupportsMetadataSidecars() || c.SupportsRangeRequests()
}
