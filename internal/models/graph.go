package models

// Triple is one (subject, predicate, object) statement exported from a
// registry. Subjects and same_as objects are namespaced with the
// registry type ("merchant:starbucks") so triples from several
// registries can be combined without id collisions.
type Triple struct {
	Subject   string `json:"subject"`
	Predicate string `json:"predicate"`
	Object    string `json:"object"`
}

// CanonicalResult is the outcome of following a same_as chain.
type CanonicalResult struct {
	FinalID       string        `json:"final_id"`
	Record        *EntityRecord `json:"record,omitempty"`
	HopCount      int           `json:"hop_count"`
	Path          []string      `json:"path"`
	CycleDetected bool          `json:"cycle_detected"`
	BoundExceeded bool          `json:"bound_exceeded"`
}

// Subgraph is the local neighbourhood of one registry entry.
type Subgraph struct {
	CenterID string        `json:"center_id"`
	Center   *EntityRecord `json:"center,omitempty"`
	Outgoing []Triple      `json:"outgoing"`
	Incoming []Triple      `json:"incoming"`
}
