// Package metrics provides application-level counters using stdlib
// expvar. Counters are automatically exported on the /debug/vars HTTP
// endpoint when net/http/pprof is imported in the main binary.
package metrics

import "expvar"

// Operation counters.
var (
	ResolveTotal        = expvar.NewInt("ledgerlens_resolve_total")
	MatchExactCanonical = expvar.NewInt("ledgerlens_match_exact_canonical_total")
	MatchExactVariation = expvar.NewInt("ledgerlens_match_exact_variation_total")
	MatchSubstring      = expvar.NewInt("ledgerlens_match_substring_total")
	Unresolved          = expvar.NewInt("ledgerlens_unresolved_total")
	NoCandidateText     = expvar.NewInt("ledgerlens_no_candidate_text_total")
	ReloadTotal         = expvar.NewInt("ledgerlens_definitions_reload_total")
	ReloadFailures      = expvar.NewInt("ledgerlens_definitions_reload_failures_total")
	AutoCreated         = expvar.NewInt("ledgerlens_registry_auto_created_total")
)

// Inc increments the given counter by 1.
func Inc(counter *expvar.Int) { counter.Add(1) }
