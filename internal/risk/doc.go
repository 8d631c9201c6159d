// Package risk classifies operations by blast radius before the lifecycle
// gate decides whether they may execute.
//
// The kind-to-level mapping is a policy table handed to the classifier at
// construction and never mutated afterwards: a deployment that wants a
// stricter posture swaps the table, it does not flip flags at run time.
// Payload keyword scans add explanatory factor tags to an assessment but
// never change the table's level, so the gate's behavior stays predictable
// from the table alone.
package risk
