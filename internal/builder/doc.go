// Package builder assembles compile requests into ordered job definitions.
//
// For each fragment it runs the full pipeline: classify, hoist the
// interpreter directive, segment, re-route capability phases, rewrite option
// references, and emit steps. Fragments are independent, so they compile
// concurrently; results are slotted back by fragment index, which keeps the
// step order of the finished job identical to the fragment order of the
// request no matter how the scheduler interleaves the work.
package builder
