// Package manifest loads compile requests from HCL files.
//
// A manifest holds one or more `job` blocks; each carries the job's framing
// attributes plus `fragment`, `option`, `schedule`, and `dispatch` blocks.
// Option defaults and value lists are decoded as expressions and converted
// to strings afterwards, so manifests may write naked numbers and booleans
// where the platform ultimately wants text.
package manifest
