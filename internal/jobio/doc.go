// Package jobio encodes compiled job definitions into the orchestrator's
// import document format and decodes definitions fetched back from it. Both
// the YAML and JSON renditions of the format are supported; they carry the
// same shape.
//
// The codec is deliberately dumb about semantics: kinds, reference forms,
// and validity are settled before a spec reaches it, and a decoded spec goes
// back through validation before anything trusts it.
package jobio
