// Package rewrite normalizes job option references inside step payloads.
//
// The orchestrator substitutes options with a different delimiter depending
// on how a step executes: file-based script payloads use the @option.name@
// form, while inline command and plugin arguments use ${option.name}. Which
// form a payload gets is decided by the step's kind and by nothing else, so
// rewriting runs strictly after classification has settled every kind.
//
// The rewriter accepts either well-formed source shape, emits the single
// form the kind requires, and collects the referenced names for validation.
// References written in the interpreter-native $RD_OPTION_NAME environment
// form are collected but left untouched. Anything that mentions the option
// namespace without parsing as a known form is preserved byte-for-byte and
// reported, because a silently "fixed" token is worse than a visible odd one.
package rewrite
