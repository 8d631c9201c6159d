// Package classify decides what each free-text fragment is: a multi-line
// script, a single command invocation, or a plugin step belonging to one of
// the registered capabilities.
//
// Classification is an ordered policy table, not a scoring model. Rules are
// consulted top to bottom and the first match wins, which keeps every verdict
// explainable by pointing at exactly one rule. The order is part of the
// contract: an interpreter directive always wins, capability patterns are
// consulted before shell structure so a SQL statement ending in ';' still
// becomes a data query, and a fragment that matches nothing defaults to
// script because over-promoting a command line to a script is harmless while
// the reverse silently strips shell semantics.
package classify
