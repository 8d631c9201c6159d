// Package segment splits long draft scripts into coherent phases so each
// phase can become its own step with its own description.
//
// Boundaries are found in strict priority order: visual banner separators
// first, then numbered or named stage comments, then runs of lines that
// belong to a registered capability, and only then a length threshold that
// forces a split at the nearest blank line. Splitting never invents, drops,
// or reorders code lines: concatenating the emitted phase bodies yields the
// input again, modulo the separator and blank lines that marked the
// boundaries.
package segment
