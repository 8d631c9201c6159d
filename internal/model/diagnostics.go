// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the Diagnostics container shared by every compile stage.
//
// Why collect-all instead of fail-fast?
//
// A compile request usually comes from a human who pasted several fragments
// at once. Stopping at the first bad option reference and making them re-run
// for the next one turns a one-minute fix into ten. So the pipeline follows
// the same discipline HCL's own Diagnostics type taught us: every stage
// appends what it finds and keeps going, and only the caller decides whether
// the accumulated set is fatal. The API deliberately mirrors hcl.Diagnostics
// (Append, Extend, HasErrors, Errs) so the two containers feel identical at
// call sites that handle both.
package model

import (
	"fmt"
	"strings"
)

// Severity distinguishes fatal problems from advisory ones.
type Severity int

const (
	// DiagError problems make the compiled spec unusable.
	DiagError Severity = iota

	// DiagWarning problems are surfaced but do not block submission.
	DiagWarning
)

func (s Severity) String() string {
	if s == DiagWarning {
		return "warning"
	}
	return "error"
}

// Code is the stable machine-readable category of a diagnostic.
type Code string

const (
	CodeValidation              Code = "ValidationError"
	CodeClassificationAmbiguity Code = "ClassificationAmbiguity"
	CodeUnrecognizedReference   Code = "UnrecognizedVariableReference"
	CodeInterpreterRequired     Code = "InterpreterRequired"
	CodeOversizedScriptBlock    Code = "OversizedScriptBlock"
	CodeIdentityMismatch        Code = "IdentityMismatch"
)

// Diagnostic is one problem found during compilation or validation.
type Diagnostic struct {
	Severity Severity
	Code     Code

	// Summary is a short statement of the problem. Detail elaborates.
	Summary string
	Detail  string

	// Subject locates the problem: "fragment[2]", "step[4]",
	// `option "region"`. Empty when the problem is request-wide.
	Subject string
}

// Error implements the error interface for a single diagnostic.
func (d *Diagnostic) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", d.Code, d.Summary)
	if d.Subject != "" {
		fmt.Fprintf(&b, " (%s)", d.Subject)
	}
	return b.String()
}

// Diagnostics is a collect-all list of problems. The zero value is ready to
// use. Append and Extend return the updated slice, matching hcl.Diagnostics.
type Diagnostics []*Diagnostic

// Append adds one diagnostic and returns the updated list.
func (d Diagnostics) Append(diag *Diagnostic) Diagnostics {
	if diag == nil {
		return d
	}
	return append(d, diag)
}

// Extend concatenates another list and returns the updated list.
func (d Diagnostics) Extend(other Diagnostics) Diagnostics {
	return append(d, other...)
}

// HasErrors reports whether at least one diagnostic is severity error.
func (d Diagnostics) HasErrors() bool {
	for _, diag := range d {
		if diag.Severity == DiagError {
			return true
		}
	}
	return false
}

// Warnings returns only the advisory diagnostics.
func (d Diagnostics) Warnings() Diagnostics {
	var out Diagnostics
	for _, diag := range d {
		if diag.Severity == DiagWarning {
			out = append(out, diag)
		}
	}
	return out
}

// Errs returns the error-severity diagnostics as plain errors.
func (d Diagnostics) Errs() []error {
	var errs []error
	for _, diag := range d {
		if diag.Severity == DiagError {
			errs = append(errs, diag)
		}
	}
	return errs
}

// Error implements the error interface over the whole list.
func (d Diagnostics) Error() string {
	errs := d.Errs()
	switch len(errs) {
	case 0:
		return "no errors"
	case 1:
		return errs[0].Error()
	default:
		var lines []string
		for _, err := range errs {
			lines = append(lines, err.Error())
		}
		return fmt.Sprintf("%d problems:\n- %s", len(errs), strings.Join(lines, "\n- "))
	}
}
