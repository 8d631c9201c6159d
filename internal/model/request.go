// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package model

// Fragment is one free-text piece of operator intent: a draft script, a
// single command, a SQL statement, a URL to call, or a reference to another
// job. The compiler decides what it is.
type Fragment struct {
	Text string

	// Hint optionally biases classification. Recognized values are
	// "script", "exec", "jobref", and capability names such as
	// "data-query". An impossible hint is recorded as a warning and
	// otherwise ignored.
	Hint string
}

// CompileRequest is the operator's full intent for one job: the fragments to
// compile plus everything that frames them.
type CompileRequest struct {
	Name        string
	Group       string
	Project     string
	Description string

	Fragments []Fragment
	Options   []OptionDef

	Schedule   *Schedule
	NodeFilter string
	Dispatch   *Dispatch
}
