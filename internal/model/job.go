// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines JobSpec, the compiled job definition, and the pieces it
// aggregates: option declarations, the schedule, and dispatch settings.
//
// Why an opaque Identity?
//
// The orchestrator assigns the durable identifier at submission time and uses
// it for every subsequent lookup, run, and deletion. jobforge never parses or
// fabricates it. Keeping it a distinct string type stops call sites from
// accidentally passing a job name where the platform id is required, which is
// exactly the mix-up that makes "modify" silently create a second job.
package model

// Identity is the orchestrator-assigned stable identifier of a submitted job.
// It is empty on a draft and immutable once assigned: modification replaces
// the definition behind the identity, never the identity itself.
type Identity string

// JobSpec is the compiled, platform-neutral job definition.
type JobSpec struct {
	ID          Identity
	Name        string
	Group       string
	Project     string
	Description string

	// Steps execute strictly in order. A valid JobSpec has at least one.
	Steps []Step

	// Options declared for the job. Names are unique within a spec.
	Options []OptionDef

	Schedule   *Schedule
	NodeFilter string
	Dispatch   *Dispatch
}

// OptionDef declares a single runtime input of a job.
type OptionDef struct {
	Name        string
	Description string
	Default     string
	Required    bool

	// Values, when non-empty, is the closed set of allowed inputs in
	// presentation order. Free text is rejected at run time.
	Values []string
}

// Enforced reports whether the option restricts input to a fixed value set.
func (o OptionDef) Enforced() bool {
	return len(o.Values) > 0
}

// Allows reports whether v is an acceptable runtime value for the option.
// Unenforced options accept anything.
func (o OptionDef) Allows(v string) bool {
	if !o.Enforced() {
		return true
	}
	for _, allowed := range o.Values {
		if v == allowed {
			return true
		}
	}
	return false
}

// Schedule is an optional crontab trigger attached to a job.
type Schedule struct {
	Crontab string
	Enabled bool
}

// Dispatch controls how the orchestrator fans a job out across matched nodes.
type Dispatch struct {
	ThreadCount int
	KeepGoing   bool
}

// Option returns the declared option with the given name, if any.
func (j *JobSpec) Option(name string) (OptionDef, bool) {
	for _, opt := range j.Options {
		if opt.Name == name {
			return opt, true
		}
	}
	return OptionDef{}, false
}

// QualifiedName renders the job's path as the orchestrator displays it:
// "group/name", or just the name for ungrouped jobs.
func (j *JobSpec) QualifiedName() string {
	if j.Group == "" {
		return j.Name
	}
	return j.Group + "/" + j.Name
}
