// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines Operation, the single-use description of one requested
// state change against the orchestrator, and Outcome, the record of what the
// lifecycle manager did with it.
//
// Why are operations values instead of methods on a client?
//
// Every state change has to pass the same risk gate, and the gate needs the
// whole request in hand before anything executes: the kind, the target, the
// confirmation flag, and enough payload to render a faithful preview. A
// first-class Operation value gives the gate one thing to inspect and gives
// audit logging one thing to record. It also makes "preview" trivial to get
// right, because an unconfirmed operation is simply never handed to the
// transport.
package model

// OperationKind enumerates the state changes the lifecycle manager performs.
type OperationKind string

const (
	OpCreate          OperationKind = "create"
	OpModify          OperationKind = "modify"
	OpDelete          OperationKind = "delete"
	OpEnable          OperationKind = "enable"
	OpDisable         OperationKind = "disable"
	OpEnableSchedule  OperationKind = "enable_schedule"
	OpDisableSchedule OperationKind = "disable_schedule"
	OpRun             OperationKind = "run"
	OpAbort           OperationKind = "abort"
	OpRetry           OperationKind = "retry"
	OpSetSystemMode   OperationKind = "set_system_mode"
)

// ExecutionID identifies one run of a job on the orchestrator.
type ExecutionID string

// ExecutionMode is the system-wide execution switch.
type ExecutionMode string

const (
	// ModeActive means the system runs scheduled and submitted executions.
	ModeActive ExecutionMode = "active"

	// ModePassive halts all execution system-wide.
	ModePassive ExecutionMode = "passive"
)

// Operation describes one requested state change. An Operation is single-use:
// executing it consumes it, and replaying a consumed operation is a caller
// bug, not a retry mechanism.
type Operation struct {
	Kind OperationKind

	// Target is the job the operation acts on. Unset for OpCreate,
	// OpAbort, OpRetry, and OpSetSystemMode.
	Target Identity

	// Candidate carries the full definition for OpCreate and OpModify.
	Candidate *JobSpec

	// RunOptions and NodeFilter parameterize OpRun.
	RunOptions map[string]string
	NodeFilter string

	// Execution is the target of OpAbort and OpRetry.
	Execution ExecutionID

	// Mode is the requested system state for OpSetSystemMode.
	Mode ExecutionMode

	// Confirmed records that a human approved this specific operation.
	// Required before any Medium or High risk operation executes.
	Confirmed bool

	// NonImpactful downgrades an OpRun that is known to only read state.
	NonImpactful bool
}

// OutcomeStatus is the terminal state of one operation.
type OutcomeStatus string

const (
	// StatusPreview means the gate held the operation back: nothing was
	// executed, and Summary describes what confirmation would apply.
	StatusPreview OutcomeStatus = "preview"

	// StatusApplied means the operation executed against the platform.
	StatusApplied OutcomeStatus = "applied"

	// StatusRejected means validation failed before any external call.
	StatusRejected OutcomeStatus = "rejected"
)

// Outcome reports what became of one Operation.
type Outcome struct {
	Status OutcomeStatus
	Risk   RiskAssessment

	// Correlation is a unique id minted per operation for audit logs.
	Correlation string

	// Identity is set when the operation produced or targeted a job.
	Identity Identity

	// Execution is set when the operation produced or targeted a run.
	Execution ExecutionID

	// Summary is the human-readable account: the intended change for a
	// preview, the applied change otherwise.
	Summary string
}
