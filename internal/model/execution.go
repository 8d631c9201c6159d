// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package model

import "time"

// ExecutionState is the orchestrator's report of where a run is.
type ExecutionState string

const (
	ExecutionRunning   ExecutionState = "running"
	ExecutionSucceeded ExecutionState = "succeeded"
	ExecutionFailed    ExecutionState = "failed"
	ExecutionAborted   ExecutionState = "aborted"
)

// ExecutionStatus describes one run of a job as the orchestrator sees it.
type ExecutionStatus struct {
	ID        ExecutionID
	Job       Identity
	JobName   string
	Project   string
	State     ExecutionState
	Permalink string
	StartedAt time.Time

	// EndedAt is nil while the execution is still running.
	EndedAt *time.Time
}

// Done reports whether the execution has reached a terminal state.
func (s *ExecutionStatus) Done() bool {
	return s.State != ExecutionRunning
}
