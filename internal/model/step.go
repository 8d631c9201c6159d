// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the Step structure, the atomic unit of work within a
// JobSpec, and the Kind taxonomy that drives the rest of the pipeline.
//
// Why does Kind matter so much?
//
// The orchestrator executes the three kinds through entirely different
// machinery: Script payloads are written to a temp file and fed to an
// interpreter, Exec payloads go straight to the system's command runner with
// no shell in between, and Plugin steps invoke a named provider with a
// configuration map. Two consequences ripple out from that split. First, an
// Exec payload must be a single simple command line, because nothing is there
// to interpret pipes or redirection. Second, the platform substitutes job
// options with a different delimiter inside file-based payloads than inside
// argument strings, so the reference form a payload may use is decided by the
// Kind and by nothing else.
package model

// StepKind selects the execution mechanism for a step.
type StepKind string

const (
	// KindScript runs the payload as a multi-line script via an interpreter.
	KindScript StepKind = "script"

	// KindExec runs the payload as a single command line, no shell features.
	KindExec StepKind = "exec"

	// KindPlugin invokes a platform plugin identified by PluginType.
	KindPlugin StepKind = "plugin"
)

// PluginType names the plugin family a KindPlugin step invokes.
type PluginType string

const (
	// PluginDataQuery runs a statement against a data store.
	PluginDataQuery PluginType = "data-query"

	// PluginConfigManagement applies package or service state to nodes.
	PluginConfigManagement PluginType = "configuration-management"

	// PluginOutboundCall performs an HTTP request to an external endpoint.
	PluginOutboundCall PluginType = "outbound-call"

	// PluginJobReference invokes another job by its identity or path.
	PluginJobReference PluginType = "job-reference"
)

// Step is a single, ordered unit of work inside a JobSpec.
type Step struct {
	// Description is a short human-readable label. Never empty in a
	// compiled spec.
	Description string

	Kind StepKind

	// Payload is the script body (Script), the command line (Exec), or the
	// plugin's primary argument such as a SQL statement or URL (Plugin).
	Payload string

	// Interpreter tags Script steps with the program that runs the payload
	// ("bash", "python3", ...). Unset for other kinds.
	Interpreter string

	// NodeStep marks steps that execute once per matched node rather than
	// once per job run.
	NodeStep bool

	// PluginType and PluginConfig are set only for KindPlugin.
	PluginType   PluginType
	PluginConfig map[string]string
}
