// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package model provides the Go struct representation of everything jobforge
// compiles and acts on. Its core purpose is to give the pipeline stages a
// strongly-typed, platform-neutral vocabulary that is independent of both the
// manifest format on the way in and the orchestrator's wire format on the way
// out.
//
// # Core Concepts
//
// The model is built around a few key structures:
//
//   - CompileRequest: The operator's intent. A named collection of free-text
//     Fragments plus the option declarations, schedule, and node filter that
//     should accompany the finished job.
//
//   - JobSpec: The compiled artifact. An ordered sequence of Steps together
//     with its options and metadata, ready to be validated, encoded, and
//     submitted. A submitted JobSpec carries an Identity that survives every
//     later modification.
//
//   - Step: One unit of work inside a JobSpec. Its Kind (Script, Exec, or
//     Plugin) decides how the payload is executed and which option reference
//     form the payload is allowed to use.
//
//   - Operation: A single-use description of a state change against the
//     orchestrator (create, modify, run, abort, ...). Operations pass through
//     the risk gate before anything touches the network.
//
//   - Diagnostics: The collect-all error container shared by every compile
//     stage, so one pass over a request reports every problem at once.
//
// Why a separate model package?
//
// Every stage of the pipeline (classify, segment, rewrite, build, validate)
// and every edge of the system (manifest loading, YAML encoding, the HTTP
// transport, the lifecycle gate) needs the same nouns. Putting them in one
// dependency-free package keeps the stages composable and lets tests build
// fixtures without dragging in parsers or network clients.
package model
