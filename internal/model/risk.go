// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package model

// RiskLevel orders operations by blast radius.
type RiskLevel int

const (
	RiskLow RiskLevel = iota
	RiskMedium
	RiskHigh
)

// String renders the level the way it appears in summaries and logs.
func (l RiskLevel) String() string {
	switch l {
	case RiskLow:
		return "low"
	case RiskMedium:
		return "medium"
	case RiskHigh:
		return "high"
	default:
		return "unknown"
	}
}

// RequiresConfirmation reports whether operations at this level must be
// explicitly confirmed before execution.
func (l RiskLevel) RequiresConfirmation() bool {
	return l >= RiskMedium
}

// RiskAssessment is the classifier's verdict on one operation.
type RiskAssessment struct {
	Level RiskLevel

	// RequiresConfirmation is derived from Level. Carried explicitly so
	// consumers never re-derive the rule.
	RequiresConfirmation bool

	// Reasons are short stable tags explaining the verdict, the kind-based
	// reason first, payload-derived factors after.
	Reasons []string
}
