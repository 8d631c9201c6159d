package risk

import (
	"github.com/vk/jobforge/internal/model"
)

// Table maps operation kinds to their policy level.
type Table map[model.OperationKind]model.RiskLevel

// DefaultTable returns the standard posture. Destruction and system-wide
// switches are high, reversible availability changes and execution triggers
// are medium, additive operations are low.
func DefaultTable() Table {
	return Table{
		model.OpCreate:          model.RiskLow,
		model.OpRetry:           model.RiskLow,
		model.OpRun:             model.RiskMedium,
		model.OpEnable:          model.RiskMedium,
		model.OpDisable:         model.RiskMedium,
		model.OpEnableSchedule:  model.RiskMedium,
		model.OpDisableSchedule: model.RiskMedium,
		model.OpModify:          model.RiskHigh,
		model.OpDelete:          model.RiskHigh,
		model.OpAbort:           model.RiskHigh,
		model.OpSetSystemMode:   model.RiskHigh,
	}
}

// reasons carries the kind-based explanation tag for each operation kind.
var reasons = map[model.OperationKind]string{
	model.OpCreate:          "adds-new-definition",
	model.OpModify:          "replaces-definition-by-delete-and-recreate",
	model.OpDelete:          "removes-definition-permanently",
	model.OpEnable:          "changes-availability",
	model.OpDisable:         "changes-availability",
	model.OpEnableSchedule:  "changes-automatic-scheduling",
	model.OpDisableSchedule: "changes-automatic-scheduling",
	model.OpRun:             "triggers-execution",
	model.OpAbort:           "interrupts-running-execution",
	model.OpRetry:           "repeats-previous-execution",
	model.OpSetSystemMode:   "changes-system-wide-execution",
}

// Classifier assesses operations against a fixed policy table.
type Classifier struct {
	table Table
}

// New creates a Classifier. The table is copied: later mutation of the
// caller's map cannot shift the policy under a running gate.
func New(table Table) *Classifier {
	copied := make(Table, len(table))
	for k, v := range table {
		copied[k] = v
	}
	return &Classifier{table: copied}
}

// Assess returns the verdict for one operation. Unknown kinds classify high:
// an operation the table has never heard of is exactly the kind of thing
// that should stop at the gate.
func (c *Classifier) Assess(op model.Operation) model.RiskAssessment {
	level, known := c.table[op.Kind]
	if !known {
		return model.RiskAssessment{
			Level:                model.RiskHigh,
			RequiresConfirmation: true,
			Reasons:              []string{"unknown-operation-kind"},
		}
	}

	tags := []string{reasons[op.Kind]}

	if op.Kind == model.OpRun && op.NonImpactful && level > model.RiskLow {
		level = model.RiskLow
		tags = append(tags, "declared-non-impactful")
	}

	tags = append(tags, payloadFactors(op)...)

	return model.RiskAssessment{
		Level:                level,
		RequiresConfirmation: level.RequiresConfirmation(),
		Reasons:              tags,
	}
}
