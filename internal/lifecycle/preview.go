package lifecycle

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vk/jobforge/internal/model"
)

// previewSummary renders the intended change of a gated operation. It reads
// through the catalog on a best-effort basis; a failed read degrades the
// wording, it never fails the preview. The transport is not reachable from
// here.
func (m *Manager) previewSummary(ctx context.Context, logger *slog.Logger, op model.Operation) string {
	switch op.Kind {
	case model.OpModify:
		if op.Candidate == nil {
			return fmt.Sprintf("would replace the definition behind %s", op.Target)
		}
		current := m.definitionFor(ctx, logger, op.Target)
		if current == nil {
			return fmt.Sprintf("would replace the definition of %q (%s) with %d steps, identity preserved",
				op.Candidate.QualifiedName(), op.Target, len(op.Candidate.Steps))
		}
		return fmt.Sprintf("would replace the definition of %q (%s): %d steps become %d, identity preserved",
			current.QualifiedName(), op.Target, len(current.Steps), len(op.Candidate.Steps))

	case model.OpDelete:
		if current := m.definitionFor(ctx, logger, op.Target); current != nil {
			return fmt.Sprintf("would permanently delete job %q (%s)", current.QualifiedName(), op.Target)
		}
		return fmt.Sprintf("would permanently delete job %s", op.Target)

	case model.OpRun:
		name := string(op.Target)
		if current := m.definitionFor(ctx, logger, op.Target); current != nil {
			name = current.QualifiedName()
		}
		summary := fmt.Sprintf("would run job %q with %s", name, formatRunOptions(op.RunOptions))
		if op.NodeFilter != "" {
			summary += fmt.Sprintf(" on nodes matching %q", op.NodeFilter)
		}
		return summary

	case model.OpEnable:
		return fmt.Sprintf("would enable job %s for execution", op.Target)
	case model.OpDisable:
		return fmt.Sprintf("would disable job %s: new executions will be refused", op.Target)
	case model.OpEnableSchedule:
		return fmt.Sprintf("would enable the schedule of job %s", op.Target)
	case model.OpDisableSchedule:
		return fmt.Sprintf("would disable the schedule of job %s: it will no longer fire", op.Target)

	case model.OpAbort:
		status, err := m.catalog.ExecutionStatus(ctx, op.Execution)
		if err != nil {
			logger.Warn("Preview could not read execution status.", "error", err)
			return fmt.Sprintf("would abort execution %s", op.Execution)
		}
		return fmt.Sprintf("would abort execution %s of job %q (state %s)", op.Execution, status.JobName, status.State)

	case model.OpRetry:
		return fmt.Sprintf("would retry execution %s as a new execution", op.Execution)

	case model.OpSetSystemMode:
		if op.Mode == model.ModePassive {
			return "would switch the system to passive mode: all execution halts"
		}
		return fmt.Sprintf("would switch the system execution mode to %s", op.Mode)
	}

	return fmt.Sprintf("would apply %s", op.Kind)
}

func (m *Manager) definitionFor(ctx context.Context, logger *slog.Logger, id model.Identity) *model.JobSpec {
	if id == "" {
		return nil
	}
	spec, err := m.catalog.Definition(ctx, id)
	if err != nil {
		logger.Warn("Preview could not read the current definition.", "identity", string(id), "error", err)
		return nil
	}
	return spec
}
