package lifecycle

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/vk/jobforge/internal/ctxlog"
	"github.com/vk/jobforge/internal/model"
	"github.com/vk/jobforge/internal/risk"
	"github.com/vk/jobforge/internal/validate"
)

// Manager drives operations through the gate and onto the transport.
type Manager struct {
	transport Transport
	catalog   Catalog
	risk      *risk.Classifier

	mu    sync.Mutex
	locks map[model.Identity]*sync.Mutex
}

// New creates a Manager. The transport is only ever reached by operations
// the classifier and the confirmation flag both let through.
func New(transport Transport, catalog Catalog, classifier *risk.Classifier) *Manager {
	return &Manager{
		transport: transport,
		catalog:   catalog,
		risk:      classifier,
		locks:     make(map[model.Identity]*sync.Mutex),
	}
}

// Execute runs one operation to a terminal outcome: preview when the gate
// holds it, rejected when validation fails, applied when the platform
// accepted it. The error return is reserved for transport failures.
//
// Operations are single-use. Execute consumes the value; replaying one that
// already produced an outcome is a caller bug.
func (m *Manager) Execute(ctx context.Context, op model.Operation) (*model.Outcome, error) {
	correlation := uuid.NewString()
	logger := ctxlog.FromContext(ctx).With("correlation", correlation, "operation", string(op.Kind))

	assessment := m.risk.Assess(op)
	logger.Debug("Operation assessed.", "risk", assessment.Level.String(), "reasons", strings.Join(assessment.Reasons, ","))

	if assessment.RequiresConfirmation && !op.Confirmed {
		summary := m.previewSummary(ctx, logger, op)
		logger.Info("Operation held at the gate, confirmation required.", "risk", assessment.Level.String())
		return &model.Outcome{
			Status:      model.StatusPreview,
			Risk:        assessment,
			Correlation: correlation,
			Identity:    op.Target,
			Execution:   op.Execution,
			Summary:     summary,
		}, nil
	}

	diags, err := m.validateOperation(ctx, op)
	if err != nil {
		return nil, err
	}
	if diags.HasErrors() {
		logger.Warn("Operation rejected.", "problems", len(diags.Errs()))
		return &model.Outcome{
			Status:      model.StatusRejected,
			Risk:        assessment,
			Correlation: correlation,
			Identity:    op.Target,
			Execution:   op.Execution,
			Summary:     diags.Error(),
		}, nil
	}

	outcome, err := m.apply(ctx, logger, op)
	if err != nil {
		return nil, err
	}
	outcome.Risk = assessment
	outcome.Correlation = correlation
	logger.Info("Operation applied.", "summary", outcome.Summary)
	return outcome, nil
}

// validateOperation checks the operation's own shape plus whatever the kind
// demands of its payload. Catalog reads are allowed here; the transport is
// not touched.
func (m *Manager) validateOperation(ctx context.Context, op model.Operation) (model.Diagnostics, error) {
	var diags model.Diagnostics

	needTarget := func() {
		if op.Target == "" {
			diags = diags.Append(&model.Diagnostic{
				Severity: model.DiagError,
				Code:     model.CodeValidation,
				Summary:  fmt.Sprintf("%s operation has no target identity", op.Kind),
			})
		}
	}

	switch op.Kind {
	case model.OpCreate:
		if op.Candidate == nil {
			return diags.Append(missingCandidate(op.Kind)), nil
		}
		if op.Candidate.ID != "" {
			diags = diags.Append(&model.Diagnostic{
				Severity: model.DiagError,
				Code:     model.CodeValidation,
				Summary:  "create candidate must not carry an identity",
			})
		}
		diags = diags.Extend(validate.Job(op.Candidate))

	case model.OpModify:
		needTarget()
		if op.Candidate == nil {
			return diags.Append(missingCandidate(op.Kind)), nil
		}
		diags = diags.Extend(validate.Job(op.Candidate))
		diags = diags.Extend(validate.ModifyIdentity(op.Target, op.Candidate))

	case model.OpRun:
		needTarget()
		if op.Target == "" {
			return diags, nil
		}
		spec, err := m.catalog.Definition(ctx, op.Target)
		if err != nil {
			return nil, fmt.Errorf("loading definition for run validation: %w", err)
		}
		diags = diags.Extend(validate.RunOptions(spec, op.RunOptions))

	case model.OpDelete, model.OpEnable, model.OpDisable,
		model.OpEnableSchedule, model.OpDisableSchedule:
		needTarget()

	case model.OpAbort, model.OpRetry:
		if op.Execution == "" {
			diags = diags.Append(&model.Diagnostic{
				Severity: model.DiagError,
				Code:     model.CodeValidation,
				Summary:  fmt.Sprintf("%s operation has no execution id", op.Kind),
			})
		}

	case model.OpSetSystemMode:
		if op.Mode != model.ModeActive && op.Mode != model.ModePassive {
			diags = diags.Append(&model.Diagnostic{
				Severity: model.DiagError,
				Code:     model.CodeValidation,
				Summary:  fmt.Sprintf("unknown execution mode %q", op.Mode),
			})
		}
	}

	return diags, nil
}

func (m *Manager) apply(ctx context.Context, logger *slog.Logger, op model.Operation) (*model.Outcome, error) {
	switch op.Kind {
	case model.OpCreate:
		id, err := m.transport.Submit(ctx, op.Candidate)
		if err != nil {
			return nil, fmt.Errorf("submitting %q: %w", op.Candidate.QualifiedName(), err)
		}
		return applied(id, "", "created job %q as %s", op.Candidate.QualifiedName(), id), nil

	case model.OpModify:
		unlock := m.lockIdentity(op.Target)
		defer unlock()

		logger.Debug("Replacing definition.", "identity", string(op.Target))
		if err := m.transport.Delete(ctx, op.Target); err != nil {
			return nil, fmt.Errorf("deleting %s before recreate: %w", op.Target, err)
		}
		id, err := m.transport.Submit(ctx, op.Candidate)
		if err != nil {
			return nil, &PartialModifyError{Identity: op.Target, Cause: err}
		}
		return applied(id, "", "replaced definition of %q, identity %s preserved", op.Candidate.QualifiedName(), id), nil

	case model.OpDelete:
		unlock := m.lockIdentity(op.Target)
		defer unlock()

		if err := m.transport.Delete(ctx, op.Target); err != nil {
			return nil, fmt.Errorf("deleting %s: %w", op.Target, err)
		}
		return applied(op.Target, "", "permanently deleted job %s", op.Target), nil

	case model.OpEnable, model.OpDisable:
		enable := op.Kind == model.OpEnable
		if err := m.transport.SetEnabled(ctx, op.Target, enable); err != nil {
			return nil, fmt.Errorf("setting enabled=%t on %s: %w", enable, op.Target, err)
		}
		return applied(op.Target, "", "set job %s enabled=%t", op.Target, enable), nil

	case model.OpEnableSchedule, model.OpDisableSchedule:
		enable := op.Kind == model.OpEnableSchedule
		if err := m.transport.SetScheduleEnabled(ctx, op.Target, enable); err != nil {
			return nil, fmt.Errorf("setting schedule enabled=%t on %s: %w", enable, op.Target, err)
		}
		return applied(op.Target, "", "set schedule of job %s enabled=%t", op.Target, enable), nil

	case model.OpRun:
		exec, err := m.transport.Run(ctx, op.Target, op.RunOptions, op.NodeFilter)
		if err != nil {
			return nil, fmt.Errorf("running %s: %w", op.Target, err)
		}
		return applied(op.Target, exec, "started execution %s of job %s", exec, op.Target), nil

	case model.OpAbort:
		if err := m.transport.Abort(ctx, op.Execution); err != nil {
			return nil, fmt.Errorf("aborting execution %s: %w", op.Execution, err)
		}
		return applied("", op.Execution, "aborted execution %s", op.Execution), nil

	case model.OpRetry:
		exec, err := m.transport.Retry(ctx, op.Execution)
		if err != nil {
			return nil, fmt.Errorf("retrying execution %s: %w", op.Execution, err)
		}
		return applied("", exec, "retried execution %s as %s", op.Execution, exec), nil

	case model.OpSetSystemMode:
		if err := m.transport.SetExecutionMode(ctx, op.Mode); err != nil {
			return nil, fmt.Errorf("setting execution mode %s: %w", op.Mode, err)
		}
		return applied("", "", "switched system execution mode to %s", op.Mode), nil
	}

	return nil, fmt.Errorf("unsupported operation kind %q", op.Kind)
}

// lockIdentity serializes definition-destroying operations on one identity.
// Callers are expected to serialize too; this is the local guard.
func (m *Manager) lockIdentity(id model.Identity) func() {
	m.mu.Lock()
	lock, ok := m.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		m.locks[id] = lock
	}
	m.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}

func applied(id model.Identity, exec model.ExecutionID, format string, args ...any) *model.Outcome {
	return &model.Outcome{
		Status:    model.StatusApplied,
		Identity:  id,
		Execution: exec,
		Summary:   fmt.Sprintf(format, args...),
	}
}

func missingCandidate(kind model.OperationKind) *model.Diagnostic {
	return &model.Diagnostic{
		Severity: model.DiagError,
		Code:     model.CodeValidation,
		Summary:  fmt.Sprintf("%s operation carries no candidate definition", kind),
	}
}

func formatRunOptions(values map[string]string) string {
	if len(values) == 0 {
		return "no options"
	}
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+values[k])
	}
	return strings.Join(parts, " ")
}
