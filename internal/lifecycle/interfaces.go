package lifecycle

import (
	"context"

	"github.com/vk/jobforge/internal/model"
)

// Transport is the mutating half of the orchestrator connection. Everything
// here changes external state, so nothing here is reachable before the risk
// gate clears the operation.
type Transport interface {
	// Submit uploads a definition and returns the identity the
	// orchestrator assigned (or kept, when the definition carries one).
	Submit(ctx context.Context, spec *model.JobSpec) (model.Identity, error)

	// Delete permanently removes the job behind the identity.
	Delete(ctx context.Context, id model.Identity) error

	// Run starts an execution with the given option values and an
	// optional node filter override.
	Run(ctx context.Context, id model.Identity, options map[string]string, nodeFilter string) (model.ExecutionID, error)

	// Abort interrupts a running execution.
	Abort(ctx context.Context, exec model.ExecutionID) error

	// Retry repeats a finished execution and returns the new one.
	Retry(ctx context.Context, exec model.ExecutionID) (model.ExecutionID, error)

	// SetEnabled flips whether the job accepts executions.
	SetEnabled(ctx context.Context, id model.Identity, enabled bool) error

	// SetScheduleEnabled flips whether the job's schedule fires.
	SetScheduleEnabled(ctx context.Context, id model.Identity, enabled bool) error

	// SetExecutionMode flips the system-wide execution switch.
	SetExecutionMode(ctx context.Context, mode model.ExecutionMode) error
}

// Catalog is the read-only half of the orchestrator connection. Previews and
// validations use it freely: nothing behind this interface mutates.
type Catalog interface {
	// Definition fetches the current definition behind an identity.
	Definition(ctx context.Context, id model.Identity) (*model.JobSpec, error)

	// ExecutionStatus fetches the state of one run.
	ExecutionStatus(ctx context.Context, exec model.ExecutionID) (*model.ExecutionStatus, error)
}
