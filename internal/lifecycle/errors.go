package lifecycle

import (
	"fmt"

	"github.com/vk/jobforge/internal/model"
)

// PartialModifyError reports the half-applied modification: the old
// definition was deleted but the replacement was not accepted, so the job no
// longer exists. Recovery is a caller decision; the manager never retries
// the recreate on its own.
type PartialModifyError struct {
	// Identity of the job that was deleted.
	Identity model.Identity

	// Cause is the submit failure that followed the successful delete.
	Cause error
}

func (e *PartialModifyError) Error() string {
	return fmt.Sprintf("job %s was deleted but recreating it failed: %v", e.Identity, e.Cause)
}

func (e *PartialModifyError) Unwrap() error {
	return e.Cause
}
