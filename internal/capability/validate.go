package capability

import (
	"context"
	"fmt"
	"strings"

	"github.com/vk/jobforge/internal/ctxlog"
	"github.com/vk/jobforge/internal/model"
)

// Validate performs a strict completeness check over the catalog. Every
// registered capability must be fully wired before the pipeline starts, so a
// fragment can never classify into a family the encoder cannot express.
func (r *Registry) Validate(ctx context.Context) error {
	var errs []string
	logger := ctxlog.FromContext(ctx)

	seen := make(map[int]model.PluginType)
	for _, c := range r.Ordered() {
		if c.Type == "" {
			errs = append(errs, "capability registered with empty type")
			continue
		}
		if c.Match == nil {
			errs = append(errs, fmt.Sprintf("capability '%s': no matcher registered", c.Type))
		}
		if c.Config == nil {
			errs = append(errs, fmt.Sprintf("capability '%s': no configuration builder registered", c.Type))
		}
		if c.Describe == nil {
			errs = append(errs, fmt.Sprintf("capability '%s': no describer registered", c.Type))
		}
		if c.Provider == "" && c.Type != model.PluginJobReference {
			errs = append(errs, fmt.Sprintf("capability '%s': no provider id, and only job references encode natively", c.Type))
		}
		if prev, dup := seen[c.Priority]; dup {
			errs = append(errs, fmt.Sprintf("capability '%s': priority %d already used by '%s'", c.Type, c.Priority, prev))
		}
		seen[c.Priority] = c.Type
	}

	if len(errs) > 0 {
		return fmt.Errorf("capability catalog validation failed:\n- %s", strings.Join(errs, "\n- "))
	}

	logger.Debug("Capability catalog validated.", "capabilities", len(r.byType))
	return nil
}
