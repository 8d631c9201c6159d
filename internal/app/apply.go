package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/vk/jobforge/internal/lifecycle"
	"github.com/vk/jobforge/internal/model"
	"github.com/vk/jobforge/internal/risk"
	"github.com/vk/jobforge/internal/rundeck"
)

// apply pushes the compiled specs to the configured server. Existing jobs
// are matched by qualified name and replaced; everything else is created.
func (a *App) apply(ctx context.Context, cfg *Config, specs []*model.JobSpec) error {
	servers, err := rundeck.LoadServers()
	if err != nil {
		return fmt.Errorf("failed to configure servers: %w", err)
	}
	endpoint, err := servers.Resolve(cfg.Server)
	if err != nil {
		return err
	}

	client := rundeck.NewClient(endpoint, a.codec)
	defer client.Close()
	a.logger.Info("Applying jobs.", "server", endpoint.Name, "url", endpoint.URL)

	manager := lifecycle.New(client, client, risk.New(risk.DefaultTable()))

	existing := make(map[string]map[string]model.Identity)
	failed := 0
	for _, spec := range specs {
		byName, err := a.projectIndex(ctx, client, existing, spec.Project)
		if err != nil {
			return err
		}

		op := model.Operation{
			Kind:      model.OpCreate,
			Candidate: spec,
			Confirmed: cfg.AutoConfirm,
		}
		if id, found := byName[spec.QualifiedName()]; found {
			spec.ID = id
			op.Kind = model.OpModify
			op.Target = id
		}

		outcome, err := manager.Execute(ctx, op)
		if err != nil {
			failed++
			fmt.Fprintf(a.outW, "✗ %s: %v\n", spec.QualifiedName(), err)
			continue
		}
		if outcome.Status == model.StatusRejected {
			failed++
		}
		a.printOutcome(spec.QualifiedName(), outcome)
	}

	if failed > 0 {
		return fmt.Errorf("apply failed for %d of %d jobs", failed, len(specs))
	}
	return nil
}

// projectIndex lists a project's jobs once and caches the qualified-name to
// identity mapping for every spec targeting it.
func (a *App) projectIndex(ctx context.Context, client *rundeck.Client, cache map[string]map[string]model.Identity, project string) (map[string]model.Identity, error) {
	if byName, ok := cache[project]; ok {
		return byName, nil
	}

	jobs, err := client.ListJobs(ctx, project)
	if err != nil {
		return nil, fmt.Errorf("indexing project %q: %w", project, err)
	}
	byName := make(map[string]model.Identity, len(jobs))
	for _, job := range jobs {
		byName[job.QualifiedName()] = job.ID
	}
	cache[project] = byName
	return byName, nil
}

func (a *App) printOutcome(name string, outcome *model.Outcome) {
	switch outcome.Status {
	case model.StatusApplied:
		fmt.Fprintf(a.outW, "✔ %s: %s\n", name, outcome.Summary)

	case model.StatusPreview:
		fmt.Fprintf(a.outW, "⏸ %s [%s risk: %s]\n  %s\n  rerun with -confirm to apply\n",
			name, outcome.Risk.Level, strings.Join(outcome.Risk.Reasons, ", "), outcome.Summary)

	case model.StatusRejected:
		fmt.Fprintf(a.outW, "✗ %s rejected: %s\n", name, outcome.Summary)
	}
}
