package app

import (
	"context"
	"fmt"

	"github.com/vk/jobforge/internal/ctxlog"
	"github.com/vk/jobforge/internal/model"
	"github.com/vk/jobforge/internal/validate"
)

// Run executes the main application logic based on the provided
// configuration: load manifests, compile every job, and either print the
// plan or apply it against the configured server.
func (a *App) Run(ctx context.Context, cfg *Config) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if cfg.HealthcheckPort > 0 {
		a.startHealthcheckServer(cfg.HealthcheckPort)
	}

	requests, err := a.loader.Load(ctx, cfg.ManifestPath)
	if err != nil {
		return fmt.Errorf("failed to load manifests: %w", err)
	}
	if len(requests) == 0 {
		a.logger.Warn("No job blocks found, nothing to do.", "path", cfg.ManifestPath)
		return nil
	}

	a.logger.Info("🚀 Compiling jobs...", "count", len(requests))
	specs, failed := a.compileAll(ctx, requests)
	if failed > 0 {
		return fmt.Errorf("compilation failed for %d of %d jobs", failed, len(requests))
	}
	a.logger.Info("🏁 Compilation finished.", "jobs", len(specs))

	if !cfg.Apply {
		return a.printPlan(specs)
	}
	return a.apply(ctx, cfg, specs)
}

// compileAll runs every request through the builder and the validator,
// reporting diagnostics as it goes. All requests are compiled even when an
// early one fails, so one run surfaces every problem.
func (a *App) compileAll(ctx context.Context, requests []model.CompileRequest) ([]*model.JobSpec, int) {
	var specs []*model.JobSpec
	failed := 0

	for _, req := range requests {
		spec, diags := a.builder.Compile(ctx, req)
		diags = diags.Extend(validate.Job(spec))

		for _, d := range diags.Warnings() {
			a.logger.Warn(d.Summary, "job", req.Name, "code", string(d.Code), "subject", d.Subject)
		}
		if diags.HasErrors() {
			failed++
			for _, e := range diags.Errs() {
				fmt.Fprintf(a.outW, "✗ %s: %v\n", req.Name, e)
			}
			continue
		}
		specs = append(specs, spec)
	}
	return specs, failed
}

// printPlan renders the compiled specs and the risk verdicts of the
// operations an apply would perform, without touching any server.
func (a *App) printPlan(specs []*model.JobSpec) error {
	for _, spec := range specs {
		doc, err := a.codec.EncodeYAML([]*model.JobSpec{spec})
		if err != nil {
			return fmt.Errorf("encoding %q: %w", spec.QualifiedName(), err)
		}
		fmt.Fprintf(a.outW, "# job %q: %d steps\n%s\n", spec.QualifiedName(), len(spec.Steps), doc)
	}
	return nil
}
