package builder

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/vk/jobforge/internal/capability"
	"github.com/vk/jobforge/internal/classify"
	"github.com/vk/jobforge/internal/ctxlog"
	"github.com/vk/jobforge/internal/model"
	"github.com/vk/jobforge/internal/rewrite"
	"github.com/vk/jobforge/internal/segment"
)

// Options tune the builder.
type Options struct {
	// MaxScriptLines is the segmenter's forced-split threshold.
	MaxScriptLines int

	// Workers bounds concurrent fragment compilation.
	Workers int
}

// Builder compiles requests into job definitions.
type Builder struct {
	classifier *classify.Classifier
	segmenter  *segment.Segmenter
	workers    int
}

// New creates a Builder backed by the given capability catalog.
func New(caps *capability.Registry, opts Options) *Builder {
	workers := opts.Workers
	if workers <= 0 {
		workers = 4
	}
	return &Builder{
		classifier: classify.New(caps),
		segmenter:  segment.New(caps, opts.MaxScriptLines),
		workers:    workers,
	}
}

// Compile turns a request into a job definition. Compilation is collect-all:
// the returned diagnostics hold every problem found across every fragment,
// and the spec is only usable when they contain no errors.
func (b *Builder) Compile(ctx context.Context, req model.CompileRequest) (*model.JobSpec, model.Diagnostics) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Compiling request.", "name", req.Name, "fragments", len(req.Fragments))

	spec := &model.JobSpec{
		Name:        req.Name,
		Group:       req.Group,
		Project:     req.Project,
		Description: req.Description,
		Options:     req.Options,
		Schedule:    req.Schedule,
		NodeFilter:  req.NodeFilter,
		Dispatch:    req.Dispatch,
	}

	steps := make([][]model.Step, len(req.Fragments))
	fragDiags := make([]model.Diagnostics, len(req.Fragments))

	// Fragments are independent; compile them concurrently and slot the
	// results by index so step order follows fragment order exactly.
	var g errgroup.Group
	g.SetLimit(b.workers)
	for i, frag := range req.Fragments {
		i, frag := i, frag
		g.Go(func() error {
			steps[i], fragDiags[i] = b.compileFragment(frag)
			return nil
		})
	}
	_ = g.Wait()

	var diags model.Diagnostics
	for i := range req.Fragments {
		for _, d := range fragDiags[i] {
			if d.Subject == "" {
				d.Subject = fmt.Sprintf("fragment[%d]", i)
			}
		}
		diags = diags.Extend(fragDiags[i])
		spec.Steps = append(spec.Steps, steps[i]...)
	}

	logger.Debug("Compilation finished.",
		"name", req.Name,
		"steps", len(spec.Steps),
		"errors", len(diags.Errs()),
		"warnings", len(diags.Warnings()),
	)
	return spec, diags
}

func (b *Builder) compileFragment(frag model.Fragment) ([]model.Step, model.Diagnostics) {
	var diags model.Diagnostics

	if strings.TrimSpace(frag.Text) == "" {
		return nil, diags.Append(&model.Diagnostic{
			Severity: model.DiagError,
			Code:     model.CodeValidation,
			Summary:  "fragment is empty",
		})
	}

	decision := b.classifier.Classify(frag)
	diags = diags.Extend(decision.Diags)

	switch decision.Kind {
	case model.KindExec:
		step, d := buildExecStep(frag.Text)
		return []model.Step{step}, diags.Extend(d)

	case model.KindPlugin:
		step, d := buildPluginStep(decision.Capability, strings.TrimSpace(frag.Text), "")
		return []model.Step{step}, diags.Extend(d)

	default:
		steps, d := b.buildScriptSteps(frag.Text)
		return steps, diags.Extend(d)
	}
}

func buildExecStep(text string) (model.Step, model.Diagnostics) {
	payload := strings.TrimSpace(text)
	rr := rewrite.ForKind(model.KindExec, payload)
	return model.Step{
		Description: firstLineSummary(rr.Payload),
		Kind:        model.KindExec,
		Payload:     rr.Payload,
		NodeStep:    true,
	}, rr.Diags
}

func buildPluginStep(cap *capability.Capability, payload, title string) (model.Step, model.Diagnostics) {
	rr := rewrite.ForKind(model.KindPlugin, payload)
	desc := title
	if desc == "" {
		desc = cap.Describe(rr.Payload)
	}
	return model.Step{
		Description:  desc,
		Kind:         model.KindPlugin,
		Payload:      rr.Payload,
		NodeStep:     cap.NodeStep,
		PluginType:   cap.Type,
		PluginConfig: cap.Config(rr.Payload),
	}, rr.Diags
}

// buildScriptSteps hoists the interpreter directive, segments the remainder
// into phases, and emits one step per phase. Phases that matched a
// capability come back as plugin steps; everything else is a script step
// tagged with the fragment's interpreter.
func (b *Builder) buildScriptSteps(text string) ([]model.Step, model.Diagnostics) {
	var diags model.Diagnostics

	interp := classify.InterpreterDirective(text)
	body := classify.StripInterpreterDirective(text)

	phases, segDiags := b.segmenter.Split(body)
	diags = diags.Extend(segDiags)

	if len(phases) == 0 {
		return nil, diags.Append(&model.Diagnostic{
			Severity: model.DiagError,
			Code:     model.CodeValidation,
			Summary:  "script fragment has no content",
		})
	}

	needsInterpreter := false
	for _, p := range phases {
		if p.Capability == nil {
			needsInterpreter = true
			break
		}
	}
	if needsInterpreter && interp == "" {
		var ok bool
		interp, ok = inferInterpreter(body)
		if !ok {
			diags = diags.Append(&model.Diagnostic{
				Severity: model.DiagError,
				Code:     model.CodeInterpreterRequired,
				Summary:  "cannot determine the script interpreter",
				Detail:   "add a #! directive to the fragment; interpreters are never guessed from a default",
			})
		}
	}

	var steps []model.Step
	for _, p := range phases {
		if p.Capability != nil {
			step, d := buildPluginStep(p.Capability, p.Body, p.Title)
			steps = append(steps, step)
			diags = diags.Extend(d)
			continue
		}

		rr := rewrite.ForKind(model.KindScript, p.Body)
		diags = diags.Extend(rr.Diags)
		desc := p.Title
		if desc == "" {
			desc = firstLineSummary(rr.Payload)
		}
		steps = append(steps, model.Step{
			Description: desc,
			Kind:        model.KindScript,
			Payload:     rr.Payload,
			Interpreter: interp,
			NodeStep:    true,
		})
	}
	return steps, diags
}

// firstLineSummary derives a step description from the first code line of a
// payload.
func firstLineSummary(payload string) string {
	for _, line := range strings.Split(payload, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		if len(trimmed) > 60 {
			return trimmed[:57] + "..."
		}
		return trimmed
	}
	return "Run script"
}
