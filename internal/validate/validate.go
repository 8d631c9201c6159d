// Package validate performs the structural and semantic checks that gate a
// compiled job before anything leaves the process. Checks are collect-all:
// one pass reports every violation, in the order the spec's parts are
// declared, so a fix round addresses all of them at once.
package validate

import (
	"fmt"
	"strings"

	"github.com/vk/jobforge/internal/model"
	"github.com/vk/jobforge/internal/rewrite"
)

// Job checks a compiled spec. Errors make the spec unsubmittable; warnings
// are advisory.
func Job(spec *model.JobSpec) model.Diagnostics {
	var diags model.Diagnostics

	if strings.TrimSpace(spec.Name) == "" {
		diags = diags.Append(errf("", "job name is empty"))
	}
	if len(spec.Steps) == 0 {
		diags = diags.Append(errf("", "job has no steps"))
	}
	if spec.Schedule != nil && strings.TrimSpace(spec.Schedule.Crontab) == "" {
		diags = diags.Append(errf("schedule", "schedule is present but its crontab is empty"))
	}

	declared := make(map[string]model.OptionDef, len(spec.Options))
	normalized := make(map[string]string, len(spec.Options))
	for _, opt := range spec.Options {
		if _, dup := declared[opt.Name]; dup {
			diags = diags.Append(errf(
				fmt.Sprintf("option %q", opt.Name),
				"option name %q is declared more than once", opt.Name,
			))
			continue
		}
		declared[opt.Name] = opt
		normalized[normalizeName(opt.Name)] = opt.Name

		if opt.Enforced() && opt.Default != "" && !opt.Allows(opt.Default) {
			diags = diags.Append(errf(
				fmt.Sprintf("option %q", opt.Name),
				"default %q is not among the enforced values", opt.Default,
			))
		}
	}

	referenced := make(map[string]bool)
	reportedMissing := make(map[string]bool)
	for i, step := range spec.Steps {
		if strings.TrimSpace(step.Description) == "" {
			diags = diags.Append(errf(fmt.Sprintf("step[%d]", i), "step has no description"))
		}

		for _, name := range stepReferences(step) {
			resolved, ok := resolveReference(name, declared, normalized)
			if !ok {
				if !reportedMissing[name] {
					reportedMissing[name] = true
					diags = diags.Append(errf(
						fmt.Sprintf("step[%d]", i),
						"option reference %q has no declared option", name,
					))
				}
				continue
			}
			referenced[resolved] = true
		}
	}

	for _, opt := range spec.Options {
		if !referenced[opt.Name] {
			diags = diags.Append(&model.Diagnostic{
				Severity: model.DiagWarning,
				Code:     model.CodeValidation,
				Summary:  fmt.Sprintf("option %q is declared but never referenced", opt.Name),
				Subject:  fmt.Sprintf("option %q", opt.Name),
			})
		}
	}

	return diags
}

// ModifyIdentity checks the one rule a modification may never break: the
// candidate must carry the prior identity unchanged. The check is
// independent of every other validation.
func ModifyIdentity(prior model.Identity, candidate *model.JobSpec) model.Diagnostics {
	var diags model.Diagnostics
	if candidate.ID == prior {
		return diags
	}
	return diags.Append(&model.Diagnostic{
		Severity: model.DiagError,
		Code:     model.CodeIdentityMismatch,
		Summary:  fmt.Sprintf("candidate carries identity %q but the operation targets %q", candidate.ID, prior),
		Detail:   "modification replaces the definition behind an identity; it never changes the identity itself",
	})
}

// RunOptions checks runtime option values against the declarations: required
// options must be present and enforced options only accept listed values.
func RunOptions(spec *model.JobSpec, values map[string]string) model.Diagnostics {
	var diags model.Diagnostics
	for _, opt := range spec.Options {
		v, given := values[opt.Name]
		if !given {
			if opt.Required && opt.Default == "" {
				diags = diags.Append(errf(
					fmt.Sprintf("option %q", opt.Name),
					"required option %q has no value", opt.Name,
				))
			}
			continue
		}
		if !opt.Allows(v) {
			diags = diags.Append(errf(
				fmt.Sprintf("option %q", opt.Name),
				"value %q is not among the enforced values for option %q", v, opt.Name,
			))
		}
	}
	for name := range values {
		if _, ok := spec.Option(name); !ok {
			diags = diags.Append(errf(
				fmt.Sprintf("option %q", name),
				"run value given for undeclared option %q", name,
			))
		}
	}
	return diags
}

func stepReferences(step model.Step) []string {
	names := rewrite.References(step.Payload)
	for _, v := range step.PluginConfig {
		names = append(names, rewrite.References(v)...)
	}
	return names
}

// resolveReference matches a collected reference against the declarations.
// References that arrive through the environment form lose their original
// casing and punctuation, so a normalized comparison backs up the direct one.
func resolveReference(name string, declared map[string]model.OptionDef, normalized map[string]string) (string, bool) {
	if _, ok := declared[name]; ok {
		return name, true
	}
	if orig, ok := normalized[normalizeName(name)]; ok {
		return orig, true
	}
	return "", false
}

func normalizeName(name string) string {
	lower := strings.ToLower(name)
	return strings.Map(func(r rune) rune {
		if r == '-' || r == '.' {
			return '_'
		}
		return r
	}, lower)
}

func errf(subject, format string, args ...any) *model.Diagnostic {
	return &model.Diagnostic{
		Severity: model.DiagError,
		Code:     model.CodeValidation,
		Summary:  fmt.Sprintf(format, args...),
		Subject:  subject,
	}
}
