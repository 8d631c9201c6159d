package classify

import (
	"fmt"
	"strings"

	"github.com/vk/jobforge/internal/capability"
	"github.com/vk/jobforge/internal/model"
)

// Decision is the classifier's verdict on one fragment.
type Decision struct {
	Kind model.StepKind

	// Capability is set when Kind is KindPlugin.
	Capability *capability.Capability

	// Rule names the policy table entry that produced the verdict.
	Rule string

	// Diags carries advisory findings such as an ignored impossible hint.
	Diags model.Diagnostics
}

// Classifier assigns a step kind to free-text fragments.
type Classifier struct {
	caps *capability.Registry
}

// New creates a Classifier backed by the given capability catalog.
func New(caps *capability.Registry) *Classifier {
	return &Classifier{caps: caps}
}

// Hint values that name a kind directly rather than a capability, plus the
// jobref shorthand for the job-reference capability.
const (
	HintScript = "script"
	HintExec   = "exec"
	HintJobRef = "jobref"
)

// Classify runs the fragment through the policy table and returns the first
// matching verdict. The table order is fixed: interpreter directive, hint
// bias, capability patterns, shell structure, single command line, and
// finally the script default.
func (c *Classifier) Classify(frag model.Fragment) Decision {
	text := frag.Text
	hint := strings.ToLower(strings.TrimSpace(frag.Hint))

	// Rule 1: an interpreter directive makes the fragment a script no
	// matter what else it contains.
	if HasInterpreterDirective(text) {
		return Decision{Kind: model.KindScript, Rule: "interpreter-directive"}
	}

	// Rule 2: an explicit hint gets first refusal, but only when the text
	// can actually be what the hint claims.
	if hint != "" {
		if d, ok := c.applyHint(hint, text); ok {
			return d
		}
		diag := &model.Diagnostic{
			Severity: model.DiagWarning,
			Code:     model.CodeClassificationAmbiguity,
			Summary:  fmt.Sprintf("hint %q does not fit the fragment text", frag.Hint),
			Detail:   "the hint was ignored and the fragment was classified by content",
		}
		d := c.classifyByContent(text)
		d.Diags = d.Diags.Append(diag)
		return d
	}

	return c.classifyByContent(text)
}

func (c *Classifier) applyHint(hint, text string) (Decision, bool) {
	switch hint {
	case HintScript:
		return Decision{Kind: model.KindScript, Rule: "hint"}, true
	case HintExec:
		if IsSimpleCommandLine(text) {
			return Decision{Kind: model.KindExec, Rule: "hint"}, true
		}
		return Decision{}, false
	case HintJobRef:
		hint = string(model.PluginJobReference)
	}

	cap, ok := c.caps.ByType(model.PluginType(hint))
	if !ok || cap.Match == nil || !cap.Match(text) {
		return Decision{}, false
	}
	return Decision{Kind: model.KindPlugin, Capability: cap, Rule: "hint"}, true
}

func (c *Classifier) classifyByContent(text string) Decision {
	// Rule 3: capability patterns, in catalog priority order. This comes
	// before the shell-structure rule so statement terminators inside a
	// query never drag it into script territory.
	if cap, ok := c.caps.Detect(text); ok {
		return Decision{Kind: model.KindPlugin, Capability: cap, Rule: "capability:" + string(cap.Type)}
	}

	// Rule 4: anything with shell structure needs a shell to run it.
	if HasShellStructure(text) {
		return Decision{Kind: model.KindScript, Rule: "shell-structure"}
	}

	// Rule 5: one simple line is a direct command invocation.
	if IsSimpleCommandLine(text) {
		return Decision{Kind: model.KindExec, Rule: "single-command"}
	}

	// Rule 6: the default is script, never exec.
	return Decision{Kind: model.KindScript, Rule: "default"}
}
