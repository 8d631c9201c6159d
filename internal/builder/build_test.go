package builder

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/vk/jobforge/internal/capability"
	"github.com/vk/jobforge/internal/model"
	"github.com/vk/jobforge/internal/testutil"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestBuilder(workers int) *Builder {
	return New(capability.Default(), Options{Workers: workers})
}

func TestCompile_MixedFragments(t *testing.T) {
	b := newTestBuilder(0)

	req := model.CompileRequest{
		Name:    "nightly-maintenance",
		Group:   "ops",
		Project: "platform",
		Fragments: []model.Fragment{
			{Text: "uptime"},
			{Text: "SELECT count(*) FROM users;"},
			{Text: "#!/bin/bash\necho one\necho two"},
			{Text: "job: ops/cleanup"},
		},
	}

	spec, diags := b.Compile(testutil.Context(), req)

	require.False(t, diags.HasErrors(), "diags: %v", diags)
	require.Len(t, spec.Steps, 4)

	assert.Equal(t, model.KindExec, spec.Steps[0].Kind)
	assert.Equal(t, "uptime", spec.Steps[0].Payload)
	assert.Equal(t, "uptime", spec.Steps[0].Description)
	assert.True(t, spec.Steps[0].NodeStep)

	assert.Equal(t, model.KindPlugin, spec.Steps[1].Kind)
	assert.Equal(t, model.PluginDataQuery, spec.Steps[1].PluginType)
	assert.Equal(t, "Execute SELECT statement", spec.Steps[1].Description)
	assert.Equal(t, "SELECT count(*) FROM users;", spec.Steps[1].PluginConfig["scriptBody"])

	assert.Equal(t, model.KindScript, spec.Steps[2].Kind)
	assert.Equal(t, "bash", spec.Steps[2].Interpreter)
	assert.Equal(t, "echo one\necho two", spec.Steps[2].Payload)
	assert.Equal(t, "echo one", spec.Steps[2].Description)

	assert.Equal(t, model.KindPlugin, spec.Steps[3].Kind)
	assert.Equal(t, model.PluginJobReference, spec.Steps[3].PluginType)
	assert.Equal(t, "ops/cleanup", spec.Steps[3].PluginConfig["reference"])
}

func TestCompile_StepOrderFollowsFragmentOrder(t *testing.T) {
	// Two workers force interleaved completion; the result order must still
	// follow the fragment order exactly.
	b := newTestBuilder(2)

	var frags []model.Fragment
	for i := 0; i < 16; i++ {
		frags = append(frags, model.Fragment{Text: fmt.Sprintf("cmd-%d", i)})
	}

	spec, diags := b.Compile(testutil.Context(), model.CompileRequest{
		Name:      "ordered",
		Project:   "platform",
		Fragments: frags,
	})

	require.False(t, diags.HasErrors())
	require.Len(t, spec.Steps, 16)
	for i, step := range spec.Steps {
		assert.Equal(t, fmt.Sprintf("cmd-%d", i), step.Payload, "step %d", i)
	}
}

func TestCompile_InterpreterInference(t *testing.T) {
	testCases := []struct {
		name        string
		text        string
		expected    string
		expectError bool
	}{
		{
			name:     "directive wins without inference",
			text:     "#!/usr/bin/env python3\nwhatever this is\nacross lines",
			expected: "python3",
		},
		{
			name:     "python inferred from markers",
			text:     "import sys\nprint(len(sys.argv))",
			expected: "python3",
		},
		{
			name:     "bash inferred from markers",
			text:     "set -eu\necho starting\nexport MODE=fast",
			expected: "bash",
		},
		{
			name:        "tied scores are a hard error",
			text:        "print('x')\nconsole.log('x')",
			expectError: true,
		},
		{
			name:        "no markers at all is a hard error",
			text:        "frobnicate the widget\nreticulate splines",
			expectError: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			b := newTestBuilder(0)
			spec, diags := b.Compile(testutil.Context(), model.CompileRequest{
				Name:      "inference",
				Project:   "platform",
				Fragments: []model.Fragment{{Text: tc.text}},
			})

			if tc.expectError {
				require.True(t, diags.HasErrors())
				errs := diags.Errs()
				require.Len(t, errs, 1)
				diag := errs[0].(*model.Diagnostic)
				assert.Equal(t, model.CodeInterpreterRequired, diag.Code)
				return
			}

			require.False(t, diags.HasErrors(), "diags: %v", diags)
			require.NotEmpty(t, spec.Steps)
			for _, step := range spec.Steps {
				if step.Kind == model.KindScript {
					assert.Equal(t, tc.expected, step.Interpreter)
				}
			}
		})
	}
}

func TestCompile_EmptyFragment(t *testing.T) {
	b := newTestBuilder(0)

	_, diags := b.Compile(testutil.Context(), model.CompileRequest{
		Name:      "empty",
		Project:   "platform",
		Fragments: []model.Fragment{{Text: "uptime"}, {Text: "   \n "}},
	})

	require.True(t, diags.HasErrors())
	errs := diags.Errs()
	require.Len(t, errs, 1)
	diag := errs[0].(*model.Diagnostic)
	assert.Equal(t, model.CodeValidation, diag.Code)
	assert.Equal(t, "fragment[1]", diag.Subject)
}

func TestCompile_CollectsAcrossFragments(t *testing.T) {
	// Both broken fragments must be reported in one pass.
	b := newTestBuilder(0)

	_, diags := b.Compile(testutil.Context(), model.CompileRequest{
		Name:    "collect-all",
		Project: "platform",
		Fragments: []model.Fragment{
			{Text: ""},
			{Text: "uptime"},
			{Text: "frobnicate the widget\nreticulate splines"},
		},
	})

	require.True(t, diags.HasErrors())
	require.Len(t, diags.Errs(), 2)
}

func TestCompile_SegmentedScriptSharesInterpreter(t *testing.T) {
	b := newTestBuilder(0)

	text := "#!/bin/bash\n# 1. Prepare\nmkdir -p /opt/build\n# 2. Announce\necho built"
	spec, diags := b.Compile(testutil.Context(), model.CompileRequest{
		Name:      "phased",
		Project:   "platform",
		Fragments: []model.Fragment{{Text: text}},
	})

	require.False(t, diags.HasErrors(), "diags: %v", diags)
	require.Len(t, spec.Steps, 2)

	assert.Equal(t, "Prepare", spec.Steps[0].Description)
	assert.Equal(t, "Announce", spec.Steps[1].Description)
	for _, step := range spec.Steps {
		assert.Equal(t, model.KindScript, step.Kind)
		assert.Equal(t, "bash", step.Interpreter)
	}
}

func TestCompile_BannerSplitSharesInterpreter(t *testing.T) {
	b := newTestBuilder(0)

	spec, diags := b.Compile(testutil.Context(), model.CompileRequest{
		Name:      "banner",
		Project:   "platform",
		Fragments: []model.Fragment{{Text: "#!/bin/bash\necho A\n====STAGE 2====\necho B"}},
	})

	require.False(t, diags.HasErrors(), "diags: %v", diags)
	require.Len(t, spec.Steps, 2)

	assert.Equal(t, "echo A", spec.Steps[0].Payload)
	assert.Equal(t, "echo B", spec.Steps[1].Payload)
	assert.Equal(t, "STAGE 2", spec.Steps[1].Description)
	for _, step := range spec.Steps {
		assert.Equal(t, model.KindScript, step.Kind)
		assert.Equal(t, "bash", step.Interpreter)
	}
}

func TestCompile_ScriptReferencesUseFileForm(t *testing.T) {
	b := newTestBuilder(0)

	spec, diags := b.Compile(testutil.Context(), model.CompileRequest{
		Name:    "forms",
		Project: "platform",
		Options: []model.OptionDef{{Name: "env"}},
		Fragments: []model.Fragment{
			{Text: "#!/bin/bash\necho deploying to ${option.env}"},
			{Text: "deploy-tool --env @option.env@"},
		},
	})

	require.False(t, diags.HasErrors(), "diags: %v", diags)
	require.Len(t, spec.Steps, 2)

	assert.Equal(t, model.KindScript, spec.Steps[0].Kind)
	assert.Contains(t, spec.Steps[0].Payload, "@option.env@")

	assert.Equal(t, model.KindExec, spec.Steps[1].Kind)
	assert.Contains(t, spec.Steps[1].Payload, "${option.env}")
}
