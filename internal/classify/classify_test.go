package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/jobforge/internal/capability"
	"github.com/vk/jobforge/internal/model"
)

func TestClassify(t *testing.T) {
	classifier := New(capability.Default())

	testCases := []struct {
		name         string
		text         string
		hint         string
		expectedKind model.StepKind
		expectedType model.PluginType
		expectedRule string
		expectWarn   bool
	}{
		{
			name:         "single command line",
			text:         "echo hello",
			expectedKind: model.KindExec,
			expectedRule: "single-command",
		},
		{
			name:         "interpreter directive wins over everything",
			text:         "#!/bin/bash\nSELECT * FROM users;",
			expectedKind: model.KindScript,
			expectedRule: "interpreter-directive",
		},
		{
			name:         "query with statement terminator stays a query",
			text:         "SELECT * FROM users WHERE active = 1;",
			expectedKind: model.KindPlugin,
			expectedType: model.PluginDataQuery,
			expectedRule: "capability:data-query",
		},
		{
			name:         "pipe forces shell structure",
			text:         "cat access.log | grep 500",
			expectedKind: model.KindScript,
			expectedRule: "shell-structure",
		},
		{
			name:         "multiple lines force shell structure",
			text:         "echo one\necho two",
			expectedKind: model.KindScript,
			expectedRule: "shell-structure",
		},
		{
			name:         "command substitution forces shell structure",
			text:         "echo $(hostname)",
			expectedKind: model.KindScript,
			expectedRule: "shell-structure",
		},
		{
			name:         "curl call",
			text:         "curl https://example.com/health",
			expectedKind: model.KindPlugin,
			expectedType: model.PluginOutboundCall,
			expectedRule: "capability:outbound-call",
		},
		{
			name:         "job reference",
			text:         "job: ops/nightly-backup",
			expectedKind: model.KindPlugin,
			expectedType: model.PluginJobReference,
			expectedRule: "capability:job-reference",
		},
		{
			name:         "package install",
			text:         "sudo apt-get install -y nginx",
			expectedKind: model.KindPlugin,
			expectedType: model.PluginConfigManagement,
			expectedRule: "capability:configuration-management",
		},
		{
			name:         "script hint always holds",
			text:         "echo hello",
			hint:         "script",
			expectedKind: model.KindScript,
			expectedRule: "hint",
		},
		{
			name:         "exec hint holds for a simple line",
			text:         "uptime",
			hint:         "exec",
			expectedKind: model.KindExec,
			expectedRule: "hint",
		},
		{
			name:         "exec hint cannot hold multi-line text",
			text:         "echo one\necho two",
			hint:         "exec",
			expectedKind: model.KindScript,
			expectedRule: "shell-structure",
			expectWarn:   true,
		},
		{
			name:         "capability hint holds when the pattern matches",
			text:         "DELETE FROM sessions WHERE expired = 1",
			hint:         "data-query",
			expectedKind: model.KindPlugin,
			expectedType: model.PluginDataQuery,
			expectedRule: "hint",
		},
		{
			name:         "capability hint falls back to content when impossible",
			text:         "uptime",
			hint:         "data-query",
			expectedKind: model.KindExec,
			expectedRule: "single-command",
			expectWarn:   true,
		},
		{
			name:         "jobref shorthand resolves to the job-reference capability",
			text:         "job: ops/nightly-backup",
			hint:         "jobref",
			expectedKind: model.KindPlugin,
			expectedType: model.PluginJobReference,
			expectedRule: "hint",
		},
		{
			name:         "blank text defaults to script",
			text:         "   \n  ",
			expectedKind: model.KindScript,
			expectedRule: "default",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			d := classifier.Classify(model.Fragment{Text: tc.text, Hint: tc.hint})

			assert.Equal(t, tc.expectedKind, d.Kind)
			assert.Equal(t, tc.expectedRule, d.Rule)

			if tc.expectedType != "" {
				require.NotNil(t, d.Capability)
				assert.Equal(t, tc.expectedType, d.Capability.Type)
			}

			if tc.expectWarn {
				require.Len(t, d.Diags.Warnings(), 1)
				assert.Equal(t, model.CodeClassificationAmbiguity, d.Diags.Warnings()[0].Code)
			} else {
				assert.Empty(t, d.Diags)
			}
			assert.False(t, d.Diags.HasErrors(), "classification never errors")
		})
	}
}

func TestInterpreterDirective(t *testing.T) {
	testCases := []struct {
		name     string
		text     string
		expected string
	}{
		{name: "absolute path", text: "#!/bin/bash\necho hi", expected: "bash"},
		{name: "env indirection", text: "#!/usr/bin/env python3\nprint('hi')", expected: "python3"},
		{name: "leading blank lines tolerated", text: "\n\n#!/bin/sh\nls", expected: "sh"},
		{name: "no directive", text: "echo hi", expected: ""},
		{name: "directive not on first line ignored", text: "echo hi\n#!/bin/bash", expected: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, InterpreterDirective(tc.text))
		})
	}
}

func TestStripInterpreterDirective(t *testing.T) {
	testCases := []struct {
		name     string
		text     string
		expected string
	}{
		{name: "strips the directive line", text: "#!/bin/bash\necho hi", expected: "echo hi"},
		{name: "directive only", text: "#!/bin/bash", expected: ""},
		{name: "no directive passes through", text: "echo hi\necho bye", expected: "echo hi\necho bye"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, StripInterpreterDirective(tc.text))
		})
	}
}
