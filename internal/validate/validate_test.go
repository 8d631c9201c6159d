package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/jobforge/internal/model"
)

func validSpec() *model.JobSpec {
	return &model.JobSpec{
		Name:    "nightly-report",
		Group:   "ops",
		Project: "platform",
		Options: []model.OptionDef{
			{Name: "env", Values: []string{"staging", "production"}, Default: "staging"},
		},
		Steps: []model.Step{
			{
				Description: "Generate report",
				Kind:        model.KindScript,
				Payload:     "report-gen --env @option.env@",
				Interpreter: "bash",
			},
		},
	}
}

func TestJob_ValidSpec(t *testing.T) {
	diags := Job(validSpec())
	assert.Empty(t, diags)
}

func TestJob_CollectsEveryProblem(t *testing.T) {
	// One pass must surface all four problems at once.
	spec := &model.JobSpec{
		Name:     "  ",
		Schedule: &model.Schedule{Crontab: ""},
		Options: []model.OptionDef{
			{Name: "region"},
			{Name: "region"},
		},
	}

	diags := Job(spec)

	require.True(t, diags.HasErrors())
	errs := diags.Errs()
	require.Len(t, errs, 4)
	assert.Contains(t, errs[0].Error(), "job name is empty")
	assert.Contains(t, errs[1].Error(), "job has no steps")
	assert.Contains(t, errs[2].Error(), "crontab is empty")
	assert.Contains(t, errs[3].Error(), "declared more than once")
}

func TestJob(t *testing.T) {
	testCases := []struct {
		name        string
		mutate      func(*model.JobSpec)
		expectedErr string
	}{
		{
			name: "enforced default outside the value set",
			mutate: func(s *model.JobSpec) {
				s.Options[0].Default = "sandbox"
			},
			expectedErr: `default "sandbox" is not among the enforced values`,
		},
		{
			name: "step without a description",
			mutate: func(s *model.JobSpec) {
				s.Steps[0].Description = ""
			},
			expectedErr: "step has no description",
		},
		{
			name: "undeclared reference in a payload",
			mutate: func(s *model.JobSpec) {
				s.Steps[0].Payload = "report-gen --env @option.env@ --day @option.day@"
			},
			expectedErr: `option reference "day" has no declared option`,
		},
		{
			name: "undeclared reference in a plugin config",
			mutate: func(s *model.JobSpec) {
				s.Steps = append(s.Steps, model.Step{
					Description:  "Query rows",
					Kind:         model.KindPlugin,
					PluginType:   model.PluginDataQuery,
					PluginConfig: map[string]string{"scriptBody": "SELECT * FROM t WHERE d = '${option.cutoff}'"},
				})
			},
			expectedErr: `option reference "cutoff" has no declared option`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			spec := validSpec()
			tc.mutate(spec)

			diags := Job(spec)

			require.True(t, diags.HasErrors())
			errs := diags.Errs()
			require.Len(t, errs, 1)
			assert.Contains(t, errs[0].Error(), tc.expectedErr)
		})
	}
}

func TestJob_EnvFormMatchesDeclaration(t *testing.T) {
	// $RD_OPTION_TARGET_HOST arrives lowercased; it must still resolve to
	// the declared "target-host" option instead of reporting it missing.
	spec := validSpec()
	spec.Options = append(spec.Options, model.OptionDef{Name: "target-host"})
	spec.Steps[0].Payload = "report-gen --env @option.env@ --host $RD_OPTION_TARGET_HOST"

	diags := Job(spec)

	assert.False(t, diags.HasErrors(), "diags: %v", diags)
	assert.Empty(t, diags.Warnings(), "the env reference should count as a use")
}

func TestJob_UnreferencedOptionWarns(t *testing.T) {
	spec := validSpec()
	spec.Options = append(spec.Options, model.OptionDef{Name: "unused"})

	diags := Job(spec)

	assert.False(t, diags.HasErrors())
	require.Len(t, diags.Warnings(), 1)
	assert.Contains(t, diags.Warnings()[0].Summary, `option "unused" is declared but never referenced`)
}

func TestJob_MissingReferenceReportedOnce(t *testing.T) {
	spec := validSpec()
	spec.Steps[0].Payload = "run @option.ghost@"
	spec.Steps = append(spec.Steps, model.Step{
		Description: "Second use",
		Kind:        model.KindExec,
		Payload:     "run ${option.ghost}",
	})

	diags := Job(spec)

	require.True(t, diags.HasErrors())
	assert.Len(t, diags.Errs(), 1, "the same missing name reports once, not per step")
}

func TestModifyIdentity(t *testing.T) {
	testCases := []struct {
		name      string
		prior     model.Identity
		candidate model.Identity
		expectErr bool
	}{
		{name: "matching identity passes", prior: "abc-123", candidate: "abc-123"},
		{name: "changed identity fails", prior: "abc-123", candidate: "def-456", expectErr: true},
		{name: "dropped identity fails", prior: "abc-123", candidate: "", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			spec := validSpec()
			spec.ID = tc.candidate

			diags := ModifyIdentity(tc.prior, spec)

			if !tc.expectErr {
				assert.Empty(t, diags)
				return
			}
			require.True(t, diags.HasErrors())
			assert.Equal(t, model.CodeIdentityMismatch, diags[0].Code)
		})
	}
}

func TestRunOptions(t *testing.T) {
	spec := &model.JobSpec{
		Name: "runner",
		Options: []model.OptionDef{
			{Name: "env", Required: true, Values: []string{"staging", "production"}},
			{Name: "verbose", Default: "false"},
		},
		Steps: []model.Step{{Description: "noop", Kind: model.KindExec, Payload: "true"}},
	}

	testCases := []struct {
		name        string
		values      map[string]string
		expectedErr string
	}{
		{
			name:   "valid values pass",
			values: map[string]string{"env": "staging"},
		},
		{
			name:        "missing required option",
			values:      map[string]string{},
			expectedErr: `required option "env" has no value`,
		},
		{
			name:        "enforced violation",
			values:      map[string]string{"env": "sandbox"},
			expectedErr: `value "sandbox" is not among the enforced values`,
		},
		{
			name:        "undeclared run value",
			values:      map[string]string{"env": "staging", "ghost": "1"},
			expectedErr: `run value given for undeclared option "ghost"`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			diags := RunOptions(spec, tc.values)

			if tc.expectedErr == "" {
				assert.Empty(t, diags)
				return
			}
			require.True(t, diags.HasErrors())
			errs := diags.Errs()
			require.Len(t, errs, 1)
			assert.Contains(t, errs[0].Error(), tc.expectedErr)
		})
	}
}
