package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRun_InvalidManifest(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// Define an HCL string with a syntax error that is guaranteed to fail
	// during the loading phase inside app.Run().
	invalidHCL := `
		job "broken" {
			fragment {
		// Missing closing brace here
	`
	// Create a temporary directory and file to hold the invalid config.
	tempDir := t.TempDir()
	filePath := filepath.Join(tempDir, "main.hcl")
	err := os.WriteFile(filePath, []byte(invalidHCL), 0600)
	require.NoError(t, err, "failed to set up test file")

	// Prepare the arguments for the run function.
	args := []string{filePath}
	out := &bytes.Buffer{}

	// --- Act ---
	// Call the run function, which should surface the load failure as an error.
	runErr := run(out, args)

	// --- Assert ---
	require.Error(t, runErr, "run() should have returned an error for a broken manifest")

	errStr := runErr.Error()
	require.True(t, strings.Contains(errStr, "failed to load manifests"), "The error message should point at the loading phase.")
	require.True(t, strings.Contains(errStr, "failed to parse"), "The error message should contain the underlying parse failure.")
}

func TestRun_PlanOutput(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// A minimal valid manifest: one job, one trivially classifiable fragment.
	manifest := `
job "hello" {
  project = "ops"

  fragment {
    text = "echo hello"
  }
}
`
	tempDir := t.TempDir()
	filePath := filepath.Join(tempDir, "main.hcl")
	err := os.WriteFile(filePath, []byte(manifest), 0600)
	require.NoError(t, err, "failed to set up test file")

	args := []string{filePath}
	out := &bytes.Buffer{}

	// --- Act ---
	// Without -apply, run prints the compiled plan and touches no server.
	runErr := run(out, args)

	// --- Assert ---
	require.NoError(t, runErr, "run() should succeed for a valid manifest")
	require.Contains(t, out.String(), "echo hello", "Expected the compiled step in the plan output")
	require.Contains(t, out.String(), "exec:", "Expected the fragment to compile to an exec step")
}

func TestRun_ShouldExit(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// The "-h" (help) flag should cause cli.Parse to return `shouldExit=true`.
	args := []string{"-h"}
	out := &bytes.Buffer{}

	// --- Act ---
	// The run function should see `shouldExit=true` and return a nil error.
	err := run(out, args)

	// --- Assert ---
	require.NoError(t, err, "run() should return a nil error when shouldExit is true")
	require.Contains(t, out.String(), "Usage:", "Expected help text to be printed to the output buffer")
}

func TestRun_ParseError(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// Providing an unknown flag will cause cli.Parse to return an error.
	args := []string{"--this-is-not-a-valid-flag"}
	out := &bytes.Buffer{}

	// --- Act ---
	// The run function should propagate the error from cli.Parse.
	err := run(out, args)

	// --- Assert ---
	require.Error(t, err, "run() should return an error when argument parsing fails")
	require.Contains(t, err.Error(), "flag provided but not defined: -this-is-not-a-valid-flag")
}
