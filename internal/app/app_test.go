package app

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/jobforge/internal/capability"
	"github.com/vk/jobforge/internal/jobio"
	"github.com/vk/jobforge/internal/testutil"
)

// newTestApp compiles the given manifest files into a ready-to-run App whose
// output, logs included, lands in the returned buffer.
func newTestApp(t *testing.T, files map[string]string) (*App, *Config, *testutil.SafeBuffer) {
	t.Helper()
	out := &testutil.SafeBuffer{}
	cfg := &Config{
		ManifestPath:   testutil.WriteManifests(t, files),
		LogFormat:      "text",
		LogLevel:       "warn",
		WorkerCount:    2,
		MaxScriptLines: 100,
	}
	return NewApp(out, cfg, nil), cfg, out
}

func TestRun_PrintsPlan(t *testing.T) {
	a, cfg, out := newTestApp(t, map[string]string{
		"plan.hcl": `
job "disk-check" {
  group   = "ops"
  project = "platform"
  fragment { text = "df -h /var" }
}

job "greet" {
  group   = "ops"
  project = "platform"
  fragment {
    text = "#!/bin/bash\necho hello\necho goodbye"
  }
}
`,
	})

	err := a.Run(context.Background(), cfg)

	require.NoError(t, err)
	output := out.String()
	assert.Contains(t, output, `# job "ops/disk-check": 1 steps`)
	assert.Contains(t, output, "exec: df -h /var")
	assert.Contains(t, output, `# job "ops/greet"`)
	assert.Contains(t, output, "echo hello")
}

func TestRun_CompilationFailuresAreCollected(t *testing.T) {
	a, cfg, out := newTestApp(t, map[string]string{
		"broken.hcl": `
job "empty-frag" {
  project = "platform"
  fragment { text = "   " }
}

job "ghost-ref" {
  project = "platform"
  fragment { text = "echo @option.ghost@" }
}
`,
	})

	err := a.Run(context.Background(), cfg)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "compilation failed for 2 of 2 jobs")

	// Both jobs report, not just the first failing one.
	output := out.String()
	assert.Contains(t, output, "✗ empty-frag")
	assert.Contains(t, output, "✗ ghost-ref")
	assert.Contains(t, output, `option reference "ghost" has no declared option`)
}

func TestRun_WarningsDoNotFail(t *testing.T) {
	a, cfg, out := newTestApp(t, map[string]string{
		"warned.hcl": `
job "tidy" {
  project = "platform"

  option "unused" {
    default = "x"
  }

  fragment { text = "uptime" }
}
`,
	})

	err := a.Run(context.Background(), cfg)

	require.NoError(t, err)
	output := out.String()
	assert.Contains(t, output, "is declared but never referenced")
	assert.Contains(t, output, `# job "tidy"`, "the plan still prints")
}

func TestRun_NoJobBlocks(t *testing.T) {
	a, cfg, out := newTestApp(t, map[string]string{
		"README.md": "no manifests here",
	})

	err := a.Run(context.Background(), cfg)

	require.NoError(t, err)
	assert.Contains(t, out.String(), "No job blocks found")
}

// fakeOrchestratorServer is a minimal HTTP double of the orchestrator API,
// recording every request it serves.
type fakeOrchestratorServer struct {
	mu         sync.Mutex
	requests   []string
	codec      *jobio.Codec
	existingID string
}

func (f *fakeOrchestratorServer) record(r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, r.Method+" "+r.URL.Path)
}

func (f *fakeOrchestratorServer) recorded() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.requests...)
}

func (f *fakeOrchestratorServer) handler(w http.ResponseWriter, r *http.Request) {
	f.record(r)
	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/api/47/project/platform/jobs":
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":"` + f.existingID + `","name":"sync-a","group":"ops"}]`))

	case r.Method == http.MethodDelete && strings.HasPrefix(r.URL.Path, "/api/47/job/"):
		w.WriteHeader(http.StatusNoContent)

	case r.Method == http.MethodPost && r.URL.Path == "/api/47/project/platform/jobs/import":
		specs, err := f.codec.DecodeYAML(readBody(r))
		if err != nil || len(specs) != 1 {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		id := string(specs[0].ID)
		if id == "" {
			id = "22222222-2222-2222-2222-222222222222"
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"succeeded":[{"id":"` + id + `","name":"` + specs[0].Name + `"}],"failed":[]}`))

	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func readBody(r *http.Request) []byte {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		return nil
	}
	return data
}

func newApplyFixture(t *testing.T) (*fakeOrchestratorServer, map[string]string) {
	t.Helper()
	fake := &fakeOrchestratorServer{
		codec:      jobio.NewCodec(capability.Default()),
		existingID: "11111111-1111-1111-1111-111111111111",
	}
	srv := httptest.NewServer(http.HandlerFunc(fake.handler))
	t.Cleanup(srv.Close)

	t.Setenv("RUNDECK_URL", srv.URL)
	t.Setenv("RUNDECK_API_TOKEN", "test-token")
	t.Setenv("RUNDECK_NAME", "")
	t.Setenv("RUNDECK_API_VERSION", "")
	for _, suffix := range []string{"_1", "_2", "_3", "_4", "_5", "_6", "_7", "_8", "_9"} {
		t.Setenv("RUNDECK_URL"+suffix, "")
	}

	manifests := map[string]string{
		"sync.hcl": `
job "sync-a" {
  group   = "ops"
  project = "platform"
  fragment { text = "echo alpha" }
}

job "sync-b" {
  group   = "ops"
  project = "platform"
  fragment { text = "echo beta" }
}
`,
	}
	return fake, manifests
}

func TestRun_ApplyCreatesNewAndReplacesExisting(t *testing.T) {
	fake, manifests := newApplyFixture(t)
	a, cfg, out := newTestApp(t, manifests)
	cfg.Apply = true
	cfg.AutoConfirm = true

	err := a.Run(context.Background(), cfg)

	require.NoError(t, err)
	assert.Equal(t, []string{
		"GET /api/47/project/platform/jobs",
		"DELETE /api/47/job/11111111-1111-1111-1111-111111111111",
		"POST /api/47/project/platform/jobs/import",
		"POST /api/47/project/platform/jobs/import",
	}, fake.recorded(), "one listing, then replace existing, then create new")

	output := out.String()
	assert.Contains(t, output, "✔ ops/sync-a")
	assert.Contains(t, output, "identity 11111111-1111-1111-1111-111111111111 preserved")
	assert.Contains(t, output, "✔ ops/sync-b")
	assert.Contains(t, output, `created job "ops/sync-b"`)
}

func TestRun_ApplyHoldsReplacementsWithoutConfirm(t *testing.T) {
	fake, manifests := newApplyFixture(t)
	a, cfg, out := newTestApp(t, manifests)
	cfg.Apply = true

	err := a.Run(context.Background(), cfg)

	require.NoError(t, err, "a held operation is not a failure")

	var deletes, imports int
	for _, req := range fake.recorded() {
		switch {
		case strings.HasPrefix(req, "DELETE "):
			deletes++
		case strings.HasSuffix(req, "/jobs/import"):
			imports++
		}
	}
	assert.Zero(t, deletes, "the existing job must not be touched")
	assert.Equal(t, 1, imports, "only the new job is created")

	output := out.String()
	assert.Contains(t, output, "⏸ ops/sync-a")
	assert.Contains(t, output, "would replace the definition")
	assert.Contains(t, output, "rerun with -confirm to apply")
	assert.Contains(t, output, "✔ ops/sync-b")
}

func TestNewApp_PanicsOnBrokenCatalog(t *testing.T) {
	caps := capability.New()
	caps.Register(&capability.Capability{Type: "half-wired", Priority: 1})

	assert.Panics(t, func() {
		NewApp(&testutil.SafeBuffer{}, &Config{LogFormat: "text", LogLevel: "error"}, caps)
	})
}

func TestNewConfig(t *testing.T) {
	_, err := NewConfig(Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ManifestPath is a required configuration field")

	cfg, err := NewConfig(Config{ManifestPath: "/tmp/manifests"})
	require.NoError(t, err)
	assert.Equal(t, "/tmp/manifests", cfg.ManifestPath)
}

func TestHealthHandler(t *testing.T) {
	a, _, _ := newTestApp(t, map[string]string{"noop.hcl": `
job "noop" {
  project = "platform"
  fragment { text = "uptime" }
}
`})

	rec := httptest.NewRecorder()
	a.healthHandler(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK\n", rec.Body.String())
}
