package rundeck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearServerEnv(t *testing.T) {
	t.Helper()
	t.Setenv("RUNDECK_URL", "")
	t.Setenv("RUNDECK_API_TOKEN", "")
	t.Setenv("RUNDECK_NAME", "")
	t.Setenv("RUNDECK_API_VERSION", "")
	for _, suffix := range []string{"_1", "_2", "_3"} {
		t.Setenv("RUNDECK_URL"+suffix, "")
		t.Setenv("RUNDECK_API_TOKEN"+suffix, "")
		t.Setenv("RUNDECK_NAME"+suffix, "")
		t.Setenv("RUNDECK_API_VERSION"+suffix, "")
	}
}

func TestLoadServers_PrimaryOnly(t *testing.T) {
	clearServerEnv(t)
	t.Setenv("RUNDECK_URL", "https://rundeck.example.com/")
	t.Setenv("RUNDECK_API_TOKEN", "tok-1")

	reg, err := LoadServers()

	require.NoError(t, err)
	ep, err := reg.Resolve("")
	require.NoError(t, err)
	assert.Equal(t, "primary", ep.Name)
	assert.Equal(t, "https://rundeck.example.com", ep.URL, "trailing slashes are trimmed")
	assert.Equal(t, "tok-1", ep.Token)
	assert.Equal(t, DefaultAPIVersion, ep.APIVersion)
}

func TestLoadServers_NumberedAlternates(t *testing.T) {
	clearServerEnv(t)
	t.Setenv("RUNDECK_URL", "https://prod.example.com")
	t.Setenv("RUNDECK_API_TOKEN", "tok-prod")
	t.Setenv("RUNDECK_NAME", "prod")
	t.Setenv("RUNDECK_URL_1", "https://staging.example.com")
	t.Setenv("RUNDECK_API_TOKEN_1", "tok-staging")
	t.Setenv("RUNDECK_API_VERSION_1", "45")

	reg, err := LoadServers()

	require.NoError(t, err)
	assert.Equal(t, []string{"prod", "server1"}, reg.Names())

	// The unnumbered set stays primary regardless of its name.
	ep, err := reg.Resolve("")
	require.NoError(t, err)
	assert.Equal(t, "prod", ep.Name)

	alt, err := reg.Resolve("server1")
	require.NoError(t, err)
	assert.Equal(t, 45, alt.APIVersion)
}

func TestLoadServers_TokenRequired(t *testing.T) {
	clearServerEnv(t)
	t.Setenv("RUNDECK_URL", "https://rundeck.example.com")

	_, err := LoadServers()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "RUNDECK_API_TOKEN is not")
}

func TestLoadServers_NothingConfigured(t *testing.T) {
	clearServerEnv(t)

	_, err := LoadServers()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no servers configured")
}

func TestLoadServers_DuplicateName(t *testing.T) {
	clearServerEnv(t)
	t.Setenv("RUNDECK_URL", "https://one.example.com")
	t.Setenv("RUNDECK_API_TOKEN", "tok-1")
	t.Setenv("RUNDECK_NAME", "shared")
	t.Setenv("RUNDECK_URL_1", "https://two.example.com")
	t.Setenv("RUNDECK_API_TOKEN_1", "tok-2")
	t.Setenv("RUNDECK_NAME_1", "shared")

	_, err := LoadServers()

	require.Error(t, err)
	assert.Contains(t, err.Error(), `server name "shared" configured twice`)
}

func TestLoadServers_BadAPIVersion(t *testing.T) {
	clearServerEnv(t)
	t.Setenv("RUNDECK_URL", "https://rundeck.example.com")
	t.Setenv("RUNDECK_API_TOKEN", "tok-1")
	t.Setenv("RUNDECK_API_VERSION", "latest")

	_, err := LoadServers()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "RUNDECK_API_VERSION")
}

func TestResolve_UnknownServer(t *testing.T) {
	clearServerEnv(t)
	t.Setenv("RUNDECK_URL", "https://rundeck.example.com")
	t.Setenv("RUNDECK_API_TOKEN", "tok-1")

	reg, err := LoadServers()
	require.NoError(t, err)

	_, err = reg.Resolve("mystery")

	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown server "mystery"`)
	assert.Contains(t, err.Error(), "primary", "the error lists what is configured")
}
