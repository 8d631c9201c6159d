package rundeck

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// DefaultAPIVersion is used when the environment does not pin one.
const DefaultAPIVersion = 47

// Endpoint is one reachable orchestrator installation.
type Endpoint struct {
	Name       string
	URL        string
	Token      string
	APIVersion int
}

// ServerRegistry resolves server aliases to endpoints.
type ServerRegistry struct {
	servers map[string]Endpoint
	primary string
}

// LoadServers builds the registry from the environment. The unnumbered
// variable set configures the primary server; numbered sets add alternates.
func LoadServers() (*ServerRegistry, error) {
	reg := &ServerRegistry{servers: make(map[string]Endpoint)}

	suffixes := []string{""}
	for i := 1; i <= 9; i++ {
		suffixes = append(suffixes, fmt.Sprintf("_%d", i))
	}

	for _, suffix := range suffixes {
		url := os.Getenv("RUNDECK_URL" + suffix)
		if url == "" {
			continue
		}
		token := os.Getenv("RUNDECK_API_TOKEN" + suffix)
		if token == "" {
			return nil, errors.Errorf("RUNDECK_URL%s is set but RUNDECK_API_TOKEN%s is not", suffix, suffix)
		}

		name := os.Getenv("RUNDECK_NAME" + suffix)
		if name == "" {
			if suffix == "" {
				name = "primary"
			} else {
				name = "server" + strings.TrimPrefix(suffix, "_")
			}
		}

		version := DefaultAPIVersion
		if raw := os.Getenv("RUNDECK_API_VERSION" + suffix); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil {
				return nil, errors.Wrapf(err, "RUNDECK_API_VERSION%s", suffix)
			}
			version = parsed
		}

		if _, dup := reg.servers[name]; dup {
			return nil, errors.Errorf("server name %q configured twice", name)
		}
		reg.servers[name] = Endpoint{
			Name:       name,
			URL:        strings.TrimRight(url, "/"),
			Token:      token,
			APIVersion: version,
		}
		if reg.primary == "" {
			reg.primary = name
		}
	}

	if len(reg.servers) == 0 {
		return nil, errors.New("no servers configured: set RUNDECK_URL and RUNDECK_API_TOKEN")
	}
	return reg, nil
}

// Resolve returns the endpoint behind a name. The empty name selects the
// primary server.
func (r *ServerRegistry) Resolve(name string) (Endpoint, error) {
	if name == "" {
		name = r.primary
	}
	ep, ok := r.servers[name]
	if !ok {
		return Endpoint{}, errors.Errorf("unknown server %q (configured: %s)", name, strings.Join(r.Names(), ", "))
	}
	return ep, nil
}

// Names lists the configured server names in stable order.
func (r *ServerRegistry) Names() []string {
	names := make([]string, 0, len(r.servers))
	for name := range r.servers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
