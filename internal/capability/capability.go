package capability

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/vk/jobforge/internal/model"
)

// Capability describes one plugin step family end to end: detection,
// provider identity, and payload-to-configuration mapping.
type Capability struct {
	// Type is the pipeline-facing name of the family.
	Type model.PluginType

	// Provider is the orchestrator plugin provider id. Empty only for
	// families the encoder expresses natively rather than via a provider.
	Provider string

	// NodeStep reports whether steps of this family execute per node.
	NodeStep bool

	// Priority orders detection. Lower values are consulted first.
	Priority int

	// Match reports whether the fragment text belongs to this family.
	Match func(text string) bool

	// Config maps a matched payload to the provider's configuration map.
	Config func(payload string) map[string]string

	// Describe produces the default step description for a payload.
	Describe func(payload string) string
}

// Registry holds the registered capabilities for a single application
// instance.
type Registry struct {
	byType map[model.PluginType]*Capability
}

// New creates and initializes a new, empty Registry instance.
func New() *Registry {
	return &Registry{
		byType: make(map[model.PluginType]*Capability),
	}
}

// Register adds a capability to the catalog.
func (r *Registry) Register(c *Capability) {
	if _, exists := r.byType[c.Type]; exists {
		panic(fmt.Sprintf("capability with type '%s' already registered", c.Type))
	}
	slog.Debug("Registering capability.", "type", c.Type, "provider", c.Provider)
	r.byType[c.Type] = c
}

// ByType returns the capability registered for the given plugin type.
func (r *Registry) ByType(t model.PluginType) (*Capability, bool) {
	c, ok := r.byType[t]
	return c, ok
}

// Ordered returns all capabilities in detection priority order.
func (r *Registry) Ordered() []*Capability {
	out := make([]*Capability, 0, len(r.byType))
	for _, c := range r.byType {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority < out[j].Priority
		}
		return out[i].Type < out[j].Type
	})
	return out
}

// Detect returns the first capability, in priority order, whose matcher
// accepts the text.
func (r *Registry) Detect(text string) (*Capability, bool) {
	for _, c := range r.Ordered() {
		if c.Match != nil && c.Match(text) {
			return c, true
		}
	}
	return nil, false
}
