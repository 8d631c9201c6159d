package jobio

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vk/jobforge/internal/capability"
	"github.com/vk/jobforge/internal/model"
)

// defaultStrategy is the workflow strategy every encoded job uses: steps
// complete on all nodes before the next one starts.
const defaultStrategy = "node-first"

// Codec translates between JobSpec and the platform's job documents.
type Codec struct {
	caps *capability.Registry
}

// NewCodec creates a Codec. The capability catalog maps plugin types to
// provider ids and back.
func NewCodec(caps *capability.Registry) *Codec {
	return &Codec{caps: caps}
}

// EncodeYAML renders specs as a YAML job list document.
func (c *Codec) EncodeYAML(specs []*model.JobSpec) ([]byte, error) {
	doc, err := c.encodeAll(specs)
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(doc)
}

// DecodeYAML parses a YAML job list document.
func (c *Codec) DecodeYAML(data []byte) ([]*model.JobSpec, error) {
	var doc []jobEntry
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing job document: %w", err)
	}
	return c.decodeAll(doc)
}

// EncodeJSON renders specs as a JSON job list document.
func (c *Codec) EncodeJSON(specs []*model.JobSpec) ([]byte, error) {
	doc, err := c.encodeAll(specs)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(doc, "", "  ")
}

// DecodeJSON parses a JSON job list document.
func (c *Codec) DecodeJSON(data []byte) ([]*model.JobSpec, error) {
	var doc []jobEntry
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing job document: %w", err)
	}
	return c.decodeAll(doc)
}

func (c *Codec) encodeAll(specs []*model.JobSpec) ([]jobEntry, error) {
	doc := make([]jobEntry, 0, len(specs))
	for _, spec := range specs {
		entry, err := c.encode(spec)
		if err != nil {
			return nil, fmt.Errorf("encoding job %q: %w", spec.QualifiedName(), err)
		}
		doc = append(doc, entry)
	}
	return doc, nil
}

func (c *Codec) decodeAll(doc []jobEntry) ([]*model.JobSpec, error) {
	specs := make([]*model.JobSpec, 0, len(doc))
	for _, entry := range doc {
		spec, err := c.decode(entry)
		if err != nil {
			return nil, fmt.Errorf("decoding job %q: %w", entry.Name, err)
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

func (c *Codec) encode(spec *model.JobSpec) (jobEntry, error) {
	entry := jobEntry{
		ID:          string(spec.ID),
		UUID:        string(spec.ID),
		Name:        spec.Name,
		Group:       spec.Group,
		Description: spec.Description,
		Project:     spec.Project,
		LogLevel:    "INFO",
		Sequence: sequenceEntry{
			KeepGoing: false,
			Strategy:  defaultStrategy,
		},
	}

	if spec.Schedule != nil {
		entry.Schedule = &scheduleEntry{Crontab: spec.Schedule.Crontab}
		enabled := spec.Schedule.Enabled
		entry.ScheduleEnabled = &enabled
	}
	if spec.NodeFilter != "" {
		entry.NodeFilters = &nodeFilterEntry{Filter: spec.NodeFilter}
	}
	if spec.Dispatch != nil {
		entry.Dispatch = &dispatchEntry{
			ThreadCount: spec.Dispatch.ThreadCount,
			KeepGoing:   spec.Dispatch.KeepGoing,
		}
	}

	for _, opt := range spec.Options {
		entry.Options = append(entry.Options, optionEntry{
			Name:        opt.Name,
			Description: opt.Description,
			Value:       opt.Default,
			Required:    opt.Required,
			Enforced:    opt.Enforced(),
			Values:      opt.Values,
		})
	}

	for i, step := range spec.Steps {
		cmd, err := c.encodeStep(step)
		if err != nil {
			return entry, fmt.Errorf("step[%d]: %w", i, err)
		}
		entry.Sequence.Commands = append(entry.Sequence.Commands, cmd)
	}
	return entry, nil
}

func (c *Codec) encodeStep(step model.Step) (commandEntry, error) {
	cmd := commandEntry{Description: step.Description}

	switch step.Kind {
	case model.KindExec:
		cmd.Exec = step.Payload

	case model.KindScript:
		cmd.Script = step.Payload
		cmd.ScriptInterpreter = step.Interpreter

	case model.KindPlugin:
		if step.PluginType == model.PluginJobReference {
			cmd.JobRef = encodeJobRef(step.PluginConfig["reference"])
			return cmd, nil
		}
		cmd.NodeStep = step.NodeStep
		cmd.Configuration = step.PluginConfig
		if cap, ok := c.caps.ByType(step.PluginType); ok {
			cmd.Type = cap.Provider
		} else {
			// Foreign plugin steps keep their provider id as the type.
			cmd.Type = string(step.PluginType)
		}

	default:
		return cmd, fmt.Errorf("unknown step kind %q", step.Kind)
	}
	return cmd, nil
}

func (c *Codec) decode(entry jobEntry) (*model.JobSpec, error) {
	id := entry.UUID
	if id == "" {
		id = entry.ID
	}
	spec := &model.JobSpec{
		ID:          model.Identity(id),
		Name:        entry.Name,
		Group:       entry.Group,
		Project:     entry.Project,
		Description: entry.Description,
	}

	if entry.Schedule != nil {
		enabled := true
		if entry.ScheduleEnabled != nil {
			enabled = *entry.ScheduleEnabled
		}
		spec.Schedule = &model.Schedule{Crontab: entry.Schedule.Crontab, Enabled: enabled}
	}
	if entry.NodeFilters != nil {
		spec.NodeFilter = entry.NodeFilters.Filter
	}
	if entry.Dispatch != nil {
		spec.Dispatch = &model.Dispatch{
			ThreadCount: entry.Dispatch.ThreadCount,
			KeepGoing:   entry.Dispatch.KeepGoing,
		}
	}

	for _, opt := range entry.Options {
		spec.Options = append(spec.Options, model.OptionDef{
			Name:        opt.Name,
			Description: opt.Description,
			Default:     opt.Value,
			Required:    opt.Required,
			Values:      opt.Values,
		})
	}

	for i, cmd := range entry.Sequence.Commands {
		step, err := c.decodeStep(cmd)
		if err != nil {
			return nil, fmt.Errorf("step[%d]: %w", i, err)
		}
		spec.Steps = append(spec.Steps, step)
	}
	return spec, nil
}

func (c *Codec) decodeStep(cmd commandEntry) (model.Step, error) {
	step := model.Step{Description: cmd.Description}

	switch {
	case cmd.JobRef != nil:
		step.Kind = model.KindPlugin
		step.PluginType = model.PluginJobReference
		step.PluginConfig = map[string]string{"reference": decodeJobRef(cmd.JobRef)}
		step.Payload = "job: " + step.PluginConfig["reference"]

	case cmd.Script != "":
		step.Kind = model.KindScript
		step.Payload = cmd.Script
		step.Interpreter = cmd.ScriptInterpreter
		step.NodeStep = true

	case cmd.Exec != "":
		step.Kind = model.KindExec
		step.Payload = cmd.Exec
		step.NodeStep = true

	case cmd.Type != "":
		step.Kind = model.KindPlugin
		step.NodeStep = cmd.NodeStep
		step.PluginConfig = cmd.Configuration
		step.PluginType = c.pluginTypeFor(cmd.Type)

	default:
		return step, fmt.Errorf("command has no recognizable payload")
	}
	return step, nil
}

func (c *Codec) pluginTypeFor(provider string) model.PluginType {
	for _, cap := range c.caps.Ordered() {
		if cap.Provider == provider {
			return cap.Type
		}
	}
	return model.PluginType(provider)
}

// encodeJobRef expands the compact reference into the platform's block: a
// "group/name" path or, failing that shape, a uuid.
func encodeJobRef(reference string) *jobRefEntry {
	if i := strings.LastIndex(reference, "/"); i >= 0 {
		return &jobRefEntry{Group: reference[:i], Name: reference[i+1:]}
	}
	if looksLikeUUID(reference) {
		return &jobRefEntry{UUID: reference}
	}
	return &jobRefEntry{Name: reference}
}

func decodeJobRef(ref *jobRefEntry) string {
	if ref.UUID != "" {
		return ref.UUID
	}
	if ref.Group != "" {
		return ref.Group + "/" + ref.Name
	}
	return ref.Name
}

func looksLikeUUID(s string) bool {
	if len(s) != 36 {
		return false
	}
	for i, r := range s {
		switch i {
		case 8, 13, 18, 23:
			if r != '-' {
				return false
			}
		default:
			hex := (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
			if !hex {
				return false
			}
		}
	}
	return true
}
