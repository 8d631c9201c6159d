package jobio

// Wire structs mirror the orchestrator's job list document. Field names
// follow the platform's own YAML keys, which is why the casing is uneven.

type jobEntry struct {
	ID              string           `yaml:"id,omitempty" json:"id,omitempty"`
	UUID            string           `yaml:"uuid,omitempty" json:"uuid,omitempty"`
	Name            string           `yaml:"name" json:"name"`
	Group           string           `yaml:"group,omitempty" json:"group,omitempty"`
	Description     string           `yaml:"description" json:"description"`
	Project         string           `yaml:"project,omitempty" json:"project,omitempty"`
	LogLevel        string           `yaml:"loglevel,omitempty" json:"loglevel,omitempty"`
	Schedule        *scheduleEntry   `yaml:"schedule,omitempty" json:"schedule,omitempty"`
	ScheduleEnabled *bool            `yaml:"scheduleEnabled,omitempty" json:"scheduleEnabled,omitempty"`
	NodeFilters     *nodeFilterEntry `yaml:"nodefilters,omitempty" json:"nodefilters,omitempty"`
	Dispatch        *dispatchEntry   `yaml:"dispatch,omitempty" json:"dispatch,omitempty"`
	Options         []optionEntry    `yaml:"options,omitempty" json:"options,omitempty"`
	Sequence        sequenceEntry    `yaml:"sequence" json:"sequence"`
}

type scheduleEntry struct {
	Crontab string `yaml:"crontab" json:"crontab"`
}

type nodeFilterEntry struct {
	Filter string `yaml:"filter" json:"filter"`
}

type dispatchEntry struct {
	ThreadCount int  `yaml:"threadcount" json:"threadcount"`
	KeepGoing   bool `yaml:"keepgoing" json:"keepgoing"`
}

type optionEntry struct {
	Name        string   `yaml:"name" json:"name"`
	Description string   `yaml:"description,omitempty" json:"description,omitempty"`
	Value       string   `yaml:"value,omitempty" json:"value,omitempty"`
	Required    bool     `yaml:"required,omitempty" json:"required,omitempty"`
	Enforced    bool     `yaml:"enforced,omitempty" json:"enforced,omitempty"`
	Values      []string `yaml:"values,omitempty" json:"values,omitempty"`
}

type sequenceEntry struct {
	KeepGoing bool           `yaml:"keepgoing" json:"keepgoing"`
	Strategy  string         `yaml:"strategy" json:"strategy"`
	Commands  []commandEntry `yaml:"commands" json:"commands"`
}

type commandEntry struct {
	Description       string            `yaml:"description,omitempty" json:"description,omitempty"`
	Exec              string            `yaml:"exec,omitempty" json:"exec,omitempty"`
	Script            string            `yaml:"script,omitempty" json:"script,omitempty"`
	ScriptInterpreter string            `yaml:"scriptInterpreter,omitempty" json:"scriptInterpreter,omitempty"`
	Type              string            `yaml:"type,omitempty" json:"type,omitempty"`
	NodeStep          bool              `yaml:"nodeStep,omitempty" json:"nodeStep,omitempty"`
	Configuration     map[string]string `yaml:"configuration,omitempty" json:"configuration,omitempty"`
	JobRef            *jobRefEntry      `yaml:"jobref,omitempty" json:"jobref,omitempty"`
}

type jobRefEntry struct {
	Name  string `yaml:"name,omitempty" json:"name,omitempty"`
	Group string `yaml:"group,omitempty" json:"group,omitempty"`
	UUID  string `yaml:"uuid,omitempty" json:"uuid,omitempty"`
}
