package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ManifestPath string // hcl files with job blocks

	Server      string // server alias from the environment registry
	Apply       bool   // execute against the platform instead of printing the plan
	AutoConfirm bool   // confirm gated operations without a prompt

	LogFormat       string
	LogLevel        string
	HealthcheckPort int
	WorkerCount     int
	MaxScriptLines  int
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.ManifestPath == "" {
		return nil, errors.New("ManifestPath is a required configuration field and cannot be empty")
	}

	return &cfg, nil
}
