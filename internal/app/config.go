package app

import "errors"

// Config holds all the configuration needed for an App instance to run a
// single graph.
type Config struct {
	GraphPath string // a single .tgraph.hcl file, or a directory of them

	LogFormat       string
	LogLevel        string
	HealthcheckPort int
	GlobalCap       int
	ResetAfterDone  bool
}

// NewConfig validates cfg and returns it wrapped as a *Config.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.GraphPath == "" {
		return nil, errors.New("GraphPath is a required configuration field and cannot be empty")
	}

	// GlobalCap's validity depends on which pools the loaded graph actually
	// uses, so scheduler.Execute is the one that rejects it — see its doc
	// comment.
	return &cfg, nil
}
