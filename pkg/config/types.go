package config

import (
	"fmt"
	"os"
	"strings"
)

// Config is the top-level larkbot configuration file.
type Config struct {
	// Defaults are variables shared by every target. Target vars
	// override defaults on key collisions.
	Defaults map[string]any `json:"defaults,omitempty" yaml:"defaults,omitempty"`

	// TemplateDirs are directories searched in order when resolving a
	// template file by name. Entries may use ** glob patterns.
	TemplateDirs []string `json:"template_dirs,omitempty" yaml:"template_dirs,omitempty"`

	// Targets maps a target name to its webhook destination.
	Targets map[string]*Target `json:"targets,omitempty" yaml:"targets,omitempty"`

	// BaseDir is the directory the config file was loaded from.
	// Relative template_dirs entries are resolved against it.
	BaseDir string `json:"-" yaml:"-"`
}

// Target is a single webhook destination.
type Target struct {
	// URL is the webhook endpoint. Required.
	URL string `json:"url" yaml:"url"`

	// SecretEnv names the environment variable holding the signing
	// secret. Empty means the target is unsigned.
	SecretEnv string `json:"secret_env,omitempty" yaml:"secret_env,omitempty"`

	// TemplateFile is the default message template for this target,
	// resolved through the config's template_dirs.
	TemplateFile string `json:"template_file,omitempty" yaml:"template_file,omitempty"`

	// Vars are per-target variables, merged over the config defaults.
	Vars map[string]any `json:"vars,omitempty" yaml:"vars,omitempty"`
}

// Validate checks the configuration for structural problems.
func (c *Config) Validate() error {
	for name, t := range c.Targets {
		if t == nil {
			return fmt.Errorf("target %q is empty", name)
		}
		if t.URL == "" {
			return fmt.Errorf("target %q has no url", name)
		}
		if !strings.HasPrefix(t.URL, "http://") && !strings.HasPrefix(t.URL, "https://") {
			return fmt.Errorf("target %q url must be http or https: %s", name, t.URL)
		}
	}
	return nil
}

// Target looks up a named target.
func (c *Config) Target(name string) (*Target, error) {
	t, ok := c.Targets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTargetNotFound, name)
	}
	return t, nil
}

// VarsFor merges the config defaults with a target's vars. Target vars
// win on key collisions. The target may be nil, in which case only the
// defaults are returned. The result is always a fresh map.
func (c *Config) VarsFor(t *Target) map[string]any {
	size := len(c.Defaults)
	if t != nil {
		size += len(t.Vars)
	}
	merged := make(map[string]any, size)
	for k, v := range c.Defaults {
		merged[k] = v
	}
	if t != nil {
		for k, v := range t.Vars {
			merged[k] = v
		}
	}
	return merged
}

// Secret resolves the target's signing secret from the environment.
// Returns "" when no secret_env is configured or the variable is unset.
func (t *Target) Secret() string {
	if t.SecretEnv == "" {
		return ""
	}
	return os.Getenv(t.SecretEnv)
}
