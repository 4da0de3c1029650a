// Package config provides configuration structures for the application.
package config

import (
	"path/filepath"
)

type Config struct {
	Path        string   `json:"path" yaml:"path" mapstructure:"path"`
	RulePath    string   `json:"rulePath" yaml:"rulePath" mapstructure:"rulePath"`
	FixturePath string   `json:"fixturePath" yaml:"fixturePath" mapstructure:"fixturePath"`
	ConfigPath  string   `json:"configPath" yaml:"configPath" mapstructure:"configPath"`
	Debug       bool     `json:"debug" yaml:"debug" mapstructure:"debug"`
	DisableANSI bool     `json:"disableANSI" yaml:"disableANSI" mapstructure:"disableANSI"`
	TestOrg     string   `json:"testOrg" yaml:"testOrg" mapstructure:"testOrg"`
	TestRepo    string   `json:"testRepo" yaml:"testRepo" mapstructure:"testRepo"`
	Drift       Drift    `json:"drift" yaml:"drift" mapstructure:"drift"`
	Sanitize    Sanitize `json:"sanitize" yaml:"sanitize" mapstructure:"sanitize"`
}

type Drift struct {
	All          bool   `json:"all" yaml:"all" mapstructure:"all"`
	Domain       string `json:"domain" yaml:"domain" mapstructure:"domain"`
	Fixture      string `json:"fixture" yaml:"fixture" mapstructure:"fixture"`
	Verbose      bool   `json:"verbose" yaml:"verbose" mapstructure:"verbose"`
	Update       bool   `json:"update" yaml:"update" mapstructure:"update"`
	ProbeCommand string `json:"probeCommand" yaml:"probeCommand" mapstructure:"probeCommand"`
}

type Sanitize struct {
	Domain string `json:"domain" yaml:"domain" mapstructure:"domain"`
}

// RuleRoot resolves the directory holding the per-domain rule sets.
func (c *Config) RuleRoot() string {
	if c.RulePath != "" {
		return c.RulePath
	}
	return filepath.Join(c.Path, "rules")
}

// FixtureRoot resolves the directory holding recorded fixtures and their
// manifests.
func (c *Config) FixtureRoot() string {
	if c.FixturePath != "" {
		return c.FixturePath
	}
	return filepath.Join(c.Path, "fixtures")
}
