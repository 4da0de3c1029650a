package models

// RuleSetEntry is one declarative default rule as stored in a per-domain
// rule set file. Order within and across files determines match precedence.
type RuleSetEntry struct {
	Pattern string `yaml:"pattern" json:"pattern"`
	Type    string `yaml:"type" json:"type"`
	Fixture string `yaml:"fixture" json:"fixture"`
}

// RuleSet is the parsed rule set of one domain.
type RuleSet struct {
	Domain string
	Rules  []RuleSetEntry
}

// SanitizeRule replaces the value at a JSON path with a fixed placeholder.
type SanitizeRule struct {
	Path  string      `yaml:"path" json:"path"`
	Value interface{} `yaml:"value" json:"value"`
}

// SetupStep is an ephemeral-resource step executed before recording a
// fixture. Capture maps placeholder names to JSON paths evaluated on the
// step's output.
type SetupStep struct {
	Run     string            `yaml:"run" json:"run"`
	Capture map[string]string `yaml:"capture,omitempty" json:"capture,omitempty"`
}

// FixtureSpec describes how one fixture was (and can again be) recorded.
type FixtureSpec struct {
	Type         string                 `yaml:"type" json:"type"`
	Query        string                 `yaml:"query,omitempty" json:"query,omitempty"`
	Endpoint     string                 `yaml:"endpoint,omitempty" json:"endpoint,omitempty"`
	Method       string                 `yaml:"method,omitempty" json:"method,omitempty"`
	Variables    map[string]interface{} `yaml:"variables,omitempty" json:"variables,omitempty"`
	TestOrg      string                 `yaml:"test_org,omitempty" json:"test_org,omitempty"`
	TestRepo     string                 `yaml:"test_repo,omitempty" json:"test_repo,omitempty"`
	Setup        []SetupStep            `yaml:"setup,omitempty" json:"setup,omitempty"`
	Sanitize     []SanitizeRule         `yaml:"sanitize,omitempty" json:"sanitize,omitempty"`
	LastRecorded string                 `yaml:"last_recorded,omitempty" json:"last_recorded,omitempty"`
}

// FixtureManifest is the per-domain manifest mapping fixture names to specs.
type FixtureManifest struct {
	Domain   string                 `yaml:"-"`
	Fixtures map[string]FixtureSpec `yaml:"fixtures"`
}

// ProbeRequest is the descriptor handed to the live probe adapter after
// placeholder substitution.
type ProbeRequest struct {
	Category  Category
	Query     string
	Endpoint  string
	Method    string
	Variables map[string]string
}
