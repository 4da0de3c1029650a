package config

import (
	"fmt"

	yamlLib "gopkg.in/yaml.v3"
)

// defaultConfig is the baseline configuration document. Flags and the user
// config file are merged over it through viper.
var defaultConfig = `
path: ""
rulePath: ""
fixturePath: ""
configPath: ""
debug: false
disableANSI: false
testOrg: ""
testRepo: ""
drift:
  all: false
  domain: ""
  fixture: ""
  verbose: false
  update: false
  probeCommand: "gh api"
sanitize:
  domain: ""
`

// New returns a Config populated from the default document.
func New() *Config {
	cfg := &Config{}
	if err := yamlLib.Unmarshal([]byte(defaultConfig), cfg); err != nil {
		panic(fmt.Sprintf("failed to parse default config: %v", err))
	}
	return cfg
}

// GetDefaultConfig exposes the raw default document, used to seed a config
// file with `ghstub config --generate`.
func GetDefaultConfig() string {
	return defaultConfig
}
