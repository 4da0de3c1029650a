// Package ruledb loads the declarative per-domain default rule sets.
package ruledb

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"go.uber.org/zap"
	yamlLib "gopkg.in/yaml.v3"

	"github.com/ghstub/ghstub/pkg/models"
)

// ruleSetSchema validates a domain rule set before any rule is compiled,
// so a malformed file fails the whole session load instead of silently
// registering garbage.
const ruleSetSchema = `{
  "type": "array",
  "items": {
    "type": "object",
    "required": ["pattern", "type", "fixture"],
    "properties": {
      "pattern": {"type": "string", "minLength": 1},
      "type": {"enum": ["graphql", "rest", "cli"]},
      "fixture": {"type": "string", "minLength": 1}
    },
    "additionalProperties": false
  }
}`

type RuleYaml struct {
	logger *zap.Logger
	path   string
	schema *jsonschema.Schema
}

func New(logger *zap.Logger, path string) *RuleYaml {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("ruleset.schema.json", strings.NewReader(ruleSetSchema)); err != nil {
		panic(fmt.Sprintf("invalid embedded rule set schema: %v", err))
	}
	schema := compiler.MustCompile("ruleset.schema.json")
	return &RuleYaml{
		logger: logger,
		path:   path,
		schema: schema,
	}
}

// GetAllDomains lists the rule set files under the rule root, sorted by
// file name. File order is match precedence, so the listing is stable.
func (r *RuleYaml) GetAllDomains(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read rule directory %s: %w", r.path, err)
	}
	var domains []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || (!strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml")) {
			continue
		}
		domains = append(domains, strings.TrimSuffix(strings.TrimSuffix(name, ".yaml"), ".yml"))
	}
	sort.Strings(domains)
	return domains, nil
}

// GetRuleSet parses and validates one domain's rule set.
func (r *RuleYaml) GetRuleSet(ctx context.Context, domain string) (*models.RuleSet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := r.readDomainFile(domain)
	if err != nil {
		return nil, err
	}

	var entries []models.RuleSetEntry
	if err := yamlLib.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse rule set for domain %q: %w", domain, err)
	}
	if err := r.validate(domain, entries); err != nil {
		return nil, err
	}

	r.logger.Debug("loaded rule set",
		zap.String("domain", domain),
		zap.Int("rules", len(entries)))
	return &models.RuleSet{Domain: domain, Rules: entries}, nil
}

func (r *RuleYaml) readDomainFile(domain string) ([]byte, error) {
	for _, ext := range []string{".yaml", ".yml"} {
		data, err := os.ReadFile(filepath.Join(r.path, domain+ext))
		if err == nil {
			return data, nil
		}
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read rule set for domain %q: %w", domain, err)
		}
	}
	return nil, fmt.Errorf("rule set for domain %q not found under %s", domain, r.path)
}

// validate round-trips the entries through JSON so the schema library sees
// the value shapes it expects.
func (r *RuleYaml) validate(domain string, entries []models.RuleSetEntry) error {
	raw, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to encode rule set for validation: %w", err)
	}
	var doc interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return err
	}
	if err := r.schema.Validate(doc); err != nil {
		return fmt.Errorf("rule set for domain %q failed validation: %w", domain, err)
	}
	return nil
}
