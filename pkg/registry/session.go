// Package registry implements the per-session rule store, the request
// dispatcher and the call-log verification helpers.
package registry

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ghstub/ghstub/config"
	"github.com/ghstub/ghstub/pkg/models"
	"github.com/ghstub/ghstub/pkg/platform/yaml/fixturedb"
	"github.com/ghstub/ghstub/pkg/platform/yaml/ruledb"
	"github.com/ghstub/ghstub/utils"
)

// RegistrySession owns the mock rules and the call log of one isolated
// test session. Sessions are single-threaded: one dispatch at a time, log
// appended in strict call order. Callers must defer Close so scratch state
// is released on every exit path.
type RegistrySession struct {
	logger   *zap.Logger
	id       string
	dir      string
	rules    []models.MockRule
	calls    []models.CallRecord
	ruleDB   *ruledb.RuleYaml
	fixtures *fixturedb.FixtureYaml
	closed   bool
}

// New creates an empty session with its own scratch directory.
func New(logger *zap.Logger, cfg *config.Config) (*RegistrySession, error) {
	id := uuid.New().String()
	dir := filepath.Join(os.TempDir(), "ghstub-session-"+id)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}
	return &RegistrySession{
		logger:   logger,
		id:       id,
		dir:      dir,
		ruleDB:   ruledb.New(logger, cfg.RuleRoot()),
		fixtures: fixturedb.New(logger, cfg.FixtureRoot()),
	}, nil
}

func (s *RegistrySession) ID() string {
	return s.id
}

// Dir returns the session scratch directory, removed on Close.
func (s *RegistrySession) Dir() string {
	return s.dir
}

// Init clears the session and loads every domain's default rule set in
// file order. A rule set that fails to parse fails the whole load.
func (s *RegistrySession) Init(ctx context.Context) error {
	s.Clear()

	domains, err := s.ruleDB.GetAllDomains(ctx)
	if err != nil {
		utils.LogError(s.logger, err, "failed to list rule set domains")
		return err
	}
	for _, domain := range domains {
		if err := s.LoadDomain(ctx, domain); err != nil {
			return err
		}
	}
	s.logger.Info("registry session initialized",
		zap.String("session", s.id), zap.Int("rules", len(s.rules)))
	return nil
}

// LoadDomain registers one domain's default rule set in file order.
func (s *RegistrySession) LoadDomain(ctx context.Context, domain string) error {
	set, err := s.ruleDB.GetRuleSet(ctx, domain)
	if err != nil {
		utils.LogError(s.logger, err, "failed to load default rule set", zap.String("domain", domain))
		return err
	}
	for _, entry := range set.Rules {
		if err := s.register(entry.Pattern, models.Category(entry.Type), models.FromFixture(entry.Fixture), models.OriginDefault); err != nil {
			utils.LogError(s.logger, err, "failed to register default rule",
				zap.String("domain", domain), zap.String("pattern", entry.Pattern))
			return err
		}
	}
	s.logger.Debug("registered default rules",
		zap.String("domain", domain), zap.Int("count", len(set.Rules)))
	return nil
}

// Register appends one test-time rule. No de-duplication: a later rule
// with an identical pattern never replaces an earlier one, but test rules
// are consulted before defaults during dispatch.
func (s *RegistrySession) Register(pattern string, category models.Category, response models.ResponseSource) error {
	return s.register(pattern, category, response, models.OriginTest)
}

func (s *RegistrySession) register(pattern string, category models.Category, response models.ResponseSource, origin models.RuleOrigin) error {
	if _, err := models.ParseCategory(string(category)); err != nil {
		return err
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return fmt.Errorf("invalid rule pattern %q: %w", pattern, err)
	}
	s.rules = append(s.rules, models.MockRule{
		Pattern:  re,
		Category: category,
		Response: response,
		Origin:   origin,
	})
	return nil
}

// Clear empties both the rule list and the call log. Defaults are not
// reloaded; call Init to get them back.
func (s *RegistrySession) Clear() {
	s.rules = nil
	s.calls = nil
}

// Rules returns a read-only copy of the registered rules.
func (s *RegistrySession) Rules() []models.MockRule {
	out := make([]models.MockRule, len(s.rules))
	copy(out, s.rules)
	return out
}

// Calls returns a read-only copy of the call log in call order.
func (s *RegistrySession) Calls() []models.CallRecord {
	out := make([]models.CallRecord, len(s.calls))
	copy(out, s.calls)
	return out
}

// Close releases the session state and removes the scratch directory. It
// is idempotent so both a defer and a signal path can run it.
func (s *RegistrySession) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.Clear()
	if err := os.RemoveAll(s.dir); err != nil {
		utils.LogError(s.logger, err, "failed to remove session directory", zap.String("dir", s.dir))
		return err
	}
	s.logger.Debug("registry session closed", zap.String("session", s.id))
	return nil
}
