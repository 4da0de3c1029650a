package registry

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ghstub/ghstub/config"
	"github.com/ghstub/ghstub/pkg/models"
)

// newTestSession builds a session over temp rule and fixture roots.
func newTestSession(t *testing.T) (*RegistrySession, string, string) {
	t.Helper()
	ruleDir := t.TempDir()
	fixtureDir := t.TempDir()
	cfg := &config.Config{RulePath: ruleDir, FixturePath: fixtureDir}
	session, err := New(zap.NewNop(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })
	return session, ruleDir, fixtureDir
}

func writeRuleSet(t *testing.T, dir, domain, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, domain+".yaml"), []byte(content), 0o644))
}

func writeFixture(t *testing.T, dir, name, body string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func TestInitLoadsDefaultsInFileOrder(t *testing.T) {
	session, ruleDir, _ := newTestSession(t)
	writeRuleSet(t, ruleDir, "issue", `
- pattern: listIssues
  type: graphql
  fixture: issue/list.json
- pattern: "GET:repos/.*/issues"
  type: rest
  fixture: issue/list.json
`)
	writeRuleSet(t, ruleDir, "release", `
- pattern: "release list"
  type: cli
  fixture: release/list.json
`)

	require.NoError(t, session.Init(context.Background()))
	rules := session.Rules()
	require.Len(t, rules, 3)

	// domains load in sorted file order, rules in file order within each
	assert.Equal(t, "listIssues", rules[0].Pattern.String())
	assert.Equal(t, models.GraphQL, rules[0].Category)
	assert.Equal(t, models.OriginDefault, rules[0].Origin)
	assert.Equal(t, "release list", rules[2].Pattern.String())
	assert.Equal(t, models.CLI, rules[2].Category)
}

func TestLoadDomainRegistersOneDomainOnly(t *testing.T) {
	session, ruleDir, _ := newTestSession(t)
	writeRuleSet(t, ruleDir, "issue", `
- pattern: listIssues
  type: graphql
  fixture: issue/list.json
`)
	writeRuleSet(t, ruleDir, "release", `
- pattern: "release list"
  type: cli
  fixture: release/list.json
`)

	require.NoError(t, session.LoadDomain(context.Background(), "issue"))
	rules := session.Rules()
	require.Len(t, rules, 1)
	assert.Equal(t, "listIssues", rules[0].Pattern.String())

	assert.Error(t, session.LoadDomain(context.Background(), "ghost"))
}

func TestInitFailsOnUnparseableRuleSet(t *testing.T) {
	session, ruleDir, _ := newTestSession(t)
	writeRuleSet(t, ruleDir, "broken", "][ not yaml")
	assert.Error(t, session.Init(context.Background()))
}

func TestInitFailsOnInvalidRuleEntry(t *testing.T) {
	session, ruleDir, _ := newTestSession(t)
	writeRuleSet(t, ruleDir, "issue", `
- pattern: listIssues
  type: carrier-pigeon
  fixture: issue/list.json
`)
	assert.Error(t, session.Init(context.Background()))
}

func TestRegisterRejectsInvalidPattern(t *testing.T) {
	session, _, _ := newTestSession(t)
	err := session.Register("([unclosed", models.GraphQL, models.FromInline([]byte(`{}`)))
	assert.Error(t, err)
	assert.Empty(t, session.Rules())
}

func TestRegisterRejectsUnknownCategory(t *testing.T) {
	session, _, _ := newTestSession(t)
	err := session.Register("x", models.Category("soap"), models.FromInline([]byte(`{}`)))
	assert.Error(t, err)
}

func TestRegisterDoesNotDeduplicate(t *testing.T) {
	session, _, _ := newTestSession(t)
	require.NoError(t, session.Register("same", models.GraphQL, models.FromInline([]byte(`{"v":1}`))))
	require.NoError(t, session.Register("same", models.GraphQL, models.FromInline([]byte(`{"v":2}`))))
	assert.Len(t, session.Rules(), 2)
}

func TestClearEmptiesRulesAndCallsButNotDefaultsReload(t *testing.T) {
	session, ruleDir, _ := newTestSession(t)
	writeRuleSet(t, ruleDir, "issue", `
- pattern: listIssues
  type: graphql
  fixture: issue/list.json
`)
	require.NoError(t, session.Init(context.Background()))
	require.NoError(t, session.Register("extra", models.CLI, models.FromInline([]byte(`[]`))))
	_, _ = session.Dispatch(context.Background(), models.CLI, "extra thing")
	require.NotEmpty(t, session.Calls())

	session.Clear()
	assert.Empty(t, session.Rules(), "clear must not reload defaults")
	assert.Empty(t, session.Calls())

	// Init brings the defaults back
	require.NoError(t, session.Init(context.Background()))
	assert.Len(t, session.Rules(), 1)
}

func TestCloseRemovesSessionDirAndIsIdempotent(t *testing.T) {
	session, _, _ := newTestSession(t)
	dir := session.Dir()
	_, err := os.Stat(dir)
	require.NoError(t, err)

	require.NoError(t, session.Close())
	_, err = os.Stat(dir)
	assert.True(t, os.IsNotExist(err))
	assert.NoError(t, session.Close())
}
