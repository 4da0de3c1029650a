package matcher

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ghstub/ghstub/pkg/models"
)

func firstMatching(t *testing.T, category models.Category, pattern, raw string) string {
	t.Helper()
	re := regexp.MustCompile(pattern)
	sig := Signature(category, raw)
	for _, s := range StrategiesFor(category) {
		if s.Matches(re, raw, sig) {
			return s.Name
		}
	}
	return ""
}

func TestRESTFallbackChain(t *testing.T) {
	raw := "GET repos/octo/demo/issues"

	// anchored method-prefixed signature matches first
	assert.Equal(t, "method-endpoint", firstMatching(t, models.REST, `GET:repos/octo/demo/issues`, raw))
	// endpoint alone only matches the second pass
	assert.Equal(t, "endpoint", firstMatching(t, models.REST, `repos/octo/demo/issues`, raw))
	// partial pattern falls through to the loose substring pass
	assert.Equal(t, "substring", firstMatching(t, models.REST, `demo/issues`, raw))
	// nothing matches an unrelated endpoint
	assert.Equal(t, "", firstMatching(t, models.REST, `repos/other/thing`, raw))
}

func TestGraphQLFallbackChain(t *testing.T) {
	named := `query fetchThing { repository { id } }`
	assert.Equal(t, "operation", firstMatching(t, models.GraphQL, `fetchThing`, named))

	// pattern over the body text is caught by the query-text pass
	assert.Equal(t, "query-text", firstMatching(t, models.GraphQL, `repository`, named))

	anonymous := `{ viewer { login } }`
	assert.Equal(t, "query-text", firstMatching(t, models.GraphQL, `viewer`, anonymous))
}

func TestCLIFallbackChain(t *testing.T) {
	raw := "issue list --state open"
	assert.Equal(t, "command-subcommand", firstMatching(t, models.CLI, `issue list`, raw))
	assert.Equal(t, "command", firstMatching(t, models.CLI, `issue`, raw))
	assert.Equal(t, "", firstMatching(t, models.CLI, `pr`, raw))
}

func TestAnchoredStrategyRejectsPartialMatch(t *testing.T) {
	s := StrategiesFor(models.GraphQL)[0]
	require.True(t, s.Anchored)
	re := regexp.MustCompile(`fetch`)
	assert.False(t, s.Matches(re, "", "fetchThing"), "anchored pass must cover the whole candidate")
	assert.True(t, s.Matches(regexp.MustCompile(`fetch.*`), "", "fetchThing"))
}
