package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ghstub/ghstub/pkg/models"
)

func TestGraphQLOperation(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  string
	}{
		{
			name:  "named query",
			query: `query fetchThing($owner: String!) { repository(owner: $owner) { id } }`,
			want:  "fetchThing",
		},
		{
			name:  "named mutation",
			query: `mutation closeIssue { closeIssue(input: {}) { clientMutationId } }`,
			want:  "closeIssue",
		},
		{
			name:  "anonymous query",
			query: `{ viewer { login } }`,
			want:  "",
		},
		{
			name:  "shorthand keyword without name",
			query: `query { viewer { login } }`,
			want:  "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GraphQLOperation(tt.query))
		})
	}
}

func TestSignature(t *testing.T) {
	tests := []struct {
		name     string
		category models.Category
		raw      string
		want     string
	}{
		{"graphql named", models.GraphQL, `query fetchThing { x }`, "fetchThing"},
		{"graphql unnamed falls back to text", models.GraphQL, `{ viewer { login } }`, `{ viewer { login } }`},
		{"rest with method", models.REST, "GET repos/{owner}/{repo}/issues", "GET:repos/{owner}/{repo}/issues"},
		{"rest colon form", models.REST, "POST:repos/o/r/issues", "POST:repos/o/r/issues"},
		{"rest lowercase method", models.REST, "get user", "GET:user"},
		{"rest bare endpoint", models.REST, "repos/o/r", "repos/o/r"},
		{"cli two tokens", models.CLI, "issue list --state open", "issue list"},
		{"cli single token", models.CLI, "auth", "auth"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Signature(tt.category, tt.raw))
		})
	}
}

func TestEndpointAndCommand(t *testing.T) {
	assert.Equal(t, "repos/o/r", Endpoint("GET repos/o/r"))
	assert.Equal(t, "repos/o/r", Endpoint("repos/o/r"))
	assert.Equal(t, "issue", Command("issue list"))
	assert.Equal(t, "", Command("   "))
}
